package service

import "sync"

// observers is a set of change listeners. The zero value is ready to use.
type observers[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)

	deliver   sync.Mutex
	delivered uint64
}

// add registers fn and returns a function that removes it. Calling the returned func twice is a no-op.
func (o *observers[T]) add(fn func(T)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[int]func(T))
	}
	id := o.next
	o.next++
	o.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.fns, id)
			o.mu.Unlock()
		})
	}
}

// notify calls every listener with v in registration order. version is the
// store revision v was taken at; deliveries are serialized and a revision at or
// below the last delivered one is dropped, so listeners never see state go back.
// Listeners must not mutate the owning store synchronously.
func (o *observers[T]) notify(version uint64, v T) {
	o.deliver.Lock()
	defer o.deliver.Unlock()
	if version <= o.delivered {
		return
	}
	o.delivered = version

	for _, fn := range o.listeners() {
		fn(v)
	}
}

func (o *observers[T]) listeners() []func(T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fns := make([]func(T), 0, len(o.fns))
	for id := 0; id < o.next; id++ {
		if fn, ok := o.fns[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
