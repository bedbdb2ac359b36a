package httpx

import (
	"net/http"
)

// HTMXResponse provides a fluent API for building HTMX responses.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX creates a new HTMXResponse for fluent response building.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Redirect sets Hx-Redirect and writes 204 No Content.
// The handler should return immediately afterwards.
func (h *HTMXResponse) Redirect(url string) {
	SetHXRedirect(h.w, url)
	h.w.WriteHeader(http.StatusNoContent)
}

// Trigger queues a client-side event. Chainable.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	SetHXTrigger(h.w, event, payload)
	return h
}

// PushURL pushes url into browser history. Chainable.
func (h *HTMXResponse) PushURL(url string) *HTMXResponse {
	SetHXPushURL(h.w, url)
	return h
}

// redirect sends the browser to location: Hx-Redirect for htmx requests, 303 otherwise.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	if IsHTMX(r) {
		HTMX(w).Redirect(location)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
