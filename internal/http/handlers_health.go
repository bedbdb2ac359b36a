package httpx

import (
	"net/http"

	"github.com/target/jobtracker-ui/internal/service"
)

// CacheStatser reports workspace cache counters.
type CacheStatser interface {
	Stats() service.CacheStats
}

type healthResponse struct {
	Status     string              `json:"status"`
	Workspaces *service.CacheStats `json:"workspaces,omitempty"`
}

// healthHandler returns 200 for readiness/liveness checks, with cache counters when available.
func healthHandler(stats CacheStatser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			return
		}
		resp := healthResponse{Status: "ok"}
		if stats != nil {
			s := stats.Stats()
			resp.Workspaces = &s
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
