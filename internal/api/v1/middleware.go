package v1

import "net/http"

// requireAggregator wraps a handler and returns 503 if no aggregator is configured.
func (s *Server) requireAggregator(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Aggregator == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Aggregator not configured")
			return
		}
		next(w, r)
	}
}

// requireEventLog wraps a handler and returns 503 if no event log is configured.
func (s *Server) requireEventLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.EventLog == nil {
			writeError(w, http.StatusServiceUnavailable, "NO_EVENT_LOG", "Event log not configured")
			return
		}
		next(w, r)
	}
}
