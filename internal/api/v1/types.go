// internal/api/v1/types.go
package v1

import "github.com/lidanthedev/Mirrarr/internal/source"

// submitDownloadRequest is the body for POST /downloads.
type submitDownloadRequest struct {
	URL      string            `json:"url"`
	Source   string            `json:"source,omitempty"`
	Filename string            `json:"filename,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// sourceResponse describes one registered source.
type sourceResponse struct {
	Name      string `json:"name"`
	Preferred bool   `json:"preferred"`
}

// resultsResponse is the response for results endpoints.
type resultsResponse struct {
	Results []source.Result `json:"results"`
	Total   int             `json:"total"`
}

// EventResponse is the API representation of a persisted event. Payload is
// the decoded event for known types and the raw stored string otherwise.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Payload    any    `json:"payload,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// listEventsResponse is the response for GET /events.
type listEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

// statusResponse is the response for GET /status.
type statusResponse struct {
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Sources       int    `json:"sources"`
	Downloads     int    `json:"downloads"`
	Active        int    `json:"active_downloads"`
}
