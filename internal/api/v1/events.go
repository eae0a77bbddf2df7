package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/lidanthedev/Mirrarr/internal/download"
	"github.com/lidanthedev/Mirrarr/internal/events"
)

const maxEventLimit = 1000

// eventRegistry decodes stored payloads back into their concrete types.
var eventRegistry = events.DefaultRegistry()

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	if since := r.URL.Query().Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SINCE", "since must be an RFC 3339 timestamp")
			return
		}
		raw, err := s.deps.EventLog.Since(r.Context(), t)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, eventList(raw))
		return
	}

	limit := queryInt(r, "limit", 50)
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be non-negative")
		return
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	raw, err := s.deps.EventLog.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, eventList(raw))
}

func (s *Server) listDownloadEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := s.deps.Queue.Status(id); err != nil {
		if errors.Is(err, download.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "download not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "QUEUE_ERROR", err.Error())
		return
	}

	raw, err := s.deps.EventLog.ForEntity(r.Context(), events.EntityDownload, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, eventList(raw))
}

func eventList(raw []events.RawEvent) listEventsResponse {
	resp := listEventsResponse{
		Items: make([]EventResponse, len(raw)),
		Total: len(raw),
	}
	for i, e := range raw {
		item := EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			OccurredAt: e.OccurredAt.Format(time.RFC3339),
		}
		// Unknown or corrupt payloads go out as stored.
		if decoded, err := eventRegistry.Unmarshal(e); err == nil {
			item.Payload = decoded
		} else if e.Payload != "" {
			item.Payload = e.Payload
		}
		resp.Items[i] = item
	}
	return resp
}
