package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/server/events"
	"github.com/go-chi/chi/v5"
)

// eventHeartbeat keeps idle streams alive through proxies.
const eventHeartbeat = 15 * time.Second

// groupEvents streams the group's change events as Server-Sent Events until
// the client disconnects or the bus ends the subscription.
func (s *Server) groupEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, errors.New("streaming unsupported"))
		return
	}

	ctx := r.Context()
	groupID := chi.URLParam(r, "groupID")

	ch, cancel, err := s.events.Subscribe(ctx, groupID)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("subscribe: %w", err))
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(eventHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case e, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, e); err != nil {
				s.logger.Warn(ctx, "event stream write failed", "group_id", groupID, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, e events.Event) error {
	data, err := json.Marshal(toEvent(e))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data)
	return err
}
