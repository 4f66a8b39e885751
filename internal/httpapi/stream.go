package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"napd/internal/power"
	"napd/pkg/types"
)

// eventFeedSize bounds the per-client buffer between the dispatch worker and
// a streaming connection. Slow clients lose events rather than stalling the
// bus.
const eventFeedSize = 32

// subscribeFeed attaches a per-client channel to the event bus.
func subscribeFeed(svc Service) (<-chan types.EventMessage, func(), error) {
	feed := make(chan types.EventMessage, eventFeedSize)
	cancel, err := svc.SubscribeEvents(func(ev power.SleepEvent) {
		msg := types.EventMessage{Seq: ev.Seq, Kind: ev.Kind, At: ev.At.UnixMilli()}
		select {
		case feed <- msg:
		default:
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return feed, cancel, nil
}

// streamEventsNDJSON serves GET /events: one JSON object per line, flushed
// per event. The optional limit query parameter ends the stream after that
// many events (0 = until the client disconnects or the server shuts down).
func streamEventsNDJSON(svc Service, w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	feed, cancel, err := subscribeFeed(svc)
	if err != nil {
		writeJSONError(w, subscribeErrorStatus(err), err.Error())
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	var flush func()
	if f, ok := w.(http.Flusher); ok {
		flush = f.Flush
	}
	if flush != nil {
		flush()
	}

	ctx, cancelCtx := joinContexts(serverBaseCtx, r.Context())
	defer cancelCtx()

	enc := json.NewEncoder(w)
	sent := 0
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-feed:
			if err := enc.Encode(msg); err != nil {
				return
			}
			if flush != nil {
				flush()
			}
			sent++
			if limit > 0 && sent >= limit {
				return
			}
		}
	}
}

// subscribeErrorStatus maps subscribe-path errors for the streaming routes.
func subscribeErrorStatus(err error) int {
	if power.IsRegistrationFailed(err) {
		return http.StatusServiceUnavailable
	}
	if power.IsClosed(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
