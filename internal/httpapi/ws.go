package httpapi

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkWSOrigin,
}

// checkWSOrigin gates browser upgrades by the configured CORS origins. CORS
// preflight never covers websocket handshakes, so the upgrader has to check
// the Origin header itself. Requests without an Origin (curl, napctl) and
// deployments with CORS disabled are allowed through.
func checkWSOrigin(r *http.Request) bool {
	if !corsEnabled {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range corsAllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// streamEventsWS serves GET /events/ws: the same feed as /events, pushed as
// one JSON text message per event.
func streamEventsWS(svc Service, w http.ResponseWriter, r *http.Request) {
	feed, cancel, err := subscribeFeed(svc)
	if err != nil {
		writeJSONError(w, subscribeErrorStatus(err), err.Error())
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancelCtx := joinContexts(serverBaseCtx, r.Context())
	defer cancelCtx()

	// Drain client frames so close handshakes and pings are processed; the
	// read error also tells us the peer went away.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-readDone:
			return
		case msg := <-feed:
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
