package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"napd/pkg/types"
)

func TestEventsWebsocketStream(t *testing.T) {
	svc, bk := newTestService(t)
	srv := httptest.NewServer(NewMux(svc))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	// The subscription is made before the upgrade, so the observer must be
	// attached by the time Dial returns.
	if got := bk.ObserverCount(); got != 1 {
		t.Fatalf("observer count=%d", got)
	}

	bk.Fire(types.WillSleep)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg types.EventMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Kind != types.WillSleep || msg.Seq == 0 {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestWebsocketOriginGating(t *testing.T) {
	SetCORSOptions(true, []string{"https://ok.example"}, []string{"GET"}, nil)
	t.Cleanup(func() { SetCORSOptions(false, nil, nil, nil) })

	svc, _ := newTestService(t)
	srv := httptest.NewServer(NewMux(svc))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events/ws"

	// Disallowed browser origin is rejected at the handshake.
	hdr := http.Header{"Origin": []string{"https://evil.example"}}
	if conn, resp, err := websocket.DefaultDialer.Dial(url, hdr); err == nil {
		conn.Close()
		t.Fatalf("handshake accepted for disallowed origin")
	} else if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 handshake rejection, got %+v", resp)
	}

	// Configured origin and origin-less clients still connect.
	hdr = http.Header{"Origin": []string{"https://ok.example"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, hdr)
	if err != nil {
		t.Fatalf("dial with allowed origin: %v", err)
	}
	conn.Close()
	conn, _, err = websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial without origin: %v", err)
	}
	conn.Close()
}

func TestEventsWebsocketDetachOnClose(t *testing.T) {
	svc, bk := newTestService(t)
	srv := httptest.NewServer(NewMux(svc))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if bk.ObserverCount() == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("observer still attached after client close")
}
