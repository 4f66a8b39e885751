package napctl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"napd/pkg/types"
)

// fetchStatus calls GET /status.
func fetchStatus(addr string) (types.StatusResponse, error) {
	var st types.StatusResponse
	resp, err := http.Get(addr + "/status")
	if err != nil {
		return st, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return st, httpError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("decode status: %w", err)
	}
	return st, nil
}

// createAssertion calls POST /assertions.
func createAssertion(addr, reason string) (types.AssertionResponse, error) {
	var out types.AssertionResponse
	body, err := json.Marshal(types.CreateAssertionRequest{Reason: reason})
	if err != nil {
		return out, err
	}
	resp, err := http.Post(addr+"/assertions", "application/json", bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return out, httpError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode assertion: %w", err)
	}
	return out, nil
}

// releaseAssertion calls DELETE /assertions/{id}. found is false when the
// daemon never recorded the id (a no-op release).
func releaseAssertion(addr, id string) (out types.AssertionResponse, found bool, err error) {
	req, err := http.NewRequest(http.MethodDelete, addr+"/assertions/"+id, nil)
	if err != nil {
		return out, false, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return out, false, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusNoContent:
		return out, false, nil
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return out, true, fmt.Errorf("decode assertion: %w", err)
		}
		return out, true, nil
	default:
		return out, false, httpError(resp)
	}
}

// watchNDJSON streams GET /events line by line to w.
func watchNDJSON(ctx context.Context, addr string, limit int, w io.Writer) error {
	url := addr + "/events"
	if limit > 0 {
		url = fmt.Sprintf("%s?limit=%d", url, limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpError(resp)
	}
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		if _, err := fmt.Fprintln(w, sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// watchWS streams GET /events/ws over a websocket to w.
func watchWS(ctx context.Context, addr string, limit int, w io.Writer) error {
	url := "ws" + strings.TrimPrefix(addr, "http") + "/events/ws"
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	seen := 0
	for {
		var msg types.EventMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		line, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(line)); err != nil {
			return err
		}
		seen++
		if limit > 0 && seen >= limit {
			return nil
		}
	}
}

// httpError turns a non-2xx response into an error, preferring the JSON
// payload the daemon writes.
func httpError(resp *http.Response) error {
	var apiErr types.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
