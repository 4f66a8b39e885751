package power

import (
	"sync"
	"testing"
	"time"

	"napd/internal/backend"
)

// recorder collects dispatched events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []SleepEvent
}

func (r *recorder) callback(ev SleepEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) Events() []SleepEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SleepEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// newTestManager wires a Manager to a fresh Memory backend.
func newTestManager(t *testing.T, cfg Config) (*Manager, *backend.Memory) {
	t.Helper()
	bk := backend.NewMemory()
	cfg.Backend = bk
	m := NewWithConfig(cfg)
	t.Cleanup(func() { _ = m.Close() })
	return m, bk
}

// waitFor polls cond until it holds or the deadline expires.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
