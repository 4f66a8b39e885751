package power

import (
	"sync"

	"napd/internal/backend"
	"napd/pkg/types"
)

type Manager struct {
	mu      sync.Mutex
	backend backend.Backend

	// Event bus state
	subs     map[string]*subscriber
	order    []string // FIFO by subscribe time
	observer backend.ObserverToken
	attached bool
	seq      uint64
	dropped  uint64

	// Assertion table
	assertions map[string]*assertionRecord

	publisher EventPublisher

	queue  chan types.EventKind
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// New constructs a Manager over the platform backend with package defaults.
func New() *Manager {
	return NewWithConfig(Config{})
}

// NewWithConfig constructs a Manager from Config, applying defaults for
// unset fields, and starts the dispatch worker.
func NewWithConfig(cfg Config) *Manager {
	m := &Manager{
		backend:    cfg.Backend,
		subs:       make(map[string]*subscriber),
		assertions: make(map[string]*assertionRecord),
		publisher:  cfg.Publisher,
		done:       make(chan struct{}),
	}
	if m.backend == nil {
		m.backend = backend.New()
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	size := cfg.EventQueueSize
	if size <= 0 {
		size = defaultEventQueueSize
	}
	m.queue = make(chan types.EventKind, size)

	m.wg.Add(1)
	go m.dispatchLoop()
	return m
}

// SetEventPublisher installs a lifecycle publisher. Call before the first
// Subscribe/RequestNoIdleSleep to avoid missing events.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		p = noopPublisher{}
	}
	m.publisher = p
}

// BackendName reports the platform backend implementation.
func (m *Manager) BackendName() string { return m.backend.Name() }

// Ready reports whether the manager can serve requests.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed
}

// Close tears the manager down: detaches the observer, releases every
// outstanding assertion, and stops the dispatch worker. Idempotent. The
// returned error is the first warning-class release failure, if any.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true

	wasAttached := m.attached
	tok := m.observer
	m.attached = false
	m.subs = make(map[string]*subscriber)
	m.order = nil

	var outstanding []*assertionRecord
	for _, rec := range m.assertions {
		if rec.state == types.AssertionActive {
			rec.state = types.AssertionReleased
			outstanding = append(outstanding, rec)
		}
	}
	pub := m.publisher
	m.mu.Unlock()

	if wasAttached {
		m.backend.UnregisterObserver(tok)
		pub.Publish(Event{Name: EventDetach})
	}

	var firstErr error
	for _, rec := range outstanding {
		if err := m.backend.ReleaseAssertion(rec.ref); err != nil {
			pub.Publish(Event{Name: EventReleaseFailed, AssertionID: rec.id, Fields: map[string]any{"error": err.Error()}})
			if firstErr == nil {
				firstErr = releaseError{cause: err}
			}
			continue
		}
		pub.Publish(Event{Name: EventAssertionReleased, AssertionID: rec.id})
	}

	close(m.done)
	m.wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	return nil
}
