package power

import (
	"time"

	"github.com/google/uuid"

	"napd/pkg/types"
)

// Assertion is the caller-held handle for one idle-sleep-deny request.
// Exactly one handle exists per recorded assertion; Release (explicit or
// deferred) revokes the underlying OS assertion exactly once.
type Assertion struct {
	id string
	m  *Manager
}

// ID returns the opaque assertion id.
func (a *Assertion) ID() string { return a.id }

// Release revokes the assertion. Idempotent: the first call transitions the
// record to released and performs exactly one backend release; later calls
// return nil without touching the backend. A backend release failure is
// returned as a warning-class error (IsAssertionReleaseFailed) while local
// state still ends up released, so the handle cannot leak.
func (a *Assertion) Release() error {
	return a.m.releaseByID(a.id)
}

// RequestNoIdleSleep asks the backend to hold off idle sleep, tagged with
// reason. On success the assertion is recorded active and its handle
// returned; on backend failure nothing is recorded and the error satisfies
// IsAssertionCreationFailed. Each call creates an independent backend
// assertion; reasons are not deduplicated.
func (m *Manager) RequestNoIdleSleep(reason string) (*Assertion, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, closedError{}
	}
	m.mu.Unlock()

	// Backend call outside the lock: it is synchronous and fast, but a
	// subscriber callback may request assertions while a dispatch is active.
	ref, err := m.backend.CreateAssertion(reason)
	if err != nil {
		return nil, creationError{cause: err}
	}

	rec := &assertionRecord{
		id:        uuid.NewString(),
		reason:    reason,
		ref:       ref,
		state:     types.AssertionActive,
		createdAt: time.Now(),
	}
	m.mu.Lock()
	if m.closed {
		// Lost the race with Close: do not record, revoke immediately.
		m.mu.Unlock()
		_ = m.backend.ReleaseAssertion(ref)
		return nil, closedError{}
	}
	m.assertions[rec.id] = rec
	pub := m.publisher
	m.mu.Unlock()

	pub.Publish(Event{Name: EventAssertionCreated, AssertionID: rec.id, Fields: map[string]any{"reason": reason}})
	return &Assertion{id: rec.id, m: m}, nil
}

// releaseByID transitions an assertion to released and revokes it with the
// backend. Already-released and unknown ids are silent no-ops.
func (m *Manager) releaseByID(id string) error {
	m.mu.Lock()
	rec, ok := m.assertions[id]
	if !ok || rec.state == types.AssertionReleased {
		m.mu.Unlock()
		return nil
	}
	// Transition before the backend call so a concurrent release cannot
	// trigger a second backend release.
	rec.state = types.AssertionReleased
	ref := rec.ref
	pub := m.publisher
	m.mu.Unlock()

	if err := m.backend.ReleaseAssertion(ref); err != nil {
		pub.Publish(Event{Name: EventReleaseFailed, AssertionID: id, Fields: map[string]any{"error": err.Error()}})
		return releaseError{cause: err}
	}
	pub.Publish(Event{Name: EventAssertionReleased, AssertionID: id})
	return nil
}
