package power

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"napd/pkg/types"
)

// Subscribe registers fn to receive every subsequent SleepEvent. The very
// first subscriber triggers backend observer registration; a registration
// failure is surfaced here and only here — later Subscribe calls while
// attached cannot fail for that reason. Attach happens under the same lock as
// the subscriber table so concurrent subscribe/unsubscribe cannot double-
// attach or detach early.
func (m *Manager) Subscribe(fn func(SleepEvent)) (*Subscription, error) {
	if fn == nil {
		return nil, errors.New("nil callback")
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, closedError{}
	}
	attachedNow := false
	if !m.attached {
		tok, err := m.backend.RegisterObserver(m.onRawEvent)
		if err != nil {
			m.mu.Unlock()
			return nil, registrationError{cause: err}
		}
		m.observer = tok
		m.attached = true
		attachedNow = true
	}
	id := uuid.NewString()
	m.subs[id] = &subscriber{id: id, fn: fn}
	m.order = append(m.order, id)
	pub := m.publisher
	m.mu.Unlock()

	if attachedNow {
		pub.Publish(Event{Name: EventAttach, Fields: map[string]any{"backend": m.backend.Name()}})
	}
	return &Subscription{id: id, m: m}, nil
}

// unsubscribe removes a subscriber. Unknown ids are a silent no-op. The last
// removal deregisters the backend observer.
func (m *Manager) unsubscribe(id string) {
	m.mu.Lock()
	if _, ok := m.subs[id]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.subs, id)
	for i, sid := range m.order {
		if sid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	detachNow := false
	observer := m.observer
	if len(m.subs) == 0 && m.attached {
		m.attached = false
		detachNow = true
	}
	pub := m.publisher
	m.mu.Unlock()

	if detachNow {
		m.backend.UnregisterObserver(observer)
		pub.Publish(Event{Name: EventDetach})
	}
}

// onRawEvent runs on the backend's notification goroutine. It hands the event
// to the dispatch worker through the bounded queue; a full queue drops the
// event rather than blocking the OS callback context.
func (m *Manager) onRawEvent(kind types.EventKind) {
	select {
	case m.queue <- kind:
	default:
		m.mu.Lock()
		m.dropped++
		pub := m.publisher
		m.mu.Unlock()
		pub.Publish(Event{Name: EventDropped, Fields: map[string]any{"kind": string(kind)}})
	}
}

func (m *Manager) dispatchLoop() {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case kind := <-m.queue:
			m.dispatch(kind)
		}
	}
}

// dispatch assigns the next sequence number and invokes every subscriber
// registered at dispatch time, in subscribe order. The subscriber snapshot is
// taken under the lock; callbacks run outside it, so a callback that
// subscribes or unsubscribes does not affect the in-progress dispatch.
func (m *Manager) dispatch(kind types.EventKind) {
	m.mu.Lock()
	m.seq++
	ev := SleepEvent{Seq: m.seq, Kind: kind, At: time.Now()}
	fns := make([]func(SleepEvent), 0, len(m.order))
	for _, id := range m.order {
		fns = append(fns, m.subs[id].fn)
	}
	pub := m.publisher
	m.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
	pub.Publish(Event{Name: EventDispatch, Fields: map[string]any{
		"seq":         ev.Seq,
		"kind":        string(ev.Kind),
		"subscribers": len(fns),
	}})
}
