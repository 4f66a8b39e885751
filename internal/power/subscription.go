package power

import "sync"

// Subscription is the caller-held handle for one Subscribe call. It does not
// own the callback; it only authorizes removal. Close detaches the subscriber
// exactly once; further calls are no-ops, so it is safe to both defer Close
// and call it explicitly on an error path.
type Subscription struct {
	id   string
	m    *Manager
	once sync.Once
}

// ID returns the opaque subscriber id (useful in logs).
func (s *Subscription) ID() string { return s.id }

// Close removes the subscriber from the bus. Idempotent.
func (s *Subscription) Close() {
	s.once.Do(func() { s.m.unsubscribe(s.id) })
}

// SubscribeEvents adapts Subscribe for callers that only need a cancel func
// (the HTTP streaming endpoints).
func (m *Manager) SubscribeEvents(fn func(SleepEvent)) (cancel func(), err error) {
	sub, err := m.Subscribe(fn)
	if err != nil {
		return nil, err
	}
	return sub.Close, nil
}
