package power

// Event represents a manager lifecycle event (attach, detach, dispatch,
// assertion created/released). Minimal and stable: name plus optional
// assertion id and key/values.
type Event struct {
	Name        string
	AssertionID string
	Fields      map[string]any
}

// Lifecycle event names published by the Manager.
const (
	EventAttach            = "attach"
	EventDetach            = "detach"
	EventDispatch          = "dispatch"
	EventDropped           = "event_dropped"
	EventAssertionCreated  = "assertion_created"
	EventAssertionReleased = "assertion_released"
	EventReleaseFailed     = "assertion_release_failed"
)

// EventPublisher receives lifecycle events from the Manager. Implementations
// should be lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// MultiPublisher fans one event out to several publishers in order.
type MultiPublisher []EventPublisher

func (ps MultiPublisher) Publish(e Event) {
	for _, p := range ps {
		p.Publish(e)
	}
}
