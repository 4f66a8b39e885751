package power

import "napd/internal/backend"

// Default applied when the corresponding Config field is unset.
const defaultEventQueueSize = 16

// Config encapsulates all tunables for Manager construction.
type Config struct {
	// Backend supplies the platform primitives. Defaults to backend.New().
	Backend backend.Backend
	// EventQueueSize bounds the raw-event queue between the backend's
	// notification goroutine and the dispatch worker.
	EventQueueSize int
	// Publisher receives lifecycle events. Defaults to a no-op.
	Publisher EventPublisher
}
