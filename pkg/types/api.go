package types

// CreateAssertionRequest is the payload for POST /assertions.
type CreateAssertionRequest struct {
	// Human-readable reason shown by OS power tooling.
	// example: export-job
	Reason string `json:"reason" example:"export-job"`
}

// AssertionInfo describes one idle-sleep-deny assertion for the API.
type AssertionInfo struct {
	// Assertion identifier, used with DELETE /assertions/{id}.
	// example: 7f9c24e5-7cbb-4ad1-9a4d-1f0e917b9f2e
	ID string `json:"id" example:"7f9c24e5-7cbb-4ad1-9a4d-1f0e917b9f2e"`
	// Reason supplied at creation time.
	// example: export-job
	Reason string `json:"reason" example:"export-job"`
	// Lifecycle state (active, released).
	// example: active
	State AssertionState `json:"state" example:"active"`
	// Creation time (unix seconds).
	// example: 1700000000
	CreatedAt int64 `json:"created_at_unix" example:"1700000000"`
}

// AssertionResponse is returned by POST /assertions and DELETE /assertions/{id}.
type AssertionResponse struct {
	Assertion AssertionInfo `json:"assertion"`
	// Warning set when the backend failed to release but local state
	// still transitioned to released.
	// example: backend release failed: caffeinate exited early
	Warning string `json:"warning,omitempty" example:""`
}

// AssertionsResponse wraps the list returned by GET /assertions.
type AssertionsResponse struct {
	Assertions []AssertionInfo `json:"assertions"`
}

// EventMessage is one streamed sleep/wake event (NDJSON and websocket).
type EventMessage struct {
	// Monotonic sequence number assigned at dispatch.
	// example: 42
	Seq uint64 `json:"seq" example:"42"`
	// Transition kind (will-sleep, did-wake, sleep-denied).
	// example: will-sleep
	Kind EventKind `json:"kind" example:"will-sleep"`
	// Dispatch time (unix milliseconds).
	// example: 1700000000000
	At int64 `json:"at_unix_ms" example:"1700000000000"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Backend implementation name (sim, exec-darwin, exec-linux, none).
	// example: exec-darwin
	Backend string `json:"backend" example:"exec-darwin"`
	// True while the OS notification hook is registered.
	// example: true
	ObserverAttached bool `json:"observer_attached" example:"true"`
	// Number of live event subscribers.
	// example: 2
	Subscribers int `json:"subscribers" example:"2"`
	// Sequence number of the last dispatched event (0 if none).
	// example: 42
	LastSeq uint64 `json:"last_seq" example:"42"`
	// Events dropped because the dispatch queue was full.
	// example: 0
	DroppedEvents uint64 `json:"dropped_events" example:"0"`
	// Currently active assertions.
	Assertions []AssertionInfo `json:"assertions"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: reason is required
	Error string `json:"error" example:"reason is required"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
