// Package power coordinates sleep/wake notification fan-out and idle-sleep
// inhibition over a platform backend. It is structured into small files by
// concern:
//
//   - manager.go: core Manager type, constructor, teardown.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - types.go: internal state types (subscriber, assertion record).
//   - errors.go: error types and helpers (IsRegistrationFailed, ...).
//   - subscribe.go: Subscribe/unsubscribe, lazy backend attach, dispatch.
//   - subscription.go: Subscription handle.
//   - assertions.go: RequestNoIdleSleep/release and the Assertion handle.
//   - events.go: lifecycle EventPublisher plumbing.
//   - status.go: Status reporting for the HTTP layer.
//
// A Manager is explicitly constructed (no process-global instance) so tests
// can run independent instances; Close detaches the observer and releases
// every outstanding assertion.
//
// Concurrency contract: subscriber and assertion tables are guarded by one
// mutex; backend attach/detach happens under that same mutex so the single OS
// hook is registered exactly once while subscribers exist. Raw events cross
// from the backend's notification goroutine into a bounded queue drained by
// one internal dispatch goroutine, and subscriber callbacks run outside the
// lock, so a callback may itself subscribe, unsubscribe, or hold assertions.
package power
