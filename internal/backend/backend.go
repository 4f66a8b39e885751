// Package backend defines the platform capability consumed by the power
// package: raw sleep/wake observer registration and OS-level idle-sleep-deny
// assertions. Implementations:
//
//   - exec_darwin.go / exec_linux.go: assertions via a per-assertion child
//     process (caffeinate / systemd-inhibit). Observer registration is not
//     available without native notification glue and returns an unsupported
//     error.
//   - exec_other.go: unsupported platform, every operation fails.
//   - memory.go: scriptable in-process backend for tests and sim mode.
package backend

import "napd/pkg/types"

// ObserverToken identifies a registered raw-event observer.
type ObserverToken uint64

// AssertionRef is the backend-specific identifier of a live OS assertion.
type AssertionRef uint64

// Backend is the platform capability. All calls are synchronous and fast;
// raw events are delivered on a backend-owned goroutine asynchronous to
// callers.
type Backend interface {
	// RegisterObserver installs onEvent for raw sleep/wake notifications.
	RegisterObserver(onEvent func(types.EventKind)) (ObserverToken, error)
	// UnregisterObserver removes a previously registered observer.
	// Unknown tokens are ignored.
	UnregisterObserver(tok ObserverToken)
	// CreateAssertion asks the OS to hold off idle sleep, tagged with reason.
	CreateAssertion(reason string) (AssertionRef, error)
	// ReleaseAssertion drops the OS assertion behind ref. Unknown refs are
	// ignored.
	ReleaseAssertion(ref AssertionRef) error
	// Name identifies the implementation for status reporting.
	Name() string
}

// New returns the platform backend for the current OS.
// See exec_darwin.go, exec_linux.go, exec_other.go.
func New() Backend {
	return newPlatformBackend()
}
