package types

// EventKind identifies a system power transition.
type EventKind string

const (
	// WillSleep: the OS has committed to entering sleep.
	WillSleep EventKind = "will-sleep"
	// DidWake: the OS finished waking from sleep.
	DidWake EventKind = "did-wake"
	// SleepDenied: a requested sleep was vetoed and will not happen.
	SleepDenied EventKind = "sleep-denied"
)

// AssertionState is the lifecycle state of an idle-sleep-deny assertion.
type AssertionState string

const (
	AssertionActive   AssertionState = "active"
	AssertionReleased AssertionState = "released"
)
