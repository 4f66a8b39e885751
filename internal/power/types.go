package power

import (
	"time"

	"napd/internal/backend"
	"napd/pkg/types"
)

// SleepEvent is one dispatched power transition. Seq is assigned at dispatch
// time and strictly increases per Manager; every subscriber of a given
// dispatch sees the same Seq.
type SleepEvent struct {
	Seq  uint64
	Kind types.EventKind
	At   time.Time
}

// subscriber is owned by the Manager; the Subscription handle only holds the
// id that authorizes removal.
type subscriber struct {
	id string
	fn func(SleepEvent)
}

// assertionRecord is owned by the Manager and never handed to callers.
type assertionRecord struct {
	id        string
	reason    string
	ref       backend.AssertionRef
	state     types.AssertionState
	createdAt time.Time
}
