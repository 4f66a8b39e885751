package httpapi

import (
	"github.com/rs/zerolog"

	"napd/internal/power"
)

// zlog is an optional structured logger. If unset, handlers stay quiet.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogPublisher bridges power lifecycle events into zerolog.
type LogPublisher struct {
	Log zerolog.Logger
}

func (p LogPublisher) Publish(e power.Event) {
	ev := p.Log.Debug().Str("event", e.Name)
	if e.AssertionID != "" {
		ev = ev.Str("assertion_id", e.AssertionID)
	}
	if len(e.Fields) > 0 {
		ev = ev.Fields(e.Fields)
	}
	ev.Msg("power event")
}
