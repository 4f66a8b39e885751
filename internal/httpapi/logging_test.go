package httpapi

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"napd/internal/power"
)

func TestLogPublisherWritesEvents(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	p := LogPublisher{Log: log}

	p.Publish(power.Event{
		Name:        power.EventAssertionCreated,
		AssertionID: "abc",
		Fields:      map[string]any{"reason": "export-job"},
	})

	out := buf.String()
	for _, want := range []string{power.EventAssertionCreated, "abc", "export-job"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q: %s", want, out)
		}
	}
}
