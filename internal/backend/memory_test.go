package backend

import (
	"errors"
	"testing"

	"napd/pkg/types"
)

func TestMemoryFireDeliversToObservers(t *testing.T) {
	bk := NewMemory()
	var got []types.EventKind
	tok, err := bk.RegisterObserver(func(k types.EventKind) { got = append(got, k) })
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	bk.Fire(types.WillSleep)
	bk.Fire(types.DidWake)
	if len(got) != 2 || got[0] != types.WillSleep || got[1] != types.DidWake {
		t.Fatalf("delivered=%v", got)
	}

	bk.UnregisterObserver(tok)
	bk.Fire(types.WillSleep)
	if len(got) != 2 {
		t.Fatalf("delivered after unregister: %v", got)
	}
}

func TestMemoryAssertionLifecycle(t *testing.T) {
	bk := NewMemory()
	ref, err := bk.CreateAssertion("job")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := bk.ActiveAssertions(); len(got) != 1 || got[0] != "job" {
		t.Fatalf("active=%v", got)
	}
	if err := bk.ReleaseAssertion(ref); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := len(bk.ActiveAssertions()); got != 0 {
		t.Fatalf("active=%d", got)
	}
	// Unknown refs are ignored.
	if err := bk.ReleaseAssertion(999); err != nil {
		t.Fatalf("unknown ref: %v", err)
	}
}

func TestMemoryFailureInjection(t *testing.T) {
	bk := NewMemory()
	boom := errors.New("boom")

	bk.FailRegister(boom)
	if _, err := bk.RegisterObserver(func(types.EventKind) {}); !errors.Is(err, boom) {
		t.Fatalf("register err=%v", err)
	}
	bk.FailCreate(boom)
	if _, err := bk.CreateAssertion("x"); !errors.Is(err, boom) {
		t.Fatalf("create err=%v", err)
	}
	bk.FailRelease(boom)
	if err := bk.ReleaseAssertion(1); !errors.Is(err, boom) {
		t.Fatalf("release err=%v", err)
	}

	if bk.RegisterCalls() != 1 || bk.CreateCalls() != 1 || bk.ReleaseCalls() != 1 {
		t.Fatalf("counters: reg=%d create=%d release=%d", bk.RegisterCalls(), bk.CreateCalls(), bk.ReleaseCalls())
	}
}

func TestUnsupportedErrorHelper(t *testing.T) {
	err := ErrUnsupportedOp("sleep/wake notifications")
	if !IsUnsupported(err) {
		t.Fatalf("IsUnsupported=false")
	}
	if IsUnsupported(errors.New("other")) {
		t.Fatalf("IsUnsupported matched arbitrary error")
	}
}
