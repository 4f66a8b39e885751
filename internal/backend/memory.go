package backend

import (
	"sync"

	"napd/pkg/types"
)

// Memory is a fully in-process backend for tests and the daemon's sim mode.
// Events are injected with Fire; failures are injected with the Fail* setters.
type Memory struct {
	mu        sync.Mutex
	nextTok   ObserverToken
	nextRef   AssertionRef
	observers map[ObserverToken]func(types.EventKind)
	active    map[AssertionRef]string

	failRegister error
	failCreate   error
	failRelease  error

	registerCalls   int
	unregisterCalls int
	createCalls     int
	releaseCalls    int
}

// NewMemory creates an empty in-process backend.
func NewMemory() *Memory {
	return &Memory{
		observers: make(map[ObserverToken]func(types.EventKind)),
		active:    make(map[AssertionRef]string),
	}
}

func (b *Memory) Name() string { return "sim" }

func (b *Memory) RegisterObserver(onEvent func(types.EventKind)) (ObserverToken, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registerCalls++
	if b.failRegister != nil {
		return 0, b.failRegister
	}
	b.nextTok++
	b.observers[b.nextTok] = onEvent
	return b.nextTok, nil
}

func (b *Memory) UnregisterObserver(tok ObserverToken) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unregisterCalls++
	delete(b.observers, tok)
}

func (b *Memory) CreateAssertion(reason string) (AssertionRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createCalls++
	if b.failCreate != nil {
		return 0, b.failCreate
	}
	b.nextRef++
	b.active[b.nextRef] = reason
	return b.nextRef, nil
}

func (b *Memory) ReleaseAssertion(ref AssertionRef) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseCalls++
	if b.failRelease != nil {
		return b.failRelease
	}
	delete(b.active, ref)
	return nil
}

// Fire delivers an event to every registered observer, mimicking the
// backend-owned notification goroutine. Observers are invoked outside the
// lock so they may call back into the backend.
func (b *Memory) Fire(kind types.EventKind) {
	b.mu.Lock()
	fns := make([]func(types.EventKind), 0, len(b.observers))
	for _, fn := range b.observers {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(kind)
	}
}

// FailRegister makes subsequent RegisterObserver calls return err (nil clears).
func (b *Memory) FailRegister(err error) {
	b.mu.Lock()
	b.failRegister = err
	b.mu.Unlock()
}

// FailCreate makes subsequent CreateAssertion calls return err (nil clears).
func (b *Memory) FailCreate(err error) {
	b.mu.Lock()
	b.failCreate = err
	b.mu.Unlock()
}

// FailRelease makes subsequent ReleaseAssertion calls return err (nil clears).
func (b *Memory) FailRelease(err error) {
	b.mu.Lock()
	b.failRelease = err
	b.mu.Unlock()
}

// ObserverCount reports currently registered observers.
func (b *Memory) ObserverCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}

// ActiveAssertions returns the reasons of assertions the OS still holds.
func (b *Memory) ActiveAssertions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.active))
	for _, reason := range b.active {
		out = append(out, reason)
	}
	return out
}

// Counters for verifying attach/detach and release idempotence in tests.
func (b *Memory) RegisterCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registerCalls
}

func (b *Memory) UnregisterCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unregisterCalls
}

func (b *Memory) CreateCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createCalls
}

func (b *Memory) ReleaseCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.releaseCalls
}
