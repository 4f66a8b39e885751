//go:build darwin

package backend

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"napd/pkg/types"
)

// execBackend holds one caffeinate child per assertion. The -w flag ties each
// child to our pid so assertions cannot outlive the process even on SIGKILL.
type execBackend struct {
	mu      sync.Mutex
	nextRef AssertionRef
	procs   map[AssertionRef]*exec.Cmd
}

func newPlatformBackend() Backend {
	return &execBackend{procs: make(map[AssertionRef]*exec.Cmd)}
}

func (b *execBackend) Name() string { return "exec-darwin" }

func (b *execBackend) RegisterObserver(func(types.EventKind)) (ObserverToken, error) {
	// IORegisterForSystemPower needs a CFRunLoop and cgo; not wired here.
	return 0, ErrUnsupportedOp("sleep/wake notifications")
}

func (b *execBackend) UnregisterObserver(ObserverToken) {}

func (b *execBackend) CreateAssertion(reason string) (AssertionRef, error) {
	path, err := exec.LookPath("caffeinate")
	if err != nil {
		return 0, fmt.Errorf("caffeinate not found: %w", err)
	}

	// -i: prevent idle sleep only (manual sleep still works)
	// -w <pid>: exit automatically when this process dies
	cmd := exec.Command(path, "-i", "-w", strconv.Itoa(os.Getpid()))
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start caffeinate (%s): %w", reason, err)
	}
	// Reap the child in background so it doesn't become a zombie.
	go cmd.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextRef++
	b.procs[b.nextRef] = cmd
	return b.nextRef, nil
}

func (b *execBackend) ReleaseAssertion(ref AssertionRef) error {
	b.mu.Lock()
	cmd := b.procs[ref]
	delete(b.procs, ref)
	b.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("stop caffeinate: %w", err)
	}
	return nil
}
