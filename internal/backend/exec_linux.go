//go:build linux

package backend

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"

	"napd/pkg/types"
)

// execBackend holds one systemd-inhibit child per assertion.
type execBackend struct {
	mu      sync.Mutex
	nextRef AssertionRef
	procs   map[AssertionRef]*exec.Cmd
}

func newPlatformBackend() Backend {
	return &execBackend{procs: make(map[AssertionRef]*exec.Cmd)}
}

func (b *execBackend) Name() string { return "exec-linux" }

func (b *execBackend) RegisterObserver(func(types.EventKind)) (ObserverToken, error) {
	// logind PrepareForSleep signals need a D-Bus session; not wired here.
	return 0, ErrUnsupportedOp("sleep/wake notifications")
}

func (b *execBackend) UnregisterObserver(ObserverToken) {}

func (b *execBackend) CreateAssertion(reason string) (AssertionRef, error) {
	path, err := exec.LookPath("systemd-inhibit")
	if err != nil {
		return 0, fmt.Errorf("systemd-inhibit not found: %w", err)
	}

	if reason == "" {
		reason = "napd assertion"
	}
	cmd := exec.Command(path,
		"--what=idle",
		"--who=napd",
		"--why="+reason,
		"sleep", "infinity",
	)
	// Kernel sends SIGTERM to the child when we die, so the inhibit lock
	// cannot leak past the process.
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: syscall.SIGTERM}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start systemd-inhibit (%s): %w", reason, err)
	}
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
		return fmt.Errorf("stop systemd-inhibit: %w", err)
	}
	return nil
}
