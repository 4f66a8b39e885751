//go:build !darwin && !linux

package backend

import "napd/pkg/types"

type unsupportedBackend struct{}

func newPlatformBackend() Backend { return unsupportedBackend{} }

func (unsupportedBackend) Name() string { return "none" }

func (unsupportedBackend) RegisterObserver(func(types.EventKind)) (ObserverToken, error) {
	return 0, ErrUnsupportedOp("sleep/wake notifications")
}

func (unsupportedBackend) UnregisterObserver(ObserverToken) {}

func (unsupportedBackend) CreateAssertion(string) (AssertionRef, error) {
	return 0, ErrUnsupportedOp("idle-sleep assertions")
}

func (unsupportedBackend) ReleaseAssertion(AssertionRef) error {
	return ErrUnsupportedOp("idle-sleep assertions")
}
