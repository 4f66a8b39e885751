package power

// registrationError signals that the backend refused observer registration
// on the first subscribe.
type registrationError struct{ cause error }

func (e registrationError) Error() string {
	return "backend registration failed: " + e.cause.Error()
}
func (e registrationError) Unwrap() error { return e.cause }

// IsRegistrationFailed reports whether err came from a failed backend attach.
func IsRegistrationFailed(err error) bool {
	_, ok := err.(registrationError)
	return ok
}

// creationError signals that the backend refused to create an assertion.
type creationError struct{ cause error }

func (e creationError) Error() string {
	return "assertion creation failed: " + e.cause.Error()
}
func (e creationError) Unwrap() error { return e.cause }

// IsAssertionCreationFailed reports whether err came from a refused
// assertion create.
func IsAssertionCreationFailed(err error) bool {
	_, ok := err.(creationError)
	return ok
}

// releaseError is warning-class: the backend failed to drop the OS assertion
// but local state already transitioned to released.
type releaseError struct{ cause error }

func (e releaseError) Error() string {
	return "backend release failed: " + e.cause.Error()
}
func (e releaseError) Unwrap() error { return e.cause }

// IsAssertionReleaseFailed reports whether err is a recoverable release
// failure.
func IsAssertionReleaseFailed(err error) bool {
	_, ok := err.(releaseError)
	return ok
}

// closedError signals use of a Manager after Close.
type closedError struct{}

func (closedError) Error() string { return "power manager is closed" }

// IsClosed reports whether err indicates a closed Manager.
func IsClosed(err error) bool {
	_, ok := err.(closedError)
	return ok
}
