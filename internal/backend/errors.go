package backend

// unsupportedError signals that the current platform backend cannot perform
// an operation (no implementation, missing OS tooling).
type unsupportedError struct{ op string }

func (e unsupportedError) Error() string {
	return "platform backend does not support " + e.op
}

// ErrUnsupportedOp constructs an unsupported-operation error.
func ErrUnsupportedOp(op string) error { return unsupportedError{op: op} }

// IsUnsupported reports whether err indicates a missing platform capability.
func IsUnsupported(err error) bool {
	_, ok := err.(unsupportedError)
	return ok
}
