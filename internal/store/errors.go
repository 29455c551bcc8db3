package store

import "errors"

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound is returned when an operation names a user that does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyUnlocked is returned when unlocking an achievement twice.
	ErrAlreadyUnlocked = errors.New("achievement already unlocked")

	// ErrPoisoned is returned once a previous holder of the connection
	// guard panicked mid-operation.
	ErrPoisoned = errors.New("store handle poisoned by an earlier failure")

	// ErrClosed is returned by operations on a store after Close.
	ErrClosed = errors.New("store closed")

	// ErrInvalidSnapshot is returned when an import snapshot cannot be applied.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrInvalidInput is returned when caller-supplied values fail validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCategory is returned when decoding an unknown task category token.
	ErrUnknownCategory = errors.New("unknown task category")
)

// Error is the single error type returned by exported Store operations.
// Op names the operation; Err keeps the cause for errors.Is matching.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// fail wraps err for the component boundary. A nil err stays nil.
func fail(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err}
}
