package apperrors

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrStorage                = errors.New("storage failure")
	ErrNotInitialized         = errors.New("store not initialized")
	ErrInvalidField           = errors.New("invalid settings field")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAlreadyRunning         = errors.New("countdown already running")
)

// StorageError reports an I/O or constraint failure in the persistence layer.
// It matches ErrStorage under errors.Is and unwraps to the driver error.
type StorageError struct {
	Op  string
	Err error
}

func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
