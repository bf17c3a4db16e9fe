package objio

import (
	"github.com/pkg/errors"
)

// ErrTooLarge is returned when a framed record's length exceeds the
// configured maximum.
var ErrTooLarge = errors.New("record exceeds maximum size")

// ErrClosed is returned when a closed journal is used.
var ErrClosed = errors.New("journal is closed")

// An IOError wraps a failure of the underlying source or sink, as opposed
// to a failure of the format. Unwrap exposes the original error, so
// inspection with errors.Is and errors.As keeps working through the
// wrapper.
type IOError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *IOError) Error() string {
	return "i/o error during " + e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

// WrapIO wraps err as an IOError for the given operation. A nil err stays
// nil, so call sites can wrap unconditionally.
func WrapIO(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}

// IsIO reports whether any error in err's chain is an IOError.
func IsIO(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
