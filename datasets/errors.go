package datasets

import (
	"github.com/pkg/errors"
)

// Errors returned by the preparation pipeline. None of them are retried;
// callers are expected to report them and stop. Use errors.Is to match,
// since they are usually wrapped with context.
var (
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrSourceUnavailable = errors.New("dataset source unavailable")
	ErrLengthMismatch    = errors.New("features and labels have different lengths")
	ErrInvalidRatio      = errors.New("split ratio must be in (0, 1)")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrIO                = errors.New("i/o error")
)

// IOError reports a failed file operation together with its cause.
// It matches ErrIO under errors.Is and unwraps to the underlying error.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
