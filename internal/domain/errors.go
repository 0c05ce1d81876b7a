package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCredential   = errors.New("empty credential")
	ErrNetworkFailure    = errors.New("network failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrAPILogical        = errors.New("api logical error")
	ErrMissingRates      = errors.New("missing rates field")
	ErrWriteFailure      = errors.New("write failure")
	ErrInvalidCurrency   = errors.New("invalid currency code")
)

// FetchError is returned by rate fetchers. Kind is one of the fetch sentinels
// above and is matched by errors.Is.
type FetchError struct {
	Kind     error
	Code     string // service-reported error type, set for ErrAPILogical
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	msg := e.Kind.Error()
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Attempts > 1 {
		msg = fmt.Sprintf("%s after %d attempts", msg, e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Is(target error) bool { return target == e.Kind }

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError reports an I/O fault while persisting a table.
type WriteError struct {
	Path   string
	Format string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: write %s %s: %v", ErrWriteFailure, e.Format, e.Path, e.Err)
}

func (e *WriteError) Is(target error) bool { return target == ErrWriteFailure }

func (e *WriteError) Unwrap() error { return e.Err }
