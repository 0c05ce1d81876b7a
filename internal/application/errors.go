package application

import (
	"errors"
	"fmt"
)

var ErrConflict = errors.New("conflict")
var ErrBadRequest = errors.New("bad request")

const (
	StageRequest = "request"
	StageLock    = "lock"
	StageFetch   = "fetch"
	StageSave    = "save"
)

// StageError names the pipeline stage a fatal error came from.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s failed: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }
