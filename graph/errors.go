package graph

import (
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/brainstorm/session"
)

// ErrNoCheckpoint is wrapped by Resume when no suspended session exists for
// the given id.
var ErrNoCheckpoint = errors.New("no checkpoint for session")

// ExecutionError captures rich context when a run fails unrecoverably.
//
//   - Stage: the stage that was executing
//   - SessionID: the session the failure belongs to
//   - Path: execution path leading to the failure
//   - Err: underlying error
type ExecutionError struct {
	Stage     string
	SessionID string
	Path      []string
	Err       error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed at stage %s: %v", e.Stage, e.Err)
}

// Unwrap enables error unwrapping for errors.Is and errors.As.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func execErr(stage string, s session.State, path []string, err error) *ExecutionError {
	return &ExecutionError{
		Stage:     stage,
		SessionID: s.ID,
		Path:      path,
		Err:       err,
	}
}
