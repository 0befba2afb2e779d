package workflow

import (
	"errors"
	"fmt"
)

// ErrProvisioning marks a session that never obtained a browser.
var ErrProvisioning = errors.New("browser provisioning failed")

// StageError wraps the failure of one state.
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.State, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// LoginError carries the error banner the application showed after login.
type LoginError struct {
	Banner string
}

func (e *LoginError) Error() string { return "login failed: " + e.Banner }
