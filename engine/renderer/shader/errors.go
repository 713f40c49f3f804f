package shader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/hellogl/engine/gpu"
)

var (
	// ErrSourceUnreadable is returned when a shader source file cannot be read.
	ErrSourceUnreadable = errors.New("shader source unreadable")

	// ErrCompileFailed is returned when the driver rejects a shader stage.
	ErrCompileFailed = errors.New("shader compile failed")

	// ErrLinkFailed is returned when the driver cannot link a program, or when the
	// stages handed to the linker are not a usable vertex/fragment pair.
	ErrLinkFailed = errors.New("shader program link failed")
)

// DiagnosticError carries the driver's diagnostic text for a failed compile or link.
// It unwraps to ErrCompileFailed or ErrLinkFailed.
type DiagnosticError struct {
	// Kind is the sentinel describing the failed step.
	Kind error

	// Stage is the stage that failed to compile. Unused for link failures.
	Stage gpu.StageType

	// Path is the source file of the failing stage, if known.
	Path string

	// Log is the driver's info log, possibly empty.
	Log string
}

func (e *DiagnosticError) Error() string {
	var msg string
	if errors.Is(e.Kind, ErrCompileFailed) {
		msg = fmt.Sprintf("%s: %s stage", e.Kind, e.Stage)
		if e.Path != "" {
			msg += fmt.Sprintf(" %q", e.Path)
		}
	} else {
		msg = fmt.Sprint(e.Kind)
	}
	if e.Log != "" {
		msg += ": " + e.Log
	}
	return msg
}

func (e *DiagnosticError) Unwrap() error {
	return e.Kind
}
