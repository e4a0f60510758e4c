package cli

import (
	"errors"
	"fmt"

	"selenictia/internal/core"
)

const (
	ExitSuccess           = 0
	ExitToolFailure       = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
	ExitInterrupted       = 130
)

// InvocationError is a command-line usage error.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	switch core.KindOf(err) {
	case core.ErrConfig:
		return ExitConfigError
	case core.ErrProcess:
		return ExitToolFailure
	case core.ErrInterrupted:
		return ExitInterrupted
	default:
		return ExitInternalError
	}
}
