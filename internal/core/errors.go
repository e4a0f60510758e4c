package core

import (
	"errors"

	"selenictia/internal/messages"
)

var (
	ErrConfig      = errors.New("configuration error")
	ErrFilesystem  = errors.New("filesystem error")
	ErrProcess     = errors.New("coverage tool failure")
	ErrInterrupted = errors.New("interrupted")
)

// Error is a failure with a catalog message. Kind is one of the sentinel
// errors above; Key and Args resolve the message.
type Error struct {
	Kind  error
	Key   string
	Args  []any
	Cause error
	// ExitCode is the tool's exit code for process failures.
	ExitCode int
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return messages.Get(e.Key, e.Args...)
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func configError(key string, args ...any) error {
	return &Error{Kind: ErrConfig, Key: key, Args: args}
}

func filesystemError(key string, cause error) error {
	return &Error{Kind: ErrFilesystem, Key: key, Args: []any{cause}, Cause: cause}
}

// FilesystemError reports an I/O failure under a catalog key whose single
// placeholder receives the cause.
func FilesystemError(key string, cause error) error {
	return filesystemError(key, cause)
}

// KindOf returns the sentinel kind of err, or nil for foreign errors.
func KindOf(err error) error {
	for _, k := range []error{ErrConfig, ErrFilesystem, ErrProcess, ErrInterrupted} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// KeyOf returns the catalog key of err, or "".
func KeyOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Key
	}
	return ""
}
