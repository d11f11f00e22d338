// Package launcherr defines the error taxonomy of the launcher. Every error
// surfaced to the user carries a Kind so callers can branch with errors.Is
// while the message stays human readable.
package launcherr

import (
	"errors"
	"fmt"
)

// Kind classifies a launcher failure.
type Kind int

const (
	KindParse Kind = iota + 1
	KindValidation
	KindBinding
	KindLaunch
	KindNetwork
	KindTimeout
	KindAuth
	KindTLS
)

var kindNames = map[Kind]string{
	KindParse:      "parse",
	KindValidation: "validation",
	KindBinding:    "binding",
	KindLaunch:     "launch",
	KindNetwork:    "network",
	KindTimeout:    "timeout",
	KindAuth:       "auth",
	KindTLS:        "tls",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified launcher error. Err holds the underlying cause
// (OS, network or decoding error) and is exposed through Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error returns the message, followed by the cause if there is one.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

var _ interface {
	Error() string
	Is(target error) bool
	Unwrap() error
} = (*Error)(nil)

// Sentinels for errors.Is checks. Only the Kind is compared.
var (
	ErrParse      = &Error{Kind: KindParse}
	ErrValidation = &Error{Kind: KindValidation}
	ErrBinding    = &Error{Kind: KindBinding}
	ErrLaunch     = &Error{Kind: KindLaunch}
	ErrNetwork    = &Error{Kind: KindNetwork}
	ErrTimeout    = &Error{Kind: KindTimeout}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrTLS        = &Error{Kind: KindTLS}
)

func newf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// Parse reports a malformed URL, query string or port.
func Parse(cause error, format string, args ...any) *Error {
	return newf(KindParse, cause, format, args...)
}

// Validation reports a scheme specific precondition that does not hold.
func Validation(format string, args ...any) *Error {
	return newf(KindValidation, nil, format, args...)
}

// Binding reports a placeholder that cannot be resolved.
func Binding(format string, args ...any) *Error {
	return newf(KindBinding, nil, format, args...)
}

// Launch reports a tokenization or spawn failure.
func Launch(cause error, format string, args ...any) *Error {
	return newf(KindLaunch, cause, format, args...)
}

func Network(cause error, format string, args ...any) *Error {
	return newf(KindNetwork, cause, format, args...)
}

func Timeout(format string, args ...any) *Error {
	return newf(KindTimeout, nil, format, args...)
}

func Auth(cause error, format string, args ...any) *Error {
	return newf(KindAuth, cause, format, args...)
}

func TLS(cause error, format string, args ...any) *Error {
	return newf(KindTLS, cause, format, args...)
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}
