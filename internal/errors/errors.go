// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so the CLI can tell a failed database shell apart from
// a rejected header argument without matching on message text.
//
// Execution failures additionally carry the captured client output and exit code,
// which the CLI shows to the user for diagnostics.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ExecutionFailed indicates the database client was missing or exited with a non-zero status.
	ExecutionFailed Kind = "execution_failed"
	// UnsupportedSessionMode indicates a block asked for a persistent session.
	UnsupportedSessionMode Kind = "unsupported_session_mode"
	// InvalidArguments indicates a malformed header-argument string or document.
	InvalidArguments Kind = "invalid_arguments"
	// AliasNotFound indicates a named connection is not stored in the keychain.
	AliasNotFound Kind = "alias_not_found"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error

	// Output is the combined output captured from the database client, if any.
	Output string
	// ExitCode is the client's exit status; -1 when the client never ran.
	ExitCode int
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

// Is reports whether target is an *E of the same kind.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Execution builds an ExecutionFailed error carrying the client's output and exit code.
func Execution(msg string, output string, exitCode int, err error) *E {
	return &E{Kind: ExecutionFailed, Message: msg, Err: err, Output: output, ExitCode: exitCode}
}

// KindOf returns the kind of the first *E in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains an *E of the given kind.
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, &E{Kind: kind})
}
