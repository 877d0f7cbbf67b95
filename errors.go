package propmap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPredicate signals a query constraint naming an unregistered predicate.
	ErrUnknownPredicate = errors.New("propmap: unknown predicate")
	// ErrDuplicatePredicate signals two predicates registered under the same name.
	ErrDuplicatePredicate = errors.New("propmap: duplicate predicate")
	// ErrPredicateFailed signals that a predicate returned an error or panicked.
	ErrPredicateFailed = errors.New("propmap: predicate failed")
	// ErrInvalidValue signals a query value which cannot be used as a cache key,
	// or which has the wrong type for a typed predicate.
	ErrInvalidValue = errors.New("propmap: invalid query value")
	// ErrIllegalArguments is flagged whenever function parameters are invalid.
	ErrIllegalArguments = errors.New("propmap: illegal arguments")
)

const predicateNote = "make sure the predicate can process every element " +
	"that may be added to the map, with any value"

// Error is the error type for failures connected to a single predicate.
// Kind is one of the package's sentinel errors, Err is the underlying cause
// (if any). Both are reachable with errors.Is and errors.As.
type Error struct {
	Kind      error
	Predicate string
	Msg       string
	Err       error
}

func predErrf(kind error, pred string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Predicate: pred, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func (e *Error) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Kind.Error())
	if e.Predicate != "" {
		fmt.Fprintf(&buf, " %q", e.Predicate)
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	if e.Msg != "" {
		buf.WriteString("; ")
		buf.WriteString(e.Msg)
	}
	return buf.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// panicError carries a recovered panic value of a predicate which is not
// itself an error.
type panicError struct {
	value any
}

func (p panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return panicError{value: r}
}
