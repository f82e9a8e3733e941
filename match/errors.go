package match

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Kind classifies engine failures.
type Kind string

const (
	// KindInvalidInput is a request rejected before any retrieval began.
	KindInvalidInput Kind = "INVALID_INPUT"

	// KindUpstreamUnavailable is a store or corpus accessor that stayed
	// unreachable after retries. It aborts the invocation.
	KindUpstreamUnavailable Kind = "UPSTREAM_UNAVAILABLE"

	// KindRetrievalDegraded is a retrieval stage that fell back to neutral
	// scoring. It never aborts an invocation.
	KindRetrievalDegraded Kind = "RETRIEVAL_DEGRADED"

	// KindPairScoringFailed is a single pair dropped from the results.
	KindPairScoringFailed Kind = "PAIR_SCORING_FAILED"
)

// Sentinels matched by *Error through errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrRetrievalDegraded   = errors.New("retrieval degraded")
	ErrPairScoringFailed   = errors.New("pair scoring failed")
)

// Construction errors.
var (
	ErrCandidateRepositoryRequired = errors.New("candidate repository required")
	ErrJobRepositoryRequired       = errors.New("job repository required")
	ErrMatchRepositoryRequired     = errors.New("match repository required")
	ErrLexicalRequired             = errors.New("lexical retriever required")
	ErrSemanticRequired            = errors.New("semantic scorer required")
	ErrInvalidDefaults             = errors.New("invalid request defaults")
)

// Error is a classified engine failure carrying the stack where it was raised.
type Error struct {
	Kind  Kind
	Op    string
	Err   error
	Stack []byte
}

func newError(kind Kind, op string, err error) *Error {
	var stack []byte
	if err != nil {
		var ge *goerrors.Error
		if errors.As(err, &ge) {
			stack = ge.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(op).Stack()
	}
	return &Error{Kind: kind, Op: op, Err: err, Stack: stack}
}

func invalidInput(op string, format string, args ...any) *Error {
	return newError(KindInvalidInput, op, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// StackTrace returns the formatted stack captured when e was created.
func (e *Error) StackTrace() []byte {
	return e.Stack
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindUpstreamUnavailable:
		return ErrUpstreamUnavailable
	case KindRetrievalDegraded:
		return ErrRetrievalDegraded
	case KindPairScoringFailed:
		return ErrPairScoringFailed
	}
	return nil
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
