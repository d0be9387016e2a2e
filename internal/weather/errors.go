package weather

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies failures for logging and metrics. The HTTP layer never
// exposes it; callers only see the fixed per-route messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindProviderFailure
	KindProviderTimeout
	KindStoreFailure
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindProviderFailure:
		return "provider_failure"
	case KindProviderTimeout:
		return "provider_timeout"
	case KindStoreFailure:
		return "store_failure"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Error is a tagged failure raised by the service or the dashboard client.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a kind and the operation that failed.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// providerKind distinguishes a timed out provider call from any other failure.
func providerKind(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindProviderTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindProviderTimeout
	}
	return KindProviderFailure
}
