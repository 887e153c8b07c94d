package dispatch

import (
	"context"
	"fmt"
)

// Handler is the callable linked to a key.
type Handler func(ctx context.Context, args ...any) (any, error)

// Registry defines the strategy linking keys to handlers. Given a key, it can
// later find the corresponding handler(s).
type Registry interface {
	// Register links h to key. The convention for keys depends on the
	// implementation; often they are strings.
	Register(key any, h Handler) error

	// Match returns one handler or a group of handlers matching key. How
	// handlers are grouped is up to the implementation, most likely a slice.
	// Registries report an unknown key with an error wrapping ErrNoMatch.
	Match(key any) (any, error)
}

// Caller defines the strategy used to invoke whatever a Registry matched:
// how arguments are passed, how errors are handled, whether a group is
// broadcast to or only partially called.
type Caller interface {
	Call(ctx context.Context, matched any, args ...any) (any, error)
}

// CallerFunc adapts a plain function to the Caller interface.
type CallerFunc func(ctx context.Context, matched any, args ...any) (any, error)

// Call calls f.
func (f CallerFunc) Call(ctx context.Context, matched any, args ...any) (any, error) {
	return f(ctx, matched, args...)
}

// RegistryFactory builds the registry of the dispatcher under construction.
type RegistryFactory func(d *Dispatcher) Registry

// CallerFactory builds the caller of the dispatcher under construction.
type CallerFactory func(d *Dispatcher) Caller

// DefaultCaller calls a single Handler with the dispatch context and
// arguments and returns its result unchanged.
type DefaultCaller struct{}

// NewDefaultCaller is the CallerFactory used when nothing else is configured.
func NewDefaultCaller(*Dispatcher) Caller {
	return DefaultCaller{}
}

// Call invokes matched if it is a Handler.
func (DefaultCaller) Call(ctx context.Context, matched any, args ...any) (any, error) {
	switch h := matched.(type) {
	case Handler:
		if h != nil {
			return h(ctx, args...)
		}
	case func(context.Context, ...any) (any, error):
		if h != nil {
			return h(ctx, args...)
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrNotCallable, matched)
}
