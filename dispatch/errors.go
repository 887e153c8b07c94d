package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotImplemented is matched by every *StrategyError.
	ErrNotImplemented = errors.New("dispatch: strategy not implemented")

	// ErrNoMatch is returned by registries when no handler matches a key.
	ErrNoMatch = errors.New("dispatch: no handler matches key")

	// ErrNotCallable is returned by callers that cannot invoke a matched value.
	ErrNotCallable = errors.New("dispatch: matched value is not callable")
)

// Operations reported by StrategyError.
const (
	OpRegister = "register"
	OpMatch    = "match"
	OpCall     = "call"
)

// StrategyError reports an operation attempted on a dispatcher that has no
// strategy configured for it.
type StrategyError struct {
	Op string

	// dispatching marks a match attempted by Dispatch rather than Match.
	dispatching bool
}

func (e *StrategyError) Error() string {
	var b strings.Builder

	switch {
	case e.Op == OpRegister:
		b.WriteString("dispatch: no strategy to register a handler. You must either:\n")
	case e.Op == OpMatch && e.dispatching:
		b.WriteString("dispatch: no strategy to match a key. You must either:\n")
	case e.Op == OpCall:
		b.WriteString("dispatch: no strategy to call a handler. You must either:\n")
	default:
		b.WriteString("dispatch: no strategy to match a handler. You must either:\n")
	}

	if e.Op == OpCall {
		b.WriteString("- pass WithCaller or WithCallerFactory to New;\n")
		b.WriteString("- set CallerFactory on the Template;\n")
		b.WriteString("- set BuildCaller on the Template.")
		return b.String()
	}
	b.WriteString("- pass WithRegistry or WithRegistryFactory to New;\n")
	b.WriteString("- set RegistryFactory on the Template;\n")
	b.WriteString("- set BuildRegistry on the Template.")
	return b.String()
}

// Is reports whether target is ErrNotImplemented.
func (e *StrategyError) Is(target error) bool {
	return target == ErrNotImplemented
}

// wrapKey attaches the dispatched key to err.
func wrapKey(op string, key any, err error) error {
	return fmt.Errorf("%s %v: %w", op, key, err)
}
