package routes

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mfulz/dyspatch/dispatch"
)

// ErrInvalidKey is returned for keys that are not strings.
var ErrInvalidKey = errors.New("routes: key must be a string")

var _ dispatch.Registry = (*Table)(nil)

// Table maps route keys to their handlers by exact match.
type Table struct {
	mu       sync.RWMutex
	handlers map[string]dispatch.Handler
}

// NewTable is a dispatch.RegistryFactory creating an empty table.
func NewTable(*dispatch.Dispatcher) dispatch.Registry {
	return &Table{
		handlers: make(map[string]dispatch.Handler),
	}
}

// Register binds a key to a handler, replacing any previous one.
func (t *Table) Register(key any, h dispatch.Handler) error {
	name, ok := key.(string)
	if !ok {
		return fmt.Errorf("%w: %T", ErrInvalidKey, key)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[name] = h
	return nil
}

// Match returns the handler registered for key.
func (t *Table) Match(key any) (any, error) {
	name, ok := key.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrInvalidKey, key)
	}

	t.mu.RLock()
	h, ok := t.handlers[name]
	t.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown route %q: %w", name, dispatch.ErrNoMatch)
	}
	return h, nil
}

// Keys returns the registered keys in sorted order.
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.handlers))
	for k := range t.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
