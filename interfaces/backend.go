// Package interfaces defines extensible interfaces for action backends.
// Each backend (e.g. exec, echo) turns a route definition into a dispatch
// handler and must implement ActionBackend.
package interfaces

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mfulz/dyspatch/dispatch"
)

// Route represents a single entry of the routes file.
type Route struct {
	Action      string            `yaml:"action"`            // backend kind (e.g. "exec")
	Description string            `yaml:"description"`       // shown by "dyspatch list"
	Command     string            `yaml:"command"`           // exec: binary to run
	Args        []string          `yaml:"args"`              // exec: arguments placed before dispatch args
	Env         map[string]string `yaml:"env"`               // exec: extra environment variables
	Dir         string            `yaml:"dir"`               // exec: working directory
	Capture     bool              `yaml:"capture"`           // exec: return stdout instead of streaming it
	Message     string            `yaml:"message,omitempty"` // echo: template with {{KEY}} and {{ARGS}}
}

// ActionBackend builds handlers for one kind of action.
type ActionBackend interface {
	// Kind returns the name routes use to select this backend.
	Kind() string

	// Build returns the handler serving key as described by route.
	// It fails if the route lacks settings the backend requires.
	Build(key string, route Route) (dispatch.Handler, error)
}

var (
	mu                 sync.RWMutex
	registeredBackends = make(map[string]ActionBackend)
)

// RegisterBackend adds a new backend to the global registry under its kind.
func RegisterBackend(backend ActionBackend) {
	mu.Lock()
	defer mu.Unlock()

	kind := backend.Kind()
	if _, exists := registeredBackends[kind]; exists {
		panic(fmt.Sprintf("backend already registered: %s", kind))
	}
	registeredBackends[kind] = backend
}

// GetBackend retrieves a previously registered backend by kind.
func GetBackend(kind string) (ActionBackend, error) {
	mu.RLock()
	defer mu.RUnlock()

	b, ok := registeredBackends[kind]
	if !ok {
		return nil, fmt.Errorf("no backend registered with kind: %s", kind)
	}
	return b, nil
}

// Backends returns the registered kinds in sorted order.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()

	kinds := make([]string, 0, len(registeredBackends))
	for kind := range registeredBackends {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
