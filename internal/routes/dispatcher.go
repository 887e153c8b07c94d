package routes

import (
	"fmt"

	"github.com/mfulz/dyspatch/dispatch"
	"github.com/mfulz/dyspatch/interfaces"
	"github.com/mfulz/dyspatch/internal/logging"
)

// Dispatcher is the template of route table dispatchers.
var Dispatcher = dispatch.Template{
	Name:            "routes",
	RegistryFactory: NewTable,
}

// NewDispatcher builds a dispatcher serving every route of f. Each route
// handler is built by the backend named in its action.
func NewDispatcher(f *File, opts ...dispatch.Option) (*dispatch.Dispatcher, error) {
	d := Dispatcher.New(opts...)

	for _, key := range f.Keys() {
		route := f.Routes[key]

		backend, err := interfaces.GetBackend(route.Action)
		if err != nil {
			return nil, fmt.Errorf("route '%s': %w", key, err)
		}

		h, err := backend.Build(key, route)
		if err != nil {
			return nil, err
		}

		if err := d.Register(key, h); err != nil {
			return nil, err
		}
		logging.Log.Debugf("[routes] %s -> %s", key, route.Action)
	}

	return d, nil
}
