// Package routes builds the concrete dispatcher of the dyspatch CLI: a YAML
// route table whose keys are matched exactly and whose handlers are built by
// action backends.
package routes

import (
	"fmt"
	"os"
	"sort"

	"github.com/mfulz/dyspatch/interfaces"
	"github.com/mfulz/dyspatch/internal/configloader"
	"gopkg.in/yaml.v3"
)

// File represents the routes file.
//
// Example:
//
//	routes:
//	  hello:
//	    action: echo
//	    message: "hello {{ARGS}}"
//	  uptime:
//	    action: exec
//	    command: uptime
type File struct {
	Routes map[string]interfaces.Route `yaml:"routes"`
}

// ResolvePath returns explicit if set, otherwise the routes.yaml found by
// configloader.ResolveConfigPath.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return configloader.ResolveConfigPath("dyspatch", "routes.yaml")
}

// LoadFile reads and parses the routes file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse routes %s: %w", path, err)
	}
	if f.Routes == nil {
		f.Routes = make(map[string]interfaces.Route)
	}
	return &f, nil
}

// Keys returns the route keys in sorted order.
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.Routes))
	for k := range f.Routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
