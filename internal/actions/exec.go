// Package actions provides the concrete action backends of the dyspatch CLI.
// Backends register themselves on import; binaries pull them in with a
// blank import.
package actions

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mfulz/dyspatch/dispatch"
	"github.com/mfulz/dyspatch/interfaces"
	"github.com/mfulz/dyspatch/internal/logging"
)

// waitDelay bounds how long a cancelled command may keep its pipes open.
const waitDelay = 2 * time.Second

// execBackend runs an external command for every dispatch.
type execBackend struct{}

func init() {
	interfaces.RegisterBackend(execBackend{})
}

func (execBackend) Kind() string {
	return "exec"
}

// Build validates the route and returns a handler launching its command.
func (execBackend) Build(key string, route interfaces.Route) (dispatch.Handler, error) {
	if route.Command == "" {
		return nil, fmt.Errorf("route '%s': exec action requires a command", key)
	}

	return func(ctx context.Context, args ...any) (any, error) {
		return launch(ctx, key, route, args)
	}, nil
}

// launch executes the route command with the dispatch args appended. It
// applies the route environment on top of the process environment.
func launch(ctx context.Context, key string, route interfaces.Route, args []any) (any, error) {
	argv := append([]string(nil), route.Args...)
	for _, a := range args {
		argv = append(argv, fmt.Sprintf("%v", a))
	}

	cmd := exec.CommandContext(ctx, route.Command, argv...)
	cmd.Dir = route.Dir
	cmd.WaitDelay = waitDelay
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr

	env := os.Environ()
	for k, v := range route.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	env = append(env, "DYSPATCH_KEY="+key)
	if id, ok := dispatch.IDFromContext(ctx); ok {
		env = append(env, "DYSPATCH_ID="+id)
	}
	cmd.Env = env

	logging.Log.Debugf("[exec] %s: %s %v", key, route.Command, argv)

	if !route.Capture {
		cmd.Stdout = os.Stdout
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("command '%s' failed: %w", route.Command, err)
		}
		return nil, nil
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("command '%s' failed: %w", route.Command, err)
	}
	return strings.TrimSpace(out.String()), nil
}
