package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/mfulz/dyspatch/dispatch"
	"github.com/mfulz/dyspatch/interfaces"
)

// echoBackend renders a message template.
type echoBackend struct{}

func init() {
	interfaces.RegisterBackend(echoBackend{})
}

func (echoBackend) Kind() string {
	return "echo"
}

func (echoBackend) Build(key string, route interfaces.Route) (dispatch.Handler, error) {
	if route.Message == "" {
		return nil, fmt.Errorf("route '%s': echo action requires a message", key)
	}

	return func(_ context.Context, args ...any) (any, error) {
		return render(route.Message, key, args), nil
	}, nil
}

// render replaces the {{KEY}} and {{ARGS}} placeholders of tmpl.
func render(tmpl, key string, args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%v", a)
	}
	return strings.NewReplacer(
		"{{KEY}}", key,
		"{{ARGS}}", strings.Join(parts, " "),
	).Replace(tmpl)
}
