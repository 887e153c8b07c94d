package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mfulz/dyspatch/dispatch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mapRegistry is the smallest registry possible: exact keys, one handler each.
type mapRegistry struct {
	mapping map[any]dispatch.Handler
}

func newMapRegistry(*dispatch.Dispatcher) dispatch.Registry {
	return &mapRegistry{mapping: make(map[any]dispatch.Handler)}
}

func (r *mapRegistry) Register(key any, h dispatch.Handler) error {
	r.mapping[key] = h
	return nil
}

func (r *mapRegistry) Match(key any) (any, error) {
	h, ok := r.mapping[key]
	if !ok {
		return nil, dispatch.ErrNoMatch
	}
	return h, nil
}

func constant(v any) dispatch.Handler {
	return func(context.Context, ...any) (any, error) {
		return v, nil
	}
}

func TestMinimalImplementation(t *testing.T) {
	d := dispatch.New(dispatch.WithRegistryFactory(newMapRegistry))

	require.NoError(t, d.Register("foo", constant("bar")))

	res, err := d.Dispatch(context.Background(), "foo")
	require.NoError(t, err)
	assert.Equal(t, "bar", res)
}

func TestTemplateDefaults(t *testing.T) {
	tmpl := dispatch.Template{Name: "events", RegistryFactory: newMapRegistry}

	d := tmpl.New()
	assert.Equal(t, "events", d.Name())
	assert.IsType(t, &mapRegistry{}, d.Registry())
	assert.IsType(t, dispatch.DefaultCaller{}, d.Caller())

	require.NoError(t, d.Register("ping", constant("pong")))
	res, err := d.Dispatch(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", res)
}

func TestStrategyPrecedence(t *testing.T) {
	var built []string
	factory := func(label string) dispatch.RegistryFactory {
		return func(d *dispatch.Dispatcher) dispatch.Registry {
			built = append(built, label)
			return newMapRegistry(d)
		}
	}

	tmpl := dispatch.Template{
		RegistryFactory: factory("template-factory"),
	}

	tmpl.New()
	assert.Equal(t, []string{"template-factory"}, built)

	built = nil
	tmpl.BuildRegistry = factory("build-hook")
	tmpl.New()
	assert.Equal(t, []string{"build-hook"}, built)

	built = nil
	tmpl.New(dispatch.WithRegistryFactory(factory("option")))
	assert.Equal(t, []string{"option"}, built)

	built = nil
	instance := &mapRegistry{mapping: map[any]dispatch.Handler{}}
	d := tmpl.New(dispatch.WithRegistry(instance), dispatch.WithRegistryFactory(factory("option")))
	assert.Empty(t, built)
	assert.Same(t, instance, d.Registry())
}

func TestCallerPrecedence(t *testing.T) {
	tagged := func(tag string) dispatch.CallerFactory {
		return func(*dispatch.Dispatcher) dispatch.Caller {
			return dispatch.CallerFunc(func(context.Context, any, ...any) (any, error) {
				return tag, nil
			})
		}
	}

	tmpl := dispatch.Template{
		RegistryFactory: newMapRegistry,
		CallerFactory:   tagged("template-factory"),
	}

	cases := []struct {
		name string
		tmpl dispatch.Template
		opts []dispatch.Option
		want string
	}{
		{name: "template factory", tmpl: tmpl, want: "template-factory"},
		{name: "build hook", tmpl: withBuildCaller(tmpl, tagged("build-hook")), want: "build-hook"},
		{name: "option factory", tmpl: tmpl, opts: []dispatch.Option{dispatch.WithCallerFactory(tagged("option"))}, want: "option"},
		{name: "option instance", tmpl: tmpl, opts: []dispatch.Option{
			dispatch.WithCallerFactory(tagged("option")),
			dispatch.WithCaller(tagged("instance")(nil)),
		}, want: "instance"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.tmpl.New(tc.opts...)
			require.NoError(t, d.Register("k", constant(nil)))

			res, err := d.Dispatch(context.Background(), "k")
			require.NoError(t, err)
			assert.Equal(t, tc.want, res)
		})
	}
}

func withBuildCaller(t dispatch.Template, f dispatch.CallerFactory) dispatch.Template {
	t.BuildCaller = f
	return t
}

func TestFactoryReceivesDispatcher(t *testing.T) {
	var seen *dispatch.Dispatcher
	d := dispatch.New(
		dispatch.WithName("named"),
		dispatch.WithRegistryFactory(func(d *dispatch.Dispatcher) dispatch.Registry {
			seen = d
			assert.Equal(t, "named", d.Name())
			return newMapRegistry(d)
		}),
	)
	assert.Same(t, d, seen)
}

func TestNoRegistry(t *testing.T) {
	d := dispatch.New()
	assert.Nil(t, d.Registry())

	err := d.Register("foo", constant("bar"))
	require.ErrorIs(t, err, dispatch.ErrNotImplemented)
	assert.Contains(t, err.Error(), "no strategy to register a handler")
	assert.Contains(t, err.Error(), "WithRegistryFactory")

	_, err = d.Match("foo")
	require.ErrorIs(t, err, dispatch.ErrNotImplemented)
	assert.Contains(t, err.Error(), "no strategy to match a handler")

	_, err = d.Dispatch(context.Background(), "foo")
	require.ErrorIs(t, err, dispatch.ErrNotImplemented)
	assert.Contains(t, err.Error(), "no strategy to match a key")

	var serr *dispatch.StrategyError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, dispatch.OpMatch, serr.Op)
}

func TestNilRegistryFactory(t *testing.T) {
	noRegistry := func(*dispatch.Dispatcher) dispatch.Registry { return nil }
	d := dispatch.New(dispatch.WithRegistryFactory(noRegistry))
	assert.Nil(t, d.Registry())

	require.ErrorIs(t, d.Register("foo", constant("bar")), dispatch.ErrNotImplemented)

	_, err := d.Match("foo")
	require.ErrorIs(t, err, dispatch.ErrNotImplemented)

	_, err = d.Dispatch(context.Background(), "foo")
	require.ErrorIs(t, err, dispatch.ErrNotImplemented)
}

func TestStrategiesResolvedOnce(t *testing.T) {
	var registries, callers int
	d := dispatch.New(
		dispatch.WithRegistryFactory(func(d *dispatch.Dispatcher) dispatch.Registry {
			registries++
			return newMapRegistry(d)
		}),
		dispatch.WithCallerFactory(func(d *dispatch.Dispatcher) dispatch.Caller {
			callers++
			return dispatch.NewDefaultCaller(d)
		}),
	)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("key-%d", i)
		require.NoError(t, d.Register(key, constant(i)))
		res, err := d.Dispatch(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, i, res)
	}
	_, err := d.Call(ctx, constant("x"))
	require.NoError(t, err)

	assert.Equal(t, 1, registries)
	assert.Equal(t, 1, callers)
}

func TestNoCaller(t *testing.T) {
	noCaller := func(*dispatch.Dispatcher) dispatch.Caller { return nil }
	d := dispatch.New(
		dispatch.WithRegistryFactory(newMapRegistry),
		dispatch.WithCallerFactory(noCaller),
	)
	assert.Nil(t, d.Caller())
	require.NoError(t, d.Register("foo", constant("bar")))

	_, err := d.Call(context.Background(), constant("bar"))
	require.ErrorIs(t, err, dispatch.ErrNotImplemented)
	assert.Contains(t, err.Error(), "WithCallerFactory")

	_, err = d.Dispatch(context.Background(), "foo")
	var serr *dispatch.StrategyError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, dispatch.OpCall, serr.Op)
}

type brokenRegistry struct{}

var errBroken = errors.New("registry exploded")

func (brokenRegistry) Register(any, dispatch.Handler) error { return errBroken }
func (brokenRegistry) Match(any) (any, error)               { return nil, errBroken }

func TestRegistryErrorsAreNotMasked(t *testing.T) {
	d := dispatch.New(dispatch.WithRegistry(brokenRegistry{}))

	err := d.Register("foo", constant("bar"))
	require.ErrorIs(t, err, errBroken)
	assert.NotErrorIs(t, err, dispatch.ErrNotImplemented)

	_, err = d.Dispatch(context.Background(), "foo")
	require.ErrorIs(t, err, errBroken)
	assert.NotErrorIs(t, err, dispatch.ErrNotImplemented)
	assert.Contains(t, err.Error(), "foo")
}

func TestDispatchUnknownKey(t *testing.T) {
	d := dispatch.New(dispatch.WithRegistryFactory(newMapRegistry))

	_, err := d.Dispatch(context.Background(), "missing")
	require.ErrorIs(t, err, dispatch.ErrNoMatch)
	assert.Contains(t, err.Error(), "missing")
}

func TestDispatchPassesArgsAndContext(t *testing.T) {
	d := dispatch.New(dispatch.WithRegistryFactory(newMapRegistry))

	var ids []string
	require.NoError(t, d.Register("greet", func(ctx context.Context, args ...any) (any, error) {
		id, ok := dispatch.IDFromContext(ctx)
		require.True(t, ok)
		ids = append(ids, id)
		return fmt.Sprintf("hello %v", args[0]), nil
	}))

	res, err := d.Dispatch(context.Background(), "greet", "world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", res)

	_, err = d.Dispatch(context.Background(), "greet", "again")
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
	for _, id := range ids {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}

	_, ok := dispatch.IDFromContext(context.Background())
	assert.False(t, ok)
}

func TestHandlerErrorIsWrapped(t *testing.T) {
	errHandler := errors.New("handler failed")
	d := dispatch.New(dispatch.WithRegistryFactory(newMapRegistry))
	require.NoError(t, d.Register("fail", func(context.Context, ...any) (any, error) {
		return nil, errHandler
	}))

	_, err := d.Dispatch(context.Background(), "fail")
	require.ErrorIs(t, err, errHandler)
	assert.Contains(t, err.Error(), "dispatch fail")
}

// groupRegistry links several handlers to the same key.
type groupRegistry map[any][]dispatch.Handler

func (g groupRegistry) Register(key any, h dispatch.Handler) error {
	g[key] = append(g[key], h)
	return nil
}

func (g groupRegistry) Match(key any) (any, error) {
	return g[key], nil
}

func TestCustomCallerForGroups(t *testing.T) {
	broadcast := dispatch.CallerFunc(func(ctx context.Context, matched any, args ...any) (any, error) {
		var out []any
		for _, h := range matched.([]dispatch.Handler) {
			res, err := h(ctx, args...)
			if err != nil {
				return nil, err
			}
			out = append(out, res)
		}
		return out, nil
	})

	d := dispatch.New(dispatch.WithRegistry(groupRegistry{}), dispatch.WithCaller(broadcast))
	require.NoError(t, d.Register("evt", constant(1)))
	require.NoError(t, d.Register("evt", constant(2)))

	res, err := d.Dispatch(context.Background(), "evt")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, res)

	// the default caller cannot invoke a group
	d = dispatch.New(dispatch.WithRegistry(groupRegistry{"evt": {constant(1)}}))
	_, err = d.Dispatch(context.Background(), "evt")
	require.ErrorIs(t, err, dispatch.ErrNotCallable)
}

func TestDispatchLogsID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	d := dispatch.New(
		dispatch.WithRegistryFactory(newMapRegistry),
		dispatch.WithLogger(zap.New(core).Sugar()),
		dispatch.WithName("traced"),
	)
	require.NoError(t, d.Register("foo", constant("bar")))

	_, err := d.Dispatch(context.Background(), "foo")
	require.NoError(t, err)

	entries := logs.FilterMessage("dispatching").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "traced", fields["dispatcher"])
	assert.Equal(t, "foo", fields["key"])
	assert.NotEmpty(t, fields["id"])
}
