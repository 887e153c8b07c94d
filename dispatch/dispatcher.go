// Package dispatch provides the building blocks for dispatchers: objects that
// link keys to handlers and later invoke the matching handler(s) for a key.
//
// All dispatchers follow the same structure:
//
//   - a Registry defines how keys are linked to handlers and how a key is
//     later matched against them. Often this is a mapping from strings to
//     functions.
//   - a Caller defines how matched handlers are invoked: how arguments are
//     passed to them, how errors are handled, and so on.
//   - Register delegates linking to the registry, e.g.
//     d.Register("foo.bar", doStuff).
//   - Dispatch uses the registry to find the handler(s) and the caller to
//     invoke them, so that d.Dispatch(ctx, "foo.bar", "value") ends up as
//     doStuff(ctx, "value").
//
// The package ships no concrete registry. Strategies are supplied through
// options or through a Template describing a family of dispatchers:
//
//	var Events = dispatch.Template{
//		Name:            "events",
//		RegistryFactory: newEventRegistry,
//	}
//
//	d := Events.New()
//	_ = d.Register("user.created", onUserCreated)
//	res, err := d.Dispatch(ctx, "user.created", user)
package dispatch

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mfulz/dyspatch/internal/logging"
)

// Template holds the type-level defaults of a dispatcher family. Its zero
// value describes a dispatcher without registry and with the DefaultCaller.
type Template struct {
	// Name labels dispatchers built from the template in logs.
	Name string

	// RegistryFactory builds the registry when no option provides one.
	RegistryFactory RegistryFactory

	// CallerFactory builds the caller when no option provides one.
	// Defaults to NewDefaultCaller.
	CallerFactory CallerFactory

	// BuildRegistry replaces the registry build step. When set,
	// RegistryFactory is ignored.
	BuildRegistry func(d *Dispatcher) Registry

	// BuildCaller replaces the caller build step. When set, CallerFactory
	// is ignored.
	BuildCaller func(d *Dispatcher) Caller
}

// Dispatcher links keys to handlers through its Registry and invokes them
// through its Caller. Strategies are resolved once, by New.
type Dispatcher struct {
	name     string
	registry Registry
	caller   Caller
	log      *zap.SugaredLogger
}

// New creates a dispatcher from the zero Template.
func New(opts ...Option) *Dispatcher {
	return Template{}.New(opts...)
}

// New creates a dispatcher with its strategies resolved in order: an
// instance passed as option, a factory passed as option, the template build
// hook, the template factory. A factory returning nil leaves the strategy
// unset and the matching operations report a *StrategyError.
func (t Template) New(opts ...Option) *Dispatcher {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	d := &Dispatcher{name: t.Name}
	if o.name != "" {
		d.name = o.name
	}
	if d.name == "" {
		d.name = "dispatcher"
	}

	log := o.logger
	if log == nil {
		log = logging.Log.Named("dispatch")
	}
	d.log = log.With("dispatcher", d.name)

	switch {
	case o.registry != nil:
		d.registry = o.registry
	case o.registryFactory != nil:
		d.registry = o.registryFactory(d)
	default:
		d.registry = t.buildRegistry(d)
	}

	switch {
	case o.caller != nil:
		d.caller = o.caller
	case o.callerFactory != nil:
		d.caller = o.callerFactory(d)
	default:
		d.caller = t.buildCaller(d)
	}

	d.log.Debugf("built with registry=%T caller=%T", d.registry, d.caller)
	return d
}

func (t Template) buildRegistry(d *Dispatcher) Registry {
	if t.BuildRegistry != nil {
		return t.BuildRegistry(d)
	}
	if t.RegistryFactory != nil {
		return t.RegistryFactory(d)
	}
	return nil
}

func (t Template) buildCaller(d *Dispatcher) Caller {
	if t.BuildCaller != nil {
		return t.BuildCaller(d)
	}
	if t.CallerFactory != nil {
		return t.CallerFactory(d)
	}
	return NewDefaultCaller(d)
}

// Name returns the dispatcher label.
func (d *Dispatcher) Name() string {
	return d.name
}

// Registry returns the resolved registry, or nil.
func (d *Dispatcher) Registry() Registry {
	return d.registry
}

// Caller returns the resolved caller, or nil.
func (d *Dispatcher) Caller() Caller {
	return d.caller
}

// Register links h to key through the registry.
func (d *Dispatcher) Register(key any, h Handler) error {
	if d.registry == nil {
		return &StrategyError{Op: OpRegister}
	}
	if err := d.registry.Register(key, h); err != nil {
		return wrapKey("register", key, err)
	}
	d.log.Debugf("registered handler for %v", key)
	return nil
}

// Match returns the handler or group of handlers the registry finds for key.
func (d *Dispatcher) Match(key any) (any, error) {
	if d.registry == nil {
		return nil, &StrategyError{Op: OpMatch}
	}
	matched, err := d.registry.Match(key)
	if err != nil {
		return nil, wrapKey("match", key, err)
	}
	return matched, nil
}

// Call invokes matched through the caller and returns whatever it returns.
func (d *Dispatcher) Call(ctx context.Context, matched any, args ...any) (any, error) {
	if d.caller == nil {
		return nil, &StrategyError{Op: OpCall}
	}
	return d.caller.Call(ctx, matched, args...)
}

// Dispatch matches key then calls the result with args. The context passed
// to the caller carries a fresh dispatch ID, see IDFromContext.
func (d *Dispatcher) Dispatch(ctx context.Context, key any, args ...any) (any, error) {
	if d.registry == nil {
		return nil, &StrategyError{Op: OpMatch, dispatching: true}
	}

	id := uuid.NewString()
	ctx = withID(ctx, id)
	log := d.log.With("id", id, "key", key)

	matched, err := d.Match(key)
	if err != nil {
		log.Debugf("match failed: %v", err)
		return nil, err
	}

	if d.caller == nil {
		return nil, &StrategyError{Op: OpCall}
	}

	log.Debugw("dispatching", "matched", matched != nil)
	res, err := d.caller.Call(ctx, matched, args...)
	if err != nil {
		log.Debugf("call failed: %v", err)
		return nil, wrapKey("dispatch", key, err)
	}
	return res, nil
}
