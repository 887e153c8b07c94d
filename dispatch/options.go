package dispatch

import "go.uber.org/zap"

// Option configures a Dispatcher at construction time. Options take
// precedence over the Template the dispatcher is built from.
type Option func(*options)

type options struct {
	registry        Registry
	registryFactory RegistryFactory
	caller          Caller
	callerFactory   CallerFactory
	logger          *zap.SugaredLogger
	name            string
}

// WithRegistry uses r as the registry, bypassing every factory.
func WithRegistry(r Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithRegistryFactory builds the registry with f instead of the template.
func WithRegistryFactory(f RegistryFactory) Option {
	return func(o *options) {
		o.registryFactory = f
	}
}

// WithCaller uses c as the caller, bypassing every factory.
func WithCaller(c Caller) Option {
	return func(o *options) {
		o.caller = c
	}
}

// WithCallerFactory builds the caller with f instead of the template.
func WithCallerFactory(f CallerFactory) Option {
	return func(o *options) {
		o.callerFactory = f
	}
}

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithName overrides the template name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
