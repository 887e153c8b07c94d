// Package configloader provides a generic runtime registry for configuration
// instances in dyspatch. It lets the CLI and its subsystems register and
// retrieve their specific configuration types in a type-safe, singleton manner.
//
// Typical usage:
//
//	type Config struct { ... }
//	func init() {
//	    configloader.RegisterConfig(&Config{...})
//	}
//	cfg := configloader.MustGetConfig[*Config]()
package configloader

import (
	"fmt"
	"reflect"
	"sync"
)

var registry sync.Map // key = reflect.Type of the config type, value = registered config instance

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterConfig registers a config instance of type T for global access.
//
// It panics if a config of the same type is already registered.
func RegisterConfig[T any](cfg T) {
	t := typeOf[T]()
	if _, loaded := registry.LoadOrStore(t, cfg); loaded {
		panic(fmt.Sprintf("config already registered for type %v", t))
	}
}

// ReplaceConfig registers cfg for type T, replacing any previous instance.
// Used when a configuration is reloaded after startup.
func ReplaceConfig[T any](cfg T) {
	registry.Store(typeOf[T](), cfg)
}

// MustGetConfig retrieves the registered config instance of type T.
//
// It panics if no config of type T has been registered.
func MustGetConfig[T any]() T {
	t := typeOf[T]()
	if val, ok := registry.Load(t); ok {
		return val.(T)
	}
	panic(fmt.Sprintf("no config registered for type %v", t))
}

// TryGetConfig retrieves the registered config instance of type T.
//
// It returns (zero-value, false) if the config was not found.
func TryGetConfig[T any]() (T, bool) {
	if val, ok := registry.Load(typeOf[T]()); ok {
		return val.(T), true
	}
	var zero T
	return zero, false
}
