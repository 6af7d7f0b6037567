package builtins

import (
	"log/slog"

	"jscore/pkg/values"
)

// Initializer is implemented by each builtin module.
type Initializer interface {
	// Name returns the module name (e.g., "Object", "JSON")
	Name() string

	// Priority returns initialization order (lower = earlier)
	Priority() int

	// Init installs the module's globals
	Init(ctx *Context) error
}

// Context provides everything an initializer needs.
type Context struct {
	// The global object of the realm being built
	Global *values.Object

	// Define a global binding (writable, configurable, not enumerable)
	DefineGlobal func(name string, value values.Value) error

	Logger *slog.Logger
}

// Priority constants for initialization order
const (
	PriorityGlobals = 0   // Value properties of the global object
	PriorityObject  = 1   // Object constructor and statics
	PriorityError   = 2   // Error and the native error constructors
	PriorityRegExp  = 13  // RegExp constructor
	PriorityBigInt  = 14  // BigInt function
	PriorityJSON    = 101 // JSON object
)
