package builtins

import (
	"fmt"
	"sort"
)

// Standard returns all built-in initializers sorted by priority.
func Standard() []Initializer {
	initializers := []Initializer{
		&JSONInitializer{},
		&GlobalsInitializer{},
		&ObjectInitializer{},
		&ErrorInitializer{},
		&RegExpInitializer{},
		&BigIntInitializer{},
	}

	// Sort by priority (lower numbers first)
	sort.SliceStable(initializers, func(i, j int) bool {
		return initializers[i].Priority() < initializers[j].Priority()
	})

	return initializers
}

// Install runs each initializer in order, stopping at the first failure.
func Install(ctx *Context, initializers []Initializer) error {
	for _, init := range initializers {
		if ctx.Logger != nil {
			ctx.Logger.Debug("installing builtin", "name", init.Name(), "priority", init.Priority())
		}
		if err := init.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", init.Name(), err)
		}
	}
	return nil
}
