// Package realm ties the value model and the environment records together: a
// Realm owns the global object and global record, and a Context is the
// running scope chain a tree-walking executor drives.
package realm

import (
	"fmt"
	"log/slog"
	"os"

	"jscore/pkg/builtins"
	"jscore/pkg/config"
	"jscore/pkg/environment"
	"jscore/pkg/values"
)

type Realm struct {
	opts   config.Options
	logger *slog.Logger
	global *values.Object
	record *environment.GlobalRecord
	depth  int
}

// New builds a realm with the standard builtins installed. Zero option fields
// take their defaults.
func New(opts config.Options) (*Realm, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	level, _ := opts.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// The compiled pattern cache is shared by every realm in the process; the
	// most recently created realm sets its bound.
	values.SetRegExpCacheSize(max(opts.RegExpCacheSize, 0))

	global := values.NewObject(values.ObjectPrototype)
	r := &Realm{
		opts:   opts,
		logger: logger,
		global: global,
		record: environment.NewGlobalRecord(global),
	}
	r.record.SetAssertions(opts.AssertBindings)
	ctx := &builtins.Context{
		Global: global,
		DefineGlobal: func(name string, v values.Value) error {
			return global.DefinePropertyOrThrow(name, values.DataDescriptor(v, true, false, true))
		},
		Logger: logger,
	}
	if err := builtins.Install(ctx, builtins.Standard()); err != nil {
		return nil, fmt.Errorf("failed to create realm: %w", err)
	}
	logger.Debug("realm ready", slog.Int("globals", global.PropertyCount()), slog.Bool("strict", opts.Strict))
	return r, nil
}

func (r *Realm) Options() config.Options                 { return r.opts }
func (r *Realm) Logger() *slog.Logger                    { return r.logger }
func (r *Realm) GlobalObject() *values.Object            { return r.global }
func (r *Realm) GlobalRecord() *environment.GlobalRecord { return r.record }

// SetLogger replaces the logger built from the options.
func (r *Realm) SetLogger(l *slog.Logger) { r.logger = l }

// NewContext starts a top-level execution context over the global record.
func (r *Realm) NewContext() *Context {
	return &Context{realm: r, chain: environment.NewChain(r.record), strict: r.opts.Strict}
}

// Define exposes a host value as a global property.
func (r *Realm) Define(name string, x any) error {
	return r.global.DefinePropertyOrThrow(name, values.DataDescriptor(values.ToValue(x), true, true, true))
}

// Catch turns any error produced while running script code into the value a
// catch clause would bind.
func (r *Realm) Catch(err error) values.Value {
	return values.ErrorValue(err)
}
