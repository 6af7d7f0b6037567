package builtins

import (
	"math"

	"jscore/pkg/values"
)

type GlobalsInitializer struct{}

func (g *GlobalsInitializer) Name() string {
	return "Globals"
}

func (g *GlobalsInitializer) Priority() int {
	return PriorityGlobals
}

func (g *GlobalsInitializer) Init(ctx *Context) error {
	constant(ctx.Global, "NaN", values.NaN)
	constant(ctx.Global, "Infinity", values.NumberValue(math.Inf(1)))
	constant(ctx.Global, "undefined", values.Undefined)

	if err := ctx.DefineGlobal("globalThis", values.ObjectValue(ctx.Global)); err != nil {
		return err
	}
	if err := ctx.DefineGlobal("isNaN", values.NewNativeFunction("isNaN", 1, func(this values.Value, args []values.Value) (values.Value, error) {
		n, err := values.Arg(args, 0).ToNumber()
		if err != nil {
			return values.Undefined, err
		}
		return values.BooleanValue(math.IsNaN(n)), nil
	})); err != nil {
		return err
	}
	return ctx.DefineGlobal("isFinite", values.NewNativeFunction("isFinite", 1, func(this values.Value, args []values.Value) (values.Value, error) {
		n, err := values.Arg(args, 0).ToNumber()
		if err != nil {
			return values.Undefined, err
		}
		return values.BooleanValue(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	}))
}
