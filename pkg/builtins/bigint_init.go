package builtins

import (
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

type BigIntInitializer struct{}

func (b *BigIntInitializer) Name() string {
	return "BigInt"
}

func (b *BigIntInitializer) Priority() int {
	return PriorityBigInt
}

func (b *BigIntInitializer) Init(ctx *Context) error {
	// BigInt is callable but not a constructor.
	fn := values.NewFunctionObject("BigInt", 1, values.NativeFunc(func(this values.Value, args []values.Value) (values.Value, error) {
		prim, err := values.Arg(args, 0).ToPrimitive(values.HintNumber)
		if err != nil {
			return values.Undefined, err
		}
		if prim.IsNumber() {
			n, err := values.BigIntFromFloat(prim.AsNumber())
			if err != nil {
				return values.Undefined, err
			}
			return values.NewBigInt(n), nil
		}
		n, err := prim.ToBigInt()
		if err != nil {
			return values.Undefined, err
		}
		return values.NewBigInt(n), nil
	}))

	asN := func(signed bool) values.NativeFunc {
		return func(this values.Value, args []values.Value) (values.Value, error) {
			bits, err := toIndex(values.Arg(args, 0))
			if err != nil {
				return values.Undefined, err
			}
			n, err := values.Arg(args, 1).ToBigInt()
			if err != nil {
				return values.Undefined, err
			}
			if !signed && n.Sign() < 0 && bits > values.MaxBigIntBits {
				return values.Undefined, errors.Rangef("Maximum BigInt size exceeded")
			}
			if signed {
				return values.NewBigInt(n.AsIntN(uint(bits))), nil
			}
			return values.NewBigInt(n.AsUintN(uint(bits))), nil
		}
	}
	values.DefineMethod(fn, "asIntN", 2, asN(true))
	values.DefineMethod(fn, "asUintN", 2, asN(false))

	return ctx.DefineGlobal("BigInt", values.ObjectValue(fn))
}
