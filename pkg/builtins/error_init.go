package builtins

import (
	"jscore/pkg/values"
)

type ErrorInitializer struct{}

func (e *ErrorInitializer) Name() string {
	return "Error"
}

func (e *ErrorInitializer) Priority() int {
	return PriorityError
}

func (e *ErrorInitializer) Init(ctx *Context) error {
	base := errorConstructor("Error", values.ErrorPrototype)
	if err := ctx.DefineGlobal("Error", values.ObjectValue(base)); err != nil {
		return err
	}
	for _, name := range values.NativeErrorNames {
		ctor := errorConstructor(name, values.NativeErrorPrototype(name))
		ctor.SetPrototype(base)
		if err := ctx.DefineGlobal(name, values.ObjectValue(ctor)); err != nil {
			return err
		}
	}
	return nil
}

// errorConstructor builds a constructor that behaves the same whether called
// or used with new: Error(message, { cause }).
func errorConstructor(name string, proto *values.Object) *values.Object {
	create := func(args []values.Value) (values.Value, error) {
		obj := values.NewError(name, "")
		if msg := values.Arg(args, 0); !msg.IsUndefined() {
			s, err := msg.ToString()
			if err != nil {
				return values.Undefined, err
			}
			obj.SetProperty("message", values.NewDataProperty(values.NewString(s), true, false, true))
		} else {
			obj.RemoveProperty("message")
		}
		if opts := values.Arg(args, 1); opts.IsObject() && opts.AsObject().HasProperty("cause") {
			cause, err := opts.AsObject().Get("cause")
			if err != nil {
				return values.Undefined, err
			}
			obj.SetProperty("cause", values.NewDataProperty(cause, true, false, true))
		}
		return values.ObjectValue(obj), nil
	}
	return newConstructor(name, 1, proto, values.NativeConstructor{
		Fn: func(this values.Value, args []values.Value) (values.Value, error) {
			return create(args)
		},
		New: func(args []values.Value, newTarget *values.Object) (values.Value, error) {
			return create(args)
		},
	})
}
