package builtins

import (
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

type RegExpInitializer struct{}

func (r *RegExpInitializer) Name() string {
	return "RegExp"
}

func (r *RegExpInitializer) Priority() int {
	return PriorityRegExp
}

func (r *RegExpInitializer) Init(ctx *Context) error {
	create := func(args []values.Value) (values.Value, error) {
		pattern, flags := values.Arg(args, 0), values.Arg(args, 1)
		var source string
		if pattern.IsObject() && pattern.AsObject().IsRegExp() {
			src, f := pattern.AsObject().RegExpSource()
			source = src
			if flags.IsUndefined() {
				flags = values.NewString(f)
			}
		} else if pattern.IsUndefined() {
			source = "(?:)"
		} else {
			s, err := pattern.ToString()
			if err != nil {
				return values.Undefined, err
			}
			source = s
		}
		f := ""
		if !flags.IsUndefined() {
			s, err := flags.ToString()
			if err != nil {
				return values.Undefined, err
			}
			f = s
		}
		re, err := values.NewRegExp(source, f)
		if err != nil {
			return values.Undefined, err
		}
		return values.ObjectValue(re), nil
	}
	ctor := newConstructor("RegExp", 2, values.RegExpPrototype, values.NativeConstructor{
		Fn: func(this values.Value, args []values.Value) (values.Value, error) {
			return create(args)
		},
		New: func(args []values.Value, newTarget *values.Object) (values.Value, error) {
			return create(args)
		},
	})

	exec := func(this values.Value, args []values.Value) (values.Value, error) {
		re, err := thisObject(this, "RegExp.prototype.exec")
		if err != nil {
			return values.Undefined, err
		}
		s, err := values.Arg(args, 0).ToString()
		if err != nil {
			return values.Undefined, err
		}
		return values.RegExpExec(re, s)
	}
	values.DefineMethod(values.RegExpPrototype, "exec", 1, exec)

	values.DefineMethod(values.RegExpPrototype, "test", 1, func(this values.Value, args []values.Value) (values.Value, error) {
		m, err := exec(this, args)
		if err != nil {
			return values.Undefined, err
		}
		return values.BooleanValue(!m.IsNull()), nil
	})

	values.DefineMethod(values.RegExpPrototype, "toString", 0, func(this values.Value, args []values.Value) (values.Value, error) {
		re, err := thisObject(this, "RegExp.prototype.toString")
		if err != nil {
			return values.Undefined, err
		}
		if !re.IsRegExp() {
			return values.Undefined, errors.Typef("RegExp.prototype.toString called on incompatible receiver %s", re.Inspect())
		}
		pattern, flags := re.RegExpSource()
		return values.NewString("/" + pattern + "/" + flags), nil
	})

	return ctx.DefineGlobal("RegExp", values.ObjectValue(ctor))
}
