package builtins

import (
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

type ObjectInitializer struct{}

func (o *ObjectInitializer) Name() string {
	return "Object"
}

func (o *ObjectInitializer) Priority() int {
	return PriorityObject
}

func (o *ObjectInitializer) Init(ctx *Context) error {
	toObject := func(args []values.Value) (values.Value, error) {
		v := values.Arg(args, 0)
		if v.IsNullish() {
			return values.ObjectValue(values.NewObject(values.ObjectPrototype)), nil
		}
		obj, err := v.ToObject()
		if err != nil {
			return values.Undefined, err
		}
		return values.ObjectValue(obj), nil
	}
	ctor := newConstructor("Object", 1, values.ObjectPrototype, values.NativeConstructor{
		Fn: func(this values.Value, args []values.Value) (values.Value, error) {
			return toObject(args)
		},
		New: func(args []values.Value, newTarget *values.Object) (values.Value, error) {
			return toObject(args)
		},
	})

	values.DefineMethod(ctor, "keys", 1, func(this values.Value, args []values.Value) (values.Value, error) {
		obj, err := values.Arg(args, 0).ToObject()
		if err != nil {
			return values.Undefined, err
		}
		return keyArray(obj.EnumerableOwnKeys()), nil
	})

	values.DefineMethod(ctor, "getOwnPropertyNames", 1, func(this values.Value, args []values.Value) (values.Value, error) {
		obj, err := values.Arg(args, 0).ToObject()
		if err != nil {
			return values.Undefined, err
		}
		return keyArray(obj.OwnKeys()), nil
	})

	values.DefineMethod(ctor, "defineProperty", 3, func(this values.Value, args []values.Value) (values.Value, error) {
		target := values.Arg(args, 0)
		if !target.IsObject() {
			return values.Undefined, errors.Typef("Object.defineProperty called on non-object")
		}
		key, err := values.Arg(args, 1).ToPropertyKey()
		if err != nil {
			return values.Undefined, err
		}
		desc, err := values.ToDescriptor(values.Arg(args, 2))
		if err != nil {
			return values.Undefined, err
		}
		if err := target.AsObject().DefinePropertyOrThrow(key, desc); err != nil {
			return values.Undefined, err
		}
		return target, nil
	})

	values.DefineMethod(ctor, "getOwnPropertyDescriptor", 2, func(this values.Value, args []values.Value) (values.Value, error) {
		obj, err := values.Arg(args, 0).ToObject()
		if err != nil {
			return values.Undefined, err
		}
		key, err := values.Arg(args, 1).ToPropertyKey()
		if err != nil {
			return values.Undefined, err
		}
		p, ok := obj.GetOwnProperty(key)
		if !ok {
			return values.Undefined, nil
		}
		return values.ObjectValue(values.FromProperty(p)), nil
	})

	values.DefineMethod(ctor, "getPrototypeOf", 1, func(this values.Value, args []values.Value) (values.Value, error) {
		obj, err := values.Arg(args, 0).ToObject()
		if err != nil {
			return values.Undefined, err
		}
		if proto := obj.GetPrototype(); proto != nil {
			return values.ObjectValue(proto), nil
		}
		return values.Null, nil
	})

	values.DefineMethod(ctor, "setPrototypeOf", 2, func(this values.Value, args []values.Value) (values.Value, error) {
		target, proto := values.Arg(args, 0), values.Arg(args, 1)
		if target.IsNullish() {
			return values.Undefined, errors.Typef("Object.setPrototypeOf called on null or undefined")
		}
		if !proto.IsObject() && !proto.IsNull() {
			return values.Undefined, errors.Typef("Object prototype may only be an Object or null: %s", proto.Inspect())
		}
		if !target.IsObject() {
			return target, nil
		}
		var p *values.Object
		if proto.IsObject() {
			p = proto.AsObject()
		}
		if !target.AsObject().SetPrototype(p) {
			return values.Undefined, errors.Typef("Cyclic __proto__ value")
		}
		return target, nil
	})

	values.DefineMethod(ctor, "preventExtensions", 1, func(this values.Value, args []values.Value) (values.Value, error) {
		target := values.Arg(args, 0)
		if target.IsObject() {
			target.AsObject().PreventExtensions()
		}
		return target, nil
	})

	values.DefineMethod(ctor, "isExtensible", 1, func(this values.Value, args []values.Value) (values.Value, error) {
		target := values.Arg(args, 0)
		return values.BooleanValue(target.IsObject() && target.AsObject().IsExtensible()), nil
	})

	return ctx.DefineGlobal("Object", values.ObjectValue(ctor))
}

func keyArray(keys []string) values.Value {
	elems := make([]values.Value, len(keys))
	for i, k := range keys {
		elems[i] = values.NewString(k)
	}
	return values.NewArray(elems...)
}
