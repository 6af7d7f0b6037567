// Package builtins installs the standard global bindings into a realm's
// global object.
package builtins

import (
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

// newConstructor builds a constructor function and links it with proto in
// both directions.
func newConstructor(name string, length int, proto *values.Object, ctor values.NativeConstructor) *values.Object {
	c := values.NewFunctionObject(name, length, ctor)
	c.SetProperty("prototype", values.NewDataProperty(values.ObjectValue(proto), false, false, false))
	proto.SetProperty("constructor", values.NewDataProperty(values.ObjectValue(c), true, false, true))
	return c
}

// constant installs a read-only, non-enumerable, non-configurable property.
func constant(o *values.Object, name string, v values.Value) {
	o.SetProperty(name, values.NewDataProperty(v, false, false, false))
}

// toIndex is ToIndex: a non-negative integer no larger than 2^53 - 1.
func toIndex(v values.Value) (int64, error) {
	if v.IsUndefined() {
		return 0, nil
	}
	n, err := v.ToIntegerOrInfinity()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 9007199254740991 {
		return 0, errors.Rangef("Invalid index: %s", values.NumberToString(n))
	}
	return int64(n), nil
}

// thisObject requires an object receiver for a prototype method.
func thisObject(this values.Value, method string) (*values.Object, error) {
	if !this.IsObject() {
		return nil, errors.Typef("%s called on non-object %s", method, this.Inspect())
	}
	return this.AsObject(), nil
}
