package environment

import (
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

// Reference is a resolved identifier. Base is nil when no record binds Name.
type Reference struct {
	Name   string
	Base   Record
	Strict bool
	global *values.Object
}

func (r Reference) IsUnresolvable() bool { return r.Base == nil }

func (r Reference) GetValue() (values.Value, error) {
	if r.IsUnresolvable() {
		return values.Undefined, errors.Referencef("%s is not defined", r.Name)
	}
	return r.Base.GetBindingValue(r.Name, r.Strict)
}

// PutValue assigns through the reference. An unresolvable name is a
// ReferenceError in strict code and becomes a global object property
// otherwise.
func (r Reference) PutValue(v values.Value) error {
	if r.IsUnresolvable() {
		if r.Strict {
			return errors.Referencef("%s is not defined", r.Name)
		}
		if r.global == nil {
			errors.Invariant("unresolvable reference %s has no global object", r.Name)
		}
		return r.global.Set(r.Name, v, false)
	}
	return r.Base.SetMutableBinding(r.Name, v, r.Strict)
}

// Delete is the delete operator applied to an identifier.
func (r Reference) Delete() bool {
	if r.IsUnresolvable() {
		return true
	}
	return r.Base.DeleteBinding(r.Name)
}

// ThisValue is the receiver for a call through this reference: the with
// object for with-scope bindings, Undefined otherwise.
func (r Reference) ThisValue() values.Value {
	if r.IsUnresolvable() {
		return values.Undefined
	}
	return r.Base.WithBaseObject()
}
