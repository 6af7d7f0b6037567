package environment

import (
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

// ObjectRecord binds the own string-keyed properties of a binding object. It
// backs with statements when withEnvironment is set.
type ObjectRecord struct {
	link
	bindings        *values.Object
	withEnvironment bool
	assert          bool
}

func NewObjectRecord(bindings *values.Object, withEnvironment bool) *ObjectRecord {
	return &ObjectRecord{bindings: bindings, withEnvironment: withEnvironment}
}

// SetAssertions toggles checks that only hold for a well-behaved executor.
// With them on, SetMutableBinding panics unless the value is an object or
// function.
func (o *ObjectRecord) SetAssertions(on bool) { o.assert = on }

// BindingObject returns the object whose properties are the bindings.
func (o *ObjectRecord) BindingObject() *values.Object { return o.bindings }

// HasBinding looks at own properties only. Symbol.unscopables is not consulted
// for with scopes.
func (o *ObjectRecord) HasBinding(name string) bool {
	return o.bindings.HasOwnProperty(name)
}

// CreateMutableBinding installs name with an Undefined placeholder. Repeating
// it leaves the same shape behind.
func (o *ObjectRecord) CreateMutableBinding(name string, deletable bool) error {
	o.bindings.SetProperty(name, values.NewDataProperty(values.Undefined, true, true, deletable))
	return nil
}

// CreateImmutableBinding is a no-op: object records cannot host immutable
// bindings, so const and friends always live in declarative records.
func (o *ObjectRecord) CreateImmutableBinding(name string, strict bool) bool {
	return true
}

func (o *ObjectRecord) InitializeBinding(name string, v values.Value) error {
	if !o.HasBinding(name) {
		errors.Invariant("binding %s initialized before it was created", name)
	}
	return o.bindings.UpdateProperty(name, v, false)
}

func (o *ObjectRecord) SetMutableBinding(name string, v values.Value, strict bool) error {
	if o.assert && !v.IsObject() {
		errors.Invariant("object record binding %s assigned non-object %s", name, v.TypeOf())
	}
	if !o.HasBinding(name) {
		if strict {
			return errors.Referencef("%s is not defined", name)
		}
		return o.bindings.Set(name, v, false)
	}
	return o.bindings.UpdateProperty(name, v, strict)
}

func (o *ObjectRecord) GetBindingValue(name string, strict bool) (values.Value, error) {
	if !o.HasBinding(name) {
		if strict {
			return values.Undefined, errors.Referencef("%s is not defined", name)
		}
		return values.Undefined, nil
	}
	return o.bindings.Get(name)
}

// DeleteBinding removes the property whatever its attributes and always
// reports success.
func (o *ObjectRecord) DeleteBinding(name string) bool {
	o.bindings.RemoveProperty(name)
	return true
}

func (o *ObjectRecord) HasThisBinding() bool  { return false }
func (o *ObjectRecord) HasSuperBinding() bool { return false }

func (o *ObjectRecord) WithBaseObject() values.Value {
	if o.withEnvironment {
		return values.ObjectValue(o.bindings)
	}
	return values.Undefined
}

func (o *ObjectRecord) EnvironmentType() Type { return Object }
