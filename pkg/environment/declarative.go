package environment

import (
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

type binding struct {
	value       values.Value
	mutable     bool
	initialized bool
	deletable   bool
	strict      bool
}

// DeclarativeRecord stores let, const, class and parameter bindings directly.
type DeclarativeRecord struct {
	link
	bindings map[string]*binding
}

func NewDeclarativeRecord() *DeclarativeRecord {
	return &DeclarativeRecord{bindings: make(map[string]*binding)}
}

func (d *DeclarativeRecord) HasBinding(name string) bool {
	_, ok := d.bindings[name]
	return ok
}

// HasInitializedBinding reports whether name is bound and out of its
// temporal dead zone.
func (d *DeclarativeRecord) HasInitializedBinding(name string) bool {
	b, ok := d.bindings[name]
	return ok && b.initialized
}

func (d *DeclarativeRecord) CreateMutableBinding(name string, deletable bool) error {
	if d.HasBinding(name) {
		errors.Invariant("binding %s already exists", name)
	}
	d.bindings[name] = &binding{value: values.Undefined, mutable: true, deletable: deletable}
	return nil
}

func (d *DeclarativeRecord) CreateImmutableBinding(name string, strict bool) bool {
	if d.HasBinding(name) {
		errors.Invariant("binding %s already exists", name)
	}
	d.bindings[name] = &binding{value: values.Undefined, strict: strict}
	return true
}

func (d *DeclarativeRecord) InitializeBinding(name string, v values.Value) error {
	b, ok := d.bindings[name]
	if !ok {
		errors.Invariant("binding %s initialized before it was created", name)
	}
	if b.initialized {
		errors.Invariant("binding %s initialized twice", name)
	}
	b.value = v
	b.initialized = true
	return nil
}

func (d *DeclarativeRecord) SetMutableBinding(name string, v values.Value, strict bool) error {
	b, ok := d.bindings[name]
	if !ok {
		if strict {
			return errors.Referencef("%s is not defined", name)
		}
		d.CreateMutableBinding(name, true)
		return d.InitializeBinding(name, v)
	}
	if b.strict {
		strict = true
	}
	switch {
	case !b.initialized:
		return errors.Referencef("Cannot access '%s' before initialization", name)
	case b.mutable:
		b.value = v
	case strict:
		return errors.Typef("Assignment to constant variable '%s'", name)
	}
	return nil
}

func (d *DeclarativeRecord) GetBindingValue(name string, strict bool) (values.Value, error) {
	b, ok := d.bindings[name]
	if !ok {
		return values.Undefined, errors.Referencef("%s is not defined", name)
	}
	if !b.initialized {
		return values.Undefined, errors.Referencef("Cannot access '%s' before initialization", name)
	}
	return b.value, nil
}

func (d *DeclarativeRecord) DeleteBinding(name string) bool {
	b, ok := d.bindings[name]
	if !ok {
		return true
	}
	if !b.deletable {
		return false
	}
	delete(d.bindings, name)
	return true
}

func (d *DeclarativeRecord) HasThisBinding() bool         { return false }
func (d *DeclarativeRecord) HasSuperBinding() bool        { return false }
func (d *DeclarativeRecord) WithBaseObject() values.Value { return values.Undefined }
func (d *DeclarativeRecord) EnvironmentType() Type        { return Declarative }
