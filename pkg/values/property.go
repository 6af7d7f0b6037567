package values

import "jscore/pkg/errors"

// Property is a named slot on an object: either a data property holding a
// value or an accessor property holding a getter/setter pair.
type Property struct {
	value        Value
	getter       *Object
	setter       *Object
	accessor     bool
	writable     bool
	enumerable   bool
	configurable bool
}

func NewDataProperty(value Value, writable, enumerable, configurable bool) Property {
	return Property{
		value:        value,
		writable:     writable,
		enumerable:   enumerable,
		configurable: configurable,
	}
}

// NewAccessorProperty builds an accessor; a nil getter or setter means
// undefined.
func NewAccessorProperty(get, set *Object, enumerable, configurable bool) Property {
	return Property{
		getter:       get,
		setter:       set,
		accessor:     true,
		enumerable:   enumerable,
		configurable: configurable,
		value:        Undefined,
	}
}

func (p Property) IsAccessor() bool   { return p.accessor }
func (p Property) IsData() bool       { return !p.accessor }
func (p Property) Getter() *Object    { return p.getter }
func (p Property) Setter() *Object    { return p.setter }
func (p Property) Enumerable() bool   { return p.enumerable }
func (p Property) Configurable() bool { return p.configurable }

// Value is the stored value; accessors report Undefined.
func (p Property) Value() Value {
	if p.accessor {
		return Undefined
	}
	return p.value
}

// Writable is always false for accessors.
func (p Property) Writable() bool {
	return !p.accessor && p.writable
}

// Descriptor is a partial property descriptor. Nil fields are absent.
// Get and Set hold a function object or Undefined.
type Descriptor struct {
	Value        *Value
	Writable     *bool
	Get          *Value
	Set          *Value
	Enumerable   *bool
	Configurable *bool
}

// Bool and Ref take the address of their argument for descriptor literals.
func Bool(b bool) *bool { return &b }

func Ref(v Value) *Value { return &v }

// DataDescriptor is a complete data descriptor.
func DataDescriptor(value Value, writable, enumerable, configurable bool) Descriptor {
	return Descriptor{
		Value:        &value,
		Writable:     &writable,
		Enumerable:   &enumerable,
		Configurable: &configurable,
	}
}

func (d Descriptor) IsAccessorDescriptor() bool { return d.Get != nil || d.Set != nil }
func (d Descriptor) IsDataDescriptor() bool     { return d.Value != nil || d.Writable != nil }
func (d Descriptor) IsGenericDescriptor() bool {
	return !d.IsAccessorDescriptor() && !d.IsDataDescriptor()
}

func (d Descriptor) isEmpty() bool {
	return d.IsGenericDescriptor() && d.Enumerable == nil && d.Configurable == nil
}

// ToDescriptor is ToPropertyDescriptor: it reads the descriptor fields off a
// script object.
func ToDescriptor(v Value) (Descriptor, error) {
	if !v.IsObject() {
		return Descriptor{}, errors.Typef("Property description must be an object: %s", v.Inspect())
	}
	obj := v.AsObject()
	var d Descriptor

	readBool := func(name string) (*bool, error) {
		if !obj.HasProperty(name) {
			return nil, nil
		}
		fv, err := obj.Get(name)
		if err != nil {
			return nil, err
		}
		return Bool(fv.ToBoolean()), nil
	}
	readFunc := func(name string) (*Value, error) {
		if !obj.HasProperty(name) {
			return nil, nil
		}
		fv, err := obj.Get(name)
		if err != nil {
			return nil, err
		}
		if !fv.IsUndefined() && !fv.IsCallable() {
			return nil, errors.Typef("%s must be a function: %s", capitalize(name)+"ter", fv.Inspect())
		}
		return &fv, nil
	}

	var err error
	if d.Enumerable, err = readBool("enumerable"); err != nil {
		return Descriptor{}, err
	}
	if d.Configurable, err = readBool("configurable"); err != nil {
		return Descriptor{}, err
	}
	if obj.HasProperty("value") {
		fv, err := obj.Get("value")
		if err != nil {
			return Descriptor{}, err
		}
		d.Value = &fv
	}
	if d.Writable, err = readBool("writable"); err != nil {
		return Descriptor{}, err
	}
	if d.Get, err = readFunc("get"); err != nil {
		return Descriptor{}, err
	}
	if d.Set, err = readFunc("set"); err != nil {
		return Descriptor{}, err
	}
	if d.IsAccessorDescriptor() && d.IsDataDescriptor() {
		return Descriptor{}, errors.Typef("Invalid property descriptor. Cannot both specify accessors and a value or writable attribute")
	}
	return d, nil
}

// FromProperty is FromPropertyDescriptor for a complete property.
func FromProperty(p Property) *Object {
	obj := NewObject(ObjectPrototype)
	if p.accessor {
		obj.createDataProperty("get", ObjectValue(p.getter).orUndefined())
		obj.createDataProperty("set", ObjectValue(p.setter).orUndefined())
	} else {
		obj.createDataProperty("value", p.value)
		obj.createDataProperty("writable", BooleanValue(p.writable))
	}
	obj.createDataProperty("enumerable", BooleanValue(p.enumerable))
	obj.createDataProperty("configurable", BooleanValue(p.configurable))
	return obj
}

// orUndefined maps the Null produced by ObjectValue(nil) to Undefined.
func (v Value) orUndefined() Value {
	if v.IsNull() {
		return Undefined
	}
	return v
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
