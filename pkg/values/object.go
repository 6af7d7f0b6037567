package values

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"jscore/pkg/errors"
)

const debugObjects = false

// Kind tags the flavour of an object. It decides exotic behaviour (arrays),
// callability defaults and the Object.prototype.toString tag.
type Kind uint8

const (
	KindOrdinary Kind = iota
	KindArray
	KindFunction
	KindError
	KindBoolean
	KindNumber
	KindString
	KindSymbol
	KindBigInt
	KindRegExp
	KindArguments
)

func (k Kind) String() string {
	switch k {
	case KindOrdinary:
		return "Object"
	case KindArray:
		return "Array"
	case KindFunction:
		return "Function"
	case KindError:
		return "Error"
	case KindBoolean:
		return "Boolean"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindSymbol:
		return "Symbol"
	case KindBigInt:
		return "BigInt"
	case KindRegExp:
		return "RegExp"
	case KindArguments:
		return "Arguments"
	default:
		return "Object"
	}
}

// Object is a dynamic property bag with a prototype link. Properties keep
// their insertion order.
type Object struct {
	kind       Kind
	proto      *Object
	props      *linkedhashmap.Map // string -> *Property
	extensible bool

	call      Callable
	primitive Value
	regexp    *regexpData
}

func NewObject(proto *Object) *Object {
	return newObject(KindOrdinary, proto)
}

// NewObjectWithKind creates an empty object of the given kind. Array kinds get
// their length property.
func NewObjectWithKind(kind Kind, proto *Object) *Object {
	o := newObject(kind, proto)
	if kind == KindArray {
		o.SetProperty("length", NewDataProperty(NumberValue(0), true, false, false))
	}
	return o
}

func newObject(kind Kind, proto *Object) *Object {
	return &Object{
		kind:       kind,
		proto:      proto,
		props:      linkedhashmap.New(),
		extensible: true,
		primitive:  Undefined,
	}
}

func (o *Object) Kind() Kind { return o.kind }

// PrimitiveValue is the wrapped primitive of Boolean/Number/String/Symbol/BigInt
// objects, Undefined otherwise.
func (o *Object) PrimitiveValue() Value { return o.primitive }

func (o *Object) GetPrototype() *Object { return o.proto }

// SetPrototype fails on non-extensible objects and on prototype cycles.
func (o *Object) SetPrototype(proto *Object) bool {
	if proto == o.proto {
		return true
	}
	if !o.extensible {
		return false
	}
	for p := proto; p != nil; p = p.proto {
		if p == o {
			return false
		}
	}
	o.proto = proto
	return true
}

func (o *Object) IsExtensible() bool { return o.extensible }

func (o *Object) PreventExtensions() bool {
	o.extensible = false
	return true
}

func (o *Object) lookup(name string) (*Property, bool) {
	p, ok := o.props.Get(name)
	if !ok {
		return nil, false
	}
	return p.(*Property), true
}

// dataString reads an own data property as a Go string without coercion.
func (o *Object) dataString(name string) string {
	p, ok := o.lookup(name)
	if !ok || p.accessor || !p.value.IsString() {
		return ""
	}
	return p.value.AsString()
}

func (o *Object) GetOwnProperty(name string) (Property, bool) {
	p, ok := o.lookup(name)
	if !ok {
		return Property{}, false
	}
	return *p, true
}

func (o *Object) HasOwnProperty(name string) bool {
	_, ok := o.props.Get(name)
	return ok
}

func (o *Object) HasProperty(name string) bool {
	for obj := o; obj != nil; obj = obj.proto {
		if obj.HasOwnProperty(name) {
			return true
		}
	}
	return false
}

// DefineOwnProperty applies desc following ValidateAndApplyPropertyDescriptor
// and reports whether the definition was allowed.
func (o *Object) DefineOwnProperty(name string, desc Descriptor) bool {
	if o.kind == KindArray {
		return o.arrayDefineOwnProperty(name, desc)
	}
	return o.ordinaryDefineOwnProperty(name, desc)
}

func (o *Object) ordinaryDefineOwnProperty(name string, desc Descriptor) bool {
	current, exists := o.lookup(name)
	if !exists {
		if !o.extensible {
			return false
		}
		var p Property
		if desc.IsAccessorDescriptor() {
			p = NewAccessorProperty(descObject(desc.Get), descObject(desc.Set), boolOr(desc.Enumerable), boolOr(desc.Configurable))
		} else {
			v := Undefined
			if desc.Value != nil {
				v = *desc.Value
			}
			p = NewDataProperty(v, boolOr(desc.Writable), boolOr(desc.Enumerable), boolOr(desc.Configurable))
		}
		o.props.Put(name, &p)
		return true
	}
	if desc.isEmpty() {
		return true
	}

	if !current.configurable {
		if desc.Configurable != nil && *desc.Configurable {
			return false
		}
		if desc.Enumerable != nil && *desc.Enumerable != current.enumerable {
			return false
		}
		if !desc.IsGenericDescriptor() && desc.IsAccessorDescriptor() != current.accessor {
			return false
		}
		if current.accessor {
			if desc.Get != nil && descObject(desc.Get) != current.getter {
				return false
			}
			if desc.Set != nil && descObject(desc.Set) != current.setter {
				return false
			}
		} else if !current.writable {
			if desc.Writable != nil && *desc.Writable {
				return false
			}
			if desc.Value != nil && !desc.Value.SameValue(current.value) {
				return false
			}
		}
	}

	switch {
	case desc.IsAccessorDescriptor() && !current.accessor:
		*current = Property{accessor: true, value: Undefined, enumerable: current.enumerable, configurable: current.configurable}
	case desc.IsDataDescriptor() && current.accessor:
		*current = Property{value: Undefined, enumerable: current.enumerable, configurable: current.configurable}
	}
	if desc.Value != nil {
		current.value = *desc.Value
	}
	if desc.Writable != nil {
		current.writable = *desc.Writable
	}
	if desc.Get != nil {
		current.getter = descObject(desc.Get)
	}
	if desc.Set != nil {
		current.setter = descObject(desc.Set)
	}
	if desc.Enumerable != nil {
		current.enumerable = *desc.Enumerable
	}
	if desc.Configurable != nil {
		current.configurable = *desc.Configurable
	}
	return true
}

func descObject(v *Value) *Object {
	if v == nil || !v.IsObject() {
		return nil
	}
	return v.AsObject()
}

func boolOr(b *bool) bool {
	return b != nil && *b
}

// createDataProperty is CreateDataProperty: a writable, enumerable,
// configurable own property.
func (o *Object) createDataProperty(name string, v Value) bool {
	return o.DefineOwnProperty(name, DataDescriptor(v, true, true, true))
}

// CreateDataProperty defines name as a plain enumerable data property and
// reports a TypeError when the object refuses it.
func (o *Object) CreateDataProperty(name string, v Value) error {
	if !o.createDataProperty(name, v) {
		return errors.Typef("Cannot define property %s, object is not extensible", name)
	}
	return nil
}

// DefinePropertyOrThrow is DefineOwnProperty with the refusal as a TypeError.
func (o *Object) DefinePropertyOrThrow(name string, desc Descriptor) error {
	if !o.DefineOwnProperty(name, desc) {
		return errors.Typef("Cannot redefine property: %s", name)
	}
	return nil
}

// Get reads name through the prototype chain, invoking getters with o as the
// receiver.
func (o *Object) Get(name string) (Value, error) {
	return o.GetWithReceiver(name, ObjectValue(o))
}

func (o *Object) GetWithReceiver(name string, receiver Value) (Value, error) {
	for obj := o; obj != nil; obj = obj.proto {
		p, ok := obj.lookup(name)
		if !ok {
			continue
		}
		if !p.accessor {
			return p.value, nil
		}
		if p.getter == nil {
			return Undefined, nil
		}
		return p.getter.Call(receiver, nil)
	}
	return Undefined, nil
}

// Set assigns name. When the assignment is refused, throw decides between a
// TypeError and a silent no-op.
func (o *Object) Set(name string, v Value, throw bool) error {
	if o.kind == KindArray && name == "length" {
		n, err := arrayLengthFromValue(v)
		if err != nil {
			return err
		}
		v = NumberValue(float64(n))
	}
	ok, err := o.SetWithReceiver(name, v, ObjectValue(o))
	if err != nil {
		return err
	}
	if !ok && throw {
		if debugObjects {
			fmt.Printf("[objects] refused assignment to %q\n", name)
		}
		return errors.Typef("Cannot assign to read only property '%s' of object", name)
	}
	return nil
}

// SetWithReceiver is OrdinarySet.
func (o *Object) SetWithReceiver(name string, v Value, receiver Value) (bool, error) {
	var own *Property
	for obj := o; obj != nil; obj = obj.proto {
		if p, ok := obj.lookup(name); ok {
			own = p
			break
		}
	}
	if own == nil {
		own = &Property{value: Undefined, writable: true, enumerable: true, configurable: true}
	}
	if own.accessor {
		if own.setter == nil {
			return false, nil
		}
		if _, err := own.setter.Call(receiver, []Value{v}); err != nil {
			return false, err
		}
		return true, nil
	}
	if !own.writable || !receiver.IsObject() {
		return false, nil
	}
	recv := receiver.AsObject()
	if existing, ok := recv.lookup(name); ok {
		if existing.accessor || !existing.writable {
			return false, nil
		}
		return recv.DefineOwnProperty(name, Descriptor{Value: &v}), nil
	}
	return recv.createDataProperty(name, v), nil
}

// Delete removes an own property. Non-configurable properties stay and the
// call reports false.
func (o *Object) Delete(name string) bool {
	p, ok := o.lookup(name)
	if !ok {
		return true
	}
	if !p.configurable {
		return false
	}
	o.props.Remove(name)
	return true
}

// DeleteOrThrow is Delete with the strict-mode TypeError.
func (o *Object) DeleteOrThrow(name string) error {
	if !o.Delete(name) {
		return errors.Typef("Cannot delete property '%s' of %s", name, o.Inspect())
	}
	return nil
}

// OwnKeys lists integer-index keys in ascending order followed by the other
// string keys in insertion order.
func (o *Object) OwnKeys() []string {
	return o.ownKeys(false)
}

func (o *Object) EnumerableOwnKeys() []string {
	return o.ownKeys(true)
}

func (o *Object) ownKeys(onlyEnumerable bool) []string {
	var indices []uint32
	var names []string
	it := o.props.Iterator()
	for it.Next() {
		if onlyEnumerable && !it.Value().(*Property).enumerable {
			continue
		}
		key := it.Key().(string)
		if idx, ok := arrayIndex(key); ok {
			indices = append(indices, idx)
			continue
		}
		names = append(names, key)
	}
	if len(indices) == 0 {
		return names
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	keys := make([]string, 0, len(indices)+len(names))
	for _, idx := range indices {
		keys = append(keys, strconv.FormatUint(uint64(idx), 10))
	}
	return append(keys, names...)
}

// PropertyCount is the number of own properties.
func (o *Object) PropertyCount() int { return o.props.Size() }

// --- Direct slot protocol ---
//
// These bypass attribute validation and are meant for runtime plumbing
// (intrinsics, environment records), not for script-visible operations.

// SetProperty installs p under name unconditionally. An existing key keeps its
// position in the insertion order.
func (o *Object) SetProperty(name string, p Property) {
	o.props.Put(name, &p)
	if o.kind == KindArray {
		if idx, ok := arrayIndex(name); ok && idx >= o.arrayLength() {
			o.setArrayLength(idx + 1)
		}
	}
}

// UpdateProperty writes a new value into the existing property name. A
// non-writable data property or an accessor without setter rejects the write
// with a TypeError when strict, and is left untouched otherwise. An absent
// property is created as a plain data property.
func (o *Object) UpdateProperty(name string, v Value, strict bool) error {
	p, ok := o.lookup(name)
	if !ok {
		if !o.createDataProperty(name, v) && strict {
			return errors.Typef("Cannot add property %s, object is not extensible", name)
		}
		return nil
	}
	if p.accessor {
		if p.setter == nil {
			if strict {
				return errors.Typef("Cannot set property %s which has only a getter", name)
			}
			return nil
		}
		_, err := p.setter.Call(ObjectValue(o), []Value{v})
		return err
	}
	if !p.writable {
		if strict {
			return errors.Typef("Cannot assign to read only property '%s' of object", name)
		}
		return nil
	}
	if o.kind == KindArray {
		if name == "length" {
			return o.Set(name, v, strict)
		}
		o.DefineOwnProperty(name, Descriptor{Value: &v})
		return nil
	}
	p.value = v
	return nil
}

// RemoveProperty drops name regardless of its configurable attribute.
func (o *Object) RemoveProperty(name string) {
	o.props.Remove(name)
}

// Clone returns a shallow copy: same kind, prototype and internal slots, with
// a fresh property map holding copies of every property.
func (o *Object) Clone() *Object {
	c := &Object{
		kind:       o.kind,
		proto:      o.proto,
		props:      linkedhashmap.New(),
		extensible: o.extensible,
		call:       o.call,
		primitive:  o.primitive,
		regexp:     o.regexp,
	}
	it := o.props.Iterator()
	for it.Next() {
		p := *it.Value().(*Property)
		c.props.Put(it.Key(), &p)
	}
	return c
}

// Inspect renders the object for developers.
func (o *Object) Inspect() string {
	return ObjectValue(o).Inspect()
}

// Class is the builtin tag used by Object.prototype.toString.
func (o *Object) Class() string {
	switch o.kind {
	case KindOrdinary:
		return "Object"
	case KindFunction:
		return "Function"
	default:
		return o.kind.String()
	}
}
