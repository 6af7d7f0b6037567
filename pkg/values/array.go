package values

import (
	"math"
	"sort"
	"strconv"

	"jscore/pkg/errors"
)

const maxArrayIndex = math.MaxUint32 - 1

// arrayIndex reports whether key is a canonical array index ("0", "17", not
// "01" or "4294967295").
func arrayIndex(key string) (uint32, bool) {
	if key == "" || len(key) > 10 || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 64)
	if err != nil || n > maxArrayIndex {
		return 0, false
	}
	return uint32(n), true
}

// NewArrayObject builds a dense Array object holding elems.
func NewArrayObject(elems []Value) *Object {
	o := newObject(KindArray, ArrayPrototype)
	o.props.Put("length", &Property{value: NumberValue(float64(len(elems))), writable: true})
	for i, v := range elems {
		o.props.Put(strconv.Itoa(i), &Property{value: v, writable: true, enumerable: true, configurable: true})
	}
	return o
}

func NewArray(elems ...Value) Value {
	return ObjectValue(NewArrayObject(elems))
}

func (o *Object) arrayLength() uint32 {
	p, ok := o.lookup("length")
	if !ok || p.accessor || !p.value.IsNumber() {
		return 0
	}
	return uint32(p.value.AsNumber())
}

func (o *Object) setArrayLength(n uint32) {
	if p, ok := o.lookup("length"); ok {
		p.value = NumberValue(float64(n))
		return
	}
	o.props.Put("length", &Property{value: NumberValue(float64(n)), writable: true})
}

func (o *Object) lengthWritable() bool {
	p, ok := o.lookup("length")
	return !ok || p.writable
}

// arrayLengthFromValue validates an assignment to an array's length.
func arrayLengthFromValue(v Value) (uint32, error) {
	n, err := v.ToNumber()
	if err != nil {
		return 0, err
	}
	u, err := v.ToUint32()
	if err != nil {
		return 0, err
	}
	if float64(u) != n {
		return 0, errors.Rangef("Invalid array length")
	}
	return u, nil
}

// arrayDefineOwnProperty is the Array exotic [[DefineOwnProperty]].
func (o *Object) arrayDefineOwnProperty(name string, desc Descriptor) bool {
	if name == "length" {
		return o.arraySetLength(desc)
	}
	idx, ok := arrayIndex(name)
	if !ok {
		return o.ordinaryDefineOwnProperty(name, desc)
	}
	oldLen := o.arrayLength()
	if idx >= oldLen && !o.lengthWritable() {
		return false
	}
	if !o.ordinaryDefineOwnProperty(name, desc) {
		return false
	}
	if idx >= oldLen {
		o.setArrayLength(idx + 1)
	}
	return true
}

// arraySetLength is ArraySetLength: shrinking deletes trailing indices,
// stopping at the first non-configurable element.
func (o *Object) arraySetLength(desc Descriptor) bool {
	if desc.Value == nil {
		return o.ordinaryDefineOwnProperty("length", desc)
	}
	f := desc.Value.numberOrNaN()
	if f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
		return false
	}
	newLen := uint32(f)
	oldLen := o.arrayLength()
	lenDesc := desc
	lenDesc.Value = Ref(NumberValue(float64(newLen)))
	if newLen >= oldLen {
		return o.ordinaryDefineOwnProperty("length", lenDesc)
	}
	if !o.lengthWritable() {
		return false
	}
	newWritable := desc.Writable == nil || *desc.Writable
	lenDesc.Writable = Bool(true)
	if !o.ordinaryDefineOwnProperty("length", lenDesc) {
		return false
	}

	// Collect existing indices first; the range can be far larger than the
	// number of properties.
	var doomed []uint32
	it := o.props.Iterator()
	for it.Next() {
		if idx, ok := arrayIndex(it.Key().(string)); ok && idx >= newLen {
			doomed = append(doomed, idx)
		}
	}
	sort.Slice(doomed, func(i, j int) bool { return doomed[i] > doomed[j] })
	for _, idx := range doomed {
		if !o.Delete(strconv.FormatUint(uint64(idx), 10)) {
			o.setArrayLength(idx + 1)
			if !newWritable {
				o.ordinaryDefineOwnProperty("length", Descriptor{Writable: Bool(false)})
			}
			return false
		}
	}
	if !newWritable {
		o.ordinaryDefineOwnProperty("length", Descriptor{Writable: Bool(false)})
	}
	return true
}

// numberOrNaN is the number held by v, or NaN for any other variant.
func (v Value) numberOrNaN() float64 {
	if v.typ != TypeNumber {
		return math.NaN()
	}
	return v.AsNumber()
}

// ArrayElements reads length and then every index below it, the way the host
// conversion layer rebuilds sequences. Holes read as Undefined.
func ArrayElements(o *Object) ([]Value, error) {
	lv, err := o.Get("length")
	if err != nil {
		return nil, err
	}
	n, err := lv.ToLength()
	if err != nil {
		return nil, err
	}
	if n > math.MaxInt32 {
		return nil, errors.Rangef("Invalid array length")
	}
	out := make([]Value, int(n))
	for i := range out {
		v, err := o.Get(strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
