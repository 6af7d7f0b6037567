package values

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"jscore/pkg/errors"
)

var (
	valueType      = reflect.TypeOf(Value{})
	objectPtrType  = reflect.TypeOf((*Object)(nil))
	objectType     = reflect.TypeOf(Object{})
	bigIntType     = reflect.TypeOf(BigInt{})
	bigIntPtrType  = reflect.TypeOf((*big.Int)(nil))
	unitType       = reflect.TypeOf(struct{}{})
	jsonObjectType = reflect.TypeOf((*linkedhashmap.Map)(nil))
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
)

// ToValue converts a native Go value into a Value.
//
//	nil, struct{}            -> null
//	Value                    -> itself
//	*Object / Object         -> the same object / a clone
//	bool, string, numbers    -> Boolean, String, Number
//	BigInt, *big.Int         -> BigInt
//	pointers                 -> null when nil, else the pointee
//	slices, arrays           -> Array object
//	map[string]T, structs    -> ordinary object (map keys sorted)
//	*linkedhashmap.Map       -> ordinary object in map order (JSON trees)
//	error                    -> Error object
func ToValue(x any) Value {
	switch v := x.(type) {
	case nil:
		return Null
	case Value:
		return v
	case *Object:
		return ObjectValue(v)
	case Object:
		return ObjectValue(v.Clone())
	case string:
		return NewString(v)
	case bool:
		return BooleanValue(v)
	case float64:
		return NumberValue(v)
	case int:
		return NumberValue(float64(v))
	case BigInt:
		return NewBigInt(v)
	case *big.Int:
		if v == nil {
			return Null
		}
		return NewBigInt(BigIntFromBig(v))
	case struct{}:
		return Null
	case *linkedhashmap.Map:
		return FromJSON(v)
	case error:
		return ErrorValue(v)
	}
	return reflectToValue(reflect.ValueOf(x))
}

func reflectToValue(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Null
	}
	switch rv.Type() {
	case valueType, objectPtrType, objectType, bigIntType, bigIntPtrType, jsonObjectType:
		if rv.CanInterface() {
			return ToValue(rv.Interface())
		}
	}
	switch rv.Kind() {
	case reflect.Bool:
		return BooleanValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NumberValue(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return NumberValue(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return NumberValue(rv.Float())
	case reflect.String:
		return NewString(rv.String())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null
		}
		if rv.Type().Implements(errorType) && rv.CanInterface() {
			return ErrorValue(rv.Interface().(error))
		}
		return reflectToValue(rv.Elem())
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())
		for i := range elems {
			elems[i] = reflectToValue(rv.Index(i))
		}
		return ObjectValue(NewArrayObject(elems))
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		obj := NewObject(ObjectPrototype)
		for _, k := range keys {
			obj.createDataProperty(k.String(), reflectToValue(rv.MapIndex(k)))
		}
		return ObjectValue(obj)
	case reflect.Struct:
		if rv.NumField() == 0 {
			return Null
		}
		return ObjectValue(structToObject(rv))
	}
	return Undefined
}

// structToObject copies exported fields, honouring `js:"name"` tags and
// `js:"-"` to skip a field.
func structToObject(rv reflect.Value) *Object {
	obj := NewObject(ObjectPrototype)
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("js"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		obj.createDataProperty(name, reflectToValue(rv.Field(i)))
	}
	return obj
}

// FromValue converts v into a native T, mirroring ToValue. Numbers go through
// the ECMAScript numeric conversions, bool through ToBoolean, strings through
// ToString; sequences are rebuilt from length and indices only. Shapes that
// cannot produce a T yield a *errors.ConversionError.
func FromValue[T any](v Value) (T, error) {
	var out T
	err := assign(v, reflect.ValueOf(&out).Elem())
	return out, err
}

func conversionError(t reflect.Type, v Value, format string, args ...any) *errors.ConversionError {
	return &errors.ConversionError{Target: t.String(), From: v.TypeOf(), Msg: fmt.Sprintf(format, args...)}
}

func wrapConversion(t reflect.Type, v Value, err error) error {
	if _, ok := err.(*errors.ConversionError); ok {
		return err
	}
	return (&errors.ConversionError{Target: t.String(), From: v.TypeOf(), Msg: err.Error()}).CausedBy(err)
}

func assign(v Value, dst reflect.Value) error {
	t := dst.Type()
	switch t {
	case valueType:
		dst.Set(reflect.ValueOf(v))
		return nil
	case objectPtrType:
		if !v.IsObject() {
			return conversionError(t, v, "not an object")
		}
		dst.Set(reflect.ValueOf(v.AsObject()))
		return nil
	case objectType:
		if !v.IsObject() {
			return conversionError(t, v, "not an object")
		}
		dst.Set(reflect.ValueOf(*v.AsObject().Clone()))
		return nil
	case bigIntType, bigIntPtrType:
		n, err := bigIntOf(v)
		if err != nil {
			return wrapConversion(t, v, err)
		}
		if t == bigIntType {
			dst.Set(reflect.ValueOf(n))
		} else {
			dst.Set(reflect.ValueOf(n.Big()))
		}
		return nil
	case unitType:
		return nil
	case jsonObjectType:
		tree, err := ToJSON(v)
		if err != nil {
			return wrapConversion(t, v, err)
		}
		m, ok := tree.(*linkedhashmap.Map)
		if !ok {
			return conversionError(t, v, "not an object")
		}
		dst.Set(reflect.ValueOf(m))
		return nil
	}

	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return conversionError(t, v, "unsupported interface type")
		}
		if x := Export(v); x != nil {
			dst.Set(reflect.ValueOf(x))
		} else {
			dst.Set(reflect.Zero(t))
		}
		return nil
	case reflect.Bool:
		dst.SetBool(v.ToBoolean())
		return nil
	case reflect.String:
		s, err := v.ToString()
		if err != nil {
			return wrapConversion(t, v, err)
		}
		dst.SetString(s)
		return nil
	case reflect.Float32, reflect.Float64:
		f, err := numberOf(v)
		if err != nil {
			return wrapConversion(t, v, err)
		}
		dst.SetFloat(f)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, err := numberOf(v)
		if err != nil {
			return wrapConversion(t, v, err)
		}
		bits := uint(t.Bits())
		u := modularInt(f, bits)
		if bits < 64 && u >= 1<<(bits-1) {
			dst.SetInt(int64(u) - int64(1)<<bits)
		} else {
			dst.SetInt(int64(u))
		}
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		f, err := numberOf(v)
		if err != nil {
			return wrapConversion(t, v, err)
		}
		dst.SetUint(modularInt(f, uint(t.Bits())))
		return nil
	case reflect.Pointer:
		if v.IsNullish() {
			dst.Set(reflect.Zero(t))
			return nil
		}
		elem := reflect.New(t.Elem())
		if err := assign(v, elem.Elem()); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	case reflect.Slice:
		elems, err := sequenceOf(t, v)
		if err != nil {
			return err
		}
		s := reflect.MakeSlice(t, len(elems), len(elems))
		for i, ev := range elems {
			if err := assign(ev, s.Index(i)); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		dst.Set(s)
		return nil
	case reflect.Array:
		elems, err := sequenceOf(t, v)
		if err != nil {
			return err
		}
		if len(elems) != t.Len() {
			return conversionError(t, v, "expected %d elements, got %d", t.Len(), len(elems))
		}
		for i, ev := range elems {
			if err := assign(ev, dst.Index(i)); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		return nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String || !v.IsObject() {
			return conversionError(t, v, "not an object")
		}
		o := v.AsObject()
		m := reflect.MakeMap(t)
		for _, k := range o.EnumerableOwnKeys() {
			pv, err := o.Get(k)
			if err != nil {
				return wrapConversion(t, v, err)
			}
			ev := reflect.New(t.Elem()).Elem()
			if err := assign(pv, ev); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
			m.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
		}
		dst.Set(m)
		return nil
	case reflect.Struct:
		if !v.IsObject() {
			return conversionError(t, v, "not an object")
		}
		return Decode(v, dst.Addr().Interface())
	}
	return conversionError(t, v, "unsupported target type")
}

// numberOf accepts BigInts on top of ToNumber, rounding them to float64.
func numberOf(v Value) (float64, error) {
	if v.IsBigInt() {
		return v.AsBigInt().Float64(), nil
	}
	return v.ToNumber()
}

func bigIntOf(v Value) (BigInt, error) {
	if v.IsNumber() {
		return BigIntFromFloat(v.AsNumber())
	}
	return v.ToBigInt()
}

func sequenceOf(t reflect.Type, v Value) ([]Value, error) {
	if !v.IsObject() {
		return nil, conversionError(t, v, "not an array-like object")
	}
	elems, err := ArrayElements(v.AsObject())
	if err != nil {
		return nil, wrapConversion(t, v, err)
	}
	return elems, nil
}

// CharToValue converts a single character to a one-character string.
func CharToValue(r rune) Value {
	return NewString(string(r))
}

// ValueToChar returns the first code point of ToString(v).
func ValueToChar(v Value) (rune, error) {
	s, err := v.ToString()
	if err != nil {
		return 0, wrapConversion(reflect.TypeOf(rune(0)), v, err)
	}
	if s == "" {
		return 0, &errors.ConversionError{Target: "char", From: v.TypeOf(), Msg: "empty string"}
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// --- Export ---

// Export converts v into plain Go data: nil, bool, float64, string, *big.Int,
// []any, map[string]any, or the Callable behind a function. Cycles export as
// nil at the point of recursion.
func Export(v Value) any {
	return export(v, map[*Object]bool{})
}

func export(v Value, seen map[*Object]bool) any {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return nil
	case TypeBoolean:
		return v.AsBoolean()
	case TypeNumber:
		return v.AsNumber()
	case TypeString:
		return v.AsString()
	case TypeBigInt:
		return v.AsBigInt().Big()
	case TypeSymbol:
		return v.AsSymbol()
	}
	o := v.AsObject()
	if seen[o] {
		return nil
	}
	switch o.kind {
	case KindFunction:
		return o.call
	case KindBoolean, KindNumber, KindString, KindBigInt, KindSymbol:
		return export(o.primitive, seen)
	}
	seen[o] = true
	defer delete(seen, o)
	if o.kind == KindArray {
		elems, err := ArrayElements(o)
		if err != nil {
			return nil
		}
		out := make([]any, len(elems))
		for i, el := range elems {
			out[i] = export(el, seen)
		}
		return out
	}
	out := make(map[string]any, o.PropertyCount())
	for _, k := range o.EnumerableOwnKeys() {
		pv, err := o.Get(k)
		if err != nil {
			continue
		}
		out[k] = export(pv, seen)
	}
	if o.kind == KindError {
		if _, ok := out["message"]; !ok {
			out["message"] = o.dataString("message")
		}
		if name, err := o.Get("name"); err == nil && name.IsString() {
			out["name"] = name.AsString()
		}
	}
	return out
}
