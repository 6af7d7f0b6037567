package values

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"jscore/pkg/errors"
)

// A JSON tree is built from nil, bool, float64, string, []any and
// *linkedhashmap.Map (string keys, insertion ordered).

// NewJSONObject returns an empty ordered JSON object node.
func NewJSONObject() *linkedhashmap.Map {
	return linkedhashmap.New()
}

// ToJSON maps v onto a JSON tree. Undefined, functions and symbols are
// dropped from objects and become nil elsewhere, non-finite numbers become
// nil, and BigInts or cycles are errors.
func ToJSON(v Value) (any, error) {
	return toJSON(v, map[*Object]bool{})
}

func toJSON(v Value, stack map[*Object]bool) (any, error) {
	switch v.typ {
	case TypeUndefined, TypeNull, TypeSymbol:
		return nil, nil
	case TypeBoolean:
		return v.AsBoolean(), nil
	case TypeNumber:
		f := v.AsNumber()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, nil
		}
		return f, nil
	case TypeString:
		return v.AsString(), nil
	case TypeBigInt:
		return nil, errors.Typef("Do not know how to serialize a BigInt")
	}

	o := v.AsObject()
	switch o.kind {
	case KindFunction:
		return nil, nil
	case KindBoolean, KindNumber, KindString, KindBigInt:
		return toJSON(o.primitive, stack)
	}
	if stack[o] {
		return nil, errors.Typef("Converting circular structure to JSON")
	}
	stack[o] = true
	defer delete(stack, o)

	if o.kind == KindArray {
		elems, err := ArrayElements(o)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(elems))
		for i, el := range elems {
			if out[i], err = toJSON(el, stack); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	out := linkedhashmap.New()
	for _, k := range o.EnumerableOwnKeys() {
		pv, err := o.Get(k)
		if err != nil {
			return nil, err
		}
		if pv.IsUndefined() || pv.IsSymbol() || pv.IsCallable() {
			continue
		}
		j, err := toJSON(pv, stack)
		if err != nil {
			return nil, err
		}
		out.Put(k, j)
	}
	return out, nil
}

// FromJSON builds a Value from a JSON tree. Plain map[string]any nodes are
// accepted too and enumerate in sorted key order; json.Number and Go integer
// types become Numbers. Anything else goes through ToValue.
func FromJSON(j any) Value {
	switch x := j.(type) {
	case nil:
		return Null
	case bool:
		return BooleanValue(x)
	case float64:
		return NumberValue(x)
	case string:
		return NewString(x)
	case json.Number:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return NaN
		}
		return NumberValue(f)
	case []any:
		elems := make([]Value, len(x))
		for i, el := range x {
			elems[i] = FromJSON(el)
		}
		return ObjectValue(NewArrayObject(elems))
	case *linkedhashmap.Map:
		obj := NewObject(ObjectPrototype)
		it := x.Iterator()
		for it.Next() {
			key, ok := it.Key().(string)
			if !ok {
				key = fmt.Sprint(it.Key())
			}
			obj.createDataProperty(key, FromJSON(it.Value()))
		}
		return ObjectValue(obj)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject(ObjectPrototype)
		for _, k := range keys {
			obj.createDataProperty(k, FromJSON(x[k]))
		}
		return ObjectValue(obj)
	}
	return ToValue(j)
}
