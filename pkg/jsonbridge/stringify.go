package jsonbridge

import (
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"jscore/pkg/errors"
	"jscore/pkg/values"
)

const maxGap = 10

// serializer carries the state of one JSON.stringify call.
type serializer struct {
	replacerFn *values.Object
	allow      map[string]bool
	stack      map[*values.Object]bool
	stream     *jsoniter.Stream
}

// Stringify is JSON.stringify. A callable replacer is invoked for every
// property with the holder as this; an Array replacer restricts object keys to
// the listed names (filtering follows the object's own key order). Other
// replacer values are ignored. The result is Undefined when v itself has no
// JSON form.
func Stringify(v, replacer, space values.Value) (values.Value, error) {
	s := &serializer{
		stack:  map[*values.Object]bool{},
		stream: jsoniter.NewStream(api, nil, 256),
	}
	if replacer.IsObject() {
		r := replacer.AsObject()
		switch {
		case r.IsCallable():
			s.replacerFn = r
		case r.Kind() == values.KindArray:
			allow, err := allowList(r)
			if err != nil {
				return values.Undefined, err
			}
			s.allow = allow
		}
	}
	gap, err := gapOf(space)
	if err != nil {
		return values.Undefined, err
	}

	holder := values.NewObject(values.ObjectPrototype)
	if err := holder.CreateDataProperty("", v); err != nil {
		return values.Undefined, err
	}
	ok, err := s.property(holder, "", v)
	if err != nil {
		return values.Undefined, err
	}
	if !ok {
		return values.Undefined, nil
	}
	out, err := finish(s.stream.Buffer(), gap)
	if err != nil {
		return values.Undefined, err
	}
	return values.NewString(out), nil
}

func allowList(r *values.Object) (map[string]bool, error) {
	elems, err := values.ArrayElements(r)
	if err != nil {
		return nil, err
	}
	allow := make(map[string]bool, len(elems))
	for _, el := range elems {
		switch {
		case el.IsString(), el.IsNumber():
		case el.IsObject() && (el.AsObject().Kind() == values.KindString || el.AsObject().Kind() == values.KindNumber):
		default:
			continue
		}
		name, err := el.ToString()
		if err != nil {
			return nil, err
		}
		allow[name] = true
	}
	return allow, nil
}

// gapOf turns the space argument into the indent string: a number of spaces
// (at most 10) or the first 10 characters of a string.
func gapOf(space values.Value) (string, error) {
	if space.IsObject() {
		switch space.AsObject().Kind() {
		case values.KindNumber:
			n, err := space.ToNumber()
			if err != nil {
				return "", err
			}
			space = values.NumberValue(n)
		case values.KindString:
			str, err := space.ToString()
			if err != nil {
				return "", err
			}
			space = values.NewString(str)
		}
	}
	switch {
	case space.IsNumber():
		n, _ := space.ToIntegerOrInfinity()
		n = math.Min(maxGap, n)
		if n < 1 {
			return "", nil
		}
		return strings.Repeat(" ", int(n)), nil
	case space.IsString():
		r := []rune(space.AsString())
		if len(r) > maxGap {
			r = r[:maxGap]
		}
		return string(r), nil
	}
	return "", nil
}

// property writes the JSON form of holder[key] and reports whether anything
// was written.
func (s *serializer) property(holder *values.Object, key string, v values.Value) (bool, error) {
	if v.IsObject() {
		toJSON, err := v.AsObject().Get("toJSON")
		if err != nil {
			return false, err
		}
		if toJSON.IsCallable() {
			if v, err = values.Call(toJSON, v, values.NewString(key)); err != nil {
				return false, err
			}
		}
	}
	if s.replacerFn != nil {
		var err error
		v, err = s.replacerFn.Call(values.ObjectValue(holder), []values.Value{values.NewString(key), v})
		if err != nil {
			return false, err
		}
	}
	if v.IsObject() {
		o := v.AsObject()
		switch o.Kind() {
		case values.KindNumber:
			n, err := v.ToNumber()
			if err != nil {
				return false, err
			}
			v = values.NumberValue(n)
		case values.KindString:
			str, err := v.ToString()
			if err != nil {
				return false, err
			}
			v = values.NewString(str)
		case values.KindBoolean, values.KindBigInt:
			v = o.PrimitiveValue()
		}
	}

	switch v.Type() {
	case values.TypeNull:
		s.stream.WriteNil()
	case values.TypeBoolean:
		s.stream.WriteBool(v.AsBoolean())
	case values.TypeString:
		writeString(s.stream, v.AsString())
	case values.TypeNumber:
		writeNumber(s.stream, v.AsNumber())
	case values.TypeBigInt:
		return false, errors.Typef("Do not know how to serialize a BigInt")
	case values.TypeObject:
		o := v.AsObject()
		if o.IsCallable() {
			return false, nil
		}
		if o.Kind() == values.KindArray {
			return true, s.array(o)
		}
		return true, s.object(o)
	default:
		return false, nil
	}
	return true, nil
}

func (s *serializer) enter(o *values.Object) error {
	if s.stack[o] {
		return errors.Typef("Converting circular structure to JSON")
	}
	s.stack[o] = true
	return nil
}

func (s *serializer) object(o *values.Object) error {
	if err := s.enter(o); err != nil {
		return err
	}
	defer delete(s.stack, o)

	s.stream.WriteObjectStart()
	first := true
	for _, key := range o.EnumerableOwnKeys() {
		if s.allow != nil && !s.allow[key] {
			continue
		}
		v, err := o.Get(key)
		if err != nil {
			return err
		}
		mark := len(s.stream.Buffer())
		if !first {
			s.stream.WriteMore()
		}
		writeString(s.stream, key)
		s.stream.WriteRaw(":")
		ok, err := s.property(o, key, v)
		if err != nil {
			return err
		}
		if !ok {
			s.stream.SetBuffer(s.stream.Buffer()[:mark])
			continue
		}
		first = false
	}
	s.stream.WriteObjectEnd()
	return nil
}

func (s *serializer) array(o *values.Object) error {
	if err := s.enter(o); err != nil {
		return err
	}
	defer delete(s.stack, o)

	lv, err := o.Get("length")
	if err != nil {
		return err
	}
	n, err := lv.ToLength()
	if err != nil {
		return err
	}
	s.stream.WriteArrayStart()
	for i := int64(0); i < n; i++ {
		if i > 0 {
			s.stream.WriteMore()
		}
		key := strconv.FormatInt(i, 10)
		v, err := o.Get(key)
		if err != nil {
			return err
		}
		ok, err := s.property(o, key, v)
		if err != nil {
			return err
		}
		if !ok {
			s.stream.WriteNil()
		}
	}
	s.stream.WriteArrayEnd()
	return nil
}
