package values

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unsafe"
)

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull

	TypeBoolean
	TypeNumber

	TypeString
	TypeBigInt
	TypeSymbol

	TypeObject
)

func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBigInt:
		return "bigint"
	case TypeSymbol:
		return "symbol"
	case TypeObject:
		return "object"
	default:
		return fmt.Sprintf("<unknown type: %d>", uint8(vt))
	}
}

type stringBox struct {
	value string
}

type bigIntBox struct {
	value BigInt
}

// Symbol is the identity behind a symbol value. Two symbol values are equal
// only when they point at the same Symbol.
type Symbol struct {
	Description string
}

// Value is the tagged union every runtime datum flows through. Numbers and
// booleans live in payload; strings, bigints, symbols and objects hang off obj.
type Value struct {
	typ     ValueType
	payload uint64
	obj     unsafe.Pointer
}

var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBoolean, payload: 1}
	False     = Value{typ: TypeBoolean, payload: 0}
	NaN       = Value{typ: TypeNumber, payload: math.Float64bits(math.NaN())}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeNumber, payload: math.Float64bits(value)}
}

func IntegerValue(value int64) Value {
	return NumberValue(float64(value))
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, obj: unsafe.Pointer(&stringBox{value: value})}
}

func NewBigInt(value BigInt) Value {
	return Value{typ: TypeBigInt, obj: unsafe.Pointer(&bigIntBox{value: value})}
}

func NewSymbol(description string) Value {
	return Value{typ: TypeSymbol, obj: unsafe.Pointer(&Symbol{Description: description})}
}

// ObjectValue wraps o. A nil object yields Null.
func ObjectValue(o *Object) Value {
	if o == nil {
		return Null
	}
	return Value{typ: TypeObject, obj: unsafe.Pointer(o)}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool      { return v.typ == TypeNull }
func (v Value) IsBoolean() bool   { return v.typ == TypeBoolean }
func (v Value) IsNumber() bool    { return v.typ == TypeNumber }
func (v Value) IsString() bool    { return v.typ == TypeString }
func (v Value) IsBigInt() bool    { return v.typ == TypeBigInt }
func (v Value) IsSymbol() bool    { return v.typ == TypeSymbol }
func (v Value) IsObject() bool    { return v.typ == TypeObject }

// IsNullish reports whether v is null or undefined.
func (v Value) IsNullish() bool {
	return v.typ == TypeUndefined || v.typ == TypeNull
}

func (v Value) IsCallable() bool {
	return v.typ == TypeObject && v.AsObject().IsCallable()
}

// IsArray reports whether v is an Array exotic object.
func (v Value) IsArray() bool {
	return v.typ == TypeObject && v.AsObject().kind == KindArray
}

func (v Value) AsBoolean() bool {
	if v.typ != TypeBoolean {
		panic("value is not a boolean")
	}
	return v.payload == 1
}

func (v Value) AsNumber() float64 {
	if v.typ != TypeNumber {
		panic("value is not a number")
	}
	return math.Float64frombits(v.payload)
}

func (v Value) AsString() string {
	if v.typ != TypeString {
		panic("value is not a string")
	}
	return (*stringBox)(v.obj).value
}

func (v Value) AsBigInt() BigInt {
	if v.typ != TypeBigInt {
		panic("value is not a bigint")
	}
	return (*bigIntBox)(v.obj).value
}

func (v Value) AsSymbol() *Symbol {
	if v.typ != TypeSymbol {
		panic("value is not a symbol")
	}
	return (*Symbol)(v.obj)
}

func (v Value) AsObject() *Object {
	if v.typ != TypeObject {
		panic("value is not an object")
	}
	return (*Object)(v.obj)
}

// TypeOf returns the result of the typeof operator.
func (v Value) TypeOf() string {
	switch v.typ {
	case TypeNull:
		return "object"
	case TypeObject:
		if v.AsObject().IsCallable() {
			return "function"
		}
		return "object"
	default:
		return v.typ.String()
	}
}

// --- Equality ---

// StrictEquals implements ===. NaN !== NaN, +0 === -0.
func (v Value) StrictEquals(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return v.payload == other.payload
	case TypeNumber:
		return v.AsNumber() == other.AsNumber()
	case TypeString:
		return v.AsString() == other.AsString()
	case TypeBigInt:
		return v.AsBigInt().Equal(other.AsBigInt())
	case TypeSymbol, TypeObject:
		return v.obj == other.obj
	default:
		panic(fmt.Sprintf("unhandled type in StrictEquals: %v", v.typ))
	}
}

// SameValue is Object.is: NaN equals NaN and +0 differs from -0.
func (v Value) SameValue(other Value) bool {
	if v.typ == TypeNumber && other.typ == TypeNumber {
		x, y := v.AsNumber(), other.AsNumber()
		if math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
		return x == y && math.Signbit(x) == math.Signbit(y)
	}
	return v.StrictEquals(other)
}

// SameValueZero is SameValue with +0 and -0 considered equal.
func (v Value) SameValueZero(other Value) bool {
	if v.typ == TypeNumber && other.typ == TypeNumber {
		x, y := v.AsNumber(), other.AsNumber()
		if math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
		return x == y
	}
	return v.StrictEquals(other)
}

// LooseEquals implements the == operator. Objects compared against primitives
// go through ToPrimitive, which may run script code and therefore fail.
func (v Value) LooseEquals(other Value) (bool, error) {
	for {
		if v.typ == other.typ {
			return v.StrictEquals(other), nil
		}
		if v.IsNullish() && other.IsNullish() {
			return true, nil
		}
		switch {
		case v.typ == TypeNumber && other.typ == TypeString:
			return v.AsNumber() == StringToNumber(other.AsString()), nil
		case v.typ == TypeString && other.typ == TypeNumber:
			return StringToNumber(v.AsString()) == other.AsNumber(), nil
		case v.typ == TypeBigInt && other.typ == TypeString:
			n, ok := ParseBigInt(other.AsString())
			return ok && v.AsBigInt().Equal(n), nil
		case v.typ == TypeString && other.typ == TypeBigInt:
			n, ok := ParseBigInt(v.AsString())
			return ok && other.AsBigInt().Equal(n), nil
		case v.typ == TypeBoolean:
			v = NumberValue(boolToFloat(v.AsBoolean()))
			continue
		case other.typ == TypeBoolean:
			other = NumberValue(boolToFloat(other.AsBoolean()))
			continue
		case v.typ == TypeObject && other.typ != TypeObject && !other.IsNullish():
			prim, err := v.ToPrimitive(HintDefault)
			if err != nil {
				return false, err
			}
			v = prim
			continue
		case other.typ == TypeObject && v.typ != TypeObject && !v.IsNullish():
			prim, err := other.ToPrimitive(HintDefault)
			if err != nil {
				return false, err
			}
			other = prim
			continue
		case v.typ == TypeBigInt && other.typ == TypeNumber:
			return v.AsBigInt().EqualFloat64(other.AsNumber()), nil
		case v.typ == TypeNumber && other.typ == TypeBigInt:
			return other.AsBigInt().EqualFloat64(v.AsNumber()), nil
		}
		return false, nil
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// --- Inspection ---

const inspectDepth = 3

func (v Value) String() string {
	return v.Inspect()
}

// Inspect returns a developer-friendly representation of v, similar to a REPL.
func (v Value) Inspect() string {
	var b strings.Builder
	inspectValue(&b, v, 0, map[*Object]bool{})
	return b.String()
}

func inspectValue(b *strings.Builder, v Value, depth int, seen map[*Object]bool) {
	switch v.typ {
	case TypeString:
		if depth == 0 {
			b.WriteString(v.AsString())
		} else {
			b.WriteString(strconv.Quote(v.AsString()))
		}
	case TypeNumber:
		b.WriteString(NumberToString(v.AsNumber()))
	case TypeBigInt:
		b.WriteString(v.AsBigInt().String())
		b.WriteByte('n')
	case TypeSymbol:
		b.WriteString("Symbol(" + v.AsSymbol().Description + ")")
	case TypeObject:
		inspectObject(b, v.AsObject(), depth, seen)
	case TypeBoolean:
		b.WriteString(strconv.FormatBool(v.AsBoolean()))
	default:
		b.WriteString(v.typ.String())
	}
}

func inspectObject(b *strings.Builder, o *Object, depth int, seen map[*Object]bool) {
	if seen[o] {
		b.WriteString("[Circular]")
		return
	}
	switch o.kind {
	case KindFunction:
		name := o.dataString("name")
		if name == "" {
			b.WriteString("[Function (anonymous)]")
		} else {
			b.WriteString("[Function: " + name + "]")
		}
		return
	case KindError:
		name, _ := o.Get("name")
		msg, _ := o.Get("message")
		b.WriteString(safeString(name))
		if m := safeString(msg); m != "" {
			b.WriteString(": " + m)
		}
		return
	case KindRegExp:
		b.WriteString("/" + o.regexp.source + "/" + o.regexp.flags)
		return
	case KindBoolean, KindNumber, KindString, KindBigInt, KindSymbol:
		b.WriteString("[" + o.kind.String() + ": ")
		inspectValue(b, o.primitive, depth+1, seen)
		b.WriteString("]")
		return
	}
	if depth >= inspectDepth {
		if o.kind == KindArray {
			b.WriteString("[Array]")
		} else {
			b.WriteString("[Object]")
		}
		return
	}
	seen[o] = true
	defer delete(seen, o)

	if o.kind == KindArray {
		b.WriteString("[")
		n := o.arrayLength()
		for i := uint32(0); i < n; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			p, ok := o.lookup(strconv.FormatUint(uint64(i), 10))
			switch {
			case !ok:
				b.WriteString("<empty>")
			case p.accessor:
				b.WriteString("[Getter/Setter]")
			default:
				inspectValue(b, p.value, depth+1, seen)
			}
		}
		b.WriteString("]")
		return
	}

	keys := o.EnumerableOwnKeys()
	if len(keys) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{ ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		p, _ := o.lookup(k)
		if p.accessor {
			b.WriteString("[Getter/Setter]")
			continue
		}
		inspectValue(b, p.value, depth+1, seen)
	}
	b.WriteString(" }")
}

func safeString(v Value) string {
	s, err := v.ToString()
	if err != nil {
		return v.typ.String()
	}
	return s
}
