package values

import (
	"math"
	"strconv"
	"strings"

	"jscore/pkg/errors"
)

// Hint selects the preferred primitive type for ToPrimitive.
type Hint uint8

const (
	HintDefault Hint = iota
	HintNumber
	HintString
)

// ToPrimitive converts objects through OrdinaryToPrimitive; primitives are
// returned unchanged and primitive wrappers yield their wrapped value.
func (v Value) ToPrimitive(hint Hint) (Value, error) {
	if v.typ != TypeObject {
		return v, nil
	}
	o := v.AsObject()
	switch o.kind {
	case KindBoolean, KindNumber, KindString, KindBigInt, KindSymbol:
		// Wrappers share Object.prototype, so their primitive is read directly.
		return o.primitive, nil
	}
	order := [2]string{"valueOf", "toString"}
	if hint == HintString {
		order = [2]string{"toString", "valueOf"}
	}
	for _, name := range order {
		method, err := o.Get(name)
		if err != nil {
			return Undefined, err
		}
		if !method.IsCallable() {
			continue
		}
		result, err := method.AsObject().Call(v, nil)
		if err != nil {
			return Undefined, err
		}
		if result.typ != TypeObject {
			return result, nil
		}
	}
	return Undefined, errors.Typef("Cannot convert object to primitive value")
}

// ToBoolean never fails. null, undefined, false, ±0, NaN, 0n and "" are false.
func (v Value) ToBoolean() bool {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return false
	case TypeBoolean:
		return v.AsBoolean()
	case TypeNumber:
		f := v.AsNumber()
		return f != 0 && !math.IsNaN(f)
	case TypeString:
		return v.AsString() != ""
	case TypeBigInt:
		return !v.AsBigInt().IsZero()
	default:
		return true
	}
}

func (v Value) ToNumber() (float64, error) {
	switch v.typ {
	case TypeUndefined:
		return math.NaN(), nil
	case TypeNull:
		return 0, nil
	case TypeBoolean:
		return boolToFloat(v.AsBoolean()), nil
	case TypeNumber:
		return v.AsNumber(), nil
	case TypeString:
		return StringToNumber(v.AsString()), nil
	case TypeBigInt:
		return 0, errors.Typef("Cannot convert a BigInt value to a number")
	case TypeSymbol:
		return 0, errors.Typef("Cannot convert a Symbol value to a number")
	}
	prim, err := v.ToPrimitive(HintNumber)
	if err != nil {
		return 0, err
	}
	return prim.ToNumber()
}

// ToNumeric yields either a Number or a BigInt value.
func (v Value) ToNumeric() (Value, error) {
	prim, err := v.ToPrimitive(HintNumber)
	if err != nil {
		return Undefined, err
	}
	if prim.typ == TypeBigInt || prim.typ == TypeNumber {
		return prim, nil
	}
	f, err := prim.ToNumber()
	if err != nil {
		return Undefined, err
	}
	return NumberValue(f), nil
}

func (v Value) ToString() (string, error) {
	switch v.typ {
	case TypeUndefined:
		return "undefined", nil
	case TypeNull:
		return "null", nil
	case TypeBoolean:
		return strconv.FormatBool(v.AsBoolean()), nil
	case TypeNumber:
		return NumberToString(v.AsNumber()), nil
	case TypeString:
		return v.AsString(), nil
	case TypeBigInt:
		return v.AsBigInt().String(), nil
	case TypeSymbol:
		return "", errors.Typef("Cannot convert a Symbol value to a string")
	}
	prim, err := v.ToPrimitive(HintString)
	if err != nil {
		return "", err
	}
	return prim.ToString()
}

// ToPropertyKey converts v to a property name. Property keys are strings only,
// so symbols map to their descriptive form.
func (v Value) ToPropertyKey() (string, error) {
	prim, err := v.ToPrimitive(HintString)
	if err != nil {
		return "", err
	}
	if prim.typ == TypeSymbol {
		return "Symbol(" + prim.AsSymbol().Description + ")", nil
	}
	return prim.ToString()
}

// ToObject boxes primitives into wrapper objects. null and undefined fail.
func (v Value) ToObject() (*Object, error) {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return nil, errors.Typef("Cannot convert undefined or null to object")
	case TypeObject:
		return v.AsObject(), nil
	}
	var kind Kind
	switch v.typ {
	case TypeBoolean:
		kind = KindBoolean
	case TypeNumber:
		kind = KindNumber
	case TypeString:
		kind = KindString
	case TypeBigInt:
		kind = KindBigInt
	case TypeSymbol:
		kind = KindSymbol
	}
	o := newObject(kind, ObjectPrototype)
	o.primitive = v
	if kind == KindString {
		s := v.AsString()
		o.SetProperty("length", NewDataProperty(NumberValue(float64(utf16Length(s))), false, false, false))
	}
	return o, nil
}

// ToIntegerOrInfinity truncates toward zero; NaN becomes 0.
func (v Value) ToIntegerOrInfinity() (float64, error) {
	f, err := v.ToNumber()
	if err != nil {
		return 0, err
	}
	return integerOrInfinity(f), nil
}

func integerOrInfinity(f float64) float64 {
	if math.IsNaN(f) || f == 0 {
		return 0
	}
	if math.IsInf(f, 0) {
		return f
	}
	return math.Trunc(f)
}

// modularInt reduces f modulo 2^bits the way ToInt32 and friends do,
// returning the unsigned representative.
func modularInt(f float64, bits uint) uint64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	t := math.Trunc(f)
	if bits == 64 && t >= math.MinInt64 && t < math.MaxInt64 {
		// Adding 2^64 to a small negative number would round in float64.
		return uint64(int64(t))
	}
	mod := math.Ldexp(1, int(bits))
	m := math.Mod(t, mod)
	if m < 0 {
		m += mod
	}
	if m >= mod {
		return 0
	}
	return uint64(m)
}

func (v Value) toModular(bits uint) (uint64, error) {
	f, err := v.ToNumber()
	if err != nil {
		return 0, err
	}
	return modularInt(f, bits), nil
}

func (v Value) ToInt32() (int32, error) {
	u, err := v.toModular(32)
	return int32(uint32(u)), err
}

func (v Value) ToUint32() (uint32, error) {
	u, err := v.toModular(32)
	return uint32(u), err
}

func (v Value) ToInt16() (int16, error) {
	u, err := v.toModular(16)
	return int16(uint16(u)), err
}

func (v Value) ToUint16() (uint16, error) {
	u, err := v.toModular(16)
	return uint16(u), err
}

func (v Value) ToInt8() (int8, error) {
	u, err := v.toModular(8)
	return int8(uint8(u)), err
}

func (v Value) ToUint8() (uint8, error) {
	u, err := v.toModular(8)
	return uint8(u), err
}

func (v Value) ToInt64() (int64, error) {
	u, err := v.toModular(64)
	return int64(u), err
}

func (v Value) ToUint64() (uint64, error) {
	return v.toModular(64)
}

// ToLength clamps to [0, 2^53-1].
func (v Value) ToLength() (int64, error) {
	f, err := v.ToIntegerOrInfinity()
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, nil
	}
	if f > maxSafeInteger {
		return maxSafeInteger, nil
	}
	return int64(f), nil
}

const maxSafeInteger = 1<<53 - 1

// ToBigInt accepts booleans, bigints and numeric strings. Numbers are a
// TypeError; BigInt(n) goes through BigIntFromFloat instead.
func (v Value) ToBigInt() (BigInt, error) {
	prim, err := v.ToPrimitive(HintNumber)
	if err != nil {
		return BigInt{}, err
	}
	switch prim.typ {
	case TypeBigInt:
		return prim.AsBigInt(), nil
	case TypeBoolean:
		if prim.AsBoolean() {
			return BigIntFromInt64(1), nil
		}
		return BigInt{}, nil
	case TypeString:
		n, ok := ParseBigInt(prim.AsString())
		if !ok {
			return BigInt{}, errors.Syntaxf("Cannot convert %s to a BigInt", prim.AsString())
		}
		return n, nil
	case TypeNumber:
		return BigInt{}, errors.Typef("Cannot convert %s to a BigInt", NumberToString(prim.AsNumber()))
	default:
		return BigInt{}, errors.Typef("Cannot convert %s to a BigInt", prim.Inspect())
	}
}

// --- Number <-> String ---

// NumberToString implements Number::toString for radix 10.
func NumberToString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		return cleanExponent(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cleanExponent drops leading zeros from the exponent: "1e-07" -> "1e-7".
func cleanExponent(s string) string {
	i := strings.IndexAny(s, "eE")
	if i < 0 || i+1 >= len(s) || (s[i+1] != '+' && s[i+1] != '-') {
		return s
	}
	digits := strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return s[:i+2] + digits
}

// StringToNumber implements ToNumber for strings: whitespace-trimmed decimal
// literals, Infinity, and 0x/0o/0b integers. Anything else is NaN.
func StringToNumber(s string) float64 {
	str := trimJSSpace(s)
	if str == "" {
		return 0
	}
	if len(str) > 2 && str[0] == '0' {
		base := 0
		switch str[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseRadixInteger(str[2:], base)
		}
	}
	switch str {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if !isDecimalLiteral(str) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

func parseRadixInteger(digits string, base int) float64 {
	if digits == "" {
		return math.NaN()
	}
	if n, err := strconv.ParseUint(digits, base, 64); err == nil {
		return float64(n)
	}
	n, ok := ParseBigInt("0" + radixPrefix(base) + digits)
	if !ok {
		return math.NaN()
	}
	return n.Float64()
}

func radixPrefix(base int) string {
	switch base {
	case 16:
		return "x"
	case 8:
		return "o"
	default:
		return "b"
	}
}

// isDecimalLiteral checks the StrDecimalLiteral grammar so that Go-only forms
// accepted by strconv (underscores, "inf", hex floats) are rejected.
func isDecimalLiteral(s string) bool {
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// trimJSSpace trims WhiteSpace and LineTerminator code points, which include
// U+FEFF on top of Go's unicode.IsSpace set.
func trimJSSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		switch r {
		case '\t', '\n', '\v', '\f', '\r', ' ', 0xA0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
			return true
		}
		return r >= 0x2000 && r <= 0x200A
	})
}

// utf16Length counts UTF-16 code units, which is what String length reports.
func utf16Length(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
