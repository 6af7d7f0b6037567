package values

import (
	"math"

	"jscore/pkg/errors"
)

func mixError() error {
	return errors.Typef("Cannot mix BigInt and other types, use explicit conversions")
}

// numericPair coerces both operands with ToNumeric and checks that they agree
// on Number versus BigInt.
func numericPair(a, b Value) (Value, Value, error) {
	l, err := a.ToNumeric()
	if err != nil {
		return Undefined, Undefined, err
	}
	r, err := b.ToNumeric()
	if err != nil {
		return Undefined, Undefined, err
	}
	if l.typ != r.typ {
		return Undefined, Undefined, mixError()
	}
	return l, r, nil
}

func arithmetic(a, b Value, num func(x, y float64) float64, big func(x, y BigInt) (BigInt, error)) (Value, error) {
	l, r, err := numericPair(a, b)
	if err != nil {
		return Undefined, err
	}
	if l.typ == TypeBigInt {
		n, err := big(l.AsBigInt(), r.AsBigInt())
		if err != nil {
			return Undefined, err
		}
		return NewBigInt(n), nil
	}
	return NumberValue(num(l.AsNumber(), r.AsNumber())), nil
}

func total(f func(x, y BigInt) BigInt) func(x, y BigInt) (BigInt, error) {
	return func(x, y BigInt) (BigInt, error) { return f(x, y), nil }
}

// Add implements the + operator, including string concatenation.
func Add(a, b Value) (Value, error) {
	l, err := a.ToPrimitive(HintDefault)
	if err != nil {
		return Undefined, err
	}
	r, err := b.ToPrimitive(HintDefault)
	if err != nil {
		return Undefined, err
	}
	if l.typ == TypeString || r.typ == TypeString {
		ls, err := l.ToString()
		if err != nil {
			return Undefined, err
		}
		rs, err := r.ToString()
		if err != nil {
			return Undefined, err
		}
		return NewString(ls + rs), nil
	}
	return arithmetic(l, r, func(x, y float64) float64 { return x + y }, total(BigInt.Add))
}

func Subtract(a, b Value) (Value, error) {
	return arithmetic(a, b, func(x, y float64) float64 { return x - y }, total(BigInt.Sub))
}

func Multiply(a, b Value) (Value, error) {
	return arithmetic(a, b, func(x, y float64) float64 { return x * y }, total(BigInt.Mul))
}

func Divide(a, b Value) (Value, error) {
	return arithmetic(a, b, func(x, y float64) float64 { return x / y }, BigInt.Div)
}

// Remainder is %, which truncates like math.Mod.
func Remainder(a, b Value) (Value, error) {
	return arithmetic(a, b, math.Mod, BigInt.Rem)
}

func Exponentiate(a, b Value) (Value, error) {
	return arithmetic(a, b, pow, BigInt.Pow)
}

// pow is Number::exponentiate. It differs from math.Pow for 1 ** NaN and
// ±1 ** ±Infinity, which are NaN.
func pow(x, y float64) float64 {
	if math.IsNaN(y) {
		return math.NaN()
	}
	if math.Abs(x) == 1 && math.IsInf(y, 0) {
		return math.NaN()
	}
	return math.Pow(x, y)
}

func int32Op(a, b Value, f func(x int32, y uint32) int32, big func(x, y BigInt) (BigInt, error)) (Value, error) {
	l, r, err := numericPair(a, b)
	if err != nil {
		return Undefined, err
	}
	if l.typ == TypeBigInt {
		n, err := big(l.AsBigInt(), r.AsBigInt())
		if err != nil {
			return Undefined, err
		}
		return NewBigInt(n), nil
	}
	x := int32(uint32(modularInt(l.AsNumber(), 32)))
	y := uint32(modularInt(r.AsNumber(), 32))
	return NumberValue(float64(f(x, y))), nil
}

func ShiftLeft(a, b Value) (Value, error) {
	return int32Op(a, b, func(x int32, y uint32) int32 { return x << (y & 31) }, BigInt.Shl)
}

func SignedShiftRight(a, b Value) (Value, error) {
	return int32Op(a, b, func(x int32, y uint32) int32 { return x >> (y & 31) }, BigInt.Shr)
}

// UnsignedShiftRight is >>>, which has no BigInt form.
func UnsignedShiftRight(a, b Value) (Value, error) {
	l, r, err := numericPair(a, b)
	if err != nil {
		return Undefined, err
	}
	if l.typ == TypeBigInt {
		return Undefined, errors.Typef("BigInts have no unsigned right shift, use >> instead")
	}
	x := uint32(modularInt(l.AsNumber(), 32))
	y := uint32(modularInt(r.AsNumber(), 32))
	return NumberValue(float64(x >> (y & 31))), nil
}

func BitwiseAnd(a, b Value) (Value, error) {
	return int32Op(a, b, func(x int32, y uint32) int32 { return x & int32(y) }, total(BigInt.And))
}

func BitwiseOr(a, b Value) (Value, error) {
	return int32Op(a, b, func(x int32, y uint32) int32 { return x | int32(y) }, total(BigInt.Or))
}

func BitwiseXor(a, b Value) (Value, error) {
	return int32Op(a, b, func(x int32, y uint32) int32 { return x ^ int32(y) }, total(BigInt.Xor))
}

// Negate is unary minus.
func Negate(v Value) (Value, error) {
	n, err := v.ToNumeric()
	if err != nil {
		return Undefined, err
	}
	if n.typ == TypeBigInt {
		return NewBigInt(n.AsBigInt().Neg()), nil
	}
	return NumberValue(-n.AsNumber()), nil
}

// BitwiseNot is unary ~.
func BitwiseNot(v Value) (Value, error) {
	n, err := v.ToNumeric()
	if err != nil {
		return Undefined, err
	}
	if n.typ == TypeBigInt {
		return NewBigInt(n.AsBigInt().Not()), nil
	}
	return NumberValue(float64(^int32(uint32(modularInt(n.AsNumber(), 32))))), nil
}

// LessThan is IsLessThan. It returns Undefined when the operands are
// unordered (a NaN is involved), otherwise a Boolean. leftFirst controls the
// order in which the operands are converted.
func LessThan(a, b Value, leftFirst bool) (Value, error) {
	var px, py Value
	var err error
	if leftFirst {
		if px, err = a.ToPrimitive(HintNumber); err != nil {
			return Undefined, err
		}
		if py, err = b.ToPrimitive(HintNumber); err != nil {
			return Undefined, err
		}
	} else {
		if py, err = b.ToPrimitive(HintNumber); err != nil {
			return Undefined, err
		}
		if px, err = a.ToPrimitive(HintNumber); err != nil {
			return Undefined, err
		}
	}

	if px.typ == TypeString && py.typ == TypeString {
		return BooleanValue(compareUTF16(px.AsString(), py.AsString()) < 0), nil
	}
	if px.typ == TypeBigInt && py.typ == TypeString {
		ny, ok := ParseBigInt(py.AsString())
		if !ok {
			return Undefined, nil
		}
		return BooleanValue(px.AsBigInt().Cmp(ny) < 0), nil
	}
	if px.typ == TypeString && py.typ == TypeBigInt {
		nx, ok := ParseBigInt(px.AsString())
		if !ok {
			return Undefined, nil
		}
		return BooleanValue(nx.Cmp(py.AsBigInt()) < 0), nil
	}

	nx, err := px.ToNumeric()
	if err != nil {
		return Undefined, err
	}
	ny, err := py.ToNumeric()
	if err != nil {
		return Undefined, err
	}
	switch {
	case nx.typ == TypeBigInt && ny.typ == TypeBigInt:
		return BooleanValue(nx.AsBigInt().Cmp(ny.AsBigInt()) < 0), nil
	case nx.typ == TypeBigInt:
		c, ok := nx.AsBigInt().CmpFloat64(ny.AsNumber())
		if !ok {
			return Undefined, nil
		}
		return BooleanValue(c < 0), nil
	case ny.typ == TypeBigInt:
		c, ok := ny.AsBigInt().CmpFloat64(nx.AsNumber())
		if !ok {
			return Undefined, nil
		}
		return BooleanValue(c > 0), nil
	}
	x, y := nx.AsNumber(), ny.AsNumber()
	if math.IsNaN(x) || math.IsNaN(y) {
		return Undefined, nil
	}
	return BooleanValue(x < y), nil
}

// compareUTF16 orders strings by UTF-16 code units, which differs from Go's
// byte order for code points above U+FFFF versus U+E000..U+FFFF.
func compareUTF16(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		if ra[i] == rb[i] {
			continue
		}
		ua, ub := firstUnit(ra[i]), firstUnit(rb[i])
		if ua != ub {
			if ua < ub {
				return -1
			}
			return 1
		}
		if ra[i] < rb[i] {
			return -1
		}
		return 1
	}
	switch {
	case len(ra) < len(rb):
		return -1
	case len(ra) > len(rb):
		return 1
	}
	return 0
}

func firstUnit(r rune) rune {
	if r >= 0x10000 {
		return 0xD800 + ((r - 0x10000) >> 10)
	}
	return r
}
