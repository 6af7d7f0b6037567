package values

import (
	"math"
	"math/big"
	"strings"

	"jscore/pkg/errors"
)

// maxBigIntBits bounds the size of any BigInt produced by Shl, Pow or AsUintN.
const maxBigIntBits = 1 << 24

// MaxBigIntBits is the largest bit width a BigInt may need.
const MaxBigIntBits = maxBigIntBits

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// BigInt is an immutable arbitrary-precision integer. The zero value is 0n.
// The wrapped *big.Int is never mutated after construction.
type BigInt struct {
	i *big.Int
}

func BigIntFromInt64(n int64) BigInt {
	return BigInt{i: big.NewInt(n)}
}

// BigIntFromBig copies b.
func BigIntFromBig(b *big.Int) BigInt {
	return BigInt{i: new(big.Int).Set(b)}
}

// BigIntFromFloat is NumberToBigInt: only integral, finite numbers convert.
func BigIntFromFloat(f float64) (BigInt, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return BigInt{}, errors.Rangef("The number %s cannot be converted to a BigInt because it is not an integer", NumberToString(f))
	}
	i, _ := new(big.Float).SetFloat64(f).Int(nil)
	return BigInt{i: i}, nil
}

// ParseBigInt is StringToBigInt. Surrounding whitespace is ignored, an empty
// string is 0n, and 0x/0o/0b prefixes select the radix (without a sign).
func ParseBigInt(s string) (BigInt, bool) {
	s = trimJSSpace(s)
	if s == "" {
		return BigInt{}, true
	}
	base := 10
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			s = s[2:]
			if s[0] == '+' || s[0] == '-' {
				return BigInt{}, false
			}
		}
	}
	if strings.ContainsRune(s, '_') {
		return BigInt{}, false
	}
	i, ok := new(big.Int).SetString(s, base)
	if !ok {
		return BigInt{}, false
	}
	return BigInt{i: i}, true
}

func (a BigInt) bi() *big.Int {
	if a.i == nil {
		return bigZero
	}
	return a.i
}

// Big returns a copy of the underlying integer.
func (a BigInt) Big() *big.Int {
	return new(big.Int).Set(a.bi())
}

func (a BigInt) Sign() int    { return a.bi().Sign() }
func (a BigInt) IsZero() bool { return a.bi().Sign() == 0 }

func (a BigInt) String() string { return a.bi().String() }

// Text renders a in the given radix (2..36).
func (a BigInt) Text(radix int) string { return a.bi().Text(radix) }

// Int64 returns the value when it fits an int64.
func (a BigInt) Int64() (int64, bool) {
	if !a.bi().IsInt64() {
		return 0, false
	}
	return a.bi().Int64(), true
}

// Float64 returns the nearest float64, saturating to ±Inf.
func (a BigInt) Float64() float64 {
	f, _ := new(big.Float).SetInt(a.bi()).Float64()
	return f
}

// --- Arithmetic ---

func (a BigInt) Add(b BigInt) BigInt { return BigInt{i: new(big.Int).Add(a.bi(), b.bi())} }
func (a BigInt) Sub(b BigInt) BigInt { return BigInt{i: new(big.Int).Sub(a.bi(), b.bi())} }
func (a BigInt) Mul(b BigInt) BigInt { return BigInt{i: new(big.Int).Mul(a.bi(), b.bi())} }
func (a BigInt) Neg() BigInt         { return BigInt{i: new(big.Int).Neg(a.bi())} }

// Not is the bitwise complement, -a - 1.
func (a BigInt) Not() BigInt { return BigInt{i: new(big.Int).Not(a.bi())} }

// Div truncates toward zero.
func (a BigInt) Div(b BigInt) (BigInt, error) {
	if b.IsZero() {
		return BigInt{}, errors.Rangef("Division by zero")
	}
	return BigInt{i: new(big.Int).Quo(a.bi(), b.bi())}, nil
}

// Rem takes the sign of the dividend.
func (a BigInt) Rem(b BigInt) (BigInt, error) {
	if b.IsZero() {
		return BigInt{}, errors.Rangef("Division by zero")
	}
	return BigInt{i: new(big.Int).Rem(a.bi(), b.bi())}, nil
}

func (a BigInt) Pow(b BigInt) (BigInt, error) {
	if b.Sign() < 0 {
		return BigInt{}, errors.Rangef("Exponent must be non-negative")
	}
	base := a.bi()
	if base.Sign() == 0 || base.Cmp(bigOne) == 0 {
		if b.IsZero() {
			return BigIntFromInt64(1), nil
		}
		return a, nil
	}
	if base.CmpAbs(bigOne) == 0 {
		// -1 ** n alternates sign.
		if b.bi().Bit(0) == 0 {
			return BigIntFromInt64(1), nil
		}
		return a, nil
	}
	exp, ok := b.Int64()
	if !ok || exp > maxBigIntBits || int64(base.BitLen()-1)*exp > maxBigIntBits {
		return BigInt{}, errors.Rangef("Maximum BigInt size exceeded")
	}
	return BigInt{i: new(big.Int).Exp(base, b.bi(), nil)}, nil
}

func (a BigInt) And(b BigInt) BigInt { return BigInt{i: new(big.Int).And(a.bi(), b.bi())} }
func (a BigInt) Or(b BigInt) BigInt  { return BigInt{i: new(big.Int).Or(a.bi(), b.bi())} }
func (a BigInt) Xor(b BigInt) BigInt { return BigInt{i: new(big.Int).Xor(a.bi(), b.bi())} }

// Shl shifts left by b bits; a negative count shifts right. A count that does
// not fit a native integer, or a result beyond maxBigIntBits, is a RangeError.
func (a BigInt) Shl(b BigInt) (BigInt, error) {
	n, ok := b.Int64()
	if !ok {
		if b.Sign() < 0 {
			return a.shiftRightSaturated(), nil
		}
		if a.IsZero() {
			return a, nil
		}
		return BigInt{}, errors.Rangef("Maximum BigInt size exceeded")
	}
	if n < 0 {
		if n == math.MinInt64 {
			return a.shiftRightSaturated(), nil
		}
		return a.shr(-n), nil
	}
	if a.IsZero() {
		return a, nil
	}
	if n > maxBigIntBits || int64(a.bi().BitLen())+n > maxBigIntBits {
		return BigInt{}, errors.Rangef("Maximum BigInt size exceeded")
	}
	return BigInt{i: new(big.Int).Lsh(a.bi(), uint(n))}, nil
}

// Shr is the arithmetic (sign-propagating) right shift.
func (a BigInt) Shr(b BigInt) (BigInt, error) {
	return a.Shl(b.Neg())
}

func (a BigInt) shr(n int64) BigInt {
	if n >= int64(a.bi().BitLen())+1 {
		return a.shiftRightSaturated()
	}
	return BigInt{i: new(big.Int).Rsh(a.bi(), uint(n))}
}

func (a BigInt) shiftRightSaturated() BigInt {
	if a.Sign() < 0 {
		return BigIntFromInt64(-1)
	}
	return BigInt{}
}

// AsIntN wraps a into the signed range of the given bit width.
func (a BigInt) AsIntN(bits uint) BigInt {
	if bits == 0 {
		return BigInt{}
	}
	if uint(a.bi().BitLen()) < bits {
		return a
	}
	mod := new(big.Int).Lsh(bigOne, bits)
	r := new(big.Int).Mod(a.bi(), mod)
	if r.Cmp(new(big.Int).Lsh(bigOne, bits-1)) >= 0 {
		r.Sub(r, mod)
	}
	return BigInt{i: r}
}

// AsUintN wraps a into [0, 2^bits).
func (a BigInt) AsUintN(bits uint) BigInt {
	if bits == 0 {
		return BigInt{}
	}
	if a.Sign() >= 0 && uint(a.bi().BitLen()) <= bits {
		return a
	}
	mod := new(big.Int).Lsh(bigOne, bits)
	return BigInt{i: new(big.Int).Mod(a.bi(), mod)}
}

// --- Comparison ---

func (a BigInt) Cmp(b BigInt) int        { return a.bi().Cmp(b.bi()) }
func (a BigInt) Equal(b BigInt) bool     { return a.Cmp(b) == 0 }
func (a BigInt) CmpInt64(n int64) int    { return a.bi().Cmp(big.NewInt(n)) }
func (a BigInt) EqualInt64(n int64) bool { return a.CmpInt64(n) == 0 }

// CmpFloat64 compares a with f exactly. ok is false when f is NaN.
func (a BigInt) CmpFloat64(f float64) (cmp int, ok bool) {
	switch {
	case math.IsNaN(f):
		return 0, false
	case math.IsInf(f, 1):
		return -1, true
	case math.IsInf(f, -1):
		return 1, true
	}
	return new(big.Float).SetInt(a.bi()).Cmp(big.NewFloat(f)), true
}

func (a BigInt) EqualFloat64(f float64) bool {
	c, ok := a.CmpFloat64(f)
	return ok && c == 0
}
