package values

import (
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/google/go-cmp/cmp"

	"jscore/pkg/errors"
)

func roundTrip[T any](t *testing.T, x T) T {
	t.Helper()
	got, err := FromValue[T](ToValue(x))
	if err != nil {
		t.Fatalf("FromValue(ToValue(%v)) failed: %v", x, err)
	}
	return got
}

func TestRoundTrips(t *testing.T) {
	if got := roundTrip(t, "héllo"); got != "héllo" {
		t.Errorf("string: got %q", got)
	}
	if got := roundTrip(t, true); !got {
		t.Error("bool: got false")
	}
	if got := roundTrip(t, 2.5); got != 2.5 {
		t.Errorf("float64: got %v", got)
	}
	if got := roundTrip(t, math.NaN()); !math.IsNaN(got) {
		t.Errorf("float64 NaN: got %v", got)
	}
	if got := roundTrip(t, int32(-7)); got != -7 {
		t.Errorf("int32: got %d", got)
	}
	if got := roundTrip(t, uint(42)); got != 42 {
		t.Errorf("uint: got %d", got)
	}
	if got := roundTrip(t, struct{}{}); got != struct{}{} {
		t.Errorf("unit: got %v", got)
	}

	n := 5
	if got := roundTrip(t, &n); got == nil || *got != 5 {
		t.Errorf("pointer: got %v", got)
	}
	var none *int
	if got := roundTrip(t, none); got != nil {
		t.Errorf("nil pointer: got %v", *got)
	}

	slice := []string{"a", "b", "c"}
	if diff := cmp.Diff(slice, roundTrip(t, slice)); diff != "" {
		t.Errorf("slice mismatch (-want +got):\n%s", diff)
	}
	nested := [][]int{{1, 2}, {}, {3}}
	if diff := cmp.Diff(nested, roundTrip(t, nested)); diff != "" {
		t.Errorf("nested slice mismatch (-want +got):\n%s", diff)
	}
	m := map[string]float64{"x": 1, "y": -2}
	if diff := cmp.Diff(m, roundTrip(t, m)); diff != "" {
		t.Errorf("map mismatch (-want +got):\n%s", diff)
	}

	b := BigIntFromInt64(-99)
	if got := roundTrip(t, b); !got.Equal(b) {
		t.Errorf("BigInt: got %s", got.String())
	}
	bi, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if got := roundTrip(t, bi); got.Cmp(bi) != 0 {
		t.Errorf("*big.Int: got %s", got.String())
	}
}

func TestCharConversions(t *testing.T) {
	v := CharToValue('é')
	if v.AsString() != "é" {
		t.Errorf("Expected one-character string, got %s", v.Inspect())
	}
	r, err := ValueToChar(NewString("\U0001F600rest"))
	if err != nil || r != 0x1F600 {
		t.Errorf("Expected first code point, got %q (%v)", r, err)
	}
	var convErr *errors.ConversionError
	if _, err := ValueToChar(NewString("")); !stderrors.As(err, &convErr) {
		t.Errorf("Expected ConversionError, got %v", err)
	}
}

func TestIntegerTruncation(t *testing.T) {
	if got, _ := FromValue[int32](NumberValue(4294967295)); got != -1 {
		t.Errorf("Expected ToInt32 wrap to -1, got %d", got)
	}
	if got, _ := FromValue[uint8](NumberValue(-1)); got != 255 {
		t.Errorf("Expected ToUint8 wrap to 255, got %d", got)
	}
	if got, _ := FromValue[int](NewString("12.9")); got != 12 {
		t.Errorf("Expected string coerced and truncated to 12, got %d", got)
	}
	if got, _ := FromValue[bool](NewString("")); got {
		t.Error("Expected empty string to be false")
	}
	if got, _ := FromValue[float64](NewBigInt(BigIntFromInt64(3))); got != 3 {
		t.Errorf("Expected BigInt to convert to 3, got %v", got)
	}
}

func TestConversionErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
	}{
		{"symbol to string", func() error { _, err := FromValue[string](NewSymbol("s")); return err }},
		{"number to slice", func() error { _, err := FromValue[[]int](NumberValue(1)); return err }},
		{"string to map", func() error { _, err := FromValue[map[string]int](NewString("x")); return err }},
		{"fraction to BigInt", func() error { _, err := FromValue[BigInt](NumberValue(1.5)); return err }},
		{"short array", func() error { _, err := FromValue[[3]int](NewArray(NumberValue(1))); return err }},
		{"channel", func() error { _, err := FromValue[chan int](Null); return err }},
		{"non-object", func() error { _, err := FromValue[*Object](NumberValue(1)); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var convErr *errors.ConversionError
			if err := tt.run(); !stderrors.As(err, &convErr) {
				t.Errorf("Expected ConversionError, got %v", err)
			}
		})
	}
}

func TestSequenceIgnoresExtraKeys(t *testing.T) {
	arr := NewArrayObject([]Value{NumberValue(1)})
	arr.CreateDataProperty("name", NewString("ignored"))
	arr.Set("3", NumberValue(4), true)
	got, err := FromValue[[]any](ObjectValue(arr))
	if err != nil {
		t.Fatalf("FromValue failed: %v", err)
	}
	want := []any{1.0, nil, nil, 4.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectIdentityAndClone(t *testing.T) {
	o := NewObject(ObjectPrototype)
	o.CreateDataProperty("a", NumberValue(1))
	if got := ToValue(o); got.AsObject() != o {
		t.Error("Expected *Object to convert by identity")
	}
	clone := ToValue(*o).AsObject()
	if clone == o {
		t.Error("Expected Object to convert to a clone")
	}
	clone.Set("a", NumberValue(2), true)
	if v, _ := o.Get("a"); v.AsNumber() != 1 {
		t.Errorf("Expected original untouched, got %s", v.Inspect())
	}
	ptr, err := FromValue[*Object](ObjectValue(o))
	if err != nil || ptr != o {
		t.Errorf("Expected identity back, got %v (%v)", ptr, err)
	}
}

type server struct {
	Host    string   `js:"host"`
	Port    int      `js:"port"`
	Tags    []string `js:"tags"`
	Debug   bool     `js:"debug"`
	Secret  string   `js:"-"`
	Handler Value    `js:"handler"`
}

func TestStructConversions(t *testing.T) {
	v := ToValue(server{Host: "localhost", Port: 8080, Tags: []string{"a"}, Secret: "x"})
	o := v.AsObject()
	if o.HasOwnProperty("Secret") || o.HasOwnProperty("secret") {
		t.Error("Expected js:\"-\" field to be skipped")
	}
	if h, _ := o.Get("host"); h.AsString() != "localhost" {
		t.Errorf("Expected host, got %s", h.Inspect())
	}

	src := NewObject(ObjectPrototype)
	src.CreateDataProperty("host", NewString("example.org"))
	src.CreateDataProperty("port", NewString("443"))
	src.CreateDataProperty("tags", NewArray(NewString("x"), NewString("y")))
	src.CreateDataProperty("debug", True)
	src.CreateDataProperty("handler", NewString("fn"))
	got, err := FromValue[server](ObjectValue(src))
	if err != nil {
		t.Fatalf("FromValue failed: %v", err)
	}
	if got.Host != "example.org" || got.Port != 443 || !got.Debug {
		t.Errorf("Unexpected struct %+v", got)
	}
	if diff := cmp.Diff([]string{"x", "y"}, got.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if !got.Handler.StrictEquals(NewString("fn")) {
		t.Errorf("Expected Value field to receive the script value, got %s", got.Handler.Inspect())
	}

	bad := NewObject(ObjectPrototype)
	bad.CreateDataProperty("port", NewString("not a number"))
	var convErr *errors.ConversionError
	if err := Decode(ObjectValue(bad), &server{}); !stderrors.As(err, &convErr) {
		t.Errorf("Expected ConversionError, got %v", err)
	}
}

func TestErrorConversions(t *testing.T) {
	v := ToValue(errors.Rangef("out of range"))
	if v.AsObject().Kind() != KindError {
		t.Fatalf("Expected an Error object, got %s", v.Inspect())
	}
	if v.Inspect() != "RangeError: out of range" {
		t.Errorf("Unexpected error rendering %q", v.Inspect())
	}
	plain := ToValue(fmt.Errorf("boom"))
	if plain.Inspect() != "Error: boom" {
		t.Errorf("Unexpected error rendering %q", plain.Inspect())
	}
	thrown := ErrorValue(fmt.Errorf("wrapped: %w", ThrowValue(NumberValue(7))))
	if !thrown.StrictEquals(NumberValue(7)) {
		t.Errorf("Expected thrown value to pass through, got %s", thrown.Inspect())
	}
	conv := ErrorValue(&errors.ConversionError{Target: "int", From: "symbol", Msg: "nope"})
	if name, _ := conv.AsObject().Get("name"); name.AsString() != "TypeError" {
		t.Errorf("Expected conversion errors to surface as TypeError, got %s", name.Inspect())
	}
}

func TestExport(t *testing.T) {
	inner := NewObject(ObjectPrototype)
	inner.CreateDataProperty("n", NumberValue(1))
	inner.CreateDataProperty("self", ObjectValue(inner))
	inner.DefineOwnProperty("hidden", DataDescriptor(True, true, false, true))
	wrapped, _ := NewString("w").ToObject()

	got := Export(NewArray(ObjectValue(inner), Null, ObjectValue(wrapped), NewBigInt(BigIntFromInt64(2))))
	want := []any{
		map[string]any{"n": 1.0, "self": nil},
		nil,
		"w",
		big.NewInt(2),
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b *big.Int) bool { return a.Cmp(b) == 0 })); diff != "" {
		t.Errorf("Export mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONTrees(t *testing.T) {
	obj := NewJSONObject()
	obj.Put("z", 1.0)
	obj.Put("a", []any{true, nil, "s", map[string]any{"k": 2.0}})
	v := FromJSON(obj)
	if diff := cmp.Diff([]string{"z", "a"}, v.AsObject().OwnKeys()); diff != "" {
		t.Errorf("Key order mismatch (-want +got):\n%s", diff)
	}

	tree, err := ToJSON(v)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	back, ok := tree.(*linkedhashmap.Map)
	if !ok {
		t.Fatalf("Expected an ordered object node, got %T", tree)
	}
	if diff := cmp.Diff([]any{"z", "a"}, back.Keys()); diff != "" {
		t.Errorf("Round-trip key order mismatch (-want +got):\n%s", diff)
	}
	node, _ := back.Get("a")
	arr := node.([]any)
	if diff := cmp.Diff([]any{true, nil, "s"}, arr[:3]); diff != "" {
		t.Errorf("Array node mismatch (-want +got):\n%s", diff)
	}
	nested, ok := arr[3].(*linkedhashmap.Map)
	if !ok {
		t.Fatalf("Expected nested ordered object, got %T", arr[3])
	}
	if k, _ := nested.Get("k"); k != 2.0 {
		t.Errorf("Expected nested k = 2, got %v", k)
	}

	fromMap, err := FromValue[*linkedhashmap.Map](v)
	if err != nil || fromMap.Size() != 2 {
		t.Errorf("Expected FromValue to rebuild the JSON tree, got %v (%v)", fromMap, err)
	}
}

func TestToJSONOmissions(t *testing.T) {
	o := NewObject(ObjectPrototype)
	o.CreateDataProperty("u", Undefined)
	o.CreateDataProperty("f", NewNativeFunction("f", 0, nil))
	o.CreateDataProperty("n", NaN)
	tree, err := ToJSON(ObjectValue(o))
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	got := Export(FromJSON(tree))
	if diff := cmp.Diff(map[string]any{"n": nil}, got); diff != "" {
		t.Errorf("ToJSON mismatch (-want +got):\n%s", diff)
	}

	cyclic := NewObject(ObjectPrototype)
	cyclic.CreateDataProperty("me", ObjectValue(cyclic))
	if _, err := ToJSON(ObjectValue(cyclic)); err == nil {
		t.Error("Expected cycle to be rejected")
	}
}
