package jsonbridge

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jscore/pkg/errors"
	"jscore/pkg/values"
)

func object(kv ...any) values.Value {
	o := values.NewObject(values.ObjectPrototype)
	for i := 0; i < len(kv); i += 2 {
		o.CreateDataProperty(kv[i].(string), kv[i+1].(values.Value))
	}
	return values.ObjectValue(o)
}

func str(s string) values.Value { return values.NewString(s) }

func num(f float64) values.Value { return values.NumberValue(f) }

func stringify(t *testing.T, v, replacer, space values.Value) string {
	t.Helper()
	out, err := Stringify(v, replacer, space)
	if err != nil {
		t.Fatalf("Stringify failed: %v", err)
	}
	if !out.IsString() {
		t.Fatalf("Expected a string result, got %s", out.Inspect())
	}
	return out.AsString()
}

func TestParseProperty(t *testing.T) {
	v, err := Parse(`{"aaa":"bbb"}`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got, err := v.AsObject().Get("aaa")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.StrictEquals(str("bbb")) {
		t.Errorf("Expected 'bbb', got %s", got.Inspect())
	}
}

func TestDecodeTree(t *testing.T) {
	tree, err := Decode(` [1, "a", null, true, [], -2.5e3] `)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := []any{1.0, "a", nil, true, []any{}, -2500.0}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeKeepsKeyOrder(t *testing.T) {
	tree, err := Decode(`{"z":1,"a":{"y":2,"b":3}}`)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	out, err := Encode(tree, "")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if out != `{"z":1,"a":{"y":2,"b":3}}` {
		t.Errorf("Expected key order preserved, got %s", out)
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		tree   any
		indent string
		want   string
	}{
		{"number", 1e21, "", "1e+21"},
		{"integer", 42.0, "", "42"},
		{"nan", nan(), "", "null"},
		{"control", "a\bb\fc\n", "", `"a\bb\fc\n"`},
		{"html", "<a&b>", "", `"<a&b>"`},
		{"map", map[string]any{"b": 1.0, "a": []any{true}}, "", `{"a":[true],"b":1}`},
		{"indent", []any{1.0, map[string]any{}}, "  ", "[\n  1,\n  {}\n]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.tree, tt.indent)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEncodeUnsupported(t *testing.T) {
	if _, err := Encode(struct{}{}, ""); err == nil {
		t.Error("Expected an error for a non-JSON node")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"", "Unexpected end of JSON input"},
		{"1 2", "Unexpected non-whitespace character after JSON"},
		{"{", ""},
		{"[1,]", ""},
		{"01", ""},
		{"1.", ""},
		{`{"a" 1}`, ""},
		{"nul", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Expected a SyntaxError for %q", tt.input)
			}
			var syntax *errors.SyntaxError
			if !stderrors.As(err, &syntax) {
				t.Fatalf("Expected *errors.SyntaxError, got %T: %v", err, err)
			}
			if tt.msg != "" && syntax.Message() != tt.msg {
				t.Errorf("Expected message %q, got %q", tt.msg, syntax.Message())
			}
		})
	}
}

func TestParseErrorIsScriptVisible(t *testing.T) {
	_, err := Parse("{")
	v := values.ErrorValue(err)
	if !v.IsObject() || v.AsObject().Kind() != values.KindError {
		t.Fatalf("Expected an Error object, got %s", v.Inspect())
	}
	name, _ := v.AsObject().Get("name")
	if name.AsString() != "SyntaxError" {
		t.Errorf("Expected SyntaxError, got %s", name.Inspect())
	}
}

func TestStringifyBasic(t *testing.T) {
	tests := []struct {
		name string
		in   values.Value
		want string
	}{
		{"object", object("aaa", str("bbb")), `{"aaa":"bbb"}`},
		{"omits undefined", object("aaa", values.Undefined, "bbb", str("ccc")), `{"bbb":"ccc"}`},
		{"omits function", object("f", values.NewNativeFunction("f", 0, nil), "bbb", str("ccc")), `{"bbb":"ccc"}`},
		{"omits symbol", object("s", values.NewSymbol("x"), "bbb", str("ccc")), `{"bbb":"ccc"}`},
		{"array holes", values.NewArray(num(1), values.Undefined, values.NewSymbol("s")), `[1,null,null]`},
		{"non-finite", values.NewArray(values.NaN, num(1/zero())), `[null,null]`},
		{"nested", object("a", values.NewArray(object(), values.True, values.Null)), `{"a":[{},true,null]}`},
		{"string escapes", str("quote\" slash\\ tab\t"), `"quote\" slash\\ tab\t"`},
		{"number", num(0.1), `0.1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stringify(t, tt.in, values.Undefined, values.Undefined)
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStringifyUndefined(t *testing.T) {
	for _, v := range []values.Value{values.Undefined, values.NewSymbol("s"), values.NewNativeFunction("f", 0, nil)} {
		out, err := Stringify(v, values.Undefined, values.Undefined)
		if err != nil {
			t.Fatalf("Stringify failed: %v", err)
		}
		if !out.IsUndefined() {
			t.Errorf("Expected undefined for %s, got %s", v.Inspect(), out.Inspect())
		}
	}
}

func TestStringifyAllowList(t *testing.T) {
	in := object("aaa", str("bbb"), "bbb", str("ccc"), "ccc", str("ddd"))
	got := stringify(t, in, values.NewArray(str("bbb"), str("aaa")), values.Undefined)
	if got != `{"aaa":"bbb","bbb":"ccc"}` {
		t.Errorf("Expected allow-listed keys in object order, got %s", got)
	}

	in = object("1", str("one"), "2", str("two"), "3", str("three"))
	got = stringify(t, in, values.NewArray(num(1), num(2)), values.Undefined)
	if got != `{"1":"one","2":"two"}` {
		t.Errorf("Expected numeric allow-list to match index keys, got %s", got)
	}
}

func TestStringifyFunctionReplacer(t *testing.T) {
	var holders []string
	replacer := values.NewNativeFunction("replacer", 2, func(this values.Value, args []values.Value) (values.Value, error) {
		key := args[0].AsString()
		holders = append(holders, key)
		if key == "secret" {
			return values.Undefined, nil
		}
		if args[1].IsNumber() {
			return num(args[1].AsNumber() * 2), nil
		}
		return args[1], nil
	})
	in := object("a", num(1), "secret", str("x"), "b", values.NewArray(num(2)))
	got := stringify(t, in, replacer, values.Undefined)
	if got != `{"a":2,"b":[4]}` {
		t.Errorf("Expected replaced output, got %s", got)
	}
	want := []string{"", "a", "secret", "b", "0"}
	if diff := cmp.Diff(want, holders); diff != "" {
		t.Errorf("Replacer keys mismatch (-want +got):\n%s", diff)
	}
}

func TestStringifyToJSON(t *testing.T) {
	inner := values.NewObject(values.ObjectPrototype)
	values.DefineMethod(inner, "toJSON", 1, func(this values.Value, args []values.Value) (values.Value, error) {
		return str("key:" + args[0].AsString()), nil
	})
	got := stringify(t, object("when", values.ObjectValue(inner)), values.Undefined, values.Undefined)
	if got != `{"when":"key:when"}` {
		t.Errorf("Expected toJSON result, got %s", got)
	}
}

func TestStringifyWrappers(t *testing.T) {
	n, _ := num(3).ToObject()
	s, _ := str("x").ToObject()
	b, _ := values.False.ToObject()
	got := stringify(t, values.NewArray(values.ObjectValue(n), values.ObjectValue(s), values.ObjectValue(b)), values.Undefined, values.Undefined)
	if got != `[3,"x",false]` {
		t.Errorf("Expected unwrapped primitives, got %s", got)
	}
}

func TestStringifyErrors(t *testing.T) {
	cyclic := values.NewObject(values.ObjectPrototype)
	cyclic.CreateDataProperty("self", values.ObjectValue(cyclic))

	tests := []struct {
		name string
		in   values.Value
		msg  string
	}{
		{"bigint", object("n", values.NewBigInt(values.BigIntFromInt64(1))), "Do not know how to serialize a BigInt"},
		{"cycle", values.ObjectValue(cyclic), "Converting circular structure to JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Stringify(tt.in, values.Undefined, values.Undefined)
			var typeErr *errors.TypeError
			if !stderrors.As(err, &typeErr) {
				t.Fatalf("Expected TypeError, got %v", err)
			}
			if typeErr.Message() != tt.msg {
				t.Errorf("Expected %q, got %q", tt.msg, typeErr.Message())
			}
		})
	}
}

func TestStringifySharedIsNotCycle(t *testing.T) {
	shared := object("x", num(1))
	got := stringify(t, values.NewArray(shared, shared), values.Undefined, values.Undefined)
	if got != `[{"x":1},{"x":1}]` {
		t.Errorf("Expected repeated object, got %s", got)
	}
}

func TestStringifySpace(t *testing.T) {
	in := object("a", values.NewArray(num(1)), "b", object())
	tests := []struct {
		name  string
		space values.Value
		want  string
	}{
		{"two", num(2), "{\n  \"a\": [\n    1\n  ],\n  \"b\": {}\n}"},
		{"zero", num(0), `{"a":[1],"b":{}}`},
		{"tab", str("\t"), "{\n\t\"a\": [\n\t\t1\n\t],\n\t\"b\": {}\n}"},
		{"clamped", num(20), "{\n          \"a\": [\n                    1\n          ],\n          \"b\": {}\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stringify(t, in, values.Undefined, tt.space)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	text := `{"name":"jscore","tags":["a","b"],"nested":{"n":-1.5,"ok":true,"nil":null}}`
	v, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got := stringify(t, v, values.Undefined, values.Undefined)
	if got != text {
		t.Errorf("Expected %s, got %s", text, got)
	}
}

func zero() float64 { return 0 }

func nan() float64 { return values.NaN.AsNumber() }
