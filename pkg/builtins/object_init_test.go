package builtins

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jscore/pkg/errors"
	"jscore/pkg/values"
)

// newGlobal installs the standard builtins into a fresh global object.
func newGlobal(t *testing.T) *values.Object {
	t.Helper()
	global := values.NewObject(values.ObjectPrototype)
	ctx := &Context{
		Global: global,
		DefineGlobal: func(name string, v values.Value) error {
			global.SetProperty(name, values.NewDataProperty(v, true, false, true))
			return nil
		},
	}
	if err := Install(ctx, Standard()); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	return global
}

func member(t *testing.T, o *values.Object, path ...string) values.Value {
	t.Helper()
	v := values.ObjectValue(o)
	for _, name := range path {
		next, err := v.AsObject().Get(name)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", name, err)
		}
		v = next
	}
	return v
}

func call(t *testing.T, fn values.Value, args ...values.Value) values.Value {
	t.Helper()
	v, err := values.Call(fn, values.Undefined, args...)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	return v
}

func TestObjectInitializer(t *testing.T) {
	var initializer Initializer = &ObjectInitializer{}

	if initializer.Name() != "Object" {
		t.Errorf("Expected name 'Object', got %s", initializer.Name())
	}

	if initializer.Priority() != PriorityObject {
		t.Errorf("Expected priority %d, got %d", PriorityObject, initializer.Priority())
	}
}

func TestStandardOrder(t *testing.T) {
	var names []string
	last := -1
	for _, init := range Standard() {
		if init.Priority() < last {
			t.Errorf("Initializer %s out of priority order", init.Name())
		}
		last = init.Priority()
		names = append(names, init.Name())
	}
	want := []string{"Globals", "Object", "Error", "RegExp", "BigInt", "JSON"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Initializer order mismatch (-want +got):\n%s", diff)
	}
}

func TestInstallStopsOnError(t *testing.T) {
	global := values.NewObject(values.ObjectPrototype)
	ctx := &Context{
		Global: global,
		DefineGlobal: func(name string, v values.Value) error {
			return errors.Typef("no globals allowed")
		},
	}
	if err := Install(ctx, Standard()); err == nil {
		t.Error("Expected Install to report the failing initializer")
	}
}

func TestGlobalValueProperties(t *testing.T) {
	global := newGlobal(t)
	p, ok := global.GetOwnProperty("NaN")
	if !ok || p.Writable() || p.Enumerable() || p.Configurable() {
		t.Errorf("Expected NaN to be a frozen global, got %+v", p)
	}
	if v := member(t, global, "globalThis"); v.AsObject() != global {
		t.Errorf("Expected globalThis to be the global object, got %s", v.Inspect())
	}
	if v := call(t, member(t, global, "isNaN"), values.NewString("x")); !v.AsBoolean() {
		t.Error("Expected isNaN('x') to be true")
	}
	if v := call(t, member(t, global, "isFinite"), member(t, global, "Infinity")); v.AsBoolean() {
		t.Error("Expected isFinite(Infinity) to be false")
	}
}

func TestObjectStatics(t *testing.T) {
	global := newGlobal(t)
	obj := values.NewObject(values.ObjectPrototype)
	obj.CreateDataProperty("b", values.NumberValue(1))
	obj.CreateDataProperty("a", values.NumberValue(2))
	obj.CreateDataProperty("1", values.NumberValue(3))
	obj.DefineOwnProperty("hidden", values.DataDescriptor(values.Null, true, false, true))

	keys := values.Export(call(t, member(t, global, "Object", "keys"), values.ObjectValue(obj)))
	if diff := cmp.Diff([]any{"1", "b", "a"}, keys); diff != "" {
		t.Errorf("Object.keys mismatch (-want +got):\n%s", diff)
	}
	names := values.Export(call(t, member(t, global, "Object", "getOwnPropertyNames"), values.ObjectValue(obj)))
	if diff := cmp.Diff([]any{"1", "b", "a", "hidden"}, names); diff != "" {
		t.Errorf("Object.getOwnPropertyNames mismatch (-want +got):\n%s", diff)
	}

	attrs := values.NewObject(values.ObjectPrototype)
	attrs.CreateDataProperty("value", values.NumberValue(9))
	call(t, member(t, global, "Object", "defineProperty"), values.ObjectValue(obj), values.NewString("fixed"), values.ObjectValue(attrs))
	desc := call(t, member(t, global, "Object", "getOwnPropertyDescriptor"), values.ObjectValue(obj), values.NewString("fixed"))
	want := map[string]any{"value": 9.0, "writable": false, "enumerable": false, "configurable": false}
	if diff := cmp.Diff(want, values.Export(desc)); diff != "" {
		t.Errorf("Descriptor mismatch (-want +got):\n%s", diff)
	}
	if v := call(t, member(t, global, "Object", "getOwnPropertyDescriptor"), values.ObjectValue(obj), values.NewString("nope")); !v.IsUndefined() {
		t.Errorf("Expected Undefined for a missing property, got %s", v.Inspect())
	}

	var typeErr *errors.TypeError
	if _, err := values.Call(member(t, global, "Object", "defineProperty"), values.Undefined, values.NumberValue(1), values.NewString("x"), values.ObjectValue(attrs)); !stderrors.As(err, &typeErr) {
		t.Errorf("Expected TypeError for a primitive target, got %v", err)
	}
	attrs.CreateDataProperty("value", values.NumberValue(10))
	if _, err := values.Call(member(t, global, "Object", "defineProperty"), values.Undefined, values.ObjectValue(obj), values.NewString("fixed"), values.ObjectValue(attrs)); !stderrors.As(err, &typeErr) {
		t.Errorf("Expected TypeError redefining a non-configurable property, got %v", err)
	}

	if proto := call(t, member(t, global, "Object", "getPrototypeOf"), values.ObjectValue(obj)); proto.AsObject() != values.ObjectPrototype {
		t.Errorf("Expected Object.prototype, got %s", proto.Inspect())
	}
	call(t, member(t, global, "Object", "preventExtensions"), values.ObjectValue(obj))
	if v := call(t, member(t, global, "Object", "isExtensible"), values.ObjectValue(obj)); v.AsBoolean() {
		t.Error("Expected object to be non-extensible")
	}
}

func TestObjectConstructor(t *testing.T) {
	global := newGlobal(t)
	ctor := member(t, global, "Object")
	v, err := values.Construct(ctor)
	if err != nil || !v.IsObject() || v.AsObject().GetPrototype() != values.ObjectPrototype {
		t.Errorf("Expected a fresh object, got %s (%v)", v.Inspect(), err)
	}
	wrapped := call(t, ctor, values.NewString("hi"))
	if wrapped.AsObject().Kind() != values.KindString {
		t.Errorf("Expected a String wrapper, got %s", wrapped.Inspect())
	}
	if c := member(t, values.ObjectPrototype, "constructor"); c.AsObject() != ctor.AsObject() {
		t.Error("Expected Object.prototype.constructor to be Object")
	}
}
