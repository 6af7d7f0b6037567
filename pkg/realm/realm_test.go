package realm

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"strings"
	"testing"

	"jscore/pkg/config"
	"jscore/pkg/environment"
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

func newRealm(t *testing.T, opts config.Options) *Realm {
	t.Helper()
	r, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func lookup(t *testing.T, ctx *Context, name string) values.Value {
	t.Helper()
	v, err := ctx.Lookup(name)
	if err != nil {
		t.Fatalf("Lookup(%s) failed: %v", name, err)
	}
	return v
}

func TestNewRealm(t *testing.T) {
	r := newRealm(t, config.Options{})
	if r.Options().MaxCallDepth != config.Defaults().MaxCallDepth {
		t.Errorf("Expected defaults to be merged, got %+v", r.Options())
	}
	for _, name := range []string{"globalThis", "NaN", "Infinity", "undefined", "Object", "Error", "TypeError", "JSON", "RegExp", "BigInt"} {
		if !r.GlobalObject().HasOwnProperty(name) {
			t.Errorf("Expected global %s", name)
		}
	}
	if _, err := New(config.Options{LogLevel: "loud"}); err == nil {
		t.Error("Expected invalid options to be rejected")
	}
}

func TestRealmLogsCalls(t *testing.T) {
	r := newRealm(t, config.Options{})
	var buf bytes.Buffer
	r.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	ctx := r.NewContext()
	fn := ctx.NewFunction(FunctionDef{Name: "traced", Body: func(ctx *Context, args []values.Value) (values.Value, error) {
		return values.Undefined, nil
	}})
	ctx.Call(fn, values.Undefined)
	if !strings.Contains(buf.String(), "function=traced") {
		t.Errorf("Expected a debug record for the call, got %q", buf.String())
	}
}

func TestDeclarations(t *testing.T) {
	r := newRealm(t, config.Options{})
	ctx := r.NewContext()

	if err := ctx.DeclareVar("v", values.NumberValue(1)); err != nil {
		t.Fatalf("DeclareVar failed: %v", err)
	}
	if !r.GlobalObject().HasOwnProperty("v") {
		t.Error("Expected top-level var on the global object")
	}
	if err := ctx.DeclareVar("v"); err != nil {
		t.Fatalf("Expected var redeclaration to be allowed, got %v", err)
	}
	if v := lookup(t, ctx, "v"); v.AsNumber() != 1 {
		t.Errorf("Expected redeclaration without initializer to keep 1, got %s", v.Inspect())
	}

	if err := ctx.DeclareLet("l", values.NewString("x")); err != nil {
		t.Fatalf("DeclareLet failed: %v", err)
	}
	if r.GlobalObject().HasOwnProperty("l") {
		t.Error("Expected let to stay off the global object")
	}
	var syntaxErr *errors.SyntaxError
	for _, err := range []error{
		ctx.DeclareLet("l", values.Null),
		ctx.DeclareLet("v", values.Null),
		ctx.DeclareConst("NaN", values.Null),
		ctx.DeclareVar("l"),
	} {
		if !stderrors.As(err, &syntaxErr) {
			t.Errorf("Expected redeclaration SyntaxError, got %v", err)
		}
	}

	ctx.DeclareConst("c", values.NumberValue(3))
	var typeErr *errors.TypeError
	if err := ctx.Assign("c", values.NumberValue(4)); !stderrors.As(err, &typeErr) {
		t.Errorf("Expected const assignment TypeError, got %v", err)
	}
}

func TestTemporalDeadZone(t *testing.T) {
	ctx := newRealm(t, config.Options{}).NewContext()
	ctx.EnterBlock()
	defer ctx.ExitBlock()
	if err := ctx.HoistLexical("x", false); err != nil {
		t.Fatalf("HoistLexical failed: %v", err)
	}
	var refErr *errors.ReferenceError
	if _, err := ctx.Lookup("x"); !stderrors.As(err, &refErr) {
		t.Errorf("Expected TDZ ReferenceError, got %v", err)
	}
	ctx.InitializeLexical("x", values.True)
	if v := lookup(t, ctx, "x"); !v.AsBoolean() {
		t.Errorf("Expected true after initialization, got %s", v.Inspect())
	}
}

func TestBlockShadowing(t *testing.T) {
	ctx := newRealm(t, config.Options{}).NewContext()
	ctx.DeclareLet("x", values.NumberValue(1))
	ctx.EnterBlock()
	ctx.DeclareLet("x", values.NumberValue(2))
	if v := lookup(t, ctx, "x"); v.AsNumber() != 2 {
		t.Errorf("Expected inner 2, got %s", v.Inspect())
	}
	var syntaxErr *errors.SyntaxError
	if err := ctx.DeclareVar("x"); !stderrors.As(err, &syntaxErr) {
		t.Errorf("Expected var to conflict with the block's let, got %v", err)
	}
	ctx.ExitBlock()
	if v := lookup(t, ctx, "x"); v.AsNumber() != 1 {
		t.Errorf("Expected outer 1, got %s", v.Inspect())
	}
}

func TestStrictAndSloppyAssignment(t *testing.T) {
	r := newRealm(t, config.Options{})
	sloppy := r.NewContext()
	if err := sloppy.Assign("implicit", values.True); err != nil {
		t.Fatalf("Expected sloppy implicit global, got %v", err)
	}
	if ok, err := sloppy.Delete("implicit"); err != nil || !ok {
		t.Errorf("Expected implicit global to be deletable, got %v (%v)", ok, err)
	}

	strict := newRealm(t, config.Options{Strict: true}).NewContext()
	var refErr *errors.ReferenceError
	if err := strict.Assign("implicit", values.True); !stderrors.As(err, &refErr) {
		t.Errorf("Expected strict ReferenceError, got %v", err)
	}
	var syntaxErr *errors.SyntaxError
	if _, err := strict.Delete("x"); !stderrors.As(err, &syntaxErr) {
		t.Errorf("Expected strict delete SyntaxError, got %v", err)
	}
	if err := strict.EnterWith(values.ObjectValue(values.NewObject(nil))); !stderrors.As(err, &syntaxErr) {
		t.Errorf("Expected strict with SyntaxError, got %v", err)
	}
}

func TestWithScope(t *testing.T) {
	ctx := newRealm(t, config.Options{}).NewContext()
	ctx.DeclareVar("outer", values.NumberValue(1))

	scope := values.NewObject(values.ObjectPrototype)
	scope.CreateDataProperty("inner", values.NumberValue(2))
	var receiver values.Value
	values.DefineMethod(scope, "self", 0, func(this values.Value, args []values.Value) (values.Value, error) {
		receiver = this
		return values.Undefined, nil
	})
	if err := ctx.EnterWith(values.ObjectValue(scope)); err != nil {
		t.Fatalf("EnterWith failed: %v", err)
	}
	if v := lookup(t, ctx, "inner"); v.AsNumber() != 2 {
		t.Errorf("Expected with binding, got %s", v.Inspect())
	}
	if v := lookup(t, ctx, "outer"); v.AsNumber() != 1 {
		t.Errorf("Expected outer binding through the with scope, got %s", v.Inspect())
	}
	ctx.Assign("inner", values.NumberValue(5))
	if v, _ := scope.Get("inner"); v.AsNumber() != 5 {
		t.Errorf("Expected assignment to reach the with object, got %s", v.Inspect())
	}
	if _, err := ctx.CallName("self"); err != nil {
		t.Fatalf("CallName failed: %v", err)
	}
	if !receiver.IsObject() || receiver.AsObject() != scope {
		t.Errorf("Expected the with object as receiver, got %s", receiver.Inspect())
	}
	var syntaxErr *errors.SyntaxError
	if err := ctx.DeclareLet("nope", values.Null); !stderrors.As(err, &syntaxErr) {
		t.Errorf("Expected lexical declaration in with body to fail, got %v", err)
	}
	ctx.ExitBlock()

	var typeErr *errors.TypeError
	if err := ctx.EnterWith(values.Null); !stderrors.As(err, &typeErr) {
		t.Errorf("Expected with(null) TypeError, got %v", err)
	}
}

func TestExitGlobalPanics(t *testing.T) {
	ctx := newRealm(t, config.Options{}).NewContext()
	defer func() {
		if r := recover(); !errors.IsInvariantViolation(r) {
			t.Errorf("Expected invariant violation, got %v", r)
		}
	}()
	ctx.ExitBlock()
}

func TestCatch(t *testing.T) {
	r := newRealm(t, config.Options{})
	v := r.Catch(errors.Referencef("x is not defined"))
	if s, _ := v.ToString(); s != "ReferenceError: x is not defined" {
		t.Errorf("Unexpected caught value %q", s)
	}
	thrown := values.NewString("raw")
	if v := r.Catch(values.ThrowValue(thrown)); !v.StrictEquals(thrown) {
		t.Errorf("Expected thrown value to pass through, got %s", v.Inspect())
	}
}

func TestDefineHostValue(t *testing.T) {
	r := newRealm(t, config.Options{})
	if err := r.Define("settings", map[string]any{"port": 8080, "tags": []string{"a"}}); err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	ctx := r.NewContext()
	settings := lookup(t, ctx, "settings")
	if port, _ := settings.AsObject().Get("port"); port.AsNumber() != 8080 {
		t.Errorf("Expected port 8080, got %s", port.Inspect())
	}
}

func TestGlobalThis(t *testing.T) {
	r := newRealm(t, config.Options{})
	this, err := r.NewContext().This()
	if err != nil || this.AsObject() != r.GlobalObject() {
		t.Errorf("Expected the global object, got %s (%v)", this.Inspect(), err)
	}
	if _, ok := r.NewContext().Scope().(*environment.GlobalRecord); !ok {
		t.Error("Expected a fresh context to start at the global record")
	}
}

func TestAssertionsArePerRealm(t *testing.T) {
	checked := newRealm(t, config.Options{AssertBindings: true})
	unchecked := newRealm(t, config.Options{})

	assign := func(r *Realm) (panicked bool) {
		ctx := r.NewContext()
		scope := values.NewObject(values.ObjectPrototype)
		scope.CreateDataProperty("k", values.Null)
		if err := ctx.EnterWith(values.ObjectValue(scope)); err != nil {
			t.Fatalf("EnterWith failed: %v", err)
		}
		defer func() {
			if r := recover(); r != nil {
				if !errors.IsInvariantViolation(r) {
					t.Errorf("Expected invariant violation, got %v", r)
				}
				panicked = true
			}
		}()
		ctx.Assign("k", values.NumberValue(1))
		return false
	}
	if !assign(checked) {
		t.Error("Expected the asserting realm to reject a primitive in a with scope")
	}
	if assign(unchecked) {
		t.Error("Expected the second realm to leave the first realm's checks alone")
	}
}

func TestUnlimitedCallDepth(t *testing.T) {
	ctx := newRealm(t, config.Options{MaxCallDepth: -1}).NewContext()
	var calls int
	ctx.DeclareVar("recurse")
	fn := ctx.NewFunction(FunctionDef{Name: "recurse", Body: func(ctx *Context, args []values.Value) (values.Value, error) {
		calls++
		if calls == 1000 {
			return values.NumberValue(float64(calls)), nil
		}
		return ctx.CallName("recurse")
	}})
	ctx.Assign("recurse", fn)

	v, err := ctx.Call(fn, values.Undefined)
	if err != nil {
		t.Fatalf("Expected no depth limit, got %v", err)
	}
	if v.AsNumber() != 1000 {
		t.Errorf("Expected 1000 nested calls, got %s", v.Inspect())
	}
}
