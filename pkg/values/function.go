package values

import (
	stderrors "errors"

	"jscore/pkg/errors"
)

// Callable is the behaviour behind a function object.
type Callable interface {
	Call(this Value, args []Value) (Value, error)
}

// Constructor is implemented by callables that also support `new`.
type Constructor interface {
	Construct(args []Value, newTarget *Object) (Value, error)
}

// NativeFunc adapts a Go function to Callable.
type NativeFunc func(this Value, args []Value) (Value, error)

func (f NativeFunc) Call(this Value, args []Value) (Value, error) {
	return f(this, args)
}

// NativeConstructor is a native function usable with `new`. Construct falls
// back to Call when New is nil.
type NativeConstructor struct {
	Fn  NativeFunc
	New func(args []Value, newTarget *Object) (Value, error)
}

func (c NativeConstructor) Call(this Value, args []Value) (Value, error) {
	return c.Fn(this, args)
}

func (c NativeConstructor) Construct(args []Value, newTarget *Object) (Value, error) {
	if c.New == nil {
		return c.Fn(Undefined, args)
	}
	return c.New(args, newTarget)
}

// NewFunctionObject wraps fn in a Function-kind object with the usual name and
// length properties.
func NewFunctionObject(name string, length int, fn Callable) *Object {
	o := newObject(KindFunction, FunctionPrototype)
	o.call = fn
	o.SetProperty("length", NewDataProperty(NumberValue(float64(length)), false, false, true))
	o.SetProperty("name", NewDataProperty(NewString(name), false, false, true))
	return o
}

func NewNativeFunction(name string, length int, fn NativeFunc) Value {
	return ObjectValue(NewFunctionObject(name, length, fn))
}

func (o *Object) IsCallable() bool { return o.call != nil }

func (o *Object) IsConstructor() bool {
	_, ok := o.call.(Constructor)
	return ok
}

// Callable returns the behaviour behind a function object, or nil.
func (o *Object) Callable() Callable { return o.call }

func (o *Object) Call(this Value, args []Value) (Value, error) {
	if o.call == nil {
		return Undefined, errors.Typef("%s is not a function", o.Inspect())
	}
	return o.call.Call(this, args)
}

// Call invokes fn with the given receiver.
func Call(fn Value, this Value, args ...Value) (Value, error) {
	if !fn.IsCallable() {
		return Undefined, errors.Typef("%s is not a function", fn.Inspect())
	}
	return fn.AsObject().Call(this, args)
}

// Construct invokes fn as a constructor.
func Construct(fn Value, args ...Value) (Value, error) {
	if !fn.IsObject() || !fn.AsObject().IsConstructor() {
		return Undefined, errors.Typef("%s is not a constructor", fn.Inspect())
	}
	o := fn.AsObject()
	return o.call.(Constructor).Construct(args, o)
}

// Arg returns args[i], or Undefined when the caller passed fewer arguments.
func Arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Undefined
}

// --- Exceptions ---

// Exception carries a thrown script value through Go error returns.
type Exception struct {
	Value Value
}

func (e *Exception) Error() string {
	return "Uncaught " + e.Value.Inspect()
}

// ThrowValue wraps v so it propagates as an error.
func ThrowValue(v Value) error {
	return &Exception{Value: v}
}

// NewError builds an Error object whose prototype matches name ("TypeError",
// "RangeError", ...). Unknown names fall back to Error.prototype with an own
// name property.
func NewError(name, msg string) *Object {
	proto, known := nativeErrorPrototypes[name]
	if !known {
		proto = ErrorPrototype
	}
	o := newObject(KindError, proto)
	if !known && name != "Error" {
		o.SetProperty("name", NewDataProperty(NewString(name), true, false, true))
	}
	o.SetProperty("message", NewDataProperty(NewString(msg), true, false, true))
	return o
}

// ErrorValue converts a Go error into the value a script would observe:
// thrown values pass through, script errors become Error objects of the same
// name, and everything else becomes a plain Error.
func ErrorValue(err error) Value {
	if err == nil {
		return Undefined
	}
	var exc *Exception
	if stderrors.As(err, &exc) {
		return exc.Value
	}
	var se errors.ScriptError
	if stderrors.As(err, &se) {
		return ObjectValue(NewError(se.Name(), se.Message()))
	}
	var ce *errors.ConversionError
	if stderrors.As(err, &ce) {
		return ObjectValue(NewError("TypeError", ce.Error()))
	}
	return ObjectValue(NewError("Error", err.Error()))
}

// ErrorText renders a thrown value the way an uncaught exception is reported.
func ErrorText(err error) string {
	return "Uncaught " + ErrorValue(err).Inspect()
}
