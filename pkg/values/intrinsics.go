package values

import (
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"jscore/pkg/errors"
)

// Intrinsic prototypes shared by every object the runtime creates. There is a
// single realm per process.
var (
	ObjectPrototype   *Object
	FunctionPrototype *Object
	ArrayPrototype    *Object
	ErrorPrototype    *Object
	RegExpPrototype   *Object

	nativeErrorPrototypes = map[string]*Object{}
)

// NativeErrorNames lists the error constructors whose prototypes inherit from
// Error.prototype.
var NativeErrorNames = []string{"TypeError", "RangeError", "ReferenceError", "SyntaxError", "EvalError", "URIError"}

func init() {
	ObjectPrototype = &Object{kind: KindOrdinary, props: linkedhashmap.New(), extensible: true, primitive: Undefined}

	FunctionPrototype = newObject(KindFunction, ObjectPrototype)
	FunctionPrototype.call = NativeFunc(func(this Value, args []Value) (Value, error) {
		return Undefined, nil
	})

	ArrayPrototype = newObject(KindArray, ObjectPrototype)
	ArrayPrototype.SetProperty("length", NewDataProperty(NumberValue(0), true, false, false))

	ErrorPrototype = newObject(KindOrdinary, ObjectPrototype)
	ErrorPrototype.SetProperty("name", NewDataProperty(NewString("Error"), true, false, true))
	ErrorPrototype.SetProperty("message", NewDataProperty(NewString(""), true, false, true))
	for _, name := range NativeErrorNames {
		proto := newObject(KindOrdinary, ErrorPrototype)
		proto.SetProperty("name", NewDataProperty(NewString(name), true, false, true))
		proto.SetProperty("message", NewDataProperty(NewString(""), true, false, true))
		nativeErrorPrototypes[name] = proto
	}

	RegExpPrototype = newObject(KindOrdinary, ObjectPrototype)

	initObjectPrototype()
	initFunctionPrototype()
	initArrayPrototype()
	defineMethod(ErrorPrototype, "toString", 0, errorToString)
}

// NativeErrorPrototype returns the prototype used for errors named name,
// Error.prototype for unknown names.
func NativeErrorPrototype(name string) *Object {
	if p, ok := nativeErrorPrototypes[name]; ok {
		return p
	}
	return ErrorPrototype
}

// DefineMethod installs a non-enumerable native method, the way builtins are
// attached to prototypes and constructors.
func DefineMethod(o *Object, name string, length int, fn NativeFunc) {
	defineMethod(o, name, length, fn)
}

func defineMethod(o *Object, name string, length int, fn NativeFunc) {
	o.SetProperty(name, NewDataProperty(NewNativeFunction(name, length, fn), true, false, true))
}

func initObjectPrototype() {
	defineMethod(ObjectPrototype, "toString", 0, func(this Value, args []Value) (Value, error) {
		switch this.Type() {
		case TypeUndefined:
			return NewString("[object Undefined]"), nil
		case TypeNull:
			return NewString("[object Null]"), nil
		}
		o, err := this.ToObject()
		if err != nil {
			return Undefined, err
		}
		return NewString("[object " + o.Class() + "]"), nil
	})
	defineMethod(ObjectPrototype, "valueOf", 0, func(this Value, args []Value) (Value, error) {
		o, err := this.ToObject()
		if err != nil {
			return Undefined, err
		}
		return ObjectValue(o), nil
	})
	defineMethod(ObjectPrototype, "hasOwnProperty", 1, func(this Value, args []Value) (Value, error) {
		key, err := Arg(args, 0).ToPropertyKey()
		if err != nil {
			return Undefined, err
		}
		o, err := this.ToObject()
		if err != nil {
			return Undefined, err
		}
		return BooleanValue(o.HasOwnProperty(key)), nil
	})
	defineMethod(ObjectPrototype, "propertyIsEnumerable", 1, func(this Value, args []Value) (Value, error) {
		key, err := Arg(args, 0).ToPropertyKey()
		if err != nil {
			return Undefined, err
		}
		o, err := this.ToObject()
		if err != nil {
			return Undefined, err
		}
		p, ok := o.GetOwnProperty(key)
		return BooleanValue(ok && p.Enumerable()), nil
	})
	defineMethod(ObjectPrototype, "isPrototypeOf", 1, func(this Value, args []Value) (Value, error) {
		v := Arg(args, 0)
		if !v.IsObject() {
			return False, nil
		}
		o, err := this.ToObject()
		if err != nil {
			return Undefined, err
		}
		for p := v.AsObject().proto; p != nil; p = p.proto {
			if p == o {
				return True, nil
			}
		}
		return False, nil
	})
}

func initFunctionPrototype() {
	defineMethod(FunctionPrototype, "toString", 0, func(this Value, args []Value) (Value, error) {
		if !this.IsCallable() {
			return Undefined, errors.Typef("Function.prototype.toString requires that 'this' be a Function")
		}
		return NewString("function " + this.AsObject().dataString("name") + "() { [native code] }"), nil
	})
	defineMethod(FunctionPrototype, "call", 1, func(this Value, args []Value) (Value, error) {
		var rest []Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return Call(this, Arg(args, 0), rest...)
	})
	defineMethod(FunctionPrototype, "apply", 2, func(this Value, args []Value) (Value, error) {
		list := Arg(args, 1)
		var callArgs []Value
		if !list.IsNullish() {
			if !list.IsObject() {
				return Undefined, errors.Typef("CreateListFromArrayLike called on non-object")
			}
			elems, err := ArrayElements(list.AsObject())
			if err != nil {
				return Undefined, err
			}
			callArgs = elems
		}
		return Call(this, Arg(args, 0), callArgs...)
	})
}

func initArrayPrototype() {
	join := func(this Value, sep string) (Value, error) {
		o, err := this.ToObject()
		if err != nil {
			return Undefined, err
		}
		elems, err := ArrayElements(o)
		if err != nil {
			return Undefined, err
		}
		parts := make([]string, len(elems))
		for i, el := range elems {
			if el.IsNullish() {
				continue
			}
			s, err := el.ToString()
			if err != nil {
				return Undefined, err
			}
			parts[i] = s
		}
		return NewString(strings.Join(parts, sep)), nil
	}
	defineMethod(ArrayPrototype, "join", 1, func(this Value, args []Value) (Value, error) {
		sep := ","
		if s := Arg(args, 0); !s.IsUndefined() {
			str, err := s.ToString()
			if err != nil {
				return Undefined, err
			}
			sep = str
		}
		return join(this, sep)
	})
	defineMethod(ArrayPrototype, "toString", 0, func(this Value, args []Value) (Value, error) {
		return join(this, ",")
	})
}

func errorToString(this Value, args []Value) (Value, error) {
	if !this.IsObject() {
		return Undefined, errors.Typef("Error.prototype.toString called on non-object")
	}
	o := this.AsObject()
	name, msg := "Error", ""
	if v, err := o.Get("name"); err != nil {
		return Undefined, err
	} else if !v.IsUndefined() {
		if name, err = v.ToString(); err != nil {
			return Undefined, err
		}
	}
	if v, err := o.Get("message"); err != nil {
		return Undefined, err
	} else if !v.IsUndefined() {
		if msg, err = v.ToString(); err != nil {
			return Undefined, err
		}
	}
	switch {
	case name == "":
		return NewString(msg), nil
	case msg == "":
		return NewString(name), nil
	}
	return NewString(name + ": " + msg), nil
}
