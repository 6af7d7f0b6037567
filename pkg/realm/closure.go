package realm

import (
	"log/slog"

	"jscore/pkg/environment"
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

// Body stands in for the evaluation of a function body. It runs in a fresh
// Context whose leaf is the call's function record.
type Body func(ctx *Context, args []values.Value) (values.Value, error)

// FunctionDef describes a user function.
type FunctionDef struct {
	Name   string
	Params []string
	Strict bool
	// Arrow functions take this from their defining scope and cannot be
	// constructed.
	Arrow bool
	Body  Body
}

// Closure is a user function together with the scope chain it was defined
// in. The captured chain is owned, so defining scopes live as long as the
// closure does.
type Closure struct {
	def    FunctionDef
	realm  *Realm
	scope  *environment.Chain
	object *values.Object
}

// constructible adds [[Construct]] to non-arrow closures.
type constructible struct {
	*Closure
}

// NewFunction creates a function object closing over the running scope chain.
func (c *Context) NewFunction(def FunctionDef) values.Value {
	if c.strict {
		def.Strict = true
	}
	cl := &Closure{def: def, realm: c.realm, scope: c.chain.Snapshot()}
	var callable values.Callable = cl
	if !def.Arrow {
		callable = constructible{cl}
	}
	fn := values.NewFunctionObject(def.Name, len(def.Params), callable)
	cl.object = fn
	if !def.Arrow {
		proto := values.NewObject(values.ObjectPrototype)
		proto.SetProperty("constructor", values.NewDataProperty(values.ObjectValue(fn), true, false, true))
		fn.SetProperty("prototype", values.NewDataProperty(values.ObjectValue(proto), true, false, false))
	}
	return values.ObjectValue(fn)
}

func (cl *Closure) Call(this values.Value, args []values.Value) (values.Value, error) {
	return cl.invoke(this, args, values.Undefined)
}

func (c constructible) Construct(args []values.Value, newTarget *values.Object) (values.Value, error) {
	proto := values.ObjectPrototype
	if p, err := newTarget.Get("prototype"); err != nil {
		return values.Undefined, err
	} else if p.IsObject() {
		proto = p.AsObject()
	}
	obj := values.ObjectValue(values.NewObject(proto))
	result, err := c.invoke(obj, args, values.ObjectValue(newTarget))
	if err != nil {
		return values.Undefined, err
	}
	if result.IsObject() {
		return result, nil
	}
	return obj, nil
}

func (cl *Closure) invoke(this values.Value, args []values.Value, newTarget values.Value) (values.Value, error) {
	r := cl.realm
	if r.opts.MaxCallDepth > 0 && r.depth >= r.opts.MaxCallDepth {
		return values.Undefined, errors.Rangef("Maximum call stack size exceeded")
	}
	r.depth++
	defer func() { r.depth-- }()
	r.logger.Debug("call", slog.String("function", cl.def.Name), slog.Int("depth", r.depth))

	status := environment.ThisUninitialized
	if cl.def.Arrow {
		status = environment.ThisLexical
	}
	record := environment.NewFunctionRecord(cl.object, status, newTarget)
	if !cl.def.Arrow {
		bound, err := cl.thisValue(this)
		if err != nil {
			return values.Undefined, err
		}
		if err := record.BindThisValue(bound); err != nil {
			return values.Undefined, err
		}
	}
	if err := cl.bindParameters(record, args); err != nil {
		return values.Undefined, err
	}

	chain := cl.scope.Snapshot()
	chain.Push(record)
	ctx := &Context{realm: r, chain: chain, strict: cl.def.Strict}
	return cl.def.Body(ctx, args)
}

// thisValue is OrdinaryCallBindThis: sloppy functions see the global object
// for a nullish receiver and wrapper objects for primitives.
func (cl *Closure) thisValue(this values.Value) (values.Value, error) {
	if cl.def.Strict {
		return this, nil
	}
	if this.IsNullish() {
		return values.ObjectValue(cl.realm.global), nil
	}
	o, err := this.ToObject()
	if err != nil {
		return values.Undefined, err
	}
	return values.ObjectValue(o), nil
}

func (cl *Closure) bindParameters(record *environment.FunctionRecord, args []values.Value) error {
	for i, name := range cl.def.Params {
		if record.HasBinding(name) {
			if err := record.SetMutableBinding(name, values.Arg(args, i), false); err != nil {
				return err
			}
			continue
		}
		if err := record.CreateMutableBinding(name, false); err != nil {
			return err
		}
		if err := record.InitializeBinding(name, values.Arg(args, i)); err != nil {
			return err
		}
	}
	if cl.def.Arrow || record.HasBinding("arguments") {
		return nil
	}
	record.CreateImmutableBinding("arguments", cl.def.Strict)
	return record.InitializeBinding("arguments", values.ObjectValue(newArguments(args)))
}

func newArguments(args []values.Value) *values.Object {
	o := values.NewObjectWithKind(values.KindArguments, values.ObjectPrototype)
	for i, a := range args {
		o.CreateDataProperty(values.NumberToString(float64(i)), a)
	}
	o.SetProperty("length", values.NewDataProperty(values.NumberValue(float64(len(args))), true, false, true))
	return o
}
