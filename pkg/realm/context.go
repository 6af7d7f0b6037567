package realm

import (
	"log/slog"

	"jscore/pkg/environment"
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

// Context is one execution context: the scope chain it owns and whether its
// code is strict.
type Context struct {
	realm  *Realm
	chain  *environment.Chain
	strict bool
}

func (c *Context) Realm() *Realm { return c.realm }
func (c *Context) Strict() bool  { return c.strict }

// Scope returns the innermost environment record.
func (c *Context) Scope() environment.Record { return c.chain.Leaf() }

// Function returns the record of the innermost non-arrow function, or nil at
// top level.
func (c *Context) Function() *environment.FunctionRecord { return c.chain.NearestFunction() }

// Resolve is identifier resolution against the running scope chain.
func (c *Context) Resolve(name string) environment.Reference {
	return c.chain.ResolveBinding(name, c.strict)
}

func (c *Context) Lookup(name string) (values.Value, error) {
	return c.Resolve(name).GetValue()
}

func (c *Context) Assign(name string, v values.Value) error {
	return c.Resolve(name).PutValue(v)
}

// Delete is `delete name`. Strict code may not delete identifiers.
func (c *Context) Delete(name string) (bool, error) {
	if c.strict {
		return false, errors.Syntaxf("Delete of an unqualified identifier in strict mode.")
	}
	return c.Resolve(name).Delete(), nil
}

// This resolves the this binding of the innermost non-arrow function or the
// global scope.
func (c *Context) This() (values.Value, error) {
	return c.chain.ResolveThisBinding()
}

// DeclareVar declares name in the nearest function or global scope and, when
// an initializer is given, assigns it the way `var name = init` does.
func (c *Context) DeclareVar(name string, init ...values.Value) error {
	if err := c.declareVar(name); err != nil {
		return err
	}
	if len(init) == 0 {
		return nil
	}
	return c.Assign(name, init[0])
}

func (c *Context) declareVar(name string) error {
	for env := c.chain.Leaf(); env != nil; env = env.OuterEnvironment() {
		switch env := env.(type) {
		case *environment.GlobalRecord:
			if env.HasLexicalDeclaration(name) {
				return errors.Syntaxf("Identifier '%s' has already been declared", name)
			}
			if !env.CanDeclareGlobalVar(name) {
				return errors.Typef("Cannot declare global variable '%s'", name)
			}
			return env.CreateGlobalVarBinding(name, false)
		case *environment.FunctionRecord:
			if env.HasBinding(name) {
				return nil
			}
			if err := env.CreateMutableBinding(name, false); err != nil {
				return err
			}
			return env.InitializeBinding(name, values.Undefined)
		case *environment.DeclarativeRecord:
			if env.HasBinding(name) {
				return errors.Syntaxf("Identifier '%s' has already been declared", name)
			}
		}
	}
	errors.Invariant("scope chain has no variable scope")
	return nil
}

// HoistLexical creates an uninitialized let or const binding in the innermost
// scope. Reading it before InitializeLexical is a ReferenceError.
func (c *Context) HoistLexical(name string, constant bool) error {
	switch env := c.chain.Leaf().(type) {
	case *environment.GlobalRecord:
		if env.HasVarDeclaration(name) || env.HasLexicalDeclaration(name) || env.HasRestrictedGlobalProperty(name) {
			return errors.Syntaxf("Identifier '%s' has already been declared", name)
		}
	case *environment.ObjectRecord:
		return errors.Syntaxf("Lexical declaration cannot appear in a single-statement context")
	default:
		if env.HasBinding(name) {
			return errors.Syntaxf("Identifier '%s' has already been declared", name)
		}
	}
	leaf := c.chain.Leaf()
	if constant {
		leaf.CreateImmutableBinding(name, true)
		return nil
	}
	return leaf.CreateMutableBinding(name, false)
}

// InitializeLexical ends the temporal dead zone of a hoisted binding.
func (c *Context) InitializeLexical(name string, v values.Value) error {
	return c.chain.Leaf().InitializeBinding(name, v)
}

func (c *Context) DeclareLet(name string, v values.Value) error {
	if err := c.HoistLexical(name, false); err != nil {
		return err
	}
	return c.InitializeLexical(name, v)
}

func (c *Context) DeclareConst(name string, v values.Value) error {
	if err := c.HoistLexical(name, true); err != nil {
		return err
	}
	return c.InitializeLexical(name, v)
}

// DeclareFunction hoists a function declaration into the nearest variable
// scope.
func (c *Context) DeclareFunction(name string, fn values.Value) error {
	for env := c.chain.Leaf(); env != nil; env = env.OuterEnvironment() {
		switch env := env.(type) {
		case *environment.GlobalRecord:
			if !env.CanDeclareGlobalFunction(name) {
				return errors.Typef("Cannot declare global function '%s'", name)
			}
			return env.CreateGlobalFunctionBinding(name, fn, false)
		case *environment.FunctionRecord:
			if !env.HasBinding(name) {
				if err := env.CreateMutableBinding(name, false); err != nil {
					return err
				}
				return env.InitializeBinding(name, fn)
			}
			return env.SetMutableBinding(name, fn, false)
		}
	}
	errors.Invariant("scope chain has no variable scope")
	return nil
}

// EnterBlock pushes a declarative scope for a block statement.
func (c *Context) EnterBlock() {
	c.push(environment.NewDeclarativeRecord())
}

// EnterWith pushes an object scope for `with (obj)`.
func (c *Context) EnterWith(obj values.Value) error {
	if c.strict {
		return errors.Syntaxf("Strict mode code may not include a with statement")
	}
	o, err := obj.ToObject()
	if err != nil {
		return err
	}
	rec := environment.NewObjectRecord(o, true)
	rec.SetAssertions(c.realm.opts.AssertBindings)
	c.push(rec)
	return nil
}

// ExitBlock pops the scope pushed by EnterBlock or EnterWith.
func (c *Context) ExitBlock() {
	c.chain.Pop()
	c.realm.logger.Debug("pop scope", slog.Int("depth", c.chain.Depth()))
}

func (c *Context) push(r environment.Record) {
	c.chain.Push(r)
	c.realm.logger.Debug("push scope", slog.String("type", r.EnvironmentType().String()), slog.Int("depth", c.chain.Depth()))
}

// Call invokes fn with the given receiver.
func (c *Context) Call(fn values.Value, this values.Value, args ...values.Value) (values.Value, error) {
	return values.Call(fn, this, args...)
}

// CallName resolves name and calls it with the reference's this value, so a
// function found through a with scope receives the with object.
func (c *Context) CallName(name string, args ...values.Value) (values.Value, error) {
	ref := c.Resolve(name)
	fn, err := ref.GetValue()
	if err != nil {
		return values.Undefined, err
	}
	return values.Call(fn, ref.ThisValue(), args...)
}

// New is the new operator.
func (c *Context) New(fn values.Value, args ...values.Value) (values.Value, error) {
	return values.Construct(fn, args...)
}
