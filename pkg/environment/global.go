package environment

import (
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

// GlobalRecord is the outermost scope. Var and function declarations land on
// the global object; lexical declarations live in a separate declarative part.
type GlobalRecord struct {
	object      *ObjectRecord
	declarative *DeclarativeRecord
	thisValue   *values.Object
	varNames    map[string]bool
}

func NewGlobalRecord(global *values.Object) *GlobalRecord {
	return &GlobalRecord{
		object:      NewObjectRecord(global, false),
		declarative: NewDeclarativeRecord(),
		thisValue:   global,
		varNames:    make(map[string]bool),
	}
}

// SetAssertions toggles the object record checks for the global object.
func (g *GlobalRecord) SetAssertions(on bool) { g.object.SetAssertions(on) }

func (g *GlobalRecord) globalObject() *values.Object { return g.object.bindings }

func (g *GlobalRecord) HasBinding(name string) bool {
	return g.declarative.HasBinding(name) || g.globalObject().HasProperty(name)
}

func (g *GlobalRecord) CreateMutableBinding(name string, deletable bool) error {
	if g.declarative.HasBinding(name) {
		return errors.Typef("Identifier '%s' has already been declared", name)
	}
	return g.declarative.CreateMutableBinding(name, deletable)
}

// CreateImmutableBinding reports false when name is already lexically bound.
func (g *GlobalRecord) CreateImmutableBinding(name string, strict bool) bool {
	if g.declarative.HasBinding(name) {
		return false
	}
	return g.declarative.CreateImmutableBinding(name, strict)
}

func (g *GlobalRecord) InitializeBinding(name string, v values.Value) error {
	if g.declarative.HasBinding(name) {
		return g.declarative.InitializeBinding(name, v)
	}
	return g.object.InitializeBinding(name, v)
}

func (g *GlobalRecord) SetMutableBinding(name string, v values.Value, strict bool) error {
	if g.declarative.HasBinding(name) {
		return g.declarative.SetMutableBinding(name, v, strict)
	}
	global := g.globalObject()
	if strict && !global.HasProperty(name) {
		return errors.Referencef("%s is not defined", name)
	}
	return global.Set(name, v, strict)
}

func (g *GlobalRecord) GetBindingValue(name string, strict bool) (values.Value, error) {
	if g.declarative.HasBinding(name) {
		return g.declarative.GetBindingValue(name, strict)
	}
	global := g.globalObject()
	if !global.HasProperty(name) {
		if strict {
			return values.Undefined, errors.Referencef("%s is not defined", name)
		}
		return values.Undefined, nil
	}
	return global.Get(name)
}

func (g *GlobalRecord) DeleteBinding(name string) bool {
	if g.declarative.HasBinding(name) {
		return g.declarative.DeleteBinding(name)
	}
	global := g.globalObject()
	if !global.HasOwnProperty(name) {
		return true
	}
	if !global.Delete(name) {
		return false
	}
	delete(g.varNames, name)
	return true
}

func (g *GlobalRecord) HasThisBinding() bool         { return true }
func (g *GlobalRecord) HasSuperBinding() bool        { return false }
func (g *GlobalRecord) WithBaseObject() values.Value { return values.Undefined }
func (g *GlobalRecord) EnvironmentType() Type        { return Global }
func (g *GlobalRecord) OuterEnvironment() Record     { return nil }

func (g *GlobalRecord) SetOuterEnvironment(outer Record) {
	if outer != nil {
		errors.Invariant("the global environment has no outer environment")
	}
}

func (g *GlobalRecord) GlobalObject() (values.Value, bool) {
	return values.ObjectValue(g.globalObject()), true
}

func (g *GlobalRecord) GetThisBinding() values.Value {
	return values.ObjectValue(g.thisValue)
}

// HasVarDeclaration reports names declared through CreateGlobalVarBinding or
// CreateGlobalFunctionBinding.
func (g *GlobalRecord) HasVarDeclaration(name string) bool { return g.varNames[name] }

func (g *GlobalRecord) HasLexicalDeclaration(name string) bool {
	return g.declarative.HasBinding(name)
}

// HasRestrictedGlobalProperty reports own non-configurable properties such
// as NaN, which a lexical declaration may not shadow.
func (g *GlobalRecord) HasRestrictedGlobalProperty(name string) bool {
	p, ok := g.globalObject().GetOwnProperty(name)
	if !ok {
		return false
	}
	return !p.Configurable()
}

func (g *GlobalRecord) CanDeclareGlobalVar(name string) bool {
	global := g.globalObject()
	return global.HasOwnProperty(name) || global.IsExtensible()
}

func (g *GlobalRecord) CanDeclareGlobalFunction(name string) bool {
	global := g.globalObject()
	p, ok := global.GetOwnProperty(name)
	if !ok {
		return global.IsExtensible()
	}
	if p.Configurable() {
		return true
	}
	return p.IsData() && p.Writable() && p.Enumerable()
}

// CreateGlobalVarBinding declares a var on the global object, leaving an
// existing property untouched.
func (g *GlobalRecord) CreateGlobalVarBinding(name string, deletable bool) error {
	global := g.globalObject()
	if !global.HasOwnProperty(name) && global.IsExtensible() {
		if err := g.object.CreateMutableBinding(name, deletable); err != nil {
			return err
		}
		if err := g.object.InitializeBinding(name, values.Undefined); err != nil {
			return err
		}
	}
	g.varNames[name] = true
	return nil
}

// CreateGlobalFunctionBinding defines a hoisted function declaration.
func (g *GlobalRecord) CreateGlobalFunctionBinding(name string, fn values.Value, deletable bool) error {
	global := g.globalObject()
	desc := values.Descriptor{Value: &fn}
	if p, ok := global.GetOwnProperty(name); !ok || p.Configurable() {
		desc = values.DataDescriptor(fn, true, true, deletable)
	}
	if err := global.DefinePropertyOrThrow(name, desc); err != nil {
		return err
	}
	if err := global.Set(name, fn, false); err != nil {
		return err
	}
	g.varNames[name] = true
	return nil
}
