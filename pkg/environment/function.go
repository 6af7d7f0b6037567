package environment

import (
	"jscore/pkg/errors"
	"jscore/pkg/values"
)

// ThisStatus tracks the this binding of a function record.
type ThisStatus int

const (
	// ThisLexical marks arrow functions, which see the outer this.
	ThisLexical ThisStatus = iota
	ThisUninitialized
	ThisInitialized
)

// FunctionRecord is the top-level scope of a function call. Its bindings are
// declarative; it additionally carries this, the home object and new.target.
type FunctionRecord struct {
	DeclarativeRecord
	thisStatus ThisStatus
	thisValue  values.Value
	function   *values.Object
	homeObject *values.Object
	newTarget  values.Value
}

func NewFunctionRecord(fn *values.Object, status ThisStatus, newTarget values.Value) *FunctionRecord {
	return &FunctionRecord{
		DeclarativeRecord: DeclarativeRecord{bindings: make(map[string]*binding)},
		thisStatus:        status,
		thisValue:         values.Undefined,
		function:          fn,
		newTarget:         newTarget,
	}
}

func (f *FunctionRecord) FunctionObject() *values.Object { return f.function }
func (f *FunctionRecord) NewTarget() values.Value        { return f.newTarget }
func (f *FunctionRecord) ThisStatus() ThisStatus         { return f.thisStatus }

// SetHomeObject records the object a method was defined on, enabling super.
func (f *FunctionRecord) SetHomeObject(home *values.Object) { f.homeObject = home }

func (f *FunctionRecord) HasThisBinding() bool { return f.thisStatus != ThisLexical }

func (f *FunctionRecord) HasSuperBinding() bool {
	return f.thisStatus != ThisLexical && f.homeObject != nil
}

func (f *FunctionRecord) EnvironmentType() Type { return Function }

// BindThisValue initializes this once. A second bind is the derived
// constructor "super called twice" error.
func (f *FunctionRecord) BindThisValue(v values.Value) error {
	switch f.thisStatus {
	case ThisLexical:
		errors.Invariant("arrow function scope has no this binding")
	case ThisInitialized:
		return errors.Referencef("Super constructor may only be called once")
	}
	f.thisValue = v
	f.thisStatus = ThisInitialized
	return nil
}

func (f *FunctionRecord) GetThisBinding() (values.Value, error) {
	switch f.thisStatus {
	case ThisLexical:
		errors.Invariant("arrow function scope has no this binding")
	case ThisUninitialized:
		return values.Undefined, errors.Referencef("Must call super constructor before accessing 'this'")
	}
	return f.thisValue, nil
}

// GetSuperBase is the prototype of the home object: Undefined without a home
// object and Null when the home object has no prototype.
func (f *FunctionRecord) GetSuperBase() values.Value {
	if f.homeObject == nil {
		return values.Undefined
	}
	proto := f.homeObject.GetPrototype()
	if proto == nil {
		return values.Null
	}
	return values.ObjectValue(proto)
}
