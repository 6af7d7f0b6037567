// Package environment implements the binding records that back identifier
// resolution: declarative, object-bound, function and global records linked
// outward through non-owning references, plus the Chain an execution context
// uses to own them.
package environment

import (
	"jscore/pkg/values"
)

const debugEnv = false

// Type tags a record so resolution can pick the right binding semantics.
type Type int

const (
	Function Type = iota
	Declarative
	Object
	Global
)

func (t Type) String() string {
	switch t {
	case Function:
		return "function"
	case Declarative:
		return "declarative"
	case Object:
		return "object"
	case Global:
		return "global"
	default:
		return "unknown"
	}
}

// Record is the binding contract shared by every environment flavour.
type Record interface {
	// HasBinding reports whether name is bound in this record alone.
	HasBinding(name string) bool
	CreateMutableBinding(name string, deletable bool) error
	CreateImmutableBinding(name string, strict bool) bool
	// InitializeBinding gives a created binding its first value. Calling it
	// for a name that was never created is an invariant violation.
	InitializeBinding(name string, v values.Value) error
	SetMutableBinding(name string, v values.Value, strict bool) error
	GetBindingValue(name string, strict bool) (values.Value, error)
	DeleteBinding(name string) bool

	HasThisBinding() bool
	HasSuperBinding() bool
	// WithBaseObject is the binding object of a with scope, Undefined otherwise.
	WithBaseObject() values.Value

	// OuterEnvironment upgrades the weak outer link. It panics with an
	// invariant violation when the outer record has been reclaimed.
	OuterEnvironment() Record
	SetOuterEnvironment(outer Record)
	EnvironmentType() Type
	// GlobalObject asks outward until a global record answers. A chain that
	// never reaches one reports false.
	GlobalObject() (values.Value, bool)
}

// link is the outer-environment half shared by the nested record kinds.
type link struct {
	outer outerRef
}

func (l *link) OuterEnvironment() Record { return l.outer.get() }

func (l *link) SetOuterEnvironment(outer Record) { l.outer = weakLink(outer) }

func (l *link) GlobalObject() (values.Value, bool) {
	outer := l.OuterEnvironment()
	if outer == nil {
		return values.Undefined, false
	}
	return outer.GlobalObject()
}
