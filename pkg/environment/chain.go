package environment

import (
	"fmt"
	"slices"

	"jscore/pkg/errors"
	"jscore/pkg/values"
)

// Chain is the scope stack of one execution context, global record first and
// the innermost record last. It holds the only owning references to its
// records; each record reaches its parent through a weak link.
type Chain struct {
	records []Record
}

func NewChain(global *GlobalRecord) *Chain {
	return &Chain{records: []Record{global}}
}

// Global returns the record at the bottom of the stack.
func (c *Chain) Global() *GlobalRecord { return c.records[0].(*GlobalRecord) }

// Leaf returns the innermost record.
func (c *Chain) Leaf() Record { return c.records[len(c.records)-1] }

func (c *Chain) Depth() int { return len(c.records) }

// Push links r to the current leaf and makes it the new leaf.
func (c *Chain) Push(r Record) {
	r.SetOuterEnvironment(c.Leaf())
	c.records = append(c.records, r)
}

// Pop drops the leaf. The global record is never popped.
func (c *Chain) Pop() Record {
	if len(c.records) <= 1 {
		errors.Invariant("cannot pop the global environment")
	}
	n := len(c.records) - 1
	leaf := c.records[n]
	c.records[n] = nil
	c.records = c.records[:n]
	return leaf
}

// Snapshot copies the stack so a closure can own its defining scopes after
// the running context moves on.
func (c *Chain) Snapshot() *Chain {
	return &Chain{records: slices.Clone(c.records)}
}

// GlobalObject returns the object behind the global record.
func (c *Chain) GlobalObject() *values.Object {
	return c.Global().globalObject()
}

// ResolveBinding walks outward from the leaf and returns a reference to the
// first record binding name. An unbound name yields an unresolvable reference.
func (c *Chain) ResolveBinding(name string, strict bool) Reference {
	for env := c.Leaf(); env != nil; env = env.OuterEnvironment() {
		if env.HasBinding(name) {
			if debugEnv {
				fmt.Printf("[env] %s resolved in %s record\n", name, env.EnvironmentType())
			}
			return Reference{Name: name, Base: env, Strict: strict, global: c.GlobalObject()}
		}
	}
	if debugEnv {
		fmt.Printf("[env] %s is unresolvable\n", name)
	}
	return Reference{Name: name, Strict: strict, global: c.GlobalObject()}
}

// ResolveThisBinding finds the nearest record with a this binding.
func (c *Chain) ResolveThisBinding() (values.Value, error) {
	for env := c.Leaf(); env != nil; env = env.OuterEnvironment() {
		if !env.HasThisBinding() {
			continue
		}
		switch env := env.(type) {
		case *FunctionRecord:
			return env.GetThisBinding()
		case *GlobalRecord:
			return env.GetThisBinding(), nil
		}
	}
	errors.Invariant("no environment provides a this binding")
	return values.Undefined, nil
}

// NearestFunction returns the innermost function record with its own this, or
// nil at top level.
func (c *Chain) NearestFunction() *FunctionRecord {
	for env := c.Leaf(); env != nil; env = env.OuterEnvironment() {
		if f, ok := env.(*FunctionRecord); ok && f.HasThisBinding() {
			return f
		}
	}
	return nil
}
