package environment

import (
	"weak"

	"jscore/pkg/errors"
)

// outerRef is a non-owning handle on an outer record. Records own nothing of
// their ancestors; the Chain of the running context and closure snapshots do.
type outerRef struct {
	target func() Record
}

func (r outerRef) get() Record {
	if r.target == nil {
		return nil
	}
	return r.target()
}

func weakRef[T any, P interface {
	*T
	Record
}](rec P) outerRef {
	wp := weak.Make((*T)(rec))
	return outerRef{target: func() Record {
		p := wp.Value()
		if p == nil {
			errors.Invariant("outer environment was reclaimed")
		}
		return P(p)
	}}
}

func weakLink(r Record) outerRef {
	switch r := r.(type) {
	case nil:
		return outerRef{}
	case *DeclarativeRecord:
		return weakRef(r)
	case *FunctionRecord:
		return weakRef(r)
	case *ObjectRecord:
		return weakRef(r)
	case *GlobalRecord:
		return weakRef(r)
	}
	errors.Invariant("unsupported environment record %T", r)
	return outerRef{}
}
