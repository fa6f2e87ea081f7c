package tp

import (
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog/tlwire"
)

type (
	// Type is the kind of value an expression produces.
	Type int

	UnknownTypeError struct {
		Name string
	}
)

const (
	None Type = iota
	Integer
	Hist
	Lhist
	Count
	Sum
	Min
	Max
	Avg
	Stats
	Stack
	Ustack
	String
	Sym
	Usym
	Cast
	Name

	numTypes
)

var typeNames = [...]string{
	None:    "none",
	Integer: "integer",
	Hist:    "hist",
	Lhist:   "lhist",
	Count:   "count",
	Sum:     "sum",
	Min:     "min",
	Max:     "max",
	Avg:     "avg",
	Stats:   "stats",
	Stack:   "stack",
	Ustack:  "ustack",
	String:  "string",
	Sym:     "sym",
	Usym:    "usym",
	Cast:    "cast",
	Name:    "name",
}

// typeNames must have exactly one slot per Type.
var _ = [1]struct{}{}[len(typeNames)-int(numTypes)]

// Types returns every Type in declaration order.
func Types() []Type {
	r := make([]Type, numTypes)

	for i := range r {
		r[i] = Type(i)
	}

	return r
}

func (t Type) Valid() bool {
	return t >= 0 && t < numTypes
}

// String panics if t is not one of the declared types.
func (t Type) String() string {
	if !t.Valid() || typeNames[t] == "" {
		panic(errors.New("unknown type: %d", int(t)))
	}

	return typeNames[t]
}

func (t Type) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, t.String())
}

// ParseType is the reverse of Type.String.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return Type(t), nil
		}
	}

	return None, UnknownTypeError{Name: name}
}

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %q", e.Name)
}
