package asm

// Origin tells where a value is defined.
type Origin int

//go:generate go tool stringer -linecomment -type=Origin
const (
	Local    = Origin(0) // local
	External = Origin(1) // external
)

// Movability tells whether a value shifts when its module is relocated.
type Movability int

//go:generate go tool stringer -linecomment -type=Movability
const (
	Fixed       = Movability(0) // fixed
	Relocatable = Movability(1) // relocatable
)

// Value is an assembly-time word. The location counter and labels are
// relocatable; constants and equ symbols are fixed; imported names are
// external with an unknown word.
type Value struct {
	Word       uint16
	Origin     Origin
	Movability Movability
}

// MkConst makes a fixed local value.
func MkConst(w uint16) Value {
	return Value{Word: w}
}

// MkReloc makes a relocatable local value.
func MkReloc(w uint16) Value {
	return Value{Word: w, Movability: Relocatable}
}

// Add sums two values. External values cannot take part in arithmetic,
// and at most one addend may be relocatable.
func (v Value) Add(y Value) (result Value, err error) {
	switch {
	case v.Origin == External || y.Origin == External:
		err = ErrExternalArith
	case v.Movability == Relocatable && y.Movability == Relocatable:
		err = ErrRelocatablePair
	default:
		m := Fixed
		if v.Movability == Relocatable || y.Movability == Relocatable {
			m = Relocatable
		}
		result = Value{Word: v.Word + y.Word, Movability: m}
	}

	return
}
