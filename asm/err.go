package asm

import (
	"errors"

	"github.com/s16tools/s16/translate"
)

var f = translate.From

var (
	ErrExternalArith   = errors.New(f("cannot perform arithmetic on external value"))
	ErrRelocatablePair = errors.New(f("cannot add two relocatable values"))
)

// ErrSymbolDuplicate reports a name defined more than once.
type ErrSymbolDuplicate string

func (err ErrSymbolDuplicate) Error() string {
	return f("%v has already been defined", string(err))
}

// ErrParseExpression reports an operand that does not evaluate to an
// assembly-time integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("'%v' is not a valid expression", string(err))
}
