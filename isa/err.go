package isa

import (
	"github.com/s16tools/s16/translate"
)

var f = translate.From

// ErrOpcode reports a code word that does not decode to any operation.
type ErrOpcode uint16

func (eo ErrOpcode) Error() string {
	return f("invalid opcode $%04x", uint16(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrHex4 reports a malformed four-digit hex word.
type ErrHex4 string

func (err ErrHex4) Error() string {
	return f("'%v' is not a 4-digit hex word", string(err))
}
