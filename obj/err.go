package obj

import (
	"github.com/s16tools/s16/translate"
)

var f = translate.From

// ErrRecord reports an object text line that is not a valid record.
type ErrRecord string

func (err ErrRecord) Error() string {
	return f("'%v' is not an object code record", string(err))
}

// ErrLine locates a parse error within object text.
type ErrLine struct {
	LineNo int
	Err    error
}

func (err *ErrLine) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrLine) Unwrap() error {
	return err.Err
}
