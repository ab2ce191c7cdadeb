package link

import (
	"github.com/s16tools/s16/translate"
)

var f = translate.From

// ErrImageTooLarge reports a combined module size beyond the
// addressable memory.
type ErrImageTooLarge int

func (err ErrImageTooLarge) Error() string {
	return f("combined image of %v words does not fit in memory", int(err))
}

// Is implements error interface matching support for errors.Is.
func (err ErrImageTooLarge) Is(target error) bool {
	_, ok := target.(ErrImageTooLarge)
	return ok
}
