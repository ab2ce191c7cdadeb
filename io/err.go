package io

import (
	"errors"

	"github.com/s16tools/s16/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrNoInput = errors.New(f("no input available"))
)
