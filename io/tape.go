package io

import (
	"context"
	"io"
)

// Tape provides sequential I/O over byte streams. It wraps an
// io.Reader for input and io.Writer for output, one byte per word:
// the low byte of each word is the character, the high byte is
// dropped on output and zero on input.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	inflight chan readResult
}

type readResult struct {
	value uint16
	err   error
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Receive reads the next input byte as a word. End of the input
// stream reports ErrNoInput. The blocking read runs on its own
// goroutine so cancellation takes effect immediately; a byte that
// arrives after cancellation is kept for the next call rather than
// lost.
func (tc *Tape) Receive(ctx context.Context) (value uint16, err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	if tc.Input == nil {
		err = ErrNoInput
		return
	}

	if tc.inflight == nil {
		tc.inflight = make(chan readResult, 1)
		go func(in io.Reader, result chan<- readResult) {
			var one [1]byte
			_, err := io.ReadFull(in, one[:])
			result <- readResult{value: uint16(one[0]), err: err}
		}(tc.Input, tc.inflight)
	}

	select {
	case <-ctx.Done():
		err = ctx.Err()
		return
	case res := <-tc.inflight:
		tc.inflight = nil
		if res.err != nil {
			err = ErrNoInput
			return
		}
		value = res.value
	}

	return
}

// Send writes the low byte of the word to the output stream.
func (tc *Tape) Send(value uint16) (err error) {
	if tc.Output == nil {
		return
	}
	_, err = tc.Output.Write([]byte{byte(value)})

	return
}
