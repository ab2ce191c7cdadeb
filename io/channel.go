// Package io provides the character devices behind the emulator's trap
// instructions. Channels carry one character per 16-bit word: trap read
// receives words from a channel into memory, trap write sends memory
// words to a channel.
package io

import (
	"context"
)

// Channel is a sequential word-at-a-time character device.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns the next input word. It returns ErrNoInput when
	// the channel has nothing more to give.
	Receive(ctx context.Context) (uint16, error)
	// Send writes a single output word.
	Send(value uint16) error
}
