package io

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTape_Receive(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("hi")}
	tape.Rewind()

	ctx := context.Background()

	value, err := tape.Receive(ctx)
	assert.NoError(err)
	assert.Equal(uint16('h'), value)

	value, err = tape.Receive(ctx)
	assert.NoError(err)
	assert.Equal(uint16('i'), value)

	_, err = tape.Receive(ctx)
	assert.Equal(ErrNoInput, err)
}

func TestTape_Send(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	tape := &Tape{Output: &out}

	for _, w := range []uint16{'o', 'k', '\n'} {
		assert.NoError(tape.Send(w))
	}
	assert.Equal("ok\n", out.String())

	// The high byte is dropped.
	assert.NoError(tape.Send(0x0161))
	assert.Equal("ok\na", out.String())
}

func TestTape_ReceiveBlockedInput(t *testing.T) {
	assert := assert.New(t)

	// A pipe with no writer blocks forever without a deadline.
	pr, pw := io.Pipe()
	tape := &Tape{Input: pr}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := tape.Receive(ctx)
	assert.Equal(context.DeadlineExceeded, err)
	assert.Less(time.Since(start), time.Second)

	// The byte that arrives later is delivered, not lost.
	go func() {
		_, _ = pw.Write([]byte{'x'})
	}()

	value, err := tape.Receive(context.Background())
	assert.NoError(err)
	assert.Equal(uint16('x'), value)
}

func TestTape_ReceiveCancelled(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("x")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tape.Receive(ctx)
	assert.Equal(context.Canceled, err)
}

func TestQueue_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	q := &Queue{}
	q.FeedString("42\n")

	ctx := context.Background()

	value, err := q.Receive(ctx)
	assert.NoError(err)
	assert.Equal(uint16('4'), value)

	assert.NoError(q.Send('*'))
	assert.Equal("*", q.SentString())

	q.Rewind()
	assert.Empty(q.Sent)

	value, err = q.Receive(ctx)
	assert.NoError(err)
	assert.Equal(uint16('4'), value)
}

func TestQueue_Drained(t *testing.T) {
	assert := assert.New(t)

	q := &Queue{}
	q.Feed('a')

	ctx := context.Background()

	_, err := q.Receive(ctx)
	assert.NoError(err)

	_, err = q.Receive(ctx)
	assert.Equal(ErrNoInput, err)
}
