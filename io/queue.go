package io

import (
	"context"
)

// Queue is an in-memory channel. Input words are queued up front with
// Feed and consumed in order; output words accumulate in Sent. It
// backs tests and scripted runs where no real stream is involved.
type Queue struct {
	words []uint16
	next  int

	Sent []uint16
}

var _ Channel = (*Queue)(nil)

// Feed appends words to the input queue.
func (q *Queue) Feed(words ...uint16) {
	q.words = append(q.words, words...)
}

// FeedString appends one word per byte of s.
func (q *Queue) FeedString(s string) {
	for _, b := range []byte(s) {
		q.Feed(uint16(b))
	}
}

// Rewind moves the read position back to the first queued word and
// drops accumulated output.
func (q *Queue) Rewind() {
	q.next = 0
	q.Sent = nil
}

// Receive returns the next queued word, or ErrNoInput once the queue
// is drained.
func (q *Queue) Receive(ctx context.Context) (value uint16, err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	if q.next >= len(q.words) {
		err = ErrNoInput
		return
	}

	value = q.words[q.next]
	q.next++

	return
}

// Send records the word.
func (q *Queue) Send(value uint16) (err error) {
	q.Sent = append(q.Sent, value)

	return
}

// SentString renders the accumulated output as a byte string.
func (q *Queue) SentString() string {
	out := make([]byte, len(q.Sent))
	for n, w := range q.Sent {
		out[n] = byte(w)
	}

	return string(out)
}
