package internal

import (
	"iter"
)

// Blocks yields the maximal runs of nonzero words in mem as start
// address and contents. Front ends use it to summarize a memory image
// without printing every empty word.
func Blocks(mem []uint16) iter.Seq2[uint16, []uint16] {
	return func(yield func(uint16, []uint16) bool) {
		n := 0
		for n < len(mem) {
			if mem[n] == 0 {
				n++
				continue
			}
			start := n
			for n < len(mem) && mem[n] != 0 {
				n++
			}
			if !yield(uint16(start), mem[start:n]) {
				return
			}
		}
	}
}
