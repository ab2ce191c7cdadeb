package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlocks(t *testing.T) {
	assert := assert.New(t)

	mem := []uint16{0, 0, 1, 2, 0, 0, 0, 3, 0}

	var starts []uint16
	var runs [][]uint16
	for start, words := range Blocks(mem) {
		starts = append(starts, start)
		runs = append(runs, words)
	}

	assert.Equal([]uint16{2, 7}, starts)
	assert.Equal([][]uint16{{1, 2}, {3}}, runs)
}

func TestBlocksEmpty(t *testing.T) {
	assert := assert.New(t)

	for range Blocks(make([]uint16, 16)) {
		assert.Fail("no runs expected")
	}
}

func TestBlocksStopEarly(t *testing.T) {
	assert := assert.New(t)

	mem := []uint16{1, 0, 2, 0, 3}

	count := 0
	for range Blocks(mem) {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(2, count)
}
