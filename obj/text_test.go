package obj

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitParse(t *testing.T) {
	assert := assert.New(t)

	m := &Module{
		Name: "prog",
		Blocks: []Block{
			{Start: 0, Words: []uint16{0xf101, 0x0008, 0x0312, 0xc000}},
			{Start: 0x0010, Words: []uint16{0x002a}},
		},
		Relocs:  []uint16{0x0001},
		Imports: []Import{{Mod: "lib", Name: "size", Addr: 0x0003, Field: "disp"}},
		Exports: []Export{
			{Name: "start", Value: 0, Relocatable: true},
			{Name: "limit", Value: 0x0100, Relocatable: false},
		},
	}

	text := m.String()
	assert.Contains(text, "module   prog")
	assert.Contains(text, "data     f101,0008,0312,c000")
	assert.Contains(text, "org      0010")
	assert.Contains(text, "relocate 0001")
	assert.Contains(text, "import   lib,size,0003,disp")
	assert.Contains(text, "export   start,0000,relocatable")
	assert.Contains(text, "export   limit,0100,fixed")

	back, err := Parse(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal(m.Name, back.Name)
	assert.Equal(m.Blocks, back.Blocks)
	assert.Equal(m.Relocs, back.Relocs)
	assert.Equal(m.Imports, back.Imports)
	assert.Equal(m.Exports, back.Exports)
}

func TestDataLineLimit(t *testing.T) {
	assert := assert.New(t)

	m := &Module{Name: "big"}
	for i := range 20 {
		m.Append(uint16(i), uint16(i))
	}

	text := m.String()
	assert.Equal(3, strings.Count(text, "data     "))

	back, err := Parse(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal(m.Blocks, back.Blocks)
}

func TestWordAccess(t *testing.T) {
	assert := assert.New(t)

	m := &Module{}
	m.Append(0, 0x1111)
	m.Append(1, 0x2222)
	m.Append(8, 0x3333)

	assert.Equal(2, len(m.Blocks))
	assert.Equal(9, m.Size())

	w, ok := m.Word(1)
	assert.True(ok)
	assert.Equal(uint16(0x2222), w)

	_, ok = m.Word(5)
	assert.False(ok)

	assert.True(m.SetWord(8, 0x4444))
	w, _ = m.Word(8)
	assert.Equal(uint16(0x4444), w)
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse(strings.NewReader("bogus 1234\n"))
	assert.Error(err)

	_, err = Parse(strings.NewReader("data zzzz\n"))
	assert.Error(err)

	_, err = Parse(strings.NewReader("export onlyname\n"))
	assert.Error(err)
}
