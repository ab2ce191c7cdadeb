package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/s16tools/s16/isa"
	"github.com/s16tools/s16/obj"
)

func doAssemble(t *testing.T, program []string) (result *Result) {
	assert := assert.New(t)

	asm := &Assembler{}
	result, err := asm.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.NotNil(result)

	return
}

func moduleWords(m *obj.Module) (words []uint16) {
	words = make([]uint16, m.Size())
	for _, b := range m.Blocks {
		copy(words[b.Start:], b.Words)
	}

	return
}

func TestAssembleHello(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"; compute 6 * x and store the result",
		"       lea    R1,6[R0]",
		"       load   R2,x[R0]",
		"       mul    R3,R1,R2",
		"       store  R3,result[R0]",
		"       trap   R0,R0,R0",
		"x      data   7",
		"result data   0",
	}

	result := doAssemble(t, program)
	assert.Empty(result.Diags)

	words := moduleWords(result.Module)
	assert.Equal([]uint16{
		0xf100, 0x0006, // lea R1,6[R0]
		0xf201, 0x0008, // load R2,x[R0]
		0x2312, // mul R3,R1,R2
		0xf302, 0x0009, // store R3,result[R0]
		0xc000, // trap R0,R0,R0
		0x0007, // x
		0x0000, // result
	}, words)

	// Forward references resolve to relocatable addresses.
	assert.Equal([]uint16{0x0003, 0x0006}, result.Module.Relocs)

	x, ok := result.Symbols.Lookup("x")
	assert.True(ok)
	assert.Equal(uint16(8), x.Value.Word)
	assert.Equal(Relocatable, x.Value.Movability)
}

func TestAssembleDeterministic(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"loop   load   R1,n[R0]",
		"       sub    R1,R1,R2",
		"       store  R1,n[R0]",
		"       jumpnz R1,loop[R0]",
		"       trap   R0,R0,R0",
		"n      data   100",
	}

	first := doAssemble(t, program)
	second := doAssemble(t, program)
	assert.Equal(first.Module, second.Module)
	assert.Equal(first.Listing, second.Listing)
	assert.Equal(first.Diags, second.Diags)
}

func TestAssembleDirectives(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"prog   module",
		"size   equ    4",
		"       lea    R1,size[R0]",
		"       org    $0010",
		"table  data   1",
		"       data   2",
		"       reserve 6",
		"after  data   3",
		"       export table",
		"       export size",
		"       end",
	}

	result := doAssemble(t, program)
	assert.Empty(result.Diags)
	assert.Equal("prog", result.Module.Name)

	// org starts a fresh block, reserve leaves a gap inside it.
	assert.Equal([]obj.Block{
		{Start: 0, Words: []uint16{0xf100, 0x0004}},
		{Start: 0x0010, Words: []uint16{0x0001, 0x0002}},
		{Start: 0x0018, Words: []uint16{0x0003}},
	}, result.Module.Blocks)

	// equ values are fixed, labels after a constant org are too.
	assert.Equal([]obj.Export{
		{Name: "table", Value: 0x0010, Relocatable: false},
		{Name: "size", Value: 4, Relocatable: false},
	}, result.Module.Exports)

	sym, ok := result.Symbols.Lookup("after")
	assert.True(ok)
	assert.Equal(uint16(0x0018), sym.Value.Word)
}

func TestAssembleImportExport(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"main    module",
		"        load  R1,x[R0]",
		"        trap  R0,R0,R0",
		"x       import lib,count",
		"        export start",
	}

	result := doAssemble(t, program)

	assert.Equal([]obj.Import{
		{Mod: "lib", Name: "count", Addr: 1, Field: "disp"},
	}, result.Module.Imports)

	// start is not defined anywhere.
	assert.NotEmpty(result.Diags)
}

func TestAssembleExpressions(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"size   equ    8",
		"       lea    R1,2*size+1[R0]",
		"       lea    R2,$00ff[R0]",
		"       lea    R3,-2[R0]",
		"       shiftl R4,R4,size-5",
	}

	result := doAssemble(t, program)
	assert.Empty(result.Diags)

	words := moduleWords(result.Module)
	assert.Equal(uint16(17), words[1])
	assert.Equal(uint16(0x00ff), words[3])
	assert.Equal(uint16(0xfffe), words[5])
	assert.Equal(uint16(0x4003), words[7]) // e=4, gh=3
}

func TestAssembleDiagnostics(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"       load  R1,zzz[R0]",  // undefined symbol
		"       frobnicate R1",     // unknown operation
		"       add   R1,R2",       // missing operand
		"       add   R1,R2,R99",   // bad register
		"dup    data  1",
		"dup    data  2", // duplicate label
	}

	result := doAssemble(t, program)
	assert.Equal(5, len(result.Diags))

	// Assembly continued: all statements still produced code.
	assert.Equal(1, result.Diags[0].LineNo)
	assert.Equal(6, result.Diags[4].LineNo)

	// Placeholder emitted for the undefined symbol.
	words := moduleWords(result.Module)
	assert.Equal(uint16(0), words[1])
}

func TestAssembleListing(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"       lea    R1,6[R0]",
		"x      data   7",
	}

	result := doAssemble(t, program)
	assert.Equal("Line Addr Code Code Source", result.Listing[0])
	assert.Contains(result.Listing[1], "0000 f100 0006")
	assert.Contains(result.Listing[2], "0002 0007")
}

func TestAssemblePseudoJumps(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"loop   cmp    R1,R2",
		"       jumplt loop[R0]",
		"       jumpeq done[R0]",
		"       jump   loop[R0]",
		"done   trap   R0,R0,R0",
	}

	result := doAssemble(t, program)
	assert.Empty(result.Diags)

	words := moduleWords(result.Module)
	// jumplt is jumpc1 testing the signed less-than flag.
	in, err := isa.Decode(words[1], words[2])
	assert.NoError(err)
	assert.Equal(isa.OP_JUMPC1, in.Op)
	assert.Equal(uint16(isa.CC_l), in.D)

	in, err = isa.Decode(words[3], words[4])
	assert.NoError(err)
	assert.Equal(isa.OP_JUMPC1, in.Op)
	assert.Equal(uint16(isa.CC_E), in.D)
	assert.Equal(uint16(7), in.Disp)
}
