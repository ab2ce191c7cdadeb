package isa

import (
	"fmt"
)

// Format is an instruction encoding format.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FMT_RRR = Format(0) // RRR
	FMT_RX  = Format(1) // RX
	FMT_EXP = Format(2) // EXP
)

// Size returns the format length in words.
func (fmt Format) Size() int {
	if fmt == FMT_RRR {
		return 1
	}
	return 2
}

// Op is a machine operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_ADD     = Op(0)  // add
	OP_SUB     = Op(1)  // sub
	OP_MUL     = Op(2)  // mul
	OP_DIV     = Op(3)  // div
	OP_CMP     = Op(4)  // cmp
	OP_ADDC    = Op(5)  // addc
	OP_MULN    = Op(6)  // muln
	OP_DIVN    = Op(7)  // divn
	OP_TRAP    = Op(8)  // trap
	OP_LEA     = Op(9)  // lea
	OP_LOAD    = Op(10) // load
	OP_STORE   = Op(11) // store
	OP_JUMP    = Op(12) // jump
	OP_JUMPC0  = Op(13) // jumpc0
	OP_JUMPC1  = Op(14) // jumpc1
	OP_JAL     = Op(15) // jal
	OP_JUMPZ   = Op(16) // jumpz
	OP_JUMPNZ  = Op(17) // jumpnz
	OP_TESTSET = Op(18) // testset
	OP_SHIFTL  = Op(19) // shiftl
	OP_SHIFTR  = Op(20) // shiftr
	OP_PUSH    = Op(21) // push
	OP_POP     = Op(22) // pop
	OP_TOP     = Op(23) // top
	OP_SAVE    = Op(24) // save
	OP_RESTORE = Op(25) // restore
)

const (
	primaryTrap = 12 // RRR escape for trap
	primaryEXP  = 14 // two-word EXP formats
	primaryRX   = 15 // two-word RX formats
)

// rxSecondary maps an RX operation to the secondary opcode in the b field.
var rxSecondary = map[Op]uint16{
	OP_LEA:     0,
	OP_LOAD:    1,
	OP_STORE:   2,
	OP_JUMP:    3,
	OP_JUMPC0:  4,
	OP_JUMPC1:  5,
	OP_JAL:     6,
	OP_JUMPZ:   7,
	OP_JUMPNZ:  8,
	OP_TESTSET: 9,
}

// expSecondary maps an EXP operation to the 8-bit secondary opcode.
var expSecondary = map[Op]uint16{
	OP_SHIFTL:  3,
	OP_SHIFTR:  4,
	OP_PUSH:    7,
	OP_POP:     8,
	OP_TOP:     9,
	OP_SAVE:    10,
	OP_RESTORE: 11,
}

var rxByCode map[uint16]Op
var expByCode map[uint16]Op

func init() {
	rxByCode = make(map[uint16]Op, len(rxSecondary))
	for op, sec := range rxSecondary {
		rxByCode[sec] = op
	}
	expByCode = make(map[uint16]Op, len(expSecondary))
	for op, sec := range expSecondary {
		expByCode[sec] = op
	}
}

// Format returns the encoding format of the operation.
func (op Op) Format() Format {
	switch {
	case op <= OP_TRAP:
		return FMT_RRR
	case op <= OP_TESTSET:
		return FMT_RX
	default:
		return FMT_EXP
	}
}

// Instruction is a decoded machine instruction.
type Instruction struct {
	Op      Op
	D, A, B uint16 // register fields of the first word

	Disp uint16 // RX displacement (second word)

	E, F, G, H uint16 // EXP nibble fields (second word)
}

// Size returns the instruction length in words.
func (in Instruction) Size() int {
	return in.Op.Format().Size()
}

// GH returns the combined 8-bit g/h field of an EXP instruction.
func (in Instruction) GH() uint16 {
	return (in.G&0xf)<<4 | in.H&0xf
}

func mkWord(op, d, a, b uint16) uint16 {
	return (op&0xf)<<12 | (d&0xf)<<8 | (a&0xf)<<4 | b&0xf
}

// Encode packs the instruction into one or two code words.
func (in Instruction) Encode() (words []uint16, err error) {
	switch in.Op.Format() {
	case FMT_RRR:
		primary := uint16(in.Op)
		if in.Op == OP_TRAP {
			primary = primaryTrap
		}
		words = []uint16{mkWord(primary, in.D, in.A, in.B)}
	case FMT_RX:
		sec, ok := rxSecondary[in.Op]
		if !ok {
			err = ErrOpcode(uint16(in.Op))
			return
		}
		words = []uint16{mkWord(primaryRX, in.D, in.A, sec), in.Disp}
	case FMT_EXP:
		sec, ok := expSecondary[in.Op]
		if !ok {
			err = ErrOpcode(uint16(in.Op))
			return
		}
		word1 := (uint16(primaryEXP) << 12) | (in.D&0xf)<<8 | sec&0xff
		words = []uint16{word1, mkWord(in.E, in.F, in.G, in.H)}
	}

	return
}

// Decode unpacks an instruction from up to two code words. The second
// word is ignored for single-word formats.
func Decode(w1, w2 uint16) (in Instruction, err error) {
	primary := (w1 >> 12) & 0xf
	d := (w1 >> 8) & 0xf
	a := (w1 >> 4) & 0xf
	b := w1 & 0xf

	switch {
	case primary <= uint16(OP_DIVN):
		in = Instruction{Op: Op(primary), D: d, A: a, B: b}
	case primary == primaryTrap:
		in = Instruction{Op: OP_TRAP, D: d, A: a, B: b}
	case primary == primaryRX:
		op, ok := rxByCode[b]
		if !ok {
			err = ErrOpcode(w1)
			return
		}
		in = Instruction{Op: op, D: d, A: a, B: b, Disp: w2}
	case primary == primaryEXP:
		op, ok := expByCode[w1&0xff]
		if !ok {
			err = ErrOpcode(w1)
			return
		}
		in = Instruction{
			Op: op, D: d, A: a, B: b,
			E: (w2 >> 12) & 0xf,
			F: (w2 >> 8) & 0xf,
			G: (w2 >> 4) & 0xf,
			H: w2 & 0xf,
		}
	default:
		err = ErrOpcode(w1)
	}

	return
}

// String returns the assembly language representation of the instruction.
func (in Instruction) String() (out string) {
	switch in.Op.Format() {
	case FMT_RRR:
		out = fmt.Sprintf("%v R%d,R%d,R%d", in.Op, in.D, in.A, in.B)
	case FMT_RX:
		out = fmt.Sprintf("%v R%d,%s[R%d]", in.Op, in.D, WordToHex4(in.Disp), in.A)
	case FMT_EXP:
		out = fmt.Sprintf("%v R%d,R%d,R%d,%d", in.Op, in.D, in.E, in.F, in.GH())
	}

	return
}
