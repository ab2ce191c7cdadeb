package asm

import (
	"github.com/s16tools/s16/isa"
)

// operandFormat selects the operand syntax of a statement.
type operandFormat int

const (
	aRRR    = operandFormat(iota) // Rd,Ra,Rb
	aRR                           // Ra,Rb (d field zero)
	aRX                           // Rd,disp[Ra]
	aX                            // disp[Ra]
	akX                           // k,disp[Ra]
	aRRk                          // Rd,Re,k
	aRRRexp                       // Rd,Re,Rf in the second word
	aRRX                          // Rd,Re,disp[Rf]
	aData
	aModule
	aImport
	aExport
	aOrg
	aReserve
	aEqu
	aEnd
)

// operation describes one mnemonic or directive.
type operation struct {
	op     isa.Op
	afmt   operandFormat
	ccBit  isa.CCBit // condition flag tested by pseudo jumps
	pseudo bool
	dir    bool // directive, no code emitted through the codec
}

// statements is the assembly language surface: machine mnemonics,
// condition jump pseudo-instructions, and directives.
var statements = map[string]operation{
	"add":  {op: isa.OP_ADD, afmt: aRRR},
	"sub":  {op: isa.OP_SUB, afmt: aRRR},
	"mul":  {op: isa.OP_MUL, afmt: aRRR},
	"div":  {op: isa.OP_DIV, afmt: aRRR},
	"cmp":  {op: isa.OP_CMP, afmt: aRR},
	"addc": {op: isa.OP_ADDC, afmt: aRRR},
	"muln": {op: isa.OP_MULN, afmt: aRRR},
	"divn": {op: isa.OP_DIVN, afmt: aRRR},
	"trap": {op: isa.OP_TRAP, afmt: aRRR},

	"lea":     {op: isa.OP_LEA, afmt: aRX},
	"load":    {op: isa.OP_LOAD, afmt: aRX},
	"store":   {op: isa.OP_STORE, afmt: aRX},
	"jump":    {op: isa.OP_JUMP, afmt: aX},
	"jumpc0":  {op: isa.OP_JUMPC0, afmt: akX},
	"jumpc1":  {op: isa.OP_JUMPC1, afmt: akX},
	"jal":     {op: isa.OP_JAL, afmt: aRX},
	"jumpz":   {op: isa.OP_JUMPZ, afmt: aRX},
	"jumpnz":  {op: isa.OP_JUMPNZ, afmt: aRX},
	"testset": {op: isa.OP_TESTSET, afmt: aRX},

	"jumple":  {op: isa.OP_JUMPC0, afmt: aX, ccBit: isa.CC_g, pseudo: true},
	"jumpne":  {op: isa.OP_JUMPC0, afmt: aX, ccBit: isa.CC_E, pseudo: true},
	"jumpge":  {op: isa.OP_JUMPC0, afmt: aX, ccBit: isa.CC_l, pseudo: true},
	"jumpnv":  {op: isa.OP_JUMPC0, afmt: aX, ccBit: isa.CC_v, pseudo: true},
	"jumpnco": {op: isa.OP_JUMPC0, afmt: aX, ccBit: isa.CC_C, pseudo: true},
	"jumplt":  {op: isa.OP_JUMPC1, afmt: aX, ccBit: isa.CC_l, pseudo: true},
	"jumpeq":  {op: isa.OP_JUMPC1, afmt: aX, ccBit: isa.CC_E, pseudo: true},
	"jumpgt":  {op: isa.OP_JUMPC1, afmt: aX, ccBit: isa.CC_g, pseudo: true},
	"jumpv":   {op: isa.OP_JUMPC1, afmt: aX, ccBit: isa.CC_v, pseudo: true},
	"jumpco":  {op: isa.OP_JUMPC1, afmt: aX, ccBit: isa.CC_C, pseudo: true},

	"shiftl":  {op: isa.OP_SHIFTL, afmt: aRRk},
	"shiftr":  {op: isa.OP_SHIFTR, afmt: aRRk},
	"push":    {op: isa.OP_PUSH, afmt: aRRRexp},
	"pop":     {op: isa.OP_POP, afmt: aRRRexp},
	"top":     {op: isa.OP_TOP, afmt: aRRRexp},
	"save":    {op: isa.OP_SAVE, afmt: aRRX},
	"restore": {op: isa.OP_RESTORE, afmt: aRRX},

	"data":    {afmt: aData, dir: true},
	"module":  {afmt: aModule, dir: true},
	"import":  {afmt: aImport, dir: true},
	"export":  {afmt: aExport, dir: true},
	"org":     {afmt: aOrg, dir: true},
	"reserve": {afmt: aReserve, dir: true},
	"equ":     {afmt: aEqu, dir: true},
	"end":     {afmt: aEnd, dir: true},
}

// codeSize returns the number of words the statement will emit.
func (op operation) codeSize() int {
	if op.dir {
		if op.afmt == aData {
			return 1
		}
		return 0
	}
	return op.op.Format().Size()
}
