package asm

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/s16tools/s16/isa"
	"github.com/s16tools/s16/obj"
)

// Statement is one parsed source line and the code it generates.
type Statement struct {
	LineNo   int // 1-based
	Addr     Value
	Source   string
	Label    string
	Op       string
	Operands []string

	spec  *operation
	words []uint16
}

// Result is everything the assembler produces for one module.
type Result struct {
	Module  *obj.Module
	Listing []string
	Diags   []obj.Diagnostic
	Symbols *SymbolTable
}

// Assembler translates one Sigma16 source module into an object
// module. The zero value is ready to use; Name seeds the module name
// when the source has no module statement.
type Assembler struct {
	Name string

	Symbols *SymbolTable
	Stmts   []Statement

	modName string
	exports []exportRef
	diags   []obj.Diagnostic
	mod     *obj.Module
	lc      Value
}

type exportRef struct {
	lineNo int
	name   string
}

func (a *Assembler) diag(lineno int, msg string) {
	a.diags = append(a.diags, obj.Diagnostic{LineNo: lineno, Message: msg})
}

// Assemble runs both passes over the source. Assembly problems become
// diagnostics in the result; the returned error reports only input
// failures.
func (a *Assembler) Assemble(input io.Reader) (result *Result, err error) {
	var lines []string
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	a.Symbols = NewSymbolTable()
	a.Stmts = a.Stmts[:0]
	a.exports = a.exports[:0]
	a.diags = a.diags[:0]
	a.modName = a.Name
	if a.modName == "" {
		a.modName = "anonymous"
	}
	a.lc = MkReloc(0)

	a.pass1(lines)
	a.pass2()

	slices.SortStableFunc(a.diags, func(x, y obj.Diagnostic) int {
		return x.LineNo - y.LineNo
	})

	result = &Result{
		Module:  a.mod,
		Listing: a.listing(),
		Diags:   a.diags,
		Symbols: a.Symbols,
	}

	return
}

// parseStmt splits a source line into label, operation, and operands.
func (a *Assembler) parseStmt(lineno int, line string) (s Statement) {
	s = Statement{LineNo: lineno, Source: line}

	text, _, _ := strings.Cut(line, ";")
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}

	head := fields[0]
	if colon, ok := strings.CutSuffix(head, ":"); ok {
		s.Label = colon
		fields = fields[1:]
	} else if _, known := statements[strings.TrimPrefix(strings.ToLower(head), ".")]; !known {
		// A leading token that is no known operation is a label.
		s.Label = head
		fields = fields[1:]
	}

	if len(fields) == 0 {
		return
	}

	s.Op = strings.TrimPrefix(strings.ToLower(fields[0]), ".")
	operandText := strings.Join(fields[1:], " ")
	for _, x := range strings.Split(operandText, ",") {
		x = strings.TrimSpace(x)
		if len(x) > 0 {
			s.Operands = append(s.Operands, x)
		}
	}

	return
}

// pass1 parses every line, defines all labels, and assigns addresses
// from the location counter.
func (a *Assembler) pass1(lines []string) {
	for n, line := range lines {
		s := a.parseStmt(n+1, line)
		s.Addr = a.lc

		if len(s.Op) > 0 {
			op, ok := statements[s.Op]
			if ok {
				s.spec = &op
			} else {
				a.diag(s.LineNo, f("%v is not a valid operation", s.Op))
			}
		}

		a.handleLabel(&s)
		a.updateLocationCounter(&s)
		a.Stmts = append(a.Stmts, s)
	}
}

func (a *Assembler) handleLabel(s *Statement) {
	if len(s.Label) == 0 {
		return
	}
	if !nameParser.MatchString(s.Label) {
		a.diag(s.LineNo, f("%v is not a valid label", s.Label))
		return
	}

	sym := &Symbol{Name: s.Label, DefLine: s.LineNo}
	switch s.Op {
	case "module":
		a.modName = s.Label
		return
	case "equ":
		if len(s.Operands) != 1 {
			a.diag(s.LineNo, f("equ requires one operand"))
			return
		}
		sym.Value = a.evaluate(s.LineNo, s.Operands[0])
	case "import":
		if len(s.Operands) != 2 {
			a.diag(s.LineNo, f("import requires module,name operands"))
			return
		}
		sym.Value = Value{Origin: External}
		sym.Mod = s.Operands[0]
		sym.Extname = s.Operands[1]
	default:
		sym.Value = a.lc
	}

	if err := a.Symbols.Define(sym); err != nil {
		a.diag(s.LineNo, err.Error())
	}
}

func (a *Assembler) updateLocationCounter(s *Statement) {
	if s.spec == nil {
		return
	}

	switch s.spec.afmt {
	case aOrg:
		if len(s.Operands) != 1 {
			a.diag(s.LineNo, f("org requires one operand"))
			return
		}
		a.lc = a.evaluate(s.LineNo, s.Operands[0])
	case aReserve:
		if len(s.Operands) != 1 {
			a.diag(s.LineNo, f("reserve requires one operand"))
			return
		}
		v := a.evaluate(s.LineNo, s.Operands[0])
		next, err := a.lc.Add(Value{Word: v.Word})
		if err != nil {
			a.diag(s.LineNo, err.Error())
			return
		}
		a.lc = next
	default:
		next, err := a.lc.Add(MkConst(uint16(s.spec.codeSize())))
		if err == nil {
			a.lc = next
		}
	}
}

// pass2 generates code with the symbol table complete.
func (a *Assembler) pass2() {
	a.mod = &obj.Module{Name: a.modName}

	for n := range a.Stmts {
		a.generate(&a.Stmts[n])
	}

	for _, x := range a.exports {
		sym, ok := a.Symbols.Lookup(x.name)
		if !ok {
			a.diag(x.lineNo, f("export identifier %v is undefined", x.name))
			continue
		}
		a.mod.Exports = append(a.mod.Exports, obj.Export{
			Name:        x.name,
			Value:       sym.Value.Word,
			Relocatable: sym.Value.Movability == Relocatable,
		})
	}
}

var xParser = regexp.MustCompile(`^([^\[]+)\[(.*)\]$`)

// requireX splits a disp[Ra] operand; a bare expression indexes R0.
func (a *Assembler) requireX(lineno int, field string) (disp string, index uint16) {
	m := xParser.FindStringSubmatch(field)
	if m == nil {
		disp = field
		return
	}
	disp = m[1]
	index = a.requireReg(lineno, m[2])

	return
}

func (a *Assembler) requireReg(lineno int, field string) (reg uint16) {
	ok := len(field) == 2 || len(field) == 3
	if ok {
		ok = field[0] == 'R' || field[0] == 'r'
	}
	if ok {
		n, err := strconv.Atoi(field[1:])
		if err != nil || n < 0 || n > 15 {
			a.diag(lineno, f("register in %v must be between 0 and 15", field))
			return
		}
		reg = uint16(n)
		return
	}
	a.diag(lineno, f("%v must be a register, e.g. R4 or r14", field))

	return
}

func (a *Assembler) requireOperands(s *Statement, n int) (ok bool) {
	if len(s.Operands) != n {
		a.diag(s.LineNo, f("there are %d operands but %d are required", len(s.Operands), n))
		return
	}
	ok = true

	return
}

// generate emits the code words for one statement.
func (a *Assembler) generate(s *Statement) {
	if s.spec == nil {
		return
	}

	addr := s.Addr.Word
	in := isa.Instruction{Op: s.spec.op}

	switch s.spec.afmt {
	case aRRR:
		if !a.requireOperands(s, 3) {
			return
		}
		in.D = a.requireReg(s.LineNo, s.Operands[0])
		in.A = a.requireReg(s.LineNo, s.Operands[1])
		in.B = a.requireReg(s.LineNo, s.Operands[2])

	case aRR:
		if !a.requireOperands(s, 2) {
			return
		}
		in.A = a.requireReg(s.LineNo, s.Operands[0])
		in.B = a.requireReg(s.LineNo, s.Operands[1])

	case aRX:
		if !a.requireOperands(s, 2) {
			return
		}
		in.D = a.requireReg(s.LineNo, s.Operands[0])
		in.Disp, in.A = a.dispOperand(s, s.Operands[1], addr+1)

	case aX:
		if !a.requireOperands(s, 1) {
			return
		}
		if s.spec.pseudo {
			in.D = uint16(s.spec.ccBit)
		}
		in.Disp, in.A = a.dispOperand(s, s.Operands[0], addr+1)

	case akX:
		if !a.requireOperands(s, 2) {
			return
		}
		in.D = a.evaluate(s.LineNo, s.Operands[0]).Word & 0xf
		in.Disp, in.A = a.dispOperand(s, s.Operands[1], addr+1)

	case aRRk:
		if !a.requireOperands(s, 3) {
			return
		}
		in.D = a.requireReg(s.LineNo, s.Operands[0])
		in.E = a.requireReg(s.LineNo, s.Operands[1])
		k := a.evaluate(s.LineNo, s.Operands[2]).Word
		in.G = (k >> 4) & 0xf
		in.H = k & 0xf

	case aRRRexp:
		if !a.requireOperands(s, 3) {
			return
		}
		in.D = a.requireReg(s.LineNo, s.Operands[0])
		in.E = a.requireReg(s.LineNo, s.Operands[1])
		in.F = a.requireReg(s.LineNo, s.Operands[2])

	case aRRX:
		if !a.requireOperands(s, 3) {
			return
		}
		in.D = a.requireReg(s.LineNo, s.Operands[0])
		in.E = a.requireReg(s.LineNo, s.Operands[1])
		var disp string
		disp, in.F = a.requireX(s.LineNo, s.Operands[2])
		k := a.evaluate(s.LineNo, disp).Word
		in.G = (k >> 4) & 0xf
		in.H = k & 0xf

	case aData:
		if !a.requireOperands(s, 1) {
			return
		}
		v := a.evaluateRef(s, s.Operands[0], addr, "data")
		s.words = []uint16{v.Word}
		a.mod.Append(addr, v.Word)
		return

	case aExport:
		if a.requireOperands(s, 1) {
			a.exports = append(a.exports, exportRef{lineNo: s.LineNo, name: s.Operands[0]})
		}
		return

	default:
		// Directives emit no code.
		return
	}

	words, err := in.Encode()
	if err != nil {
		a.diag(s.LineNo, err.Error())
		return
	}
	s.words = words
	for n, w := range words {
		a.mod.Append(addr+uint16(n), w)
	}
}

// dispOperand evaluates a disp[Ra] operand for the second word of an
// RX instruction, recording relocation and import references.
func (a *Assembler) dispOperand(s *Statement, field string, at uint16) (word uint16, index uint16) {
	disp, index := a.requireX(s.LineNo, field)
	v := a.evaluateRef(s, disp, at, "disp")
	word = v.Word

	return
}

// evaluateRef evaluates an expression destined for the code word at
// address `at`, generating the relocation or import record the value
// calls for.
func (a *Assembler) evaluateRef(s *Statement, x string, at uint16, field string) (v Value) {
	v = a.evaluate(s.LineNo, x)
	switch {
	case v.Origin == External:
		sym, ok := a.Symbols.Lookup(x)
		if !ok {
			a.diag(s.LineNo, f("external symbol %v undefined", x))
			return
		}
		a.mod.Imports = append(a.mod.Imports, obj.Import{
			Mod:   sym.Mod,
			Name:  sym.Extname,
			Addr:  at,
			Field: field,
		})
	case v.Movability == Relocatable:
		a.mod.Relocs = append(a.mod.Relocs, at)
	}

	return
}

// listing renders the assembly listing with interleaved diagnostics.
func (a *Assembler) listing() (out []string) {
	out = append(out, "Line Addr Code Code Source")

	byLine := map[int][]string{}
	for _, d := range a.diags {
		byLine[d.LineNo] = append(byLine[d.LineNo], f("Error: %v", d.Message))
	}

	for _, s := range a.Stmts {
		code1, code2 := "    ", "    "
		if len(s.words) > 0 {
			code1 = isa.WordToHex4(s.words[0])
		}
		if len(s.words) > 1 {
			code2 = isa.WordToHex4(s.words[1])
		}
		addr := "    "
		if s.spec != nil && s.spec.codeSize() > 0 {
			addr = isa.WordToHex4(s.Addr.Word)
		}
		out = append(out, fmt.Sprintf("%4d %s %s %s %s", s.LineNo, addr, code1, code2, s.Source))
		out = append(out, byLine[s.LineNo]...)
	}

	return
}
