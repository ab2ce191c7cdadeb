package asm

import (
	"regexp"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/s16tools/s16/isa"
)

var (
	nameParser = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	intParser  = regexp.MustCompile(`^-?[0-9]+$`)
	hexParser  = regexp.MustCompile(`^\$([0-9a-fA-F]{4})$`)
)

// evaluate resolves an operand expression to a value. A bare name is a
// symbol reference; decimal and $hex literals are fixed constants;
// anything else is handed to starlark with the local fixed symbols
// bound, so `limit-2` and `2*size+1` work at assembly time. Problems
// are diagnostics and yield zero.
func (a *Assembler) evaluate(lineno int, x string) (v Value) {
	switch {
	case nameParser.MatchString(x):
		sym, ok := a.Symbols.Lookup(x)
		if !ok {
			a.diag(lineno, f("symbol %v is not defined", x))
			return
		}
		sym.Uses = append(sym.Uses, lineno)
		v = sym.Value
	case intParser.MatchString(x):
		n, err := strconv.Atoi(x)
		if err != nil {
			a.diag(lineno, f("expression %v has invalid syntax", x))
			return
		}
		v = MkConst(isa.IntToWord(n))
	case hexParser.MatchString(x):
		w, err := isa.Hex4ToWord(x[1:])
		if err != nil {
			a.diag(lineno, f("expression %v has invalid syntax", x))
			return
		}
		v = MkConst(w)
	default:
		w, err := a.starlarkEval(x)
		if err != nil {
			a.diag(lineno, f("expression %v has invalid syntax", x))
			return
		}
		v = MkConst(w)
	}

	return
}

// starlarkEval does compile-time arithmetic over the defined symbols.
func (a *Assembler) starlarkEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for _, name := range a.Symbols.Names() {
		sym, _ := a.Symbols.Lookup(name)
		if sym.Value.Origin == External {
			// External words are unknown until link time.
			continue
		}
		pred[name] = starlark.MakeInt(int(sym.Value.Word))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	stRc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	stInt, ok := stRc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	stInt64, ok := stInt.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = isa.IntToWord(int(stInt64))
	return
}
