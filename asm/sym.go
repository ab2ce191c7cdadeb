package asm

import (
	"slices"
)

// Symbol is a name defined in one module: a label, an equ constant, or
// an imported external name.
type Symbol struct {
	Name    string
	Value   Value
	Mod     string // exporting module, for external symbols
	Extname string // name in the exporting module
	DefLine int
	Uses    []int // line numbers referencing the symbol
}

// SymbolTable maps names to their definitions.
type SymbolTable struct {
	syms map[string]*Symbol
}

// NewSymbolTable makes an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{syms: map[string]*Symbol{}}
}

// Define enters a new symbol. Redefinition is an error and leaves the
// first definition in place.
func (st *SymbolTable) Define(sym *Symbol) (err error) {
	if _, ok := st.syms[sym.Name]; ok {
		err = ErrSymbolDuplicate(sym.Name)
		return
	}
	st.syms[sym.Name] = sym

	return
}

// Lookup finds a symbol by name.
func (st *SymbolTable) Lookup(name string) (sym *Symbol, ok bool) {
	sym, ok = st.syms[name]
	return
}

// Names returns all defined names in sorted order.
func (st *SymbolTable) Names() (names []string) {
	for name := range st.syms {
		names = append(names, name)
	}
	slices.Sort(names)

	return
}

// Len returns the number of defined symbols.
func (st *SymbolTable) Len() int {
	return len(st.syms)
}
