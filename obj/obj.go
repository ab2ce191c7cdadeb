// Package obj defines the object module representation shared by the
// assembler and the linker, together with its plain-text persistence
// format.
//
// An object module carries code blocks at module-relative addresses,
// relocation addresses, and the import/export records that the linker
// resolves across modules.
package obj

// Block is a contiguous run of code words starting at an origin address.
type Block struct {
	Start uint16
	Words []uint16
}

// Import records a word to patch with a value exported by another module.
type Import struct {
	Mod   string
	Name  string
	Addr  uint16
	Field string // instruction field being patched, e.g. "disp"
}

// Export makes a symbol visible to other modules.
type Export struct {
	Name        string
	Value       uint16
	Relocatable bool
}

// Module is the assembler's output for one source module. All
// addresses are module-relative.
type Module struct {
	Name    string
	Blocks  []Block
	Relocs  []uint16
	Imports []Import
	Exports []Export
}

// Size returns one past the highest module-relative address occupied.
func (m *Module) Size() (size int) {
	for _, b := range m.Blocks {
		end := int(b.Start) + len(b.Words)
		if end > size {
			size = end
		}
	}

	return
}

// Word returns the code word at a module-relative address.
func (m *Module) Word(addr uint16) (w uint16, ok bool) {
	for _, b := range m.Blocks {
		if addr >= b.Start && int(addr) < int(b.Start)+len(b.Words) {
			w = b.Words[addr-b.Start]
			ok = true
			return
		}
	}

	return
}

// SetWord replaces the code word at a module-relative address.
func (m *Module) SetWord(addr uint16, w uint16) (ok bool) {
	for n := range m.Blocks {
		b := &m.Blocks[n]
		if addr >= b.Start && int(addr) < int(b.Start)+len(b.Words) {
			b.Words[addr-b.Start] = w
			ok = true
			return
		}
	}

	return
}

// Append adds a code word at the given module-relative address,
// starting a new block unless the address extends the last one.
func (m *Module) Append(addr uint16, w uint16) {
	if n := len(m.Blocks); n > 0 {
		b := &m.Blocks[n-1]
		if int(addr) == int(b.Start)+len(b.Words) {
			b.Words = append(b.Words, w)
			return
		}
	}
	m.Blocks = append(m.Blocks, Block{Start: addr, Words: []uint16{w}})
}
