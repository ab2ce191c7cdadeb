package link

import (
	"github.com/s16tools/s16/isa"
	"github.com/s16tools/s16/obj"
)

// Placement records where one module landed in the image.
type Placement struct {
	Name string
	Base uint16
	Size uint16
}

// Image is a linked executable: a flat memory image and the address
// where execution starts.
type Image struct {
	Mem        []uint16
	EntryPoint uint16
	Placements []Placement
}

// entry is one row of the global export table.
type entry struct {
	mod   string
	value uint16
}

// Link places the modules end to end and resolves their cross-module
// references. A duplicate export name withholds the image; unresolved
// imports are reported but a best-effort image is still produced.
// Diagnostics carry no line numbers, they concern whole modules.
func Link(modules []*obj.Module) (image *Image, diags []obj.Diagnostic, err error) {
	bases := make([]uint16, len(modules))
	size := 0
	for n, m := range modules {
		bases[n] = uint16(size)
		size += m.Size()
	}
	if size > isa.MemSize {
		err = ErrImageTooLarge(size)
		return
	}

	exports, dupDiags := exportTable(modules, bases)
	diags = append(diags, dupDiags...)

	image = &Image{
		Mem: make([]uint16, size),
	}
	for n, m := range modules {
		base := bases[n]
		image.Placements = append(image.Placements, Placement{
			Name: m.Name,
			Base: base,
			Size: uint16(m.Size()),
		})

		for _, b := range m.Blocks {
			copy(image.Mem[base+b.Start:], b.Words)
		}
		for _, addr := range m.Relocs {
			image.Mem[base+addr] += base
		}
		for _, imp := range m.Imports {
			e, ok := exports[imp.Name]
			if !ok || e.mod != imp.Mod {
				diags = append(diags, obj.Diagnostic{
					Message: f("%v imports %v from %v but no module exports it", m.Name, imp.Name, imp.Mod),
				})
				continue
			}
			image.Mem[base+imp.Addr] = e.value
		}
	}

	if len(dupDiags) > 0 {
		// Conflicting definitions make every reference suspect.
		image = nil
	}

	return
}

// exportTable collects the exports of all modules into one namespace,
// with relocatable values shifted to their absolute addresses.
func exportTable(modules []*obj.Module, bases []uint16) (exports map[string]entry, diags []obj.Diagnostic) {
	exports = map[string]entry{}
	for n, m := range modules {
		for _, x := range m.Exports {
			if prev, ok := exports[x.Name]; ok {
				diags = append(diags, obj.Diagnostic{
					Message: f("%v is exported by both %v and %v", x.Name, prev.mod, m.Name),
				})
				continue
			}
			value := x.Value
			if x.Relocatable {
				value += bases[n]
			}
			exports[x.Name] = entry{
				mod:   m.Name,
				value: value,
			}
		}
	}

	return
}
