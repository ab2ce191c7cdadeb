package obj

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/s16tools/s16/isa"
)

// Object text is a line-oriented format:
//
//	module   NAME
//	org      0008
//	data     f201,0008,...
//	relocate 0001,0004
//	import   mod,name,addr,field
//	export   name,value,relocatable|fixed
//
// Addresses and words are four hex digits. A data line holds at most
// eight words.

const dataLineWords = 8

// Emit writes the module in object text format.
func (m *Module) Emit(w io.Writer) (err error) {
	put := func(op string, operands string) {
		if err == nil {
			_, err = fmt.Fprintf(w, "%-8s %s\n", op, operands)
		}
	}

	put("module", m.Name)
	for _, b := range m.Blocks {
		if b.Start != 0 || len(m.Blocks) > 1 {
			put("org", isa.WordToHex4(b.Start))
		}
		for off := 0; off < len(b.Words); off += dataLineWords {
			end := min(off+dataLineWords, len(b.Words))
			var xs []string
			for _, word := range b.Words[off:end] {
				xs = append(xs, isa.WordToHex4(word))
			}
			put("data", strings.Join(xs, ","))
		}
	}
	for off := 0; off < len(m.Relocs); off += dataLineWords {
		end := min(off+dataLineWords, len(m.Relocs))
		var xs []string
		for _, addr := range m.Relocs[off:end] {
			xs = append(xs, isa.WordToHex4(addr))
		}
		put("relocate", strings.Join(xs, ","))
	}
	for _, x := range m.Exports {
		status := "fixed"
		if x.Relocatable {
			status = "relocatable"
		}
		put("export", fmt.Sprintf("%s,%s,%s", x.Name, isa.WordToHex4(x.Value), status))
	}
	for _, x := range m.Imports {
		put("import", fmt.Sprintf("%s,%s,%s,%s", x.Mod, x.Name, isa.WordToHex4(x.Addr), x.Field))
	}

	return
}

// String returns the module in object text format.
func (m *Module) String() string {
	var sb strings.Builder
	_ = m.Emit(&sb)
	return sb.String()
}

// Parse reads a module from object text.
func Parse(r io.Reader) (m *Module, err error) {
	m = &Module{}
	lc := uint16(0)

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		op, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		operands := strings.Split(rest, ",")

		switch op {
		case "module":
			m.Name = rest
		case "org":
			lc, err = isa.Hex4ToWord(rest)
		case "data":
			for _, x := range operands {
				var word uint16
				word, err = isa.Hex4ToWord(strings.TrimSpace(x))
				if err != nil {
					break
				}
				m.Append(lc, word)
				lc++
			}
		case "relocate":
			for _, x := range operands {
				var addr uint16
				addr, err = isa.Hex4ToWord(strings.TrimSpace(x))
				if err != nil {
					break
				}
				m.Relocs = append(m.Relocs, addr)
			}
		case "import":
			if len(operands) != 4 {
				err = ErrRecord(line)
				break
			}
			var addr uint16
			addr, err = isa.Hex4ToWord(operands[2])
			if err != nil {
				break
			}
			m.Imports = append(m.Imports, Import{
				Mod:   operands[0],
				Name:  operands[1],
				Addr:  addr,
				Field: operands[3],
			})
		case "export":
			if len(operands) != 3 {
				err = ErrRecord(line)
				break
			}
			var value uint16
			value, err = isa.Hex4ToWord(operands[1])
			if err != nil {
				break
			}
			m.Exports = append(m.Exports, Export{
				Name:        operands[0],
				Value:       value,
				Relocatable: operands[2] == "relocatable",
			})
		default:
			err = ErrRecord(line)
		}

		if err != nil {
			err = &ErrLine{LineNo: lineno, Err: err}
			return
		}
	}
	err = scanner.Err()

	return
}
