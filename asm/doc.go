// Package asm implements the two-pass Sigma16 assembler.
//
// Pass one parses every source line, defines labels in the symbol
// table, and advances the location counter. Pass two generates code
// with all symbols known, so forward references need no fixups. The
// assembler never stops at a bad line: problems become diagnostics,
// the statement emits placeholder words, and assembly continues.
//
// Constant operands may be decimal, $hex, a symbol, or an arithmetic
// expression evaluated at assembly time.
package asm
