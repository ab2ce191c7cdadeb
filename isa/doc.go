// Package isa defines the Sigma16 instruction set architecture.
//
// Sigma16 is a 16-bit word-addressed machine with sixteen general
// registers (R0 reads as zero, R15 holds the condition code), a 64K
// word address space, and three instruction formats: RRR (one word),
// RX (two words, the second a displacement), and EXP (two words, the
// second split into four nibble fields).
//
// The package provides the instruction codec (Encode/Decode), the
// condition code flag assignments, and the word-level arithmetic used
// by the emulator.
package isa
