// Package emu executes linked memory images one instruction at a
// time. The machine owns the register file, memory, and the console
// channel behind the trap instruction; every step reports the
// register and memory effects it committed, so a front end can show
// or undo them.
package emu
