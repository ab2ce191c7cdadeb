package emu

import (
	"errors"

	"github.com/s16tools/s16/translate"
)

var f = translate.From

var (
	// ErrBusy reports a concurrent Step or Run on a running machine.
	ErrBusy = errors.New(f("machine is busy"))
	// ErrNoImage reports stepping a machine with nothing loaded.
	ErrNoImage = errors.New(f("no image loaded"))
)

// ErrStopped reports a step on a machine that already halted or
// faulted.
type ErrStopped State

func (err ErrStopped) Error() string {
	return f("machine is %v", State(err))
}

// Is implements error interface matching support for errors.Is.
func (err ErrStopped) Is(target error) bool {
	_, ok := target.(ErrStopped)
	return ok
}

// ErrMemAddr reports an effective address beyond the configured
// memory size.
type ErrMemAddr uint16

func (err ErrMemAddr) Error() string {
	return f("memory address $%04x out of range", uint16(err))
}

// Is implements error interface matching support for errors.Is.
func (err ErrMemAddr) Is(target error) bool {
	_, ok := target.(ErrMemAddr)
	return ok
}

// ErrTrapCode reports a trap with an unknown request code.
type ErrTrapCode uint16

func (err ErrTrapCode) Error() string {
	return f("invalid trap code %v", uint16(err))
}

// Is implements error interface matching support for errors.Is.
func (err ErrTrapCode) Is(target error) bool {
	_, ok := target.(ErrTrapCode)
	return ok
}

// ErrFault wraps the cause of a machine fault with the address of the
// faulting instruction.
type ErrFault struct {
	PC  uint16
	Err error
}

func (err *ErrFault) Error() string {
	return f("fault at $%04x: %v", err.PC, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
