package emu

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/s16tools/s16/io"
	"github.com/s16tools/s16/isa"
	"github.com/s16tools/s16/link"
)

// RegWrite is one committed register update.
type RegWrite struct {
	N     int
	Value uint16
}

// MemWrite is one committed memory update.
type MemWrite struct {
	Addr  uint16
	Value uint16
}

// StepReport describes everything one instruction did: the register
// and memory writes in commit order, the words sent to the console,
// and the machine state afterwards.
type StepReport struct {
	PC     uint16
	In     isa.Instruction
	NextPC uint16
	Regs   []RegWrite
	Mems   []MemWrite
	Output []uint16
	State  State
}

// Machine is a single emulated processor with its full address space
// and a console channel for the trap instruction. A machine is driven
// by one goroutine at a time; concurrent Step or Run calls report
// ErrBusy. Pause may be called from any goroutine.
type Machine struct {
	// MemSize optionally limits the addressable memory, in words.
	// Zero means the full address space. Takes effect at Load or
	// Reset. Address arithmetic still wraps mod 2^16; an effective
	// address at or beyond the limit faults.
	MemSize int

	// ReadTimeout bounds how long a trap read waits for console
	// input. Zero means no bound. Expiry ends the read early, it is
	// not a fault.
	ReadTimeout time.Duration

	mu sync.Mutex

	log     *log.Logger
	console io.Channel

	image  *link.Image
	loaded bool

	mem   []uint16
	regs  [isa.NumRegs]uint16
	pc    uint16
	state State
	fault error
	steps uint64

	pause atomic.Bool
}

// NewMachine creates a machine with the given console channel. A nil
// console reads empty input and drops output.
func NewMachine(console io.Channel, logger *log.Logger) (m *Machine) {
	if console == nil {
		console = &io.Tape{}
	}
	if logger == nil {
		cfg := log.DefaultConfig()
		cfg.Level = log.ErrorLevel
		logger = log.NewWithConfig(cfg)
	}

	m = &Machine{
		log:     logger,
		console: console,
	}

	return
}

// Load installs a linked image: memory is the image followed by
// zeroes, the registers are cleared, and the program counter is the
// image entry point.
func (m *Machine) Load(image *link.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.image = image
	m.loaded = true
	m.restart()
}

// Reset rewinds the console and restores the machine to its state
// just after Load.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.console.Rewind()
	m.restart()
}

func (m *Machine) restart() {
	size := m.MemSize
	if size <= 0 || size > isa.MemSize {
		size = isa.MemSize
	}
	m.mem = make([]uint16, size)
	if m.image != nil {
		copy(m.mem, m.image.Mem)
		m.pc = m.image.EntryPoint
	}
	clear(m.regs[:])
	m.state = StateReady
	m.fault = nil
	m.steps = 0
	m.pause.Store(false)
}

// State returns the current execution state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Fault returns the error that stopped a faulted machine.
func (m *Machine) Fault() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.fault
}

// PC returns the current program counter.
func (m *Machine) PC() uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pc
}

// Reg returns the value of register n.
func (m *Machine) Reg(n int) uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.regs[n]
}

// Mem returns the memory word at addr; addresses beyond the
// configured memory size read as zero.
func (m *Machine) Mem(addr uint16) uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int(addr) >= len(m.mem) {
		return 0
	}
	return m.mem[addr]
}

// Steps returns the number of instructions executed since Load or
// Reset.
func (m *Machine) Steps() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.steps
}

// ShowCC renders the condition code flags currently set in R15.
func (m *Machine) ShowCC() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return isa.ShowCC(m.regs[isa.RegCC])
}

// Step executes a single instruction. Nothing is committed when the
// step returns an error: a decode fault leaves registers and memory
// exactly as they were, with the machine faulted.
func (m *Machine) Step(ctx context.Context) (report *StepReport, err error) {
	if !m.mu.TryLock() {
		err = ErrBusy
		return
	}
	defer m.mu.Unlock()

	report, err = m.step(ctx)

	return
}

// Run executes instructions until the machine halts or faults, the
// context is cancelled, or Pause is called. Cancellation and pause
// take effect at an instruction boundary and leave the machine
// paused, not stopped.
func (m *Machine) Run(ctx context.Context) (err error) {
	if !m.mu.TryLock() {
		return ErrBusy
	}
	defer m.mu.Unlock()

	if !m.loaded {
		return ErrNoImage
	}
	if m.state == StateHalted || m.state == StateFaulted {
		return ErrStopped(m.state)
	}

	m.pause.Store(false)
	m.state = StateRunning
	m.log.Debug("running", log.Hex("pc", m.pc))

	for {
		select {
		case <-ctx.Done():
			m.state = StatePaused
			return nil
		default:
		}
		if m.pause.Load() {
			m.state = StatePaused
			return nil
		}

		_, err = m.step(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				m.state = StatePaused
				err = nil
			}
			return
		}
		if m.state != StateRunning {
			return
		}
	}
}

// Pause requests that a running machine stop after the current
// instruction.
func (m *Machine) Pause() {
	m.pause.Store(true)
}
