package emu

import (
	"context"
	"errors"

	"github.com/retroenv/retrogolib/log"

	"github.com/s16tools/s16/io"
	"github.com/s16tools/s16/isa"
)

// Trap request codes, taken from R[d] of the trap instruction.
const (
	trapHalt  = 0
	trapRead  = 1
	trapWrite = 2
)

// writeReg stages a register update. Writes to R0 are discarded, it
// is hardwired to zero.
func (fx *StepReport) writeReg(n uint16, value uint16) {
	if n == 0 {
		return
	}
	fx.Regs = append(fx.Regs, RegWrite{N: int(n), Value: value})
}

// writeRegCC stages the usual destination pair: the primary result to
// R[d] and the condition code to R15, unless d is R15 itself.
func (fx *StepReport) writeRegCC(d uint16, primary, secondary uint16) {
	fx.writeReg(d, primary)
	if d != isa.RegCC {
		fx.writeReg(isa.RegCC, secondary)
	}
}

// writeMem stages a memory update.
func (fx *StepReport) writeMem(addr, value uint16) {
	fx.Mems = append(fx.Mems, MemWrite{Addr: addr, Value: value})
}

// read returns the memory word at addr, faulting beyond the
// configured memory size.
func (m *Machine) read(addr uint16) (value uint16, err error) {
	if int(addr) >= len(m.mem) {
		err = ErrMemAddr(addr)
		return
	}
	value = m.mem[addr]

	return
}

// step fetches, decodes, executes, and commits one instruction. The
// caller holds the machine lock.
func (m *Machine) step(ctx context.Context) (report *StepReport, err error) {
	if !m.loaded {
		err = ErrNoImage
		return
	}
	if m.state == StateHalted || m.state == StateFaulted {
		err = ErrStopped(m.state)
		return
	}

	pc := m.pc
	w1, err := m.read(pc)
	if err != nil {
		err = m.faulted(pc, err)
		return
	}
	var w2 uint16
	if int(pc+1) < len(m.mem) {
		w2 = m.mem[pc+1]
	}
	in, err := isa.Decode(w1, w2)
	if err == nil && in.Size() == 2 {
		_, err = m.read(pc + 1)
	}
	if err != nil {
		err = m.faulted(pc, err)
		return
	}

	fx := &StepReport{
		PC:     pc,
		In:     in,
		NextPC: pc + uint16(in.Size()),
	}
	halted, err := m.execute(ctx, in, fx)
	if err == nil {
		// Validate every staged write before committing anything,
		// so a faulting instruction has no partial effects.
		for _, mw := range fx.Mems {
			if int(mw.Addr) >= len(m.mem) {
				err = ErrMemAddr(mw.Addr)
				break
			}
		}
	}
	if err != nil {
		if errors.Is(err, ErrTrapCode(0)) || errors.Is(err, ErrMemAddr(0)) {
			err = m.faulted(pc, err)
		}
		return
	}

	for _, rw := range fx.Regs {
		m.regs[rw.N] = rw.Value
	}
	for _, mw := range fx.Mems {
		m.mem[mw.Addr] = mw.Value
	}
	m.pc = fx.NextPC
	m.steps++

	// Outside of halting or faulting a step keeps the calling state:
	// a ready machine stays ready, a paused one stays paused.
	if halted {
		m.state = StateHalted
		m.log.Debug("halted",
			log.Hex("pc", pc),
			log.Uint64("steps", m.steps))
	}
	fx.State = m.state
	report = fx

	return
}

// faulted stops the machine, recording the cause. Nothing from the
// faulting instruction is committed.
func (m *Machine) faulted(pc uint16, cause error) (err error) {
	m.state = StateFaulted
	m.fault = &ErrFault{PC: pc, Err: cause}
	m.log.Error("machine fault",
		log.Hex("pc", pc),
		log.Err(cause))

	return m.fault
}

// execute stages the effects of one decoded instruction into fx.
func (m *Machine) execute(ctx context.Context, in isa.Instruction, fx *StepReport) (halted bool, err error) {
	r := func(n uint16) uint16 { return m.regs[n] }
	cc := m.regs[isa.RegCC]

	// Effective address for the RX format.
	ea := r(in.A) + in.Disp

	switch in.Op {
	case isa.OP_ADD:
		primary, secondary := isa.OpAdd(r(in.A), r(in.B))
		fx.writeRegCC(in.D, primary, secondary)
	case isa.OP_SUB:
		primary, secondary := isa.OpSub(r(in.A), r(in.B))
		fx.writeRegCC(in.D, primary, secondary)
	case isa.OP_MUL:
		primary, secondary := isa.OpMul(r(in.A), r(in.B))
		fx.writeRegCC(in.D, primary, secondary)
	case isa.OP_DIV:
		// R[d] is the quotient, R15 the remainder.
		primary, secondary := isa.OpDiv(r(in.A), r(in.B))
		fx.writeRegCC(in.D, primary, secondary)
	case isa.OP_CMP:
		fx.writeReg(isa.RegCC, isa.OpCmp(cc, r(in.A), r(in.B)))
	case isa.OP_ADDC:
		primary, secondary := isa.OpAddc(cc, r(in.A), r(in.B))
		fx.writeRegCC(in.D, primary, secondary)
	case isa.OP_MULN:
		primary, secondary := isa.OpMuln(r(in.A), r(in.B))
		fx.writeRegCC(in.D, primary, secondary)
	case isa.OP_DIVN:
		primary, secondary, tertiary := isa.OpDivn(cc, r(in.A), r(in.B))
		fx.writeRegCC(in.D, primary, secondary)
		fx.writeReg(in.A, tertiary)
	case isa.OP_TRAP:
		halted, err = m.trap(ctx, in, fx)

	case isa.OP_LEA:
		fx.writeReg(in.D, ea)
	case isa.OP_LOAD:
		var value uint16
		if value, err = m.read(ea); err != nil {
			return
		}
		fx.writeReg(in.D, value)
	case isa.OP_STORE:
		fx.writeMem(ea, r(in.D))
	case isa.OP_JUMP:
		fx.NextPC = ea
	case isa.OP_JUMPC0:
		if !isa.CCBit(in.D).Test(cc) {
			fx.NextPC = ea
		}
	case isa.OP_JUMPC1:
		if isa.CCBit(in.D).Test(cc) {
			fx.NextPC = ea
		}
	case isa.OP_JAL:
		fx.writeReg(in.D, fx.NextPC)
		fx.NextPC = ea
	case isa.OP_JUMPZ:
		if r(in.D) == 0 {
			fx.NextPC = ea
		}
	case isa.OP_JUMPNZ:
		if r(in.D) != 0 {
			fx.NextPC = ea
		}
	case isa.OP_TESTSET:
		var value uint16
		if value, err = m.read(ea); err != nil {
			return
		}
		fx.writeReg(in.D, value)
		fx.writeMem(ea, 1)

	case isa.OP_SHIFTL:
		fx.writeReg(in.D, isa.ShiftL(r(in.E), in.GH()))
	case isa.OP_SHIFTR:
		fx.writeReg(in.D, isa.ShiftR(r(in.E), in.GH()))
	case isa.OP_PUSH:
		top, limit := r(in.E), r(in.F)
		if top < limit {
			top++
			fx.writeMem(top, r(in.D))
			fx.writeReg(in.E, top)
		} else {
			fx.writeReg(isa.RegCC, isa.CC_S.Mask())
		}
	case isa.OP_POP:
		top, base := r(in.E), r(in.F)
		if top > base {
			var value uint16
			if value, err = m.read(top); err != nil {
				return
			}
			fx.writeReg(in.D, value)
			fx.writeReg(in.E, top-1)
		} else {
			fx.writeReg(isa.RegCC, isa.CC_s.Mask())
		}
	case isa.OP_TOP:
		top, base := r(in.E), r(in.F)
		if top > base {
			var value uint16
			if value, err = m.read(top); err != nil {
				return
			}
			fx.writeReg(in.D, value)
		} else {
			fx.writeReg(isa.RegCC, isa.CC_s.Mask())
		}
	case isa.OP_SAVE:
		addr := r(in.F) + in.GH()
		for n := in.D; ; n = (n + 1) % isa.NumRegs {
			fx.writeMem(addr, r(n))
			if n == in.E {
				break
			}
			addr++
		}
	case isa.OP_RESTORE:
		addr := r(in.F) + in.GH()
		for n := in.D; ; n = (n + 1) % isa.NumRegs {
			var value uint16
			if value, err = m.read(addr); err != nil {
				return
			}
			fx.writeReg(n, value)
			if n == in.E {
				break
			}
			addr++
		}
	}

	return
}

// trap performs a console request. The request code is taken from
// R[d], the buffer address from R[a], and the word count from R[b].
func (m *Machine) trap(ctx context.Context, in isa.Instruction, fx *StepReport) (halted bool, err error) {
	code := m.regs[in.D]

	switch code {
	case trapHalt:
		halted = true
	case trapRead:
		rctx := ctx
		if m.ReadTimeout > 0 {
			var cancel context.CancelFunc
			rctx, cancel = context.WithTimeout(ctx, m.ReadTimeout)
			defer cancel()
		}

		buf := m.regs[in.A]
		count := m.regs[in.B]
		n := uint16(0)
		for n < count {
			var value uint16
			value, err = m.console.Receive(rctx)
			if err != nil {
				// Running out of input, the read deadline, and run
				// cancellation all end the read early with the words
				// transferred so far committed; nothing consumed from
				// the channel is dropped. A cancelled run pauses at
				// the instruction boundary.
				if errors.Is(err, io.ErrNoInput) ||
					errors.Is(err, context.Canceled) ||
					errors.Is(err, context.DeadlineExceeded) {
					err = nil
				}
				break
			}
			fx.writeMem(buf+n, value)
			n++
		}
		if err != nil {
			return
		}
		// Report how far the read got.
		fx.writeReg(in.A, buf+n)
		fx.writeReg(in.B, n)
	case trapWrite:
		buf := m.regs[in.A]
		count := m.regs[in.B]
		for n := uint16(0); n < count; n++ {
			var value uint16
			if value, err = m.read(buf + n); err != nil {
				return
			}
			if err = m.console.Send(value); err != nil {
				return
			}
			fx.Output = append(fx.Output, value)
		}
	default:
		err = ErrTrapCode(code)
	}

	return
}
