package emu

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/s16tools/s16/asm"
	"github.com/s16tools/s16/io"
	"github.com/s16tools/s16/isa"
	"github.com/s16tools/s16/link"
	"github.com/s16tools/s16/obj"
)

func loadProgramWith(t *testing.T, console io.Channel, program ...string) (m *Machine) {
	assert := assert.New(t)

	as := &asm.Assembler{}
	result, err := as.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.Empty(result.Diags)

	image, diags, err := link.Link([]*obj.Module{result.Module})
	assert.NoError(err)
	assert.Empty(diags)

	m = NewMachine(console, nil)
	m.Load(image)

	return
}

func loadProgram(t *testing.T, program ...string) (m *Machine, console *io.Queue) {
	console = &io.Queue{}
	m = loadProgramWith(t, console, program...)

	return
}

func TestMachineHello(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadProgram(t,
		"       lea    R1,6[R0]",
		"       load   R2,x[R0]",
		"       mul    R3,R1,R2",
		"       store  R3,result[R0]",
		"       trap   R0,R0,R0",
		"x      data   7",
		"result data   0",
	)

	err := m.Run(context.Background())
	assert.NoError(err)

	assert.Equal(StateHalted, m.State())
	assert.Equal(uint16(6), m.Reg(1))
	assert.Equal(uint16(7), m.Reg(2))
	assert.Equal(uint16(42), m.Reg(3))
	assert.Equal(uint16(42), m.Mem(9))
	assert.Equal(uint64(5), m.Steps())
}

func TestMachineStepReport(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadProgram(t,
		"       lea    R1,6[R0]",
		"       trap   R0,R0,R0",
	)

	report, err := m.Step(context.Background())
	assert.NoError(err)

	assert.Equal(uint16(0), report.PC)
	assert.Equal(uint16(2), report.NextPC)
	assert.Equal([]RegWrite{{N: 1, Value: 6}}, report.Regs)
	assert.Empty(report.Mems)
	assert.Equal(uint16(2), m.PC())

	// Stepping keeps the calling state until the machine stops.
	assert.Equal(StateReady, report.State)
	assert.Equal(StateReady, m.State())
}

func TestMachineLoop(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadProgram(t,
		"       lea    R1,5[R0]",
		"       lea    R4,1[R0]",
		"loop   add    R2,R2,R1",
		"       sub    R1,R1,R4",
		"       jumpnz R1,loop[R0]",
		"       trap   R0,R0,R0",
	)

	err := m.Run(context.Background())
	assert.NoError(err)

	assert.Equal(StateHalted, m.State())
	assert.Equal(uint16(15), m.Reg(2))
	assert.Equal(uint16(0), m.Reg(1))
}

func TestMachineTrapWrite(t *testing.T) {
	assert := assert.New(t)

	m, console := loadProgram(t,
		"       lea    R1,2[R0]",
		"       lea    R2,msg[R0]",
		"       lea    R3,3[R0]",
		"       trap   R1,R2,R3",
		"       trap   R0,R0,R0",
		"msg    data   104", // 'h'
		"       data   105", // 'i'
		"       data   10",  // '\n'
	)

	err := m.Run(context.Background())
	assert.NoError(err)

	assert.Equal(StateHalted, m.State())
	assert.Equal("hi\n", console.SentString())
}

func TestMachineTrapRead(t *testing.T) {
	assert := assert.New(t)

	m, console := loadProgram(t,
		"       lea    R1,1[R0]",
		"       lea    R2,buf[R0]",
		"       lea    R3,5[R0]",
		"       trap   R1,R2,R3",
		"       trap   R0,R0,R0",
		"buf    reserve 5",
	)
	console.FeedString("ab")

	err := m.Run(context.Background())
	assert.NoError(err)

	// Input ran out after two characters.
	assert.Equal(uint16('a'), m.Mem(8))
	assert.Equal(uint16('b'), m.Mem(9))
	assert.Equal(uint16(8+2), m.Reg(2))
	assert.Equal(uint16(2), m.Reg(3))
}

func TestMachineTrapReadDeadline(t *testing.T) {
	assert := assert.New(t)

	// A pipe that never produces data: an unbounded read would block
	// the run forever.
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer pr.Close()
	defer pw.Close()

	m := loadProgramWith(t, &io.Tape{Input: pr},
		"       lea    R1,1[R0]",
		"       lea    R2,buf[R0]",
		"       lea    R3,3[R0]",
		"       trap   R1,R2,R3",
		"       trap   R0,R0,R0",
		"buf    reserve 3",
	)
	m.ReadTimeout = 50 * time.Millisecond

	start := time.Now()
	err = m.Run(context.Background())
	assert.NoError(err)
	assert.Less(time.Since(start), 2*time.Second)

	// The read expired with nothing transferred and the run went on.
	assert.Equal(StateHalted, m.State())
	assert.Equal(uint16(0), m.Reg(3))
}

// dribbleConsole serves its queued words, then blocks until the
// request is cancelled.
type dribbleConsole struct {
	words []uint16
	next  int
}

func (c *dribbleConsole) Rewind() { c.next = 0 }

func (c *dribbleConsole) Receive(ctx context.Context) (uint16, error) {
	if c.next < len(c.words) {
		w := c.words[c.next]
		c.next++
		return w, nil
	}
	<-ctx.Done()
	return 0, ctx.Err()
}

func (c *dribbleConsole) Send(uint16) error { return nil }

func TestMachineTrapReadCancelled(t *testing.T) {
	assert := assert.New(t)

	console := &dribbleConsole{words: []uint16{'a'}}
	m := loadProgramWith(t, console,
		"       lea    R1,1[R0]",
		"       lea    R2,buf[R0]",
		"       lea    R3,3[R0]",
		"       trap   R1,R2,R3",
		"       trap   R0,R0,R0",
		"buf    reserve 3",
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := m.Run(ctx)
	assert.NoError(err)
	assert.Equal(StatePaused, m.State())

	// The word consumed before cancellation is committed, and the
	// registers report the partial transfer.
	assert.Equal(uint16('a'), m.Mem(8))
	assert.Equal(uint16(8+1), m.Reg(2))
	assert.Equal(uint16(1), m.Reg(3))
	assert.Equal(uint16(7), m.PC())

	// Resuming completes the program.
	err = m.Run(context.Background())
	assert.NoError(err)
	assert.Equal(StateHalted, m.State())
}

func TestMachineRegZero(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadProgram(t,
		"       lea    R0,5[R0]",
		"       add    R0,R2,R2",
		"       add    R2,R0,R0",
		"       trap   R0,R0,R0",
	)

	// A write to R0 is discarded at the register-file boundary.
	report, err := m.Step(context.Background())
	assert.NoError(err)
	assert.Empty(report.Regs)
	assert.Equal(uint16(0), m.Reg(0))

	err = m.Run(context.Background())
	assert.NoError(err)
	assert.Equal(StateHalted, m.State())
	assert.Equal(uint16(0), m.Reg(0))
	assert.Equal(uint16(0), m.Reg(2))
}

func TestMachineDivByZero(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadProgram(t,
		"       lea    R2,7[R0]",
		"       div    R1,R2,R0",
		"       trap   R0,R0,R0",
	)

	err := m.Run(context.Background())
	assert.NoError(err)

	assert.Equal(StateHalted, m.State())
	assert.Equal(uint16(0), m.Reg(1))
	assert.Equal("v", m.ShowCC())
}

func TestMachineStack(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadProgram(t,
		"       lea    R1,42[R0]",
		"       lea    R10,stk[R0]",
		"       lea    R11,stk+4[R0]",
		"       lea    R12,stk[R0]",
		"       push   R1,R10,R11",
		"       top    R3,R10,R12",
		"       pop    R2,R10,R12",
		"       trap   R0,R0,R0",
		"stk    data   0",
		"       data   0",
		"       data   0",
		"       data   0",
		"       data   0",
	)

	err := m.Run(context.Background())
	assert.NoError(err)

	assert.Equal(uint16(42), m.Reg(3))
	assert.Equal(uint16(42), m.Reg(2))
	assert.Equal(uint16(15), m.Reg(10)) // back to the stack base
	assert.Equal(uint16(42), m.Mem(16))
}

func TestMachineSaveRestore(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadProgram(t,
		"       lea    R1,1[R0]",
		"       lea    R2,2[R0]",
		"       lea    R9,area[R0]",
		"       save   R1,R2,0[R9]",
		"       lea    R1,0[R0]",
		"       lea    R2,0[R0]",
		"       restore R1,R2,0[R9]",
		"       trap   R0,R0,R0",
		"area   data   0",
		"       data   0",
	)

	err := m.Run(context.Background())
	assert.NoError(err)

	assert.Equal(uint16(1), m.Reg(1))
	assert.Equal(uint16(2), m.Reg(2))
	assert.Equal(uint16(1), m.Mem(15))
	assert.Equal(uint16(2), m.Mem(16))
}

func TestMachineFault(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(nil, nil)
	m.Load(&link.Image{Mem: []uint16{0x8000}})

	_, err := m.Step(context.Background())
	assert.Error(err)
	assert.True(errors.Is(err, isa.ErrOpcode(0)))

	assert.Equal(StateFaulted, m.State())
	assert.Equal(uint16(0), m.PC())
	assert.NotNil(m.Fault())

	// A stopped machine refuses further steps.
	_, err = m.Step(context.Background())
	assert.True(errors.Is(err, ErrStopped(0)))
}

func TestMachineMemFault(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadProgram(t,
		"       lea    R1,7[R0]",
		"       store  R1,20[R0]",
		"       trap   R0,R0,R0",
	)
	m.MemSize = 16
	m.Reset()

	ctx := context.Background()

	_, err := m.Step(ctx)
	assert.NoError(err)
	assert.Equal(uint16(7), m.Reg(1))

	// The store lands beyond the configured memory.
	_, err = m.Step(ctx)
	assert.True(errors.Is(err, ErrMemAddr(0)))
	assert.Equal(StateFaulted, m.State())

	// Nothing from the faulting instruction was committed.
	assert.Equal(uint16(2), m.PC())
	assert.Equal(uint16(7), m.Reg(1))
	assert.Equal(uint16(0), m.Mem(15))
}

func TestMachinePause(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadProgram(t,
		"loop   jump   loop[R0]",
	)

	done := make(chan error, 1)
	go func() {
		done <- m.Run(context.Background())
	}()
	time.Sleep(20 * time.Millisecond)

	// The machine is busy while Run holds it.
	_, err := m.Step(context.Background())
	assert.Equal(ErrBusy, err)

	m.Pause()
	assert.NoError(<-done)
	assert.Equal(StatePaused, m.State())

	// A paused machine can resume.
	report, err := m.Step(context.Background())
	assert.NoError(err)
	assert.Equal(uint16(0), report.NextPC)
}

func TestMachineRunCancelled(t *testing.T) {
	assert := assert.New(t)

	m, _ := loadProgram(t,
		"loop   jump   loop[R0]",
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.Run(ctx)
	assert.NoError(err)
	assert.Equal(StatePaused, m.State())
	assert.Greater(m.Steps(), uint64(0))
}
