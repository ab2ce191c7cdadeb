package emu

//go:generate go tool stringer -linecomment -type=State

// State is the machine's execution state.
type State int

const (
	StateReady   = State(iota) // ready
	StateRunning               // running
	StatePaused                // paused
	StateHalted                // halted
	StateFaulted               // faulted
)
