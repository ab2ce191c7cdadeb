package isa

const (
	MemSize = 65536 // words in the full address space
	NumRegs = 16    // general registers R0..R15

	RegCC = 15 // R15 doubles as the condition code register
)

// CCBit is a condition code flag bit index within R15.
type CCBit int

//go:generate go tool stringer -linecomment -type=CCBit
const (
	CC_g = CCBit(0) // >
	CC_G = CCBit(1) // G
	CC_E = CCBit(2) // =
	CC_L = CCBit(3) // L
	CC_l = CCBit(4) // <
	CC_v = CCBit(5) // v
	CC_V = CCBit(6) // V
	CC_C = CCBit(7) // C
	CC_S = CCBit(8) // S
	CC_s = CCBit(9) // s
)

// Mask returns the single-bit mask for the flag.
func (bit CCBit) Mask() uint16 {
	return 1 << uint(bit)
}

// Test reports whether the flag is set in the condition code word.
func (bit CCBit) Test(cc uint16) bool {
	return cc&bit.Mask() != 0
}

// ccBitsHighToLow is the display order of the flags, most significant first.
var ccBitsHighToLow = []CCBit{CC_s, CC_S, CC_C, CC_V, CC_v, CC_l, CC_L, CC_E, CC_G, CC_g}

// ShowCC renders the set flags of a condition code word, e.g. "v<".
func ShowCC(cc uint16) (out string) {
	for _, bit := range ccBitsHighToLow {
		if bit.Test(cc) {
			out += bit.String()
		}
	}
	return
}
