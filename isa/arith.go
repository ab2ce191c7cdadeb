package isa

import (
	"fmt"
)

// WordToInt interprets a word as a two's complement integer.
func WordToInt(w uint16) int {
	return int(int16(w))
}

// IntToWord wraps an integer into a 16-bit word.
func IntToWord(x int) uint16 {
	return uint16(x)
}

// WordToHex4 renders a word as four lowercase hex digits.
func WordToHex4(w uint16) string {
	return fmt.Sprintf("%04x", w)
}

// Hex4ToWord parses exactly four hex digits into a word.
func Hex4ToWord(s string) (w uint16, err error) {
	if len(s) != 4 {
		err = ErrHex4(s)
		return
	}
	var v uint32
	_, err = fmt.Sscanf(s, "%04x", &v)
	if err != nil || v > 0xffff {
		err = ErrHex4(s)
		return
	}
	w = uint16(v)
	return
}

// additionCC computes the condition code for a 17-bit sum of a and b.
func additionCC(a, b uint16, sum uint32) (cc uint16) {
	msba := (a >> 15) & 1
	msbb := (b >> 15) & 1
	msbsum := uint16((sum >> 15) & 1)
	carryOut := (sum >> 16) & 1

	binOverflow := carryOut == 1
	tcOverflow := (msba == 0 && msbb == 0 && msbsum == 1) ||
		(msba == 1 && msbb == 1 && msbsum == 0)

	if binOverflow {
		cc |= CC_V.Mask() | CC_C.Mask()
	}
	if tcOverflow {
		cc |= CC_v.Mask()
	}
	if uint16(sum) == 0 {
		cc |= CC_E.Mask()
	}
	if sum != 0 {
		cc |= CC_G.Mask()
	}
	if !tcOverflow {
		if msbsum == 1 {
			cc |= CC_l.Mask()
		} else {
			cc |= CC_g.Mask()
		}
	}

	return
}

// OpAdd returns the binary sum and its condition code.
func OpAdd(a, b uint16) (primary, secondary uint16) {
	sum := uint32(a) + uint32(b)
	primary = uint16(sum)
	secondary = additionCC(a, b, sum)
	return
}

// OpAddc adds with the incoming carry flag.
func OpAddc(cc, a, b uint16) (primary, secondary uint16) {
	carry := uint32(0)
	if CC_C.Test(cc) {
		carry = 1
	}
	sum := uint32(a) + uint32(b) + carry
	primary = uint16(sum)
	secondary = additionCC(a, b, sum)
	return
}

// OpSub subtracts by adding the two's complement of b. The condition
// code is computed on the complemented addend, so overflow and sign
// flags describe the subtraction actually performed.
func OpSub(a, b uint16) (primary, secondary uint16) {
	sum := uint32(a) + uint32(^b) + 1
	primary = uint16(sum)
	secondary = additionCC(a, ^b, sum)
	return
}

// OpMul returns the two's complement product; the condition code flags
// overflow when the full product exceeds the 16-bit integer range.
func OpMul(a, b uint16) (primary, secondary uint16) {
	p := WordToInt(a) * WordToInt(b)
	primary = uint16(p)
	if p < -32768 || p > 32767 {
		secondary = CC_v.Mask()
	}
	return
}

// OpDiv returns the two's complement quotient and remainder, using the
// flooring (Knuth) convention. Division by zero yields zero results
// with the integer overflow flag set.
func OpDiv(a, b uint16) (primary, secondary uint16) {
	aint := WordToInt(a)
	bint := WordToInt(b)
	if bint == 0 {
		secondary = CC_v.Mask()
		return
	}

	q := aint / bint
	r := aint % bint
	if r != 0 && (r < 0) != (bint < 0) {
		q--
		r += bint
	}
	primary = IntToWord(q)
	secondary = IntToWord(r)
	return
}

// OpMuln returns the low and high words of the natural product.
func OpMuln(a, b uint16) (primary, secondary uint16) {
	product := uint32(a) * uint32(b)
	primary = uint16(product)
	secondary = uint16(product >> 16)
	return
}

// OpDivn divides the 32-bit natural (cc,a) by b, returning the low and
// high quotient words and the remainder.
func OpDivn(cc, a, b uint16) (primary, secondary, tertiary uint16) {
	if b == 0 {
		return
	}
	dividend := uint32(cc)<<16 | uint32(a)
	quotient := dividend / uint32(b)
	primary = uint16(quotient)
	secondary = uint16(quotient >> 16)
	tertiary = uint16(dividend % uint32(b))
	return
}

// OpCmp updates the comparison flags of the condition code, leaving the
// remaining flags untouched.
func OpCmp(cc, a, b uint16) uint16 {
	aint := WordToInt(a)
	bint := WordToInt(b)

	set := func(bit CCBit, cond bool) {
		if cond {
			cc |= bit.Mask()
		} else {
			cc &^= bit.Mask()
		}
	}
	set(CC_E, a == b)
	set(CC_G, a > b)
	set(CC_g, aint > bint)
	set(CC_l, aint < bint)
	set(CC_L, a < b)

	return cc
}

// ShiftL shifts left, discarding bits shifted out of the word.
func ShiftL(x, k uint16) uint16 {
	if k >= 16 {
		return 0
	}
	return x << k
}

// ShiftR shifts right logically.
func ShiftR(x, k uint16) uint16 {
	if k >= 16 {
		return 0
	}
	return x >> k
}
