// Package conv provides checked integer narrowing for the pattern engine.
//
// Instruction ids and repeat counts are stored as fixed-width integers in
// compiled programs. These helpers panic on overflow: a pattern large enough
// to overflow an instruction id indicates a bug in the compiler's limits,
// not a malformed input.
package conv

import "math"

// ToUint32 converts n to uint32. Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func ToUint32(n int) uint32 {
	// Compare as uint so the check itself cannot overflow on 32-bit platforms.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("conv: int value out of uint32 range")
	}
	return uint32(n)
}

// ToInt converts u to int. Panics if the platform int cannot hold u.
//
//go:inline
func ToInt(u uint32) int {
	if uint64(u) > uint64(math.MaxInt) {
		panic("conv: uint32 value out of int range")
	}
	return int(u)
}
