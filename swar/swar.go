// Package swar implements word-at-a-time byte scanning used by the
// substring search loop and the prefilter.
//
// All routines are portable Go. Eight haystack bytes are loaded per step
// in native byte order and zero-byte markers are extracted with the bit
// direction matching the platform endianness, so the hot path needs no
// byte swapping on big-endian targets.
package swar

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

const (
	lo7 uint64 = 0x7f7f7f7f7f7f7f7f
	hi8 uint64 = 0x8080808080808080
)

// zeroMarkers returns a word with the high bit set in exactly those byte
// lanes of w that are zero. The addition is confined to 7-bit lanes, so
// markers never bleed into neighbouring bytes and the first marker is
// valid for position extraction.
func zeroMarkers(w uint64) uint64 {
	return ^(((w & lo7) + lo7) | w) & hi8
}

// firstLane converts a marker word to the index, in memory order, of the
// first marked byte.
func firstLane(markers uint64) int {
	if cpu.IsBigEndian {
		return bits.LeadingZeros64(markers) / 8
	}
	return bits.TrailingZeros64(markers) / 8
}

// broadcast replicates b into every byte of a word.
func broadcast(b byte) uint64 {
	return uint64(b) * 0x0101010101010101
}

// IndexByte returns the index of the first occurrence of needle in
// haystack, or -1 if needle is not present.
func IndexByte(haystack []byte, needle byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == needle {
				return i
			}
		}
		return -1
	}
	mask := broadcast(needle)
	i := 0
	for ; i+8 <= n; i += 8 {
		w := binary.NativeEndian.Uint64(haystack[i:]) ^ mask
		if m := zeroMarkers(w); m != 0 {
			return i + firstLane(m)
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// IndexByte2 returns the index of the first occurrence of either a or b
// in haystack, or -1.
func IndexByte2(haystack []byte, a, b byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if c := haystack[i]; c == a || c == b {
				return i
			}
		}
		return -1
	}
	ma, mb := broadcast(a), broadcast(b)
	i := 0
	for ; i+8 <= n; i += 8 {
		w := binary.NativeEndian.Uint64(haystack[i:])
		if m := zeroMarkers(w^ma) | zeroMarkers(w^mb); m != 0 {
			return i + firstLane(m)
		}
	}
	for ; i < n; i++ {
		if c := haystack[i]; c == a || c == b {
			return i
		}
	}
	return -1
}

// IndexByte3 returns the index of the first occurrence of a, b or c in
// haystack, or -1.
func IndexByte3(haystack []byte, a, b, c byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if x := haystack[i]; x == a || x == b || x == c {
				return i
			}
		}
		return -1
	}
	ma, mb, mc := broadcast(a), broadcast(b), broadcast(c)
	i := 0
	for ; i+8 <= n; i += 8 {
		w := binary.NativeEndian.Uint64(haystack[i:])
		if m := zeroMarkers(w^ma) | zeroMarkers(w^mb) | zeroMarkers(w^mc); m != 0 {
			return i + firstLane(m)
		}
	}
	for ; i < n; i++ {
		if x := haystack[i]; x == a || x == b || x == c {
			return i
		}
	}
	return -1
}

// IndexRange returns the index of the first byte x in haystack with
// lo <= x <= hi, or -1. The word loop handles ranges within ASCII;
// setting the high lane bits before subtracting keeps borrows from
// crossing lanes, so the markers are exact.
func IndexRange(haystack []byte, lo, hi byte) int {
	n := len(haystack)
	if lo > hi {
		return -1
	}
	if hi > 0x7f || n < 8 {
		for i := 0; i < n; i++ {
			if x := haystack[i]; lo <= x && x <= hi {
				return i
			}
		}
		return -1
	}
	mlo, mhi := broadcast(lo), broadcast(hi+1)
	i := 0
	for ; i+8 <= n; i += 8 {
		w := binary.NativeEndian.Uint64(haystack[i:])
		atLeast := (w | hi8) - mlo
		past := (w | hi8) - mhi
		if m := atLeast &^ past &^ w & hi8; m != 0 {
			return i + firstLane(m)
		}
	}
	for ; i < n; i++ {
		if x := haystack[i]; lo <= x && x <= hi {
			return i
		}
	}
	return -1
}

// IndexPair returns the first index i such that haystack[i] == first and
// haystack[i+gap] == second, or -1. A pair probe is far more selective
// than a single-byte scan, which keeps substring verification cheap.
func IndexPair(haystack []byte, first, second byte, gap int) int {
	n := len(haystack)
	if gap < 0 || n <= gap {
		return -1
	}
	limit := n - gap
	if limit < 8 {
		for i := 0; i < limit; i++ {
			if haystack[i] == first && haystack[i+gap] == second {
				return i
			}
		}
		return -1
	}
	mf, ms := broadcast(first), broadcast(second)
	i := 0
	for ; i+8 <= limit; i += 8 {
		wf := binary.NativeEndian.Uint64(haystack[i:]) ^ mf
		ws := binary.NativeEndian.Uint64(haystack[i+gap:]) ^ ms
		if m := zeroMarkers(wf) & zeroMarkers(ws); m != 0 {
			return i + firstLane(m)
		}
	}
	for ; i < limit; i++ {
		if haystack[i] == first && haystack[i+gap] == second {
			return i
		}
	}
	return -1
}

// Index returns the index of the first occurrence of needle in haystack,
// or -1. Candidates are located with a first/last byte pair probe and
// verified in full.
func Index(haystack, needle []byte) int {
	n := len(needle)
	switch {
	case n == 0:
		return 0
	case n == 1:
		return IndexByte(haystack, needle[0])
	case n > len(haystack):
		return -1
	}
	gap := n - 1
	at := 0
	for {
		i := IndexPair(haystack[at:], needle[0], needle[gap], gap)
		if i < 0 {
			return -1
		}
		start := at + i
		if bytes.Equal(haystack[start:start+n], needle) {
			return start
		}
		at = start + 1
	}
}
