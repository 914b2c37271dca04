package prefilter

import "github.com/zhangjinde/foundation-regex/swar"

// byte2Prefilter scans for either of two lead bytes in one pass. For
// multi-byte literals the hit is an over-approximation and the matcher
// confirms it.
type byte2Prefilter struct {
	a, b     byte
	complete bool
}

func newByte2(a, b byte, complete bool) Prefilter {
	return &byte2Prefilter{a: a, b: b, complete: complete}
}

func (p *byte2Prefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	i := swar.IndexByte2(haystack[start:], p.a, p.b)
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *byte2Prefilter) IsComplete() bool { return p.complete }

func (p *byte2Prefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

func (p *byte2Prefilter) HeapBytes() int { return 0 }

// byte3Prefilter scans for any of three lead bytes in one pass.
type byte3Prefilter struct {
	a, b, c  byte
	complete bool
}

func newByte3(a, b, c byte, complete bool) Prefilter {
	return &byte3Prefilter{a: a, b: b, c: c, complete: complete}
}

func (p *byte3Prefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	i := swar.IndexByte3(haystack[start:], p.a, p.b, p.c)
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *byte3Prefilter) IsComplete() bool { return p.complete }

func (p *byte3Prefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

func (p *byte3Prefilter) HeapBytes() int { return 0 }

// classPrefilter scans for any byte in a contiguous range. It covers
// class expansions like [0-9] whose distinct bytes would overwhelm the
// paired scanners but collapse into one range comparison.
type classPrefilter struct {
	lo, hi   byte
	complete bool
}

func newClassRange(lo, hi byte, complete bool) Prefilter {
	return &classPrefilter{lo: lo, hi: hi, complete: complete}
}

func (p *classPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	i := swar.IndexRange(haystack[start:], p.lo, p.hi)
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *classPrefilter) IsComplete() bool { return p.complete }

func (p *classPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

func (p *classPrefilter) HeapBytes() int { return 0 }
