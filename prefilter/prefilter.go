// Package prefilter builds candidate scanners from extracted literal
// sequences.
//
// A prefilter answers one question for the matcher: where is the next
// position that could start a match? Scanning for literals with the swar
// primitives is far cheaper than attempting the full program at every
// offset, so a good filter turns a position-by-position search into a
// few jumps between candidates.
//
// The builder picks a strategy from the shape of the prefix literals:
//   - one single-byte literal: byte scan
//   - one longer literal: substring scan
//   - two or three distinct lead bytes: paired byte scan
//   - a contiguous run of single bytes: range scan
//   - up to 64 longer literals: Aho-Corasick automaton
//
// Suffix and inner literals cannot drive a forward scan, but they still
// disprove matches: every match ends with a known suffix and contains a
// known inner literal, so when none occurs in the remaining subject
// there is no match to find. Those checks become gates, chained behind
// the lead scanner.
//
// Every filter obeys one contract: it may only skip positions that
// cannot start a match. When the literals cannot promise that, no filter
// is built and the matcher tries every offset itself.
package prefilter

import (
	"bytes"

	"github.com/zhangjinde/foundation-regex/literal"
	"github.com/zhangjinde/foundation-regex/swar"
)

// Prefilter locates candidate match positions ahead of the matcher.
// Implementations are immutable after construction and safe for
// concurrent searches.
type Prefilter interface {
	// Find returns the position of the next candidate at or after start,
	// or -1 if no candidate remains. A position the filter passes over is
	// guaranteed not to start a match; a returned position is only a
	// candidate, unless IsComplete says otherwise.
	Find(haystack []byte, start int) int

	// IsComplete reports whether a candidate is a whole match on its
	// own, with nothing left for the matcher to verify. This holds only
	// when the literals cover the entire pattern and every candidate has
	// the same unambiguous match length.
	IsComplete() bool

	// LiteralLen returns the match length of a complete filter's
	// candidates, and 0 for filters that merely locate candidates.
	LiteralLen() int

	// HeapBytes reports the memory the filter retains. The byte scanners
	// hold at most a needle; automata can be considerably larger.
	HeapBytes() int
}

// DefaultMaxHeapBytes bounds the memory a built filter may retain. Only
// the automaton strategy can approach it.
const DefaultMaxHeapBytes = 1 << 20

// maxAhoPatterns caps the automaton strategy. Wider literal sets carry
// too little selectivity per pattern to pay for the automaton walk.
const maxAhoPatterns = 64

// Builder selects and constructs the best filter for a pattern's
// extracted literals.
//
// Prefix literals drive the forward scan. Suffix and inner literals
// become confirming gates. Anchors narrow the choices: a start-anchored
// pattern has exactly one viable offset, so no filter is built at all,
// and an end anchor turns the suffix check into a single comparison
// against the subject tail.
type Builder struct {
	prefixes *literal.Seq
	suffixes *literal.Seq
	inner    *literal.Seq

	anchoredStart bool
	anchoredEnd   bool

	leadLo, leadHi byte
	hasLeadRange   bool

	maxHeap int
}

// NewBuilder creates a builder over the three extracted sequences. Any
// of them may be nil or empty.
func NewBuilder(prefixes, suffixes, inner *literal.Seq) *Builder {
	return &Builder{
		prefixes: prefixes,
		suffixes: suffixes,
		inner:    inner,
		maxHeap:  DefaultMaxHeapBytes,
	}
}

// Anchored records the pattern's anchors. It returns the builder for
// chaining.
func (b *Builder) Anchored(start, end bool) *Builder {
	b.anchoredStart = start
	b.anchoredEnd = end
	return b
}

// LeadingRange records a contiguous byte range every match must start
// with. It backs up the prefix literals for patterns whose leading class
// is too wide to expand, and is only consulted when no literal scanner
// can be built. It returns the builder for chaining.
func (b *Builder) LeadingRange(lo, hi byte) *Builder {
	b.leadLo, b.leadHi = lo, hi
	b.hasLeadRange = lo <= hi
	return b
}

// MaxHeapBytes overrides the filter memory bound. It returns the builder
// for chaining.
func (b *Builder) MaxHeapBytes(n int) *Builder {
	b.maxHeap = n
	return b
}

// Build returns the best filter for the literals, or nil when none would
// be both sound and profitable.
func (b *Builder) Build() Prefilter {
	if b.anchoredStart {
		// One viable offset; scanning ahead of it buys nothing.
		return nil
	}
	scan := b.leadScanner()
	if scan != nil && scan.IsComplete() {
		return scan
	}
	gate := b.gate()
	switch {
	case scan == nil:
		return gate
	case gate == nil:
		return scan
	default:
		return &chain{scan: scan, confirm: gate}
	}
}

// leadScanner builds the forward scanner from the prefix literals,
// falling back to the recorded leading range when the literals cannot
// carry a scan.
func (b *Builder) leadScanner() Prefilter {
	seq := b.prefixes
	if !seq.IsEmpty() && !seq.HasEmpty() {
		complete := seq.AllComplete() && !b.anchoredEnd && unambiguous(seq)
		if pf := b.scannerFor(seq, complete); pf != nil {
			return pf
		}
	}
	if b.hasLeadRange {
		return newClassRange(b.leadLo, b.leadHi, false)
	}
	return nil
}

// gate combines the suffix and inner checks. Both reject by absence and
// hand the position back otherwise, so they compose in either order.
func (b *Builder) gate() Prefilter {
	g := b.suffixGate()
	if ig := b.innerGate(); ig != nil {
		if g == nil {
			g = ig
		} else {
			g = &chain{scan: g, confirm: ig}
		}
	}
	return g
}

func (b *Builder) suffixGate() Prefilter {
	seq := b.suffixes
	if seq.IsEmpty() || seq.HasEmpty() {
		return nil
	}
	if b.anchoredEnd {
		return newSuffixGate(seq)
	}
	if seqsEqual(seq, b.prefixes) {
		// The lead scanner already proves one of these occurs.
		return nil
	}
	scan := b.scannerFor(seq, false)
	if scan == nil {
		return nil
	}
	return &containsGate{scan: scan}
}

func (b *Builder) innerGate() Prefilter {
	seq := b.inner
	if seq.IsEmpty() || seq.HasEmpty() {
		return nil
	}
	// Skip literals another stage already scans for.
	if seqsEqual(seq, b.prefixes) || seqsEqual(seq, b.suffixes) {
		return nil
	}
	scan := b.scannerFor(seq, false)
	if scan == nil {
		return nil
	}
	return &containsGate{scan: scan}
}

// scannerFor selects a scanning strategy for a sequence with no empty
// literals. complete asserts that every candidate is a whole match of
// one known length; it may only be true when the caller has verified
// that with unambiguous.
func (b *Builder) scannerFor(seq *literal.Seq, complete bool) Prefilter {
	min := seq.Clone()
	min.Minimize()

	if min.Len() == 1 {
		lit := min.Get(0)
		if lit.Len() == 1 {
			return newMemchr(lit.Bytes[0], complete)
		}
		return newMemmem(lit.Bytes, complete)
	}

	// Multiple distinct literals. When they are all single bytes the
	// candidates are exact literal starts and completeness survives;
	// otherwise scanning lead bytes over-approximates and the matcher
	// must confirm.
	leads := leadBytes(min)
	if allSingleByte(min) {
		switch len(leads) {
		case 2:
			return newByte2(leads[0], leads[1], complete)
		case 3:
			return newByte3(leads[0], leads[1], leads[2], complete)
		}
		if lo, hi, ok := contiguousRange(leads); ok {
			return newClassRange(lo, hi, complete)
		}
	}

	if min.Len() <= maxAhoPatterns {
		if pf := b.ahoScanner(min); pf != nil {
			return pf
		}
	}

	// No automaton; scan a shared fragment of the literals instead.
	switch lcp := min.LongestCommonPrefix(); {
	case len(lcp) >= 2:
		return newMemmem(lcp, false)
	case len(leads) == 1:
		return newMemchr(leads[0], false)
	case len(leads) == 2:
		return newByte2(leads[0], leads[1], false)
	case len(leads) == 3:
		return newByte3(leads[0], leads[1], leads[2], false)
	}
	return nil
}

func (b *Builder) ahoScanner(seq *literal.Seq) Prefilter {
	pf, err := newAho(seq)
	if err != nil || pf.HeapBytes() > b.maxHeap {
		return nil
	}
	return pf
}

// unambiguous reports whether a scanner candidate always corresponds to
// the same match length: either every literal is a single byte, or the
// first literal is a prefix of all of them, in which case the matcher
// would always commit to that first alternative.
func unambiguous(seq *literal.Seq) bool {
	if allSingleByte(seq) {
		return true
	}
	first := seq.Get(0).Bytes
	for i := 1; i < seq.Len(); i++ {
		if !bytes.HasPrefix(seq.Get(i).Bytes, first) {
			return false
		}
	}
	return true
}

func allSingleByte(seq *literal.Seq) bool {
	for i := 0; i < seq.Len(); i++ {
		if seq.Get(i).Len() != 1 {
			return false
		}
	}
	return true
}

// leadBytes returns the distinct first bytes of the literals in
// first-seen order.
func leadBytes(seq *literal.Seq) []byte {
	var seen [256]bool
	var leads []byte
	for i := 0; i < seq.Len(); i++ {
		b := seq.Get(i).Bytes[0]
		if !seen[b] {
			seen[b] = true
			leads = append(leads, b)
		}
	}
	return leads
}

// contiguousRange reports whether the distinct bytes form one unbroken
// run, as the expansion of a class like [0-9] does.
func contiguousRange(leads []byte) (lo, hi byte, ok bool) {
	if len(leads) == 0 {
		return 0, 0, false
	}
	lo, hi = leads[0], leads[0]
	for _, b := range leads[1:] {
		if b < lo {
			lo = b
		}
		if b > hi {
			hi = b
		}
	}
	if int(hi)-int(lo)+1 != len(leads) {
		return 0, 0, false
	}
	return lo, hi, true
}

func seqsEqual(a, b *literal.Seq) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !bytes.Equal(a.Get(i).Bytes, b.Get(i).Bytes) {
			return false
		}
	}
	return a.Len() > 0
}

// memchrPrefilter scans for one lead byte.
//
// This is the fastest strategy: swar.IndexByte examines eight bytes per
// step, and a single-byte needle never misreports a candidate.
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchr(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{needle: needle, complete: complete}
}

func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	i := swar.IndexByte(haystack[start:], p.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *memchrPrefilter) IsComplete() bool { return p.complete }

func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

func (p *memchrPrefilter) HeapBytes() int { return 0 }

// memmemPrefilter scans for one literal substring. The needle is copied
// at construction so later changes to the literal sequence cannot reach
// it.
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

func newMemmem(needle []byte, complete bool) Prefilter {
	cp := make([]byte, len(needle))
	copy(cp, needle)
	return &memmemPrefilter{needle: cp, complete: complete}
}

func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	i := swar.Index(haystack[start:], p.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }

func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

func (p *memmemPrefilter) HeapBytes() int { return len(p.needle) }
