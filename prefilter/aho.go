package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/zhangjinde/foundation-regex/literal"
)

// automatonOverhead approximates the trie and failure table bytes the
// automaton builds per pattern byte. The automaton does not report its
// exact footprint and the heap budget only needs the order of magnitude.
const automatonOverhead = 16

// ahoPrefilter walks an Aho-Corasick automaton over the haystack. It is
// the strategy for literal sets too wide for the byte scanners, scanning
// for every literal at once and reporting the leftmost occurrence.
//
// The automaton only locates candidates. Its match spans are not used,
// so it is never complete.
type ahoPrefilter struct {
	auto   *ahocorasick.Automaton
	minLen int
	heap   int
}

func newAho(seq *literal.Seq) (*ahoPrefilter, error) {
	builder := ahocorasick.NewBuilder()
	total := 0
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		builder.AddPattern(lit.Bytes)
		total += lit.Len()
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &ahoPrefilter{
		auto:   auto,
		minLen: seq.MinLen(),
		heap:   total * automatonOverhead,
	}, nil
}

func (p *ahoPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (p *ahoPrefilter) IsComplete() bool { return false }

func (p *ahoPrefilter) LiteralLen() int { return 0 }

func (p *ahoPrefilter) HeapBytes() int { return p.heap }
