package prefilter

import (
	"bytes"

	"github.com/zhangjinde/foundation-regex/literal"
)

// containsGate rejects positions by absence. Every match contains one of
// the gate's literals at or past its own start, so when none occurs in
// the rest of the subject no match starts there either. A hit proves
// nothing about where the match begins, so the gate hands the position
// back unchanged rather than skipping ahead.
type containsGate struct {
	scan Prefilter
}

func (g *containsGate) Find(haystack []byte, start int) int {
	if g.scan.Find(haystack, start) < 0 {
		return -1
	}
	return start
}

func (g *containsGate) IsComplete() bool { return false }

func (g *containsGate) LiteralLen() int { return 0 }

func (g *containsGate) HeapBytes() int { return g.scan.HeapBytes() }

// suffixGate serves end-anchored patterns. Every match runs to the end
// of the subject and ends with one of the suffix literals, so a subject
// whose tail matches none of them holds no match at any position. The
// common suffix of all literals is compared first as a cheap reject.
type suffixGate struct {
	suffixes [][]byte
	lcs      []byte
	heap     int
}

func newSuffixGate(seq *literal.Seq) Prefilter {
	g := &suffixGate{}
	for i := 0; i < seq.Len(); i++ {
		cp := append([]byte(nil), seq.Get(i).Bytes...)
		g.suffixes = append(g.suffixes, cp)
		g.heap += len(cp)
	}
	g.lcs = append([]byte(nil), seq.LongestCommonSuffix()...)
	g.heap += len(g.lcs)
	return g
}

func (g *suffixGate) Find(haystack []byte, start int) int {
	if start < 0 || start > len(haystack) {
		return -1
	}
	if !bytes.HasSuffix(haystack, g.lcs) {
		return -1
	}
	for _, s := range g.suffixes {
		if bytes.HasSuffix(haystack, s) {
			return start
		}
	}
	return -1
}

func (g *suffixGate) IsComplete() bool { return false }

func (g *suffixGate) LiteralLen() int { return 0 }

func (g *suffixGate) HeapBytes() int { return g.heap }

// chain runs a candidate scanner and a confirming gate in sequence. The
// gate reruns on every candidate the scanner produces, so chains suit
// scanners expected to place few candidates; a filter that stops paying
// for itself is the caller's problem to retire.
type chain struct {
	scan    Prefilter
	confirm Prefilter
}

func (c *chain) Find(haystack []byte, start int) int {
	loc := c.scan.Find(haystack, start)
	if loc < 0 {
		return -1
	}
	if c.confirm.Find(haystack, loc) < 0 {
		return -1
	}
	return loc
}

func (c *chain) IsComplete() bool { return false }

func (c *chain) LiteralLen() int { return 0 }

func (c *chain) HeapBytes() int { return c.scan.HeapBytes() + c.confirm.HeapBytes() }
