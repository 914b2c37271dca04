package vm

import "sync/atomic"

// MatchAt reports whether the program matches subject at or after the
// start offset. caps, when non-empty, receives the capture table on
// success: slot i holds the span of group i, unset groups as {-1, -1}.
// A caller table shorter than the program's group count receives the
// groups that fit; slots beyond the group count are left untouched. On
// failure no capture slot is written at all.
//
// A nil program matches everything. An empty or released program
// matches nothing.
func (p *Program) MatchAt(subject []byte, start int, caps []Span) bool {
	_, ok := p.Find(subject, start, caps)
	return ok
}

// Match is MatchAt from offset 0.
func (p *Program) Match(subject []byte, caps []Span) bool {
	_, ok := p.Find(subject, 0, caps)
	return ok
}

// Prefilter effectiveness is rechecked every pfCheckEvery consults. A
// filter that moved the search fewer than pfMinProgress bytes over a
// whole window is scanning roughly every offset the matcher would have
// visited anyway, so it is dropped for the rest of the call.
const (
	pfCheckEvery  = 64
	pfMinProgress = 256
)

// Find locates the first match at or after start, returning its span.
// Captures are committed into caps exactly as in MatchAt.
//
// Without a start anchor the program is retried at successive offsets
// until one matches, so the first match is the leftmost one; the
// prefilter, when installed, skips offsets that cannot start a match.
// With a start anchor there is a single attempt.
func (p *Program) Find(subject []byte, start int, caps []Span) (Span, bool) {
	if p == nil {
		return Span{Start: start, End: start}, true
	}
	insts := p.insts
	if len(insts) == 0 || start < 0 || start > len(subject) {
		return Span{Start: -1, End: -1}, false
	}
	atomic.AddUint64(&p.stats.Searches, 1)

	s := p.getState()
	defer p.putState(s)
	s.prepare(p.numCaps)

	pf := p.prefilter
	// A complete filter's candidates are whole matches, so when there are
	// no capture slots to fill the first candidate answers the search.
	direct := pf != nil && pf.IsComplete() && (p.numCaps == 0 || len(caps) == 0)
	consults, mark := 0, start
	for off := start; off <= len(subject); off++ {
		if pf != nil && !p.anchoredStart {
			loc := pf.Find(subject, off)
			if loc < 0 {
				return Span{Start: -1, End: -1}, false
			}
			if loc > off {
				atomic.AddUint64(&p.stats.PrefilterSkips, 1)
				off = loc
			}
			if direct {
				atomic.AddUint64(&p.stats.Matches, 1)
				atomic.AddUint64(&p.stats.LiteralBypasses, 1)
				return Span{Start: off, End: off + pf.LiteralLen()}, true
			}
			if consults++; consults == pfCheckEvery {
				if off-mark < pfMinProgress {
					pf = nil
					atomic.AddUint64(&p.stats.PrefilterRetired, 1)
				}
				consults, mark = 0, off
			}
		}
		res, end := p.run(insts, s, subject, off)
		switch res {
		case runMatched:
			atomic.AddUint64(&p.stats.Matches, 1)
			copy(caps, s.caps)
			return Span{Start: off, End: end}, true
		case runFault:
			return Span{Start: -1, End: -1}, false
		case runBudget:
			atomic.AddUint64(&p.stats.BudgetExhausted, 1)
			p.cfg.logger().Log("step budget exhausted after %d steps (pattern %q)", s.steps, p.pattern)
			return Span{Start: -1, End: -1}, false
		}
		if p.anchoredStart {
			// the start anchor pins the only viable offset
			return Span{Start: -1, End: -1}, false
		}
	}
	return Span{Start: -1, End: -1}, false
}
