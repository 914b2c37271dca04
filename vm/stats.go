package vm

import "sync/atomic"

// Stats tracks execution statistics for performance analysis.
// Counters are updated atomically and may be read while other goroutines
// search.
type Stats struct {
	// Searches counts match calls that reached the matcher.
	Searches uint64

	// Matches counts match calls that succeeded.
	Matches uint64

	// BacktrackFrames counts choice point frames pushed by the matcher.
	BacktrackFrames uint64

	// Faults counts searches abandoned because of a corrupted program.
	Faults uint64

	// BudgetExhausted counts searches abandoned because the step budget
	// ran out.
	BudgetExhausted uint64

	// PrefilterSkips counts start offsets the prefilter rejected without
	// running the matcher.
	PrefilterSkips uint64

	// LiteralBypasses counts matches answered by a complete prefilter
	// alone, with no matcher run.
	LiteralBypasses uint64

	// PrefilterRetired counts searches that dropped their prefilter
	// mid-call because it stopped skipping enough to pay for itself.
	PrefilterRetired uint64
}

// Stats returns a snapshot of the program's execution statistics.
func (p *Program) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	return Stats{
		Searches:         atomic.LoadUint64(&p.stats.Searches),
		Matches:          atomic.LoadUint64(&p.stats.Matches),
		BacktrackFrames:  atomic.LoadUint64(&p.stats.BacktrackFrames),
		Faults:           atomic.LoadUint64(&p.stats.Faults),
		BudgetExhausted:  atomic.LoadUint64(&p.stats.BudgetExhausted),
		PrefilterSkips:   atomic.LoadUint64(&p.stats.PrefilterSkips),
		LiteralBypasses:  atomic.LoadUint64(&p.stats.LiteralBypasses),
		PrefilterRetired: atomic.LoadUint64(&p.stats.PrefilterRetired),
	}
}

// ResetStats resets execution statistics to zero.
func (p *Program) ResetStats() {
	if p == nil {
		return
	}
	atomic.StoreUint64(&p.stats.Searches, 0)
	atomic.StoreUint64(&p.stats.Matches, 0)
	atomic.StoreUint64(&p.stats.BacktrackFrames, 0)
	atomic.StoreUint64(&p.stats.Faults, 0)
	atomic.StoreUint64(&p.stats.BudgetExhausted, 0)
	atomic.StoreUint64(&p.stats.PrefilterSkips, 0)
	atomic.StoreUint64(&p.stats.LiteralBypasses, 0)
	atomic.StoreUint64(&p.stats.PrefilterRetired, 0)
}
