package vm

import "sync/atomic"

// Span is one capture: the byte range [Start, End) of the subject
// matched by a group. An unset capture is {-1, -1}.
type Span struct {
	Start, End int
}

// Unset reports whether the group was never traversed.
func (s Span) Unset() bool {
	return s.Start < 0
}

// Len returns the number of bytes captured, 0 for an unset span.
func (s Span) Len() int {
	if s.Unset() {
		return 0
	}
	return s.End - s.Start
}

// frame is one choice point: everything needed to abandon the current
// path and resume the alternative an instruction set aside. The meaning
// of n depends on the instruction at pc: the next alternative index for
// a branch, the next repetition count for a counted repeat.
type frame struct {
	pc          InstID
	pos         int
	n           int
	journalMark int
	auxMark     int
}

// capSave is one undo journal entry: the value a capture group held
// before the current path overwrote it.
type capSave struct {
	group uint32
	prev  Span
}

// matchState holds per-search mutable state so a compiled Program can be
// shared by concurrent searches. States are pooled per program; a state
// must not be shared between goroutines.
type matchState struct {
	stack   []frame   // choice points, most recent last
	aux     []int     // loop iteration start positions
	caps    []Span    // staged captures, committed only on success
	journal []capSave // capture undo log, unwound on backtrack
	steps   uint64    // matcher steps spent, counted against the budget
	frames  uint64    // choice points pushed, flushed to stats on release
}

// prepare sizes the staged capture table for the program and clears
// everything for a new match call. The step budget and the frame count
// span the whole call, so they reset here and not per attempt.
func (s *matchState) prepare(numCaps int) {
	if cap(s.caps) < numCaps {
		s.caps = make([]Span, numCaps)
	}
	s.caps = s.caps[:numCaps]
	s.steps = 0
	s.frames = 0
	s.reset()
}

// reset clears the per-attempt state: all choice points, the aux stack,
// the journal, and every staged capture back to unset.
func (s *matchState) reset() {
	s.stack = s.stack[:0]
	s.aux = s.aux[:0]
	s.journal = s.journal[:0]
	for i := range s.caps {
		s.caps[i] = Span{Start: -1, End: -1}
	}
}

// pushChoice records a choice point at the current stack depths.
func (s *matchState) pushChoice(pc InstID, pos, n int) {
	s.frames++
	s.stack = append(s.stack, frame{
		pc:          pc,
		pos:         pos,
		n:           n,
		journalMark: len(s.journal),
		auxMark:     len(s.aux),
	})
}

// pop removes the most recent choice point, rolling captures back
// through the journal and truncating the aux stack to their state at the
// choice. The caller restores the subject position from the frame.
func (s *matchState) pop() frame {
	f := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	for i := len(s.journal) - 1; i >= f.journalMark; i-- {
		e := s.journal[i]
		s.caps[e.group] = e.prev
	}
	s.journal = s.journal[:f.journalMark]
	s.aux = s.aux[:f.auxMark]
	return f
}

// setCapStart records a group start, journaling the prior value so a
// backtrack undoes the write.
func (s *matchState) setCapStart(g uint32, pos int) {
	s.journal = append(s.journal, capSave{group: g, prev: s.caps[g]})
	s.caps[g].Start = pos
}

// setCapEnd records a group end, journaling the prior value.
func (s *matchState) setCapEnd(g uint32, pos int) {
	s.journal = append(s.journal, capSave{group: g, prev: s.caps[g]})
	s.caps[g].End = pos
}

func (s *matchState) auxPush(v int) {
	s.aux = append(s.aux, v)
}

func (s *matchState) auxPop() (int, bool) {
	if len(s.aux) == 0 {
		return 0, false
	}
	v := s.aux[len(s.aux)-1]
	s.aux = s.aux[:len(s.aux)-1]
	return v, true
}

// getState fetches a pooled search state. The zero pool just allocates.
func (p *Program) getState() *matchState {
	s, _ := p.statePool.Get().(*matchState)
	if s == nil {
		s = &matchState{}
	}
	return s
}

// putState returns a search state to the pool, folding the call's frame
// count into the program statistics.
func (p *Program) putState(s *matchState) {
	if s.frames > 0 {
		atomic.AddUint64(&p.stats.BacktrackFrames, s.frames)
		s.frames = 0
	}
	p.statePool.Put(s)
}
