package vm

import "sync/atomic"

// runResult is the outcome of one anchored attempt at a start offset.
type runResult uint8

const (
	// runNoMatch means the attempt exhausted every path without matching.
	runNoMatch runResult = iota

	// runMatched means the attempt reached the match instruction.
	runMatched

	// runFault means a corrupted instruction was hit; the whole search
	// must report no match.
	runFault

	// runBudget means the step budget ran out mid-attempt.
	runBudget
)

// runPhase is the interpreter's current mode. Execution alternates
// between running, which dispatches instructions forward, and
// backtracking, which unwinds choice points after a dead end, until one
// of the terminal phases is reached.
type runPhase uint8

const (
	phaseRunning runPhase = iota
	phaseBacktracking
	phaseSucceeded
	phaseFailed
)

// run executes one anchored attempt of the program against subject at
// the given start offset. On runMatched the returned position is the
// match end and s.caps holds the staged capture table.
//
// The interpreter is fully iterative: alternation, loops and counted
// repeats park their untried paths as frames on the choice point stack
// and never recurse, so deeply nested patterns cannot overflow the
// goroutine stack. Every instruction field that could have been
// corrupted is checked before use; a bad field logs one diagnostic and
// aborts the attempt with runFault instead of panicking.
func (p *Program) run(insts []Inst, s *matchState, subject []byte, start int) (runResult, int) {
	s.reset()
	pos := start
	pc := InstID(0)
	maxSteps := p.cfg.MaxSteps
	phase := phaseRunning

	for {
		switch phase {
		case phaseRunning:
			s.steps++
			if maxSteps > 0 && s.steps > maxSteps {
				return runBudget, pos
			}
			if uint64(pc) >= uint64(len(insts)) {
				return p.fault(pc, "program counter out of range"), pos
			}
			inst := &insts[pc]
			switch inst.Op {
			case OpLiteral:
				if pos < len(subject) && subject[pos] == inst.Lit {
					pos++
					pc++
				} else {
					phase = phaseBacktracking
				}

			case OpClass:
				if inst.Class == nil {
					return p.fault(pc, "class instruction without a class"), pos
				}
				if pos < len(subject) && inst.Class.Matches(subject[pos]) {
					pos++
					pc++
				} else {
					phase = phaseBacktracking
				}

			case OpAny:
				if pos < len(subject) {
					pos++
					pc++
				} else {
					phase = phaseBacktracking
				}

			case OpGroupStart:
				if uint64(inst.Group) >= uint64(len(s.caps)) {
					return p.fault(pc, "capture group %d out of range", inst.Group), pos
				}
				s.setCapStart(inst.Group, pos)
				pc++

			case OpGroupEnd:
				if uint64(inst.Group) >= uint64(len(s.caps)) {
					return p.fault(pc, "capture group %d out of range", inst.Group), pos
				}
				s.setCapEnd(inst.Group, pos)
				pc++

			case OpJump:
				pc = inst.X

			case OpBranch:
				if len(inst.Alts) == 0 {
					return p.fault(pc, "branch without alternatives"), pos
				}
				if len(inst.Alts) > 1 {
					s.pushChoice(pc, pos, 1)
				}
				pc = inst.Alts[0]

			case OpLoop:
				if inst.Greedy {
					// prefer another iteration, keep the exit as the choice
					s.pushChoice(pc, pos, 0)
					s.auxPush(pos)
					pc = inst.X
				} else {
					// prefer the exit, keep the iteration as the choice
					s.pushChoice(pc, pos, 0)
					pc = inst.Y
				}

			case OpLoopEnd:
				iterStart, ok := s.auxPop()
				if !ok {
					return p.fault(pc, "loop stack underflow"), pos
				}
				if pos == iterStart {
					// the iteration consumed nothing; looping again would
					// never terminate
					phase = phaseBacktracking
				} else {
					pc = inst.X
				}

			case OpRepeat:
				if int(pc)+1 >= len(insts) || !insts[pc+1].consumes() {
					return p.fault(pc, "repeat body must be a single consuming instruction"), pos
				}
				body := &insts[pc+1]
				if body.Op == OpClass && body.Class == nil {
					return p.fault(pc+1, "class instruction without a class"), pos
				}
				// counts compare in uint64: a Min above the int range is
				// unsatisfiable, not negative, on 32-bit platforms
				if inst.Greedy {
					// consume the longest run now, shrink on backtrack
					limit := len(subject) - pos
					if inst.Max != Unbounded && uint64(inst.Max) < uint64(limit) {
						limit = int(inst.Max)
					}
					n := 0
					for n < limit && matchesByte(body, subject[pos+n]) {
						n++
					}
					if uint64(n) < uint64(inst.Min) {
						phase = phaseBacktracking
						break
					}
					if uint64(n) > uint64(inst.Min) {
						s.pushChoice(pc, pos, n-1)
					}
					pos += n
					pc += 2
				} else {
					// consume the shortest run now, grow on backtrack
					if uint64(inst.Min) > uint64(len(subject)-pos) {
						phase = phaseBacktracking
						break
					}
					min := int(inst.Min)
					ok := true
					for i := 0; i < min; i++ {
						if !matchesByte(body, subject[pos+i]) {
							ok = false
							break
						}
					}
					if !ok {
						phase = phaseBacktracking
						break
					}
					if inst.Max == Unbounded || uint32(min) < inst.Max {
						s.pushChoice(pc, pos, min+1)
					}
					pos += min
					pc += 2
				}

			case OpAnchorStart:
				if pos == 0 {
					pc++
				} else {
					phase = phaseBacktracking
				}

			case OpAnchorEnd:
				if pos == len(subject) {
					pc++
				} else {
					phase = phaseBacktracking
				}

			case OpMatch:
				phase = phaseSucceeded

			default:
				return p.fault(pc, "unknown opcode %s", inst.Op), pos
			}

		case phaseBacktracking:
			if len(s.stack) == 0 {
				phase = phaseFailed
				break
			}
			s.steps++
			if maxSteps > 0 && s.steps > maxSteps {
				return runBudget, pos
			}
			f := s.pop()
			pos = f.pos
			if uint64(f.pc) >= uint64(len(insts)) {
				return p.fault(f.pc, "program counter out of range"), pos
			}
			inst := &insts[f.pc]
			phase = phaseRunning
			switch inst.Op {
			case OpBranch:
				if f.n < 0 || f.n >= len(inst.Alts) {
					return p.fault(f.pc, "branch alternative out of range"), pos
				}
				if f.n+1 < len(inst.Alts) {
					s.pushChoice(f.pc, f.pos, f.n+1)
				}
				pc = inst.Alts[f.n]

			case OpLoop:
				if inst.Greedy {
					// the iteration path is spent: take the exit
					pc = inst.Y
				} else {
					// the exit path is spent: run one iteration
					s.auxPush(f.pos)
					pc = inst.X
				}

			case OpRepeat:
				if int(f.pc)+1 >= len(insts) {
					return p.fault(f.pc, "repeat body must be a single consuming instruction"), pos
				}
				body := &insts[f.pc+1]
				min := int(inst.Min)
				c := f.n
				if inst.Greedy {
					// retry with one repetition fewer
					if c > min {
						s.pushChoice(f.pc, f.pos, c-1)
					}
					pos = f.pos + c
					pc = f.pc + 2
				} else {
					// retry with one repetition more, verifying the new byte
					if f.pos+c > len(subject) || !matchesByte(body, subject[f.pos+c-1]) {
						phase = phaseBacktracking
						break
					}
					if inst.Max == Unbounded || uint32(c) < inst.Max {
						s.pushChoice(f.pc, f.pos, c+1)
					}
					pos = f.pos + c
					pc = f.pc + 2
				}

			default:
				return p.fault(f.pc, "resume at non-choice instruction %s", inst.Op), pos
			}

		case phaseSucceeded:
			return runMatched, pos

		case phaseFailed:
			return runNoMatch, pos
		}
	}
}

// matchesByte reports whether a single consuming instruction accepts b.
func matchesByte(inst *Inst, b byte) bool {
	switch inst.Op {
	case OpLiteral:
		return inst.Lit == b
	case OpAny:
		return true
	case OpClass:
		return inst.Class != nil && inst.Class.Matches(b)
	}
	return false
}

// fault records a corrupted-program diagnostic and aborts the search.
// The process never crashes on a bad program; the search just fails.
func (p *Program) fault(pc InstID, format string, args ...interface{}) runResult {
	atomic.AddUint64(&p.stats.Faults, 1)
	logArgs := make([]interface{}, 0, len(args)+2)
	logArgs = append(logArgs, uint32(pc))
	logArgs = append(logArgs, args...)
	logArgs = append(logArgs, p.pattern)
	p.cfg.logger().Log("execution fault at pc %d: "+format+" (pattern %q)", logArgs...)
	return runFault
}
