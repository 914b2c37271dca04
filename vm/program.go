// Package vm compiles byte patterns into flat instruction programs and
// matches them with an iterative backtracking interpreter.
//
// A Program is immutable after compilation and safe for concurrent
// searches; per-search state lives in pooled scratch buffers. The
// interpreter keeps an explicit choice point stack instead of recursing,
// so pattern nesting depth never threatens the goroutine stack, and it
// treats every malformed instruction as a logged fault rather than a
// panic.
package vm

import (
	"fmt"
	"strings"
	"sync"
)

// Prefilter locates candidate match starts for a program whose matches
// can only begin with one of a known set of literals. Implementations
// must be safe for concurrent use.
type Prefilter interface {
	// Find returns the next candidate start offset at or after "at",
	// or -1 if no candidate remains.
	Find(subject []byte, at int) int

	// LiteralLen returns the match length of a complete filter's
	// candidates, and 0 for filters that merely locate candidates.
	LiteralLen() int

	// IsComplete reports whether a candidate is already a whole match on
	// its own, with no program run needed to confirm it.
	IsComplete() bool
}

// Program is a compiled pattern: a flat instruction arena plus the
// metadata the matcher needs. Programs are immutable after compilation
// and safe for concurrent use.
//
// The zero value is a valid empty program that matches nothing; it is
// the arena form filled in by CompileInto.
type Program struct {
	// stats must be first for 8-byte alignment of its uint64 fields on
	// 32-bit platforms.
	stats Stats

	insts   []Inst
	numCaps int
	pattern string
	cfg     Config

	anchoredStart bool
	anchoredEnd   bool

	prefilter Prefilter

	statePool sync.Pool // *matchState
}

// NewProgram returns an empty program whose instruction arena holds up
// to capacity instructions. CompileInto fills it, reusing the arena
// across compilations; until then the program matches nothing.
func NewProgram(capacity int) *Program {
	return &Program{
		insts: make([]Inst, 0, capacity),
		cfg:   DefaultConfig(),
	}
}

// Assemble builds a program directly from an instruction table, as
// written down by generated matchers. The table is validated up front so
// that a malformed generated program fails loudly at construction rather
// than as a fault on every search. Assemble takes ownership of insts.
func Assemble(insts []Inst, numCaptures int) (*Program, error) {
	return AssembleConfig(insts, numCaptures, DefaultConfig())
}

// AssembleConfig is Assemble with an explicit configuration.
func AssembleConfig(insts []Inst, numCaptures int, cfg Config) (*Program, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if numCaptures < 0 {
		return nil, &AssembleError{ID: InvalidInst, Message: "negative capture count"}
	}
	if len(insts) == 0 {
		return nil, &AssembleError{ID: InvalidInst, Message: "empty instruction table"}
	}
	if err := validate(insts, numCaptures); err != nil {
		return nil, err
	}
	p := &Program{
		insts:   insts,
		numCaps: numCaptures,
		cfg:     cfg,
	}
	p.setFlags()
	return p, nil
}

// MustAssemble is like Assemble but panics on error. It simplifies safe
// initialization of generated program variables.
func MustAssemble(insts []Inst, numCaptures int) *Program {
	p, err := Assemble(insts, numCaptures)
	if err != nil {
		panic("vm: MustAssemble: " + err.Error())
	}
	return p
}

func validate(insts []Inst, numCaptures int) error {
	n := len(insts)
	// uint64 comparisons so ids beyond the 32-bit int range cannot slip
	// through on 32-bit platforms.
	inRange := func(id InstID) bool { return uint64(id) < uint64(n) }
	sawMatch := false
	for i := range insts {
		id := InstID(i)
		inst := &insts[i]
		switch inst.Op {
		case OpLiteral, OpAny, OpAnchorStart, OpAnchorEnd:
		case OpMatch:
			sawMatch = true
		case OpClass:
			if inst.Class == nil {
				return &AssembleError{ID: id, Message: "class instruction without a class"}
			}
		case OpGroupStart, OpGroupEnd:
			if uint64(inst.Group) >= uint64(numCaptures) {
				return &AssembleError{ID: id, Message: fmt.Sprintf("capture group %d out of range", inst.Group)}
			}
		case OpJump:
			if !inRange(inst.X) {
				return &AssembleError{ID: id, Message: "jump target out of range"}
			}
		case OpBranch:
			if len(inst.Alts) == 0 {
				return &AssembleError{ID: id, Message: "branch without alternatives"}
			}
			for _, alt := range inst.Alts {
				if !inRange(alt) {
					return &AssembleError{ID: id, Message: "branch target out of range"}
				}
			}
		case OpLoop:
			if !inRange(inst.X) || !inRange(inst.Y) {
				return &AssembleError{ID: id, Message: "loop target out of range"}
			}
		case OpLoopEnd:
			if !inRange(inst.X) || insts[inst.X].Op != OpLoop {
				return &AssembleError{ID: id, Message: "loopend does not point at a loop head"}
			}
		case OpRepeat:
			if inst.Max != Unbounded && inst.Min > inst.Max {
				return &AssembleError{ID: id, Message: "repeat bounds reversed"}
			}
			if i+1 >= n || !insts[i+1].consumes() {
				return &AssembleError{ID: id, Message: "repeat body must be a single consuming instruction"}
			}
		default:
			return &AssembleError{ID: id, Message: "unknown opcode " + inst.Op.String()}
		}
	}
	if !sawMatch {
		return &AssembleError{ID: InvalidInst, Message: "no match instruction"}
	}
	return nil
}

// setFlags derives the anchoring summary the search loop consults.
func (p *Program) setFlags() {
	p.anchoredStart = len(p.insts) > 0 && p.insts[0].Op == OpAnchorStart
	p.anchoredEnd = false
	for i := range p.insts {
		if p.insts[i].Op == OpAnchorEnd {
			p.anchoredEnd = true
			break
		}
	}
}

// Pattern returns the source pattern the program was compiled from, or
// "" for assembled programs.
func (p *Program) Pattern() string {
	if p == nil {
		return ""
	}
	return p.pattern
}

// NumCaptures returns the number of capture groups in the program.
func (p *Program) NumCaptures() int {
	if p == nil {
		return 0
	}
	return p.numCaps
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.insts)
}

// Inst returns the instruction at id. Out of range ids return the zero
// Inst, whose opcode is OpInvalid.
func (p *Program) Inst(id InstID) Inst {
	if p == nil || uint64(id) >= uint64(len(p.insts)) {
		return Inst{}
	}
	return p.insts[id]
}

// Capacity returns the size of the instruction arena. For programs built
// by NewProgram this is the limit CompileInto compiles against.
func (p *Program) Capacity() int {
	if p == nil {
		return 0
	}
	return cap(p.insts)
}

// Instructions returns a copy of the instruction table. Generators feed
// it back through Assemble after writing it down as source.
func (p *Program) Instructions() []Inst {
	if p == nil {
		return nil
	}
	return append([]Inst(nil), p.insts...)
}

// AnchoredStart reports whether every match must begin at offset 0.
func (p *Program) AnchoredStart() bool {
	return p != nil && p.anchoredStart
}

// AnchoredEnd reports whether the program asserts the subject end.
func (p *Program) AnchoredEnd() bool {
	return p != nil && p.anchoredEnd
}

// SetPrefilter installs a candidate filter consulted by unanchored
// searches. A nil filter removes acceleration. The caller must not
// install a filter that can skip genuine match starts.
func (p *Program) SetPrefilter(pf Prefilter) {
	if p == nil {
		return
	}
	p.prefilter = pf
}

// Release drops the instruction arena. The program afterwards matches
// nothing; concurrent searches that already started keep their own view
// and finish normally. Releasing a nil or already released program is a
// no-op.
func (p *Program) Release() {
	if p == nil {
		return
	}
	p.insts = nil
	p.prefilter = nil
}

// String renders the program as a numbered instruction listing.
func (p *Program) String() string {
	if p == nil {
		return "<nil>"
	}
	var b strings.Builder
	for i := range p.insts {
		fmt.Fprintf(&b, "%3d: %s\n", i, p.insts[i].String())
	}
	return b.String()
}
