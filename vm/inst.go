package vm

import (
	"strconv"

	"github.com/zhangjinde/foundation-regex/syntax"
)

// InstID identifies an instruction by its index in the program.
// This is a 32-bit unsigned integer for compact representation.
type InstID uint32

// InvalidInst represents an absent instruction reference.
const InvalidInst InstID = 0xFFFFFFFF

// Unbounded is the Max of a counted repetition with no upper limit.
const Unbounded = ^uint32(0)

// Op identifies the type of instruction and determines which operand
// fields are valid.
type Op uint8

const (
	// OpInvalid is the zero value. It is never emitted by the compiler;
	// executing one is a program fault.
	OpInvalid Op = iota

	// OpLiteral consumes one byte equal to Lit.
	OpLiteral

	// OpClass consumes one byte accepted by Class.
	OpClass

	// OpAny consumes any single byte.
	OpAny

	// OpGroupStart records the current position as the start of capture
	// group Group.
	OpGroupStart

	// OpGroupEnd records the current position as the end of capture
	// group Group.
	OpGroupEnd

	// OpJump continues at X without consuming input.
	OpJump

	// OpBranch tries each target in Alts in order, preferring earlier
	// ones.
	OpBranch

	// OpLoop heads an uncounted repetition: the body starts at X and the
	// exit continues at Y. Greedy loops prefer the body.
	OpLoop

	// OpLoopEnd closes one iteration of the loop headed at X. An
	// iteration that consumed nothing abandons the path instead of
	// looping forever.
	OpLoopEnd

	// OpRepeat runs the single consuming instruction at pc+1 between Min
	// and Max times. Greedy repeats prefer the longest run.
	OpRepeat

	// OpAnchorStart asserts the start of the subject.
	OpAnchorStart

	// OpAnchorEnd asserts the end of the subject.
	OpAnchorEnd

	// OpMatch accepts.
	OpMatch
)

var opNames = [...]string{
	OpInvalid:     "Invalid",
	OpLiteral:     "Literal",
	OpClass:       "Class",
	OpAny:         "Any",
	OpGroupStart:  "GroupStart",
	OpGroupEnd:    "GroupEnd",
	OpJump:        "Jump",
	OpBranch:      "Branch",
	OpLoop:        "Loop",
	OpLoopEnd:     "LoopEnd",
	OpRepeat:      "Repeat",
	OpAnchorStart: "AnchorStart",
	OpAnchorEnd:   "AnchorEnd",
	OpMatch:       "Match",
}

// String returns a human-readable representation of the Op.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// Inst is a single program instruction. Fields are exported so that
// generated programs can be written down as plain composite literals;
// which fields are meaningful depends on Op.
type Inst struct {
	Op     Op
	Greedy bool   // iteration preference for OpLoop and OpRepeat
	Lit    byte   // operand for OpLiteral
	Group  uint32 // capture index for OpGroupStart and OpGroupEnd

	// X and Y are instruction targets: the continuation for OpJump, the
	// body and exit for OpLoop, and the loop head (X only) for OpLoopEnd.
	X, Y InstID

	Min, Max uint32            // bounds for OpRepeat, Max == Unbounded if open
	Alts     []InstID          // targets for OpBranch, tried first to last
	Class    *syntax.CharClass // operand for OpClass
}

// String renders the instruction in assembly listing form.
func (i *Inst) String() string {
	switch i.Op {
	case OpInvalid:
		return "invalid"
	case OpLiteral:
		return "lit " + quoteByte(i.Lit)
	case OpClass:
		if i.Class == nil {
			return "class <nil>"
		}
		return "class " + i.Class.String()
	case OpAny:
		return "any"
	case OpGroupStart:
		return "group_start " + strconv.FormatUint(uint64(i.Group), 10)
	case OpGroupEnd:
		return "group_end " + strconv.FormatUint(uint64(i.Group), 10)
	case OpJump:
		return "jump " + strconv.FormatUint(uint64(i.X), 10)
	case OpBranch:
		s := "branch "
		for n, alt := range i.Alts {
			if n > 0 {
				s += ", "
			}
			s += strconv.FormatUint(uint64(alt), 10)
		}
		return s
	case OpLoop:
		s := "loop " + strconv.FormatUint(uint64(i.X), 10) +
			", " + strconv.FormatUint(uint64(i.Y), 10)
		if !i.Greedy {
			s += " lazy"
		}
		return s
	case OpLoopEnd:
		return "loopend " + strconv.FormatUint(uint64(i.X), 10)
	case OpRepeat:
		s := "repeat " + strconv.FormatUint(uint64(i.Min), 10) + ", "
		if i.Max == Unbounded {
			s += "inf"
		} else {
			s += strconv.FormatUint(uint64(i.Max), 10)
		}
		if !i.Greedy {
			s += " lazy"
		}
		return s
	case OpAnchorStart:
		return "anchor_start"
	case OpAnchorEnd:
		return "anchor_end"
	case OpMatch:
		return "match"
	}
	return i.Op.String()
}

// consumes reports whether the instruction advances the subject position
// when it succeeds. Only consuming instructions may serve as an OpRepeat
// body.
func (i *Inst) consumes() bool {
	switch i.Op {
	case OpLiteral, OpClass, OpAny:
		return true
	}
	return false
}

func quoteByte(b byte) string {
	if b > 0x20 && b < 0x7f && b != '\'' && b != '\\' {
		return "'" + string(b) + "'"
	}
	const hexDigits = "0123456789abcdef"
	return "0x" + string(hexDigits[b>>4]) + string(hexDigits[b&0xf])
}
