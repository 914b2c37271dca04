// Package syntax parses byte-oriented match patterns into a tree form
// consumed by the program compiler.
//
// The pattern language works on raw bytes, not runes:
//
//	.          any single byte
//	[...]      byte class: literals, lo-hi ranges, meta classes, ^ negation
//	\HH        byte with hex value HH (tried before any other escape form)
//	\s \S      whitespace / non-whitespace
//	\d \D      digit / non-digit
//	\w \W      word byte / non-word byte
//	\n \r \t \0  line feed, carriage return, tab, NUL
//	\c         any other escaped byte stands for itself
//	(...)      capturing group, numbered by opening order from 0
//	|          alternation, branches tried left to right
//	* + ?      greedy repetition of the preceding atom
//	*? +? ??   lazy repetition of the preceding atom
//	^ $        anchors, recognized only at the very pattern start/end
//
// Because the two-hex-digit escape is tried first, \dd denotes the byte
// 0xDD. Writing the digit class followed by a literal 'd' requires \d\64.
// Anywhere but the first or last pattern byte, ^ and $ match themselves.
package syntax

import "strconv"

// Op is the operator of a single Regexp node.
type Op uint8

const (
	OpEmpty     Op = iota // matches the empty string
	OpLiteral             // matches the single byte Byte
	OpAnyByte             // matches any single byte
	OpClass               // matches a byte accepted by Class
	OpCapture             // capturing group numbered Cap around Sub[0]
	OpConcat              // matches the concatenation of Sub
	OpAlternate           // matches one of Sub, preferring earlier branches
	OpRepeat              // matches Sub[0] between Min and Max times
	OpBeginText           // matches the empty string at the subject start
	OpEndText             // matches the empty string at the subject end
)

var opNames = []string{
	OpEmpty:     "Empty",
	OpLiteral:   "Literal",
	OpAnyByte:   "AnyByte",
	OpClass:     "Class",
	OpCapture:   "Capture",
	OpConcat:    "Concat",
	OpAlternate: "Alternate",
	OpRepeat:    "Repeat",
	OpBeginText: "BeginText",
	OpEndText:   "EndText",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// MaxUnbounded is the Max value of an OpRepeat node with no upper bound.
const MaxUnbounded = -1

// Regexp is a node in a parsed pattern tree.
type Regexp struct {
	Op     Op
	Sub    []*Regexp  // operands for OpConcat, OpAlternate, OpCapture, OpRepeat
	Byte   byte       // operand for OpLiteral
	Class  *CharClass // operand for OpClass
	Min    int        // OpRepeat lower bound
	Max    int        // OpRepeat upper bound, MaxUnbounded if none
	Greedy bool       // OpRepeat preference order
	Cap    int        // OpCapture group index
}

// NumCaptures returns the number of capturing groups in the tree.
// Group indices are assigned in opening order starting at 0, so the count
// is one more than the highest index present.
func (re *Regexp) NumCaptures() int {
	if re == nil {
		return 0
	}
	n := 0
	if re.Op == OpCapture && re.Cap+1 > n {
		n = re.Cap + 1
	}
	for _, sub := range re.Sub {
		if m := sub.NumCaptures(); m > n {
			n = m
		}
	}
	return n
}

// MetaClass is a bit set of the predefined byte classes an escape or a
// bracket expression can name.
type MetaClass uint8

const (
	MetaSpace    MetaClass = 1 << iota // \s
	MetaNonSpace                       // \S
	MetaDigit                          // \d
	MetaNonDigit                       // \D
	MetaWord                           // \w
	MetaNonWord                        // \W
)

// IsSpaceByte reports whether b is an ASCII whitespace byte.
func IsSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// IsDigitByte reports whether b is an ASCII digit.
func IsDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsWordByte reports whether b is an ASCII letter, digit or underscore.
func IsWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// Matches reports whether b belongs to any class named in the set.
func (m MetaClass) Matches(b byte) bool {
	if m&MetaSpace != 0 && IsSpaceByte(b) {
		return true
	}
	if m&MetaNonSpace != 0 && !IsSpaceByte(b) {
		return true
	}
	if m&MetaDigit != 0 && IsDigitByte(b) {
		return true
	}
	if m&MetaNonDigit != 0 && !IsDigitByte(b) {
		return true
	}
	if m&MetaWord != 0 && IsWordByte(b) {
		return true
	}
	if m&MetaNonWord != 0 && !IsWordByte(b) {
		return true
	}
	return false
}

var metaNames = [...]struct {
	flag MetaClass
	name string
}{
	{MetaSpace, `\s`},
	{MetaNonSpace, `\S`},
	{MetaDigit, `\d`},
	{MetaNonDigit, `\D`},
	{MetaWord, `\w`},
	{MetaNonWord, `\W`},
}

// ByteRange is an inclusive range of byte values. Single bytes are stored
// with Lo == Hi.
type ByteRange struct {
	Lo, Hi byte
}

// CharClass is the byte set accepted by an OpClass node: the union of the
// listed ranges and meta classes, optionally negated.
type CharClass struct {
	Ranges []ByteRange
	Meta   MetaClass
	Negate bool
}

// Matches reports whether the class accepts b.
func (c *CharClass) Matches(b byte) bool {
	in := c.Meta.Matches(b)
	if !in {
		for _, r := range c.Ranges {
			if b >= r.Lo && b <= r.Hi {
				in = true
				break
			}
		}
	}
	if c.Negate {
		return !in
	}
	return in
}

// String renders the class in bracket form, hex-escaping bytes that do
// not print cleanly. Used by program listings and diagnostics.
func (c *CharClass) String() string {
	buf := make([]byte, 0, 16)
	buf = append(buf, '[')
	if c.Negate {
		buf = append(buf, '^')
	}
	for _, r := range c.Ranges {
		buf = appendClassByte(buf, r.Lo)
		if r.Hi != r.Lo {
			buf = append(buf, '-')
			buf = appendClassByte(buf, r.Hi)
		}
	}
	for _, m := range metaNames {
		if c.Meta&m.flag != 0 {
			buf = append(buf, m.name...)
		}
	}
	buf = append(buf, ']')
	return string(buf)
}

func appendClassByte(buf []byte, b byte) []byte {
	if b > 0x20 && b < 0x7f && b != ']' && b != '\\' && b != '-' && b != '^' {
		return append(buf, b)
	}
	const hexDigits = "0123456789abcdef"
	return append(buf, '\\', 'x', hexDigits[b>>4], hexDigits[b&0xf])
}
