// Package literal provides types and operations for extracting literal byte
// sequences from parsed patterns.
//
// The primary use case is prefilter construction: by extracting the literal
// strings a pattern must contain (e.g. "hello" from /hello.*world/), a
// searcher can skip ahead to candidate positions with fast byte scans before
// running the full backtracking engine.
//
// Key concepts:
//   - A Literal is a concrete byte sequence that may begin, end or occur in
//     matches. Its Complete flag records whether the literal on its own is a
//     full match of the analyzed expression.
//   - A Seq is an ordered set of alternative literals, in the pattern's
//     preference order. A non-empty Seq is a guarantee: every match of the
//     analyzed expression starts with (or ends with, or contains) one of its
//     literals.
package literal

import (
	"bytes"
	"sort"
)

// Literal represents a literal byte sequence extracted from a pattern.
// The Complete flag indicates whether this literal is an entire match on its
// own (true) or just a necessary fragment of potential matches (false).
//
// Example:
//   - Pattern /hello/ → Literal{[]byte("hello"), true}
//   - Pattern /hello.*world/ → Literal{[]byte("hello"), false} (prefix only)
type Literal struct {
	// Bytes contains the literal byte sequence.
	Bytes []byte

	// Complete indicates whether this literal represents an entire match.
	// If true, an occurrence of this literal is itself a match and no
	// engine verification is needed. If false, the literal is only a
	// necessary fragment.
	Complete bool
}

// NewLiteral creates a Literal from the given byte sequence and
// completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a debug representation of the literal.
// Format: "literal{bytes, complete=true/false}"
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq represents a sequence of alternative literals, ordered by the
// pattern's preference. Extraction produces one Seq per question asked of a
// pattern (prefixes, suffixes, inner fragments); an empty Seq means the
// question has no usable answer, never that the pattern matches nothing.
//
// Operations:
//   - Minimize: remove redundant literals ("foo" makes "foobar" redundant
//     for occurrence scanning)
//   - LongestCommonPrefix / LongestCommonSuffix: shared fragments, useful
//     when a single probe should stand in for the whole set
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("bar"), true),
//	)
//	fmt.Println(seq.Len()) // Output: 2
type Seq struct {
	literals []Literal
}

// NewSeq creates a sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// AllComplete returns true if every literal in the sequence is a complete
// match on its own. It is false for an empty sequence.
func (s *Seq) AllComplete() bool {
	if s.IsEmpty() {
		return false
	}
	for _, lit := range s.literals {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// HasEmpty returns true if any literal in the sequence has no bytes.
// An empty literal carries no scanning power: a filter built from such a
// sequence would have to pass every position.
func (s *Seq) HasEmpty() bool {
	if s == nil {
		return false
	}
	for _, lit := range s.literals {
		if len(lit.Bytes) == 0 {
			return true
		}
	}
	return false
}

// MinLen returns the length of the shortest literal in the sequence, or 0
// if the sequence is empty. This is the strongest length guarantee a filter
// built from the sequence can promise.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	min := len(s.literals[0].Bytes)
	for _, lit := range s.literals[1:] {
		if len(lit.Bytes) < min {
			min = len(lit.Bytes)
		}
	}
	return min
}

// Clone returns a deep copy of the sequence.
// All literals and their byte slices are duplicated.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}

	cloned := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		bytesCopy := make([]byte, len(lit.Bytes))
		copy(bytesCopy, lit.Bytes)
		cloned[i] = Literal{
			Bytes:    bytesCopy,
			Complete: lit.Complete,
		}
	}

	return &Seq{literals: cloned}
}

// Minimize removes redundant literals from the sequence.
//
// For occurrence scanning, a literal L is redundant if a shorter literal S
// is a prefix of L: any position where L occurs is a position where S
// occurs. In ["foo", "foobar"], "foo" makes "foobar" redundant.
//
// Minimize reorders the sequence by length, so it discards preference
// order. Use it on a Clone when the original order still matters.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("foobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	// Shortest first, so prefixes are seen before what they subsume.
	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for _, k := range kept {
			if isPrefix(k.Bytes, current.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}

	s.literals = kept
}

// LongestCommonPrefix returns the longest common prefix of all literals in
// the sequence. If the sequence is empty or has no common prefix, returns
// an empty slice.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("hello"), true),
//	    literal.NewLiteral([]byte("help"), true),
//	    literal.NewLiteral([]byte("hero"), true),
//	)
//	fmt.Println(string(seq.LongestCommonPrefix())) // Output: he
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}

	prefix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		prefix = commonPrefix(prefix, s.literals[i].Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}

	result := make([]byte, len(prefix))
	copy(result, prefix)
	return result
}

// LongestCommonSuffix returns the longest common suffix of all literals in
// the sequence. If the sequence is empty or has no common suffix, returns
// an empty slice.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("cat"), true),
//	    literal.NewLiteral([]byte("bat"), true),
//	    literal.NewLiteral([]byte("rat"), true),
//	)
//	fmt.Println(string(seq.LongestCommonSuffix())) // Output: at
func (s *Seq) LongestCommonSuffix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}

	suffix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		suffix = commonSuffix(suffix, s.literals[i].Bytes)
		if len(suffix) == 0 {
			return []byte{}
		}
	}

	result := make([]byte, len(suffix))
	copy(result, suffix)
	return result
}

// String returns a debug representation of the sequence.
func (s *Seq) String() string {
	if s.IsEmpty() {
		return "seq{}"
	}
	var b bytes.Buffer
	b.WriteString("seq{")
	for i, lit := range s.literals {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(lit.String())
	}
	b.WriteString("}")
	return b.String()
}

// isPrefix returns true if prefix is a prefix of s.
func isPrefix(prefix, s []byte) bool {
	if len(prefix) > len(s) {
		return false
	}
	return bytes.Equal(prefix, s[:len(prefix)])
}

// commonPrefix returns the longest common prefix of a and b.
func commonPrefix(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// commonSuffix returns the longest common suffix of a and b.
func commonSuffix(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[len(a)-1-i] != b[len(b)-1-i] {
			return a[len(a)-i:]
		}
	}
	return a[len(a)-n:]
}
