package literal

import (
	"github.com/zhangjinde/foundation-regex/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: bounds alternation fan-out like (a|b|c|d|...)
//   - MaxLiteralLen: bounds the length of each extracted literal
//   - MaxClassSize: bounds expansion of character classes like [abc]
type ExtractorConfig struct {
	// MaxLiterals limits how many alternative literals a sequence may
	// hold. Extraction gives up rather than drop alternatives, because a
	// sequence that misses one would skip genuine matches. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each extracted literal. Longer
	// literals are cut at this length and marked incomplete; a truncated
	// prefix is still a valid prefix. Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits how many distinct bytes a character class may
	// match and still be expanded into literals. [abc] expands to
	// "a", "b", "c"; [a-z] (26 bytes) does not expand under the default.
	// Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
//
// Defaults are tuned for typical patterns:
//   - MaxLiterals: 64 (handles most alternations without bloat)
//   - MaxLiteralLen: 64 (good cache locality for scanning)
//   - MaxClassSize: 10 (digits expand, [a-z] does not)
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// maxExtractDepth guards the recursive walk against pathological nesting.
// Patterns deeper than this simply lose literal acceleration.
const maxExtractDepth = 100

// Extractor extracts literal sequences from parsed patterns.
//
// It analyzes the syntax tree and answers three questions:
//   - Prefixes: literals one of which every match must start with
//   - Suffixes: literals one of which every match must end with
//   - Inner: literals one of which every match must contain
//
// Concatenations are folded one element at a time: a literal that is a
// complete match of the part analyzed so far is extended by the next
// element's literals, while an incomplete literal is carried along
// unchanged. This keeps the guarantee intact across optional elements:
//
//	"hello"    → prefixes ["hello"]
//	"(foo|bar)"→ prefixes ["foo", "bar"]
//	"a*bc"     → prefixes ["a", "bc"]
//	"ab?c"     → prefixes ["abc", "ac"]
//	".*foo"    → prefixes [""] (a match may start with anything)
//
// An empty result sequence means no guarantee could be established, never
// that the pattern matches nothing. A sequence holding an empty literal is
// a guarantee of the useless kind; callers weed those out with HasEmpty.
type Extractor struct {
	config ExtractorConfig
}

// New creates an Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// ExtractPrefixes extracts prefix literals from the parsed pattern.
// Every match of the pattern starts with one of the returned literals; a
// literal marked Complete is a full match on its own. Literals appear in
// the pattern's preference order.
//
// Examples:
//
//	"hello"        → ["hello"] (complete)
//	"hello.*world" → ["hello"] (incomplete)
//	"[abc]test"    → ["atest", "btest", "ctest"]
//	".*foo"        → [""] (no usable prefix)
//
// Returns an empty Seq if no prefix guarantee can be established.
func (e *Extractor) ExtractPrefixes(re *syntax.Regexp) *Seq {
	return e.prefixesOf(re, 0)
}

// prefixesOf is the recursive worker behind ExtractPrefixes.
func (e *Extractor) prefixesOf(re *syntax.Regexp, depth int) *Seq {
	if depth > maxExtractDepth {
		return NewSeq()
	}

	switch re.Op {
	case syntax.OpEmpty, syntax.OpBeginText, syntax.OpEndText:
		// Zero width. Anchoring is the caller's concern.
		return exactEmptySeq()

	case syntax.OpLiteral:
		return NewSeq(NewLiteral([]byte{re.Byte}, true))

	case syntax.OpClass:
		return e.expandClass(re.Class)

	case syntax.OpAnyByte:
		return NewSeq()

	case syntax.OpCapture:
		return e.prefixesOf(re.Sub[0], depth+1)

	case syntax.OpConcat:
		return e.foldPrefixes(re.Sub, depth)

	case syntax.OpAlternate:
		return e.unionOf(re.Sub, depth, e.prefixesOf)

	case syntax.OpRepeat:
		return e.repeatEnds(re, depth, e.prefixesOf)

	default:
		return NewSeq()
	}
}

// foldPrefixes builds the prefix sequence of a concatenation, extending
// complete literals element by element until nothing extendable remains.
func (e *Extractor) foldPrefixes(subs []*syntax.Regexp, depth int) *Seq {
	seq := exactEmptySeq()
	for _, sub := range subs {
		if !hasComplete(seq) {
			break
		}
		next := e.prefixesOf(sub, depth+1)
		if next.IsEmpty() {
			// Unknown continuation. What was gathered so far stays a
			// valid prefix, just not a complete match.
			markIncomplete(seq)
			break
		}
		crossed, ok := e.crossForward(seq, next)
		if !ok {
			markIncomplete(seq)
			break
		}
		seq = crossed
	}
	return seq
}

// crossForward appends each literal of next to each complete literal of
// seq, carrying incomplete literals through unchanged. It reports false
// when the product would exceed MaxLiterals.
func (e *Extractor) crossForward(seq, next *Seq) (*Seq, bool) {
	complete := 0
	for _, lit := range seq.literals {
		if lit.Complete {
			complete++
		}
	}
	size := len(seq.literals) - complete + complete*next.Len()
	if size > e.config.MaxLiterals {
		return nil, false
	}

	out := make([]Literal, 0, size)
	for _, lit := range seq.literals {
		if !lit.Complete {
			out = append(out, lit)
			continue
		}
		for _, nb := range next.literals {
			b := make([]byte, 0, len(lit.Bytes)+len(nb.Bytes))
			b = append(b, lit.Bytes...)
			b = append(b, nb.Bytes...)
			c := nb.Complete
			if len(b) > e.config.MaxLiteralLen {
				b = b[:e.config.MaxLiteralLen]
				c = false
			}
			out = append(out, Literal{Bytes: b, Complete: c})
		}
	}
	return NewSeq(out...), true
}

// ExtractSuffixes extracts suffix literals from the parsed pattern.
// Every match of the pattern ends with one of the returned literals.
// The analysis mirrors ExtractPrefixes from the right.
//
// Examples:
//
//	"world"        → ["world"] (complete)
//	"hello.*world" → ["world"] (incomplete)
//	"test[xy]"     → ["testx", "testy"]
//	"foo.*"        → [""] (no usable suffix)
//
// Returns an empty Seq if no suffix guarantee can be established.
func (e *Extractor) ExtractSuffixes(re *syntax.Regexp) *Seq {
	return e.suffixesOf(re, 0)
}

// suffixesOf is the recursive worker behind ExtractSuffixes.
func (e *Extractor) suffixesOf(re *syntax.Regexp, depth int) *Seq {
	if depth > maxExtractDepth {
		return NewSeq()
	}

	switch re.Op {
	case syntax.OpEmpty, syntax.OpBeginText, syntax.OpEndText:
		return exactEmptySeq()

	case syntax.OpLiteral:
		return NewSeq(NewLiteral([]byte{re.Byte}, true))

	case syntax.OpClass:
		return e.expandClass(re.Class)

	case syntax.OpAnyByte:
		return NewSeq()

	case syntax.OpCapture:
		return e.suffixesOf(re.Sub[0], depth+1)

	case syntax.OpConcat:
		return e.foldSuffixes(re.Sub, depth)

	case syntax.OpAlternate:
		return e.unionOf(re.Sub, depth, e.suffixesOf)

	case syntax.OpRepeat:
		return e.repeatEnds(re, depth, e.suffixesOf)

	default:
		return NewSeq()
	}
}

// foldSuffixes is the right-to-left counterpart of foldPrefixes.
func (e *Extractor) foldSuffixes(subs []*syntax.Regexp, depth int) *Seq {
	seq := exactEmptySeq()
	for i := len(subs) - 1; i >= 0; i-- {
		if !hasComplete(seq) {
			break
		}
		next := e.suffixesOf(subs[i], depth+1)
		if next.IsEmpty() {
			markIncomplete(seq)
			break
		}
		crossed, ok := e.crossBackward(seq, next)
		if !ok {
			markIncomplete(seq)
			break
		}
		seq = crossed
	}
	return seq
}

// crossBackward prepends each literal of next to each complete literal of
// seq. Truncation keeps the last MaxLiteralLen bytes, so a cut literal is
// still a valid suffix.
func (e *Extractor) crossBackward(seq, next *Seq) (*Seq, bool) {
	complete := 0
	for _, lit := range seq.literals {
		if lit.Complete {
			complete++
		}
	}
	size := len(seq.literals) - complete + complete*next.Len()
	if size > e.config.MaxLiterals {
		return nil, false
	}

	out := make([]Literal, 0, size)
	for _, lit := range seq.literals {
		if !lit.Complete {
			out = append(out, lit)
			continue
		}
		for _, nb := range next.literals {
			b := make([]byte, 0, len(nb.Bytes)+len(lit.Bytes))
			b = append(b, nb.Bytes...)
			b = append(b, lit.Bytes...)
			c := nb.Complete
			if len(b) > e.config.MaxLiteralLen {
				b = b[len(b)-e.config.MaxLiteralLen:]
				c = false
			}
			out = append(out, Literal{Bytes: b, Complete: c})
		}
	}
	return NewSeq(out...), true
}

// ExtractInner extracts inner literals from the parsed pattern: literals
// one of which every match must contain somewhere, regardless of position.
// Useful for patterns like ".*foo.*" where no prefix or suffix guarantee
// exists. Inner literals are never complete.
//
// Examples:
//
//	".*foo.*"           → ["foo"]
//	".*(hello|world).*" → ["hello", "world"]
//	"[a-z]+needle"      → ["needle"]
//
// Returns an empty Seq if no contained literal can be established.
func (e *Extractor) ExtractInner(re *syntax.Regexp) *Seq {
	seq := e.innerOf(re, 0)
	markIncomplete(seq)
	return seq
}

// innerOf is the recursive worker behind ExtractInner.
func (e *Extractor) innerOf(re *syntax.Regexp, depth int) *Seq {
	if depth > maxExtractDepth {
		return NewSeq()
	}

	switch re.Op {
	case syntax.OpLiteral:
		return NewSeq(NewLiteral([]byte{re.Byte}, true))

	case syntax.OpClass:
		return e.expandClass(re.Class)

	case syntax.OpCapture:
		return e.innerOf(re.Sub[0], depth+1)

	case syntax.OpAlternate:
		// Every branch must contribute, or a match through the silent
		// branch would contain none of the literals.
		return e.unionOf(re.Sub, depth, e.innerOf)

	case syntax.OpRepeat:
		if re.Min == 0 {
			return NewSeq()
		}
		return e.innerOf(re.Sub[0], depth+1)

	case syntax.OpConcat:
		return e.bestWindow(re.Sub, depth)

	default:
		// Zero-width elements and wildcards pin down no bytes.
		return NewSeq()
	}
}

// bestWindow folds prefixes starting at each run boundary of the
// concatenation and keeps the most selective result, judged by the length
// of the shortest literal.
func (e *Extractor) bestWindow(subs []*syntax.Regexp, depth int) *Seq {
	var best *Seq
	for i := range subs {
		if i > 0 && !e.prefixesOf(subs[i-1], depth+1).IsEmpty() {
			// Covered by the window starting further left.
			continue
		}
		cand := e.foldPrefixes(subs[i:], depth)
		if cand.IsEmpty() || cand.HasEmpty() {
			continue
		}
		if best == nil || cand.MinLen() > best.MinLen() {
			best = cand
		}
	}
	if best == nil {
		return NewSeq()
	}
	return best
}

// unionOf merges the extraction results of all alternatives. One branch
// without a result poisons the union: dropping a branch would break the
// every-match guarantee.
func (e *Extractor) unionOf(subs []*syntax.Regexp, depth int, extract func(*syntax.Regexp, int) *Seq) *Seq {
	var all []Literal
	for _, sub := range subs {
		seq := extract(sub, depth+1)
		if seq.IsEmpty() {
			return NewSeq()
		}
		if len(all)+seq.Len() > e.config.MaxLiterals {
			return NewSeq()
		}
		all = append(all, seq.literals...)
	}
	return NewSeq(all...)
}

// repeatEnds handles repetition for both prefix and suffix extraction;
// ends extracts from the body in the wanted direction.
func (e *Extractor) repeatEnds(re *syntax.Regexp, depth int, ends func(*syntax.Regexp, int) *Seq) *Seq {
	sub := ends(re.Sub[0], depth+1)
	if sub.IsEmpty() {
		return NewSeq()
	}

	if re.Min >= 1 {
		// At least one iteration runs, so the body's literals hold, but
		// further iterations may follow (or precede) them.
		if re.Max != 1 {
			markIncomplete(sub)
		}
		return sub
	}

	// Zero iterations allowed: the empty string joins the alternatives.
	// For a star the body literal may be followed by more iterations, so
	// it cannot stay complete; for a quest it can.
	if re.Max != 1 {
		markIncomplete(sub)
	}
	if sub.Len()+1 > e.config.MaxLiterals {
		return NewSeq()
	}
	empty := NewLiteral(nil, true)
	if re.Greedy {
		return NewSeq(append(append(make([]Literal, 0, sub.Len()+1), sub.literals...), empty)...)
	}
	return NewSeq(append(append(make([]Literal, 0, sub.Len()+1), empty), sub.literals...)...)
}

// expandClass expands a character class into one literal per matching
// byte, in byte order. Classes matching nothing or more than MaxClassSize
// bytes yield no literals.
func (e *Extractor) expandClass(cc *syntax.CharClass) *Seq {
	if cc == nil {
		return NewSeq()
	}

	count := 0
	for b := 0; b < 256; b++ {
		if cc.Matches(byte(b)) {
			count++
		}
	}
	if count == 0 || count > e.config.MaxClassSize {
		return NewSeq()
	}

	lits := make([]Literal, 0, count)
	for b := 0; b < 256; b++ {
		if cc.Matches(byte(b)) {
			lits = append(lits, NewLiteral([]byte{byte(b)}, true))
		}
	}
	return NewSeq(lits...)
}

// exactEmptySeq returns the identity of concatenation folding: a single
// empty literal that is a complete match of a zero-width expression.
func exactEmptySeq() *Seq {
	return NewSeq(NewLiteral(nil, true))
}

// hasComplete reports whether any literal in the sequence can still be
// extended.
func hasComplete(s *Seq) bool {
	for _, lit := range s.literals {
		if lit.Complete {
			return true
		}
	}
	return false
}

// markIncomplete clears the Complete flag on every literal in place.
func markIncomplete(s *Seq) {
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}
