// Package regex provides a byte-oriented regular expression engine
// whose compiled programs can live in caller-owned storage.
//
// Patterns compile to a fixed instruction arena executed by an
// iterative backtracking matcher:
//   - Backtracking runs on an explicit choice-point stack, never the
//     goroutine stack, so deeply nested patterns cannot overflow it
//   - Compilation is atomic; a failed compile leaves no partial program
//   - Unanchored searches skip ahead with SWAR literal scanners and an
//     Aho-Corasick automaton selected from literals extracted out of
//     the pattern
//   - A corrupted program fails its search with a logged diagnostic
//     instead of crashing the process
//
// The dialect is byte-level: classes, escapes and the dot speak bytes,
// not runes. It covers literals, `.` (any byte, newline included),
// `[...]` classes with ranges and negation, the `\d \w \s` meta-class
// families, `\HH` two-hex-digit byte escapes, alternation, capturing
// groups, the `* + ?` quantifiers with lazy `*? +? ??` variants, and
// the `^ $` anchors, which bind only at the very start and end of the
// pattern. Alternation is first-match: earlier branches win even when
// a later branch could match more. Braces carry no repetition syntax
// and match themselves.
//
// Basic usage:
//
//	re, err := regex.Compile(`[0-9]+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re.Match([]byte("agent 007"))        // true
//	re.FindString("agent 007")           // "007"
//
// Programs can also be compiled into preallocated storage and reused
// across patterns without further allocation:
//
//	prog := regex.NewProgram(256)
//	if regex.ParseInto(prog, []byte(`key=[a-z]+`)) {
//	    regex.Match(prog, []byte("key=abc"), nil)
//	}
//	regex.Release(prog)
//
// The convenience surface mirrors stdlib regexp where the dialect
// allows, so most call sites port by swapping the import.
package regex

import (
	"bytes"

	"github.com/zhangjinde/foundation-regex/literal"
	"github.com/zhangjinde/foundation-regex/prefilter"
	"github.com/zhangjinde/foundation-regex/syntax"
	"github.com/zhangjinde/foundation-regex/vm"
)

// Span is a half-open byte range [Start, End) in a subject. The unset
// sentinel is {-1, -1}, reported for capture groups the winning path
// never entered.
type Span = vm.Span

// Config controls compilation limits and matcher behavior. The zero
// value uses the package defaults.
type Config = vm.Config

// Regex is a compiled regular expression.
//
// A Regex is safe for concurrent use by multiple goroutines. Each match
// call draws its own scratch state from a pool, so no locking is
// involved beyond the pool itself.
type Regex struct {
	prog *vm.Program
}

// Regexp is an alias for Regex so that code written against stdlib
// regexp can switch imports without renaming its types.
type Regexp = Regex

// Compile compiles a pattern into a ready-to-use Regex.
//
// Compilation is all-or-nothing: on error no program exists and the
// returned Regex is nil.
//
// Example:
//
//	re, err := regex.Compile(`\d\d\d-\d\d\d\d`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, vm.DefaultConfig())
}

// MustCompile is Compile for patterns known to be valid at program
// start; it panics on error.
//
// Example:
//
//	var ident = regex.MustCompile(`[A-Za-z_]\w*`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("regex: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern under an explicit configuration,
// for callers that want a step budget, a different program size cap or
// their own fault logger.
//
// Example:
//
//	cfg := regex.DefaultConfig()
//	cfg.MaxSteps = 1 << 20
//	re, err := regex.CompileWithConfig(`(a*)*b`, cfg)
func CompileWithConfig(pattern string, cfg Config) (*Regex, error) {
	prog, err := vm.CompileConfig(pattern, cfg)
	if err != nil {
		return nil, err
	}
	attachPrefilter(prog, pattern)
	return &Regex{prog: prog}, nil
}

// DefaultConfig returns the configuration Compile uses, as a starting
// point for CompileWithConfig.
func DefaultConfig() Config {
	return vm.DefaultConfig()
}

// attachPrefilter derives a literal scanner from the pattern and wires
// it into the program. Best effort: when extraction finds nothing worth
// scanning for, the program searches unfiltered.
func attachPrefilter(prog *vm.Program, pattern string) {
	re, err := syntax.Parse(pattern)
	if err != nil {
		return
	}
	ex := literal.New(literal.DefaultConfig())
	b := prefilter.NewBuilder(ex.ExtractPrefixes(re), ex.ExtractSuffixes(re), ex.ExtractInner(re)).
		Anchored(prog.AnchoredStart(), prog.AnchoredEnd())
	if lo, hi, ok := literal.LeadingClassRange(re); ok {
		b.LeadingRange(lo, hi)
	}
	if pf := b.Build(); pf != nil {
		prog.SetPrefilter(pf)
	}
}

// NewProgram allocates an empty program whose instruction arena holds
// capacity instructions. ParseInto fills it; until then it matches
// nothing.
func NewProgram(capacity int) *vm.Program {
	return vm.NewProgram(capacity)
}

// ParseInto compiles pattern into a caller-owned program, reusing its
// arena. The arena capacity is the size limit: patterns that do not fit
// fail. It reports false on any failure and leaves the target empty
// rather than partially filled, so a failed parse cannot produce a
// program that half-matches.
//
// Example:
//
//	prog := regex.NewProgram(128)
//	for _, pat := range patterns {
//	    if !regex.ParseInto(prog, pat) {
//	        continue
//	    }
//	    // use prog
//	}
func ParseInto(prog *vm.Program, pattern []byte) bool {
	if prog == nil {
		return false
	}
	pat := string(pattern)
	if !vm.CompileInto(pat, prog) {
		return false
	}
	attachPrefilter(prog, pat)
	return true
}

// Match runs a compiled program against subject from offset 0, filling
// caps with the capture table on success. A nil program matches
// everything, including an empty subject; an empty or released program
// matches nothing.
func Match(prog *vm.Program, subject []byte, caps []Span) bool {
	return prog.Match(subject, caps)
}

// MatchAt is Match starting the search at the given byte offset.
func MatchAt(prog *vm.Program, subject []byte, start int, caps []Span) bool {
	return prog.MatchAt(subject, start, caps)
}

// Release drops a program's instruction storage. The program afterwards
// matches nothing; releasing nil or releasing twice is a no-op.
func Release(prog *vm.Program) {
	prog.Release()
}

// QuoteMeta returns a string that escapes all pattern metacharacters in
// text; the result is a pattern matching the literal text.
//
// Example:
//
//	re := regex.MustCompile(regex.QuoteMeta("1+1"))
//	re.MatchString("1+1") // true
//	re.MatchString("111") // false
func QuoteMeta(text string) string {
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(text); i++ {
		if isSpecial(text[i], special) {
			n++
		}
	}
	if n == 0 {
		return text
	}

	buf := make([]byte, len(text)+n)
	j := 0
	for i := 0; i < len(text); i++ {
		if isSpecial(text[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = text[i]
		j++
	}
	return string(buf)
}

func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

// Match reports whether b contains any match of the pattern.
func (r *Regex) Match(b []byte) bool {
	return r.prog.Match(b, nil)
}

// MatchString reports whether s contains any match of the pattern.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// MatchAt reports whether subject contains a match beginning at or
// after start, filling caps with the capture table on success. Capture
// slots beyond len(caps) are simply not reported; extra slots beyond
// the pattern's group count are left untouched.
func (r *Regex) MatchAt(subject []byte, start int, caps []Span) bool {
	return r.prog.MatchAt(subject, start, caps)
}

// Find returns the text of the leftmost match in b, or nil if there is
// no match.
//
// Example:
//
//	re := regex.MustCompile(`[0-9]+`)
//	re.Find([]byte("age: 42")) // []byte("42")
func (r *Regex) Find(b []byte) []byte {
	span, ok := r.prog.Find(b, 0, nil)
	if !ok {
		return nil
	}
	return b[span.Start:span.End]
}

// FindString returns the text of the leftmost match in s. The empty
// string means no match, or an empty match; use FindStringIndex to tell
// them apart.
func (r *Regex) FindString(s string) string {
	b := []byte(s)
	span, ok := r.prog.Find(b, 0, nil)
	if !ok {
		return ""
	}
	return s[span.Start:span.End]
}

// FindIndex returns the location of the leftmost match in b as the pair
// [start, end), or nil if there is no match.
func (r *Regex) FindIndex(b []byte) []int {
	span, ok := r.prog.Find(b, 0, nil)
	if !ok {
		return nil
	}
	return []int{span.Start, span.End}
}

// FindStringIndex is FindIndex on a string subject.
func (r *Regex) FindStringIndex(s string) []int {
	return r.FindIndex([]byte(s))
}

// FindSubmatchIndex returns the locations of the leftmost match and its
// capture groups as the flat list [s0 e0 s1 e1 ...], where pair 0 is
// the whole match and pair i+1 is group i. Groups the winning path
// never entered report -1 -1. Returns nil if there is no match.
//
// Example:
//
//	re := regex.MustCompile(`(\w+)=(\w+)`)
//	re.FindSubmatchIndex([]byte("a=b")) // [0 3 0 1 2 3]
func (r *Regex) FindSubmatchIndex(b []byte) []int {
	caps := make([]Span, r.prog.NumCaptures())
	span, ok := r.prog.Find(b, 0, caps)
	if !ok {
		return nil
	}
	out := make([]int, 0, 2+2*len(caps))
	out = append(out, span.Start, span.End)
	for _, c := range caps {
		out = append(out, c.Start, c.End)
	}
	return out
}

// FindSubmatch returns the text of the leftmost match and its capture
// groups; index 0 is the whole match and index i+1 is group i. Unset
// groups are nil entries. Returns nil if there is no match.
func (r *Regex) FindSubmatch(b []byte) [][]byte {
	idx := r.FindSubmatchIndex(b)
	if idx == nil {
		return nil
	}
	out := make([][]byte, len(idx)/2)
	for i := range out {
		if s := idx[2*i]; s >= 0 {
			out[i] = b[s:idx[2*i+1]]
		}
	}
	return out
}

// FindStringSubmatch is FindSubmatch on a string subject. Unset groups
// are empty strings.
func (r *Regex) FindStringSubmatch(s string) []string {
	b := []byte(s)
	idx := r.FindSubmatchIndex(b)
	if idx == nil {
		return nil
	}
	out := make([]string, len(idx)/2)
	for i := range out {
		if start := idx[2*i]; start >= 0 {
			out[i] = s[start:idx[2*i+1]]
		}
	}
	return out
}

// FindAllIndex returns the locations of all successive non-overlapping
// matches in b. If n > 0 it returns at most n matches; n <= 0 means all
// of them. An empty match advances the search by one byte so the scan
// always terminates, and an empty match at the position where the
// previous match ended is dropped, as in stdlib regexp.
//
// Example:
//
//	re := regex.MustCompile(`[0-9]+`)
//	re.FindAllIndex([]byte("1 22 3"), -1) // [[0 1] [2 4] [5 6]]
func (r *Regex) FindAllIndex(b []byte, n int) [][]int {
	if n == 0 {
		return nil
	}
	var out [][]int
	prevEnd := -1
	for pos := 0; pos <= len(b); {
		span, ok := r.prog.Find(b, pos, nil)
		if !ok {
			break
		}
		if span.End == span.Start {
			if span.Start != prevEnd {
				out = append(out, []int{span.Start, span.End})
			}
			pos = span.End + 1
		} else {
			out = append(out, []int{span.Start, span.End})
			pos = span.End
		}
		prevEnd = span.End
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// FindAll returns the text of all successive non-overlapping matches in
// b, at most n of them when n > 0.
func (r *Regex) FindAll(b []byte, n int) [][]byte {
	idx := r.FindAllIndex(b, n)
	if idx == nil {
		return nil
	}
	out := make([][]byte, len(idx))
	for i, loc := range idx {
		out[i] = b[loc[0]:loc[1]]
	}
	return out
}

// FindAllString returns the text of all successive non-overlapping
// matches in s, at most n of them when n > 0.
//
// Example:
//
//	re := regex.MustCompile(`[0-9]+`)
//	re.FindAllString("1 22 3", -1) // ["1", "22", "3"]
func (r *Regex) FindAllString(s string, n int) []string {
	idx := r.FindAllIndex([]byte(s), n)
	if idx == nil {
		return nil
	}
	out := make([]string, len(idx))
	for i, loc := range idx {
		out[i] = s[loc[0]:loc[1]]
	}
	return out
}

// FindAllStringIndex is FindAllIndex on a string subject.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	return r.FindAllIndex([]byte(s), n)
}

// FindAllSubmatchIndex returns capture locations for all successive
// non-overlapping matches in b, each row laid out as in
// FindSubmatchIndex. At most n rows when n > 0.
func (r *Regex) FindAllSubmatchIndex(b []byte, n int) [][]int {
	if n == 0 {
		return nil
	}
	var out [][]int
	caps := make([]Span, r.prog.NumCaptures())
	prevEnd := -1
	for pos := 0; pos <= len(b); {
		span, ok := r.prog.Find(b, pos, caps)
		if !ok {
			break
		}
		if span.End > span.Start || span.Start != prevEnd {
			row := make([]int, 0, 2+2*len(caps))
			row = append(row, span.Start, span.End)
			for _, c := range caps {
				row = append(row, c.Start, c.End)
			}
			out = append(out, row)
		}
		if span.End == span.Start {
			pos = span.End + 1
		} else {
			pos = span.End
		}
		prevEnd = span.End
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// FindAllSubmatch returns the text of all successive non-overlapping
// matches and their capture groups, each row laid out as in
// FindSubmatch. At most n rows when n > 0.
func (r *Regex) FindAllSubmatch(b []byte, n int) [][][]byte {
	idx := r.FindAllSubmatchIndex(b, n)
	if idx == nil {
		return nil
	}
	out := make([][][]byte, len(idx))
	for i, row := range idx {
		groups := make([][]byte, len(row)/2)
		for j := range groups {
			if s := row[2*j]; s >= 0 {
				groups[j] = b[s:row[2*j+1]]
			}
		}
		out[i] = groups
	}
	return out
}

// FindAllStringSubmatch is FindAllSubmatch on a string subject. Unset
// groups are empty strings.
func (r *Regex) FindAllStringSubmatch(s string, n int) [][]string {
	idx := r.FindAllSubmatchIndex([]byte(s), n)
	if idx == nil {
		return nil
	}
	out := make([][]string, len(idx))
	for i, row := range idx {
		groups := make([]string, len(row)/2)
		for j := range groups {
			if start := row[2*j]; start >= 0 {
				groups[j] = s[start:row[2*j+1]]
			}
		}
		out[i] = groups
	}
	return out
}

// FindAllStringSubmatchIndex is FindAllSubmatchIndex on a string
// subject.
func (r *Regex) FindAllStringSubmatchIndex(s string, n int) [][]int {
	return r.FindAllSubmatchIndex([]byte(s), n)
}

// ReplaceAllLiteral returns a copy of src with every match replaced by
// repl. The replacement is inserted verbatim, without $ expansion.
func (r *Regex) ReplaceAllLiteral(src, repl []byte) []byte {
	idx := r.FindAllIndex(src, -1)
	if len(idx) == 0 {
		return append([]byte(nil), src...)
	}
	out := make([]byte, 0, len(src))
	last := 0
	for _, loc := range idx {
		out = append(out, src[last:loc[0]]...)
		out = append(out, repl...)
		last = loc[1]
	}
	return append(out, src[last:]...)
}

// ReplaceAllLiteralString is ReplaceAllLiteral on string arguments.
func (r *Regex) ReplaceAllLiteralString(src, repl string) string {
	return string(r.ReplaceAllLiteral([]byte(src), []byte(repl)))
}

// ReplaceAll returns a copy of src with every match replaced by repl.
// Inside repl, $0 expands to the whole match and $1 through $9 to the
// corresponding capture group; $$ inserts a literal dollar sign. An
// unset group expands to nothing.
//
// Example:
//
//	re := regex.MustCompile(`(\w+)@(\w+)`)
//	re.ReplaceAll([]byte("joe@host"), []byte("$2/$1")) // "host/joe"
func (r *Regex) ReplaceAll(src, repl []byte) []byte {
	if bytes.IndexByte(repl, '$') < 0 {
		return r.ReplaceAllLiteral(src, repl)
	}

	caps := make([]Span, r.prog.NumCaptures())
	out := make([]byte, 0, len(src))
	last := 0
	for pos := 0; pos <= len(src); {
		span, ok := r.prog.Find(src, pos, caps)
		if !ok {
			break
		}
		out = append(out, src[last:span.Start]...)
		// No expansion for an empty match right where the previous
		// match ended; the position was already replaced once.
		if span.End > last || span.Start == 0 {
			out = expand(out, repl, src, span, caps)
		}
		last = span.End
		if span.End == span.Start {
			pos = span.End + 1
		} else {
			pos = span.End
		}
	}
	return append(out, src[last:]...)
}

// ReplaceAllString is ReplaceAll on string arguments.
//
// Example:
//
//	re := regex.MustCompile(`(\w+)@(\w+)`)
//	re.ReplaceAllString("joe@host", "$2/$1") // "host/joe"
func (r *Regex) ReplaceAllString(src, repl string) string {
	return string(r.ReplaceAll([]byte(src), []byte(repl)))
}

// expand appends repl to dst, substituting $0..$9 from the match and
// its capture table. ${name} syntax is not part of the dialect; a
// dollar sign that introduces no substitution is kept as is.
func expand(dst, repl, src []byte, m Span, caps []Span) []byte {
	for i := 0; i < len(repl); {
		if repl[i] != '$' || i+1 == len(repl) {
			dst = append(dst, repl[i])
			i++
			continue
		}
		switch c := repl[i+1]; {
		case c == '$':
			dst = append(dst, '$')
			i += 2
		case c >= '0' && c <= '9':
			g := m
			if c != '0' {
				k := int(c - '1')
				if k >= len(caps) {
					i += 2
					continue
				}
				g = caps[k]
			}
			if g.Start >= 0 {
				dst = append(dst, src[g.Start:g.End]...)
			}
			i += 2
		default:
			dst = append(dst, '$')
			i++
		}
	}
	return dst
}

// ReplaceAllFunc returns a copy of src with every match replaced by the
// return value of repl applied to the matched bytes. The replacement is
// inserted verbatim.
func (r *Regex) ReplaceAllFunc(src []byte, repl func([]byte) []byte) []byte {
	idx := r.FindAllIndex(src, -1)
	if len(idx) == 0 {
		return append([]byte(nil), src...)
	}
	out := make([]byte, 0, len(src))
	last := 0
	for _, loc := range idx {
		out = append(out, src[last:loc[0]]...)
		out = append(out, repl(src[loc[0]:loc[1]])...)
		last = loc[1]
	}
	return append(out, src[last:]...)
}

// ReplaceAllStringFunc is ReplaceAllFunc on string arguments.
func (r *Regex) ReplaceAllStringFunc(src string, repl func(string) string) string {
	return string(r.ReplaceAllFunc([]byte(src), func(m []byte) []byte {
		return []byte(repl(string(m)))
	}))
}

// Split slices s into the substrings between matches of the pattern and
// returns them. The count n works as in stdlib regexp: n > 0 yields at
// most n substrings with the unsplit remainder last, n == 0 yields nil,
// n < 0 yields them all.
//
// Example:
//
//	re := regex.MustCompile(`,`)
//	re.Split("a,b,c", -1) // ["a", "b", "c"]
//	re.Split("a,b,c", 2)  // ["a", "b,c"]
func (r *Regex) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}
	if len(s) == 0 && r.Pattern() != "" {
		return []string{""}
	}

	idx := r.FindAllStringIndex(s, n)
	out := make([]string, 0, len(idx)+1)
	beg, end := 0, 0
	for _, loc := range idx {
		if n > 0 && len(out) >= n-1 {
			break
		}
		end = loc[0]
		if loc[1] != 0 {
			out = append(out, s[beg:end])
		}
		beg = loc[1]
	}
	if end != len(s) {
		out = append(out, s[beg:])
	}
	return out
}

// Count returns the number of non-overlapping matches in b, at most n
// of them when n > 0. It walks the subject once without building result
// slices.
func (r *Regex) Count(b []byte, n int) int {
	count := 0
	prevEnd := -1
	for pos := 0; pos <= len(b); {
		span, ok := r.prog.Find(b, pos, nil)
		if !ok {
			break
		}
		if span.End > span.Start || span.Start != prevEnd {
			count++
		}
		if span.End == span.Start {
			pos = span.End + 1
		} else {
			pos = span.End
		}
		prevEnd = span.End
		if n > 0 && count >= n {
			break
		}
	}
	return count
}

// CountString is Count on a string subject.
func (r *Regex) CountString(s string, n int) int {
	return r.Count([]byte(s), n)
}

// NumCaptures returns the number of capture groups in the pattern.
func (r *Regex) NumCaptures() int {
	return r.prog.NumCaptures()
}

// Pattern returns the source text the Regex was compiled from.
func (r *Regex) Pattern() string {
	return r.prog.Pattern()
}

// String returns the source text of the pattern.
func (r *Regex) String() string {
	return r.prog.Pattern()
}

// Program exposes the underlying compiled program, for callers that mix
// the convenience surface with the program-level API.
func (r *Regex) Program() *vm.Program {
	return r.prog
}

// Stats returns a snapshot of the program's execution counters.
func (r *Regex) Stats() vm.Stats {
	return r.prog.Stats()
}

// ResetStats zeroes the program's execution counters.
func (r *Regex) ResetStats() {
	r.prog.ResetStats()
}

// Release drops the compiled program's instruction storage. The Regex
// afterwards matches nothing.
func (r *Regex) Release() {
	r.prog.Release()
}
