package literal

import (
	"fmt"
	"strings"
	"testing"

	"github.com/zhangjinde/foundation-regex/syntax"
)

func mustParse(t *testing.T, pattern string) *syntax.Regexp {
	t.Helper()
	re, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return re
}

// dumpSeq renders a sequence compactly for goldens: one quoted literal per
// entry, complete ones marked with a trailing bang.
func dumpSeq(s *Seq) string {
	if s.IsEmpty() {
		return "<none>"
	}
	parts := make([]string, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		lit := s.Get(i)
		p := fmt.Sprintf("%q", lit.Bytes)
		if lit.Complete {
			p += "!"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

func TestExtractPrefixes(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{`hello`, `"hello"!`},
		{``, `""!`},
		{`(foo|bar)`, `"foo"! "bar"!`},
		{`[abc]test`, `"atest"! "btest"! "ctest"!`},
		{`hello.*world`, `"hello"`},
		{`.*foo`, `""`},
		{`.+foo`, `""`},
		{`a*bc`, `"a" "bc"!`},
		{`a*?bc`, `"bc"! "a"`},
		{`a+bc`, `"a"`},
		{`ab?c`, `"abc"! "ac"!`},
		{`ab??c`, `"ac"! "abc"!`},
		{`(ab)+x`, `"ab"`},
		{`^foo`, `"foo"!`},
		{`foo$`, `"foo"!`},
		{`^`, `""!`},
		{`x(a|.)y`, `"x"`},
		{`(a|)x`, `"ax"! "x"!`},
		{`[xyz]`, `"x"! "y"! "z"!`},
		{`[^a]b`, `""`},
		{`\d`, `"0"! "1"! "2"! "3"! "4"! "5"! "6"! "7"! "8"! "9"!`},
		{`\d\d`, `"0" "1" "2" "3" "4" "5" "6" "7" "8" "9"`},
		{`\w`, `<none>`},
		{`(TEST\20REGEX)`, `"TEST REGEX"!`},
		{`matchthis(\s+|\S+)!`, `"matchthis"`},
	}

	e := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := dumpSeq(e.ExtractPrefixes(mustParse(t, tt.pattern)))
			if got != tt.want {
				t.Errorf("prefixes(%q) = %s, want %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestExtractPrefixesFanOutCap(t *testing.T) {
	// Seven optionals fan out to 128 combinations, past the 64 limit.
	// The fold must stop with the gathered alternatives intact rather
	// than drop any.
	e := New(DefaultConfig())
	seq := e.ExtractPrefixes(mustParse(t, `a?b?c?d?e?f?g?`))
	if seq.Len() != 64 {
		t.Fatalf("Len() = %d, want 64", seq.Len())
	}
	if seq.AllComplete() {
		t.Error("capped fold must not report complete literals")
	}
}

func TestExtractPrefixesLengthCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLiteralLen = 4
	e := New(cfg)
	seq := e.ExtractPrefixes(mustParse(t, `abcdefgh`))
	if got := dumpSeq(seq); got != `"abcd"` {
		t.Errorf("prefixes = %s, want \"abcd\"", got)
	}
}

func TestExtractSuffixes(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{`world`, `"world"!`},
		{`hello.*world`, `"world"`},
		{`test[xy]`, `"testx"! "testy"!`},
		{`foo.*`, `""`},
		{`foo(bar)?`, `"foobar"! "foo"!`},
		{`(foo|x)$`, `"foo"! "x"!`},
		{`a+`, `"a"`},
		{`x[0-9]`, `"x0"! "x1"! "x2"! "x3"! "x4"! "x5"! "x6"! "x7"! "x8"! "x9"!`},
	}

	e := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := dumpSeq(e.ExtractSuffixes(mustParse(t, tt.pattern)))
			if got != tt.want {
				t.Errorf("suffixes(%q) = %s, want %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestExtractSuffixesLengthCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLiteralLen = 4
	e := New(cfg)
	seq := e.ExtractSuffixes(mustParse(t, `abcdefgh`))
	if got := dumpSeq(seq); got != `"efgh"` {
		t.Errorf("suffixes = %s, want \"efgh\"", got)
	}
}

func TestExtractInner(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{`.*foo.*`, `"foo"`},
		{`.*(hello|world).*`, `"hello" "world"`},
		{`[a-z]+needle`, `"needle"`},
		{`foo`, `"foo"`},
		{`(a.c|x.z)`, `"a" "x"`},
		{`.*`, `<none>`},
		{`(foo)+bar`, `"foo"`},
		{`\w+@\w+`, `"@"`},
	}

	e := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := dumpSeq(e.ExtractInner(mustParse(t, tt.pattern)))
			if got != tt.want {
				t.Errorf("inner(%q) = %s, want %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestExtractInnerPicksMostSelectiveWindow(t *testing.T) {
	// "ab" before the wildcard, "wxyz" after it: the longer window wins.
	e := New(DefaultConfig())
	seq := e.ExtractInner(mustParse(t, `ab.*wxyz`))
	if got := dumpSeq(seq); got != `"wxyz"` {
		t.Errorf("inner = %s, want \"wxyz\"", got)
	}
}
