package syntax

import (
	"errors"
	"strings"
	"testing"
)

// dump renders a parse tree in a compact single-line form for golden
// comparisons, in the spirit of the stdlib regexp/syntax test helper.
func dump(re *Regexp) string {
	var b strings.Builder
	dumpRegexp(&b, re)
	return b.String()
}

func dumpRegexp(b *strings.Builder, re *Regexp) {
	switch re.Op {
	case OpEmpty:
		b.WriteString("emp{}")
	case OpLiteral:
		b.WriteString("lit{")
		writeDumpByte(b, re.Byte)
		b.WriteString("}")
	case OpAnyByte:
		b.WriteString("any{}")
	case OpClass:
		b.WriteString("cc{")
		b.WriteString(re.Class.String())
		b.WriteString("}")
	case OpCapture:
		b.WriteString("cap")
		b.WriteByte(byte('0' + re.Cap))
		b.WriteString("{")
		dumpRegexp(b, re.Sub[0])
		b.WriteString("}")
	case OpConcat, OpAlternate:
		if re.Op == OpConcat {
			b.WriteString("cat{")
		} else {
			b.WriteString("alt{")
		}
		for i, sub := range re.Sub {
			if i > 0 {
				b.WriteString(",")
			}
			dumpRegexp(b, sub)
		}
		b.WriteString("}")
	case OpRepeat:
		name := "rep"
		switch {
		case re.Min == 0 && re.Max == MaxUnbounded:
			name = "star"
		case re.Min == 1 && re.Max == MaxUnbounded:
			name = "plus"
		case re.Min == 0 && re.Max == 1:
			name = "quest"
		}
		if !re.Greedy {
			name = "n" + name
		}
		b.WriteString(name)
		b.WriteString("{")
		dumpRegexp(b, re.Sub[0])
		b.WriteString("}")
	case OpBeginText:
		b.WriteString("bot{}")
	case OpEndText:
		b.WriteString("eot{}")
	default:
		b.WriteString("op" + re.Op.String() + "{}")
	}
}

func writeDumpByte(b *strings.Builder, c byte) {
	if c > 0x20 && c < 0x7f && c != '\\' {
		b.WriteByte(c)
		return
	}
	const hexDigits = "0123456789abcdef"
	b.WriteString(`\x`)
	b.WriteByte(hexDigits[c>>4])
	b.WriteByte(hexDigits[c&0xf])
}

func mustParse(t *testing.T, pattern string) *Regexp {
	t.Helper()
	re, err := Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", pattern, err)
	}
	return re
}

func TestParse(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		// basics
		{``, `emp{}`},
		{`a`, `lit{a}`},
		{`ab`, `cat{lit{a},lit{b}}`},
		{`.`, `any{}`},
		{`a.c`, `cat{lit{a},any{},lit{c}}`},

		// alternation
		{`a|b`, `alt{lit{a},lit{b}}`},
		{`a|b|c`, `alt{lit{a},lit{b},lit{c}}`},
		{`ab|cd`, `alt{cat{lit{a},lit{b}},cat{lit{c},lit{d}}}`},
		{`a|`, `alt{lit{a},emp{}}`},
		{`|a`, `alt{emp{},lit{a}}`},

		// groups numbered in opening order
		{`(a)`, `cap0{lit{a}}`},
		{`(a)(b)`, `cat{cap0{lit{a}},cap1{lit{b}}}`},
		{`((a)b)`, `cap0{cat{cap1{lit{a}},lit{b}}}`},
		{`(a|b)`, `cap0{alt{lit{a},lit{b}}}`},
		{`()`, `cap0{emp{}}`},

		// quantifiers
		{`a*`, `star{lit{a}}`},
		{`a+`, `plus{lit{a}}`},
		{`a?`, `quest{lit{a}}`},
		{`a*?`, `nstar{lit{a}}`},
		{`a+?`, `nplus{lit{a}}`},
		{`a??`, `nquest{lit{a}}`},
		{`.*`, `star{any{}}`},
		{`(ab)+`, `plus{cap0{cat{lit{a},lit{b}}}}`},
		{`[ab]?`, `quest{cc{[ab]}}`},
		{`ab*c`, `cat{lit{a},star{lit{b}},lit{c}}`},

		// anchors are positional
		{`^`, `bot{}`},
		{`$`, `eot{}`},
		{`^a`, `cat{bot{},lit{a}}`},
		{`a$`, `cat{lit{a},eot{}}`},
		{`^a$`, `cat{bot{},lit{a},eot{}}`},
		{`a^b`, `cat{lit{a},lit{^},lit{b}}`},
		{`a$b`, `cat{lit{a},lit{$},lit{b}}`},
		{`$?`, `quest{lit{$}}`},

		// escapes: hex pair first, then meta, named controls, passthrough
		{`\n`, `lit{\x0a}`},
		{`\r`, `lit{\x0d}`},
		{`\t`, `lit{\x09}`},
		{`\0`, `lit{\x00}`},
		{`\d`, `cc{[\d]}`},
		{`\D`, `cc{[\D]}`},
		{`\s\S\w\W`, `cat{cc{[\s]},cc{[\S]},cc{[\w]},cc{[\W]}}`},
		{`\dd`, `lit{\xdd}`},
		{`\64`, `lit{d}`},
		{`\d\64`, `cat{cc{[\d]},lit{d}}`},
		{`\20`, `lit{\x20}`},
		{`\.`, `lit{.}`},
		{`\*`, `lit{*}`},
		{`\\`, `lit{\x5c}`},
		{`\d+`, `plus{cc{[\d]}}`},
		{`\6d`, `lit{m}`},

		// classes
		{`[abc]`, `cc{[abc]}`},
		{`[a-z]`, `cc{[a-z]}`},
		{`[a-zA-Z0-9]`, `cc{[a-zA-Z0-9]}`},
		{`[^ab]`, `cc{[^ab]}`},
		{`[]`, `cc{[]}`},
		{`[^]`, `cc{[^]}`},
		{`[a-]`, `cc{[a\x2d]}`},
		{`[-a]`, `cc{[\x2da]}`},
		{`[\d]`, `cc{[\d]}`},
		{`[\s\S]`, `cc{[\s\S]}`},
		{`[a\-z]`, `cc{[a\x2dz]}`},
		{`[\61-\7a]`, `cc{[a-z]}`},
		{`[]a]`, `cat{cc{[]},lit{a},lit{]}}`},
		{`[abcd\\]`, `cc{[abcd\x5c]}`},
		{`[ \n\r\0\S\s\d\\TESTREGEX]`, `cc{[\x20\x0a\x0d\x00\x5cTESTREGEX\s\S\d]}`},
		{`[^\s]`, `cc{[^\s]}`},

		// recovered end-to-end shapes
		{`^(a|b)$`, `cat{bot{},cap0{alt{lit{a},lit{b}}},eot{}}`},
		{`^a.b+?b\d\64+?e*$`, `cat{bot{},lit{a},any{},nplus{lit{b}},lit{b},cc{[\d]},nplus{lit{d}},star{lit{e}},eot{}}`},
		{`(\s+|\S+)`, `cap0{alt{plus{cc{[\s]}},plus{cc{[\S]}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := mustParse(t, tt.pattern)
			if got := dump(re); got != tt.want {
				t.Errorf("Parse(%q) =\n  %s\nwant:\n  %s", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		code    ErrorCode
	}{
		{`*`, ErrMissingRepeatArgument},
		{`*abc`, ErrMissingRepeatArgument},
		{`+a`, ErrMissingRepeatArgument},
		{`?a`, ErrMissingRepeatArgument},
		{`++??.+*?`, ErrMissingRepeatArgument},
		{`a**`, ErrMissingRepeatArgument},
		{`a*??`, ErrMissingRepeatArgument},
		{`a|*`, ErrMissingRepeatArgument},
		{`(*)`, ErrMissingRepeatArgument},
		{`^*`, ErrMissingRepeatArgument},
		{`(`, ErrMissingParen},
		{`(abc`, ErrMissingParen},
		{`(a|b`, ErrMissingParen},
		{`(())()(`, ErrMissingParen},
		{`)`, ErrUnexpectedParen},
		{`ab)`, ErrUnexpectedParen},
		{`(a))`, ErrUnexpectedParen},
		{`[`, ErrMissingBracket},
		{`[abc`, ErrMissingBracket},
		{`[^`, ErrMissingBracket},
		{`[\s][`, ErrMissingBracket},
		{`\`, ErrTrailingBackslash},
		{`ab\`, ErrTrailingBackslash},
		{`[ab\`, ErrTrailingBackslash},
		{`[z-a]`, ErrInvalidClassRange},
		{`[a-\s]`, ErrInvalidClassRange},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Parse(tt.pattern)
			if err == nil {
				t.Fatalf("Parse(%q) = %s, want error", tt.pattern, dump(re))
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error has type %T, want *Error", tt.pattern, err)
			}
			if perr.Code != tt.code {
				t.Errorf("Parse(%q) error code = %q, want %q", tt.pattern, perr.Code, tt.code)
			}
			if perr.Pattern != tt.pattern {
				t.Errorf("Parse(%q) error pattern = %q", tt.pattern, perr.Pattern)
			}
		})
	}
}

func TestParseNestingDepth(t *testing.T) {
	deep := strings.Repeat("(", maxNestingDepth+1) + "a" + strings.Repeat(")", maxNestingDepth+1)
	_, err := Parse(deep)
	var perr *Error
	if !errors.As(err, &perr) || perr.Code != ErrNestingDepth {
		t.Fatalf("Parse(deep nesting) error = %v, want %q", err, ErrNestingDepth)
	}

	ok := strings.Repeat("(", 50) + "a" + strings.Repeat(")", 50)
	if _, err := Parse(ok); err != nil {
		t.Fatalf("Parse(50 levels) failed: %v", err)
	}
}

func TestErrorMessage(t *testing.T) {
	_, err := Parse("(abc")
	if err == nil {
		t.Fatal("Parse(\"(abc\") succeeded, want error")
	}
	want := "error parsing pattern: missing closing ) at offset 0: `(abc`"
	if got := err.Error(); got != want {
		t.Errorf("error message = %q, want %q", got, want)
	}
}

func TestErrorPosition(t *testing.T) {
	tests := []struct {
		pattern string
		pos     int
	}{
		{`ab)`, 2},
		{`(abc`, 0},
		{`a**`, 2},
		{`abc\`, 3},
		{`a[z-a]`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Parse(tt.pattern)
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error = %v, want *Error", tt.pattern, err)
			}
			if perr.Pos != tt.pos {
				t.Errorf("Parse(%q) error pos = %d, want %d", tt.pattern, perr.Pos, tt.pos)
			}
		})
	}
}

func TestNumCaptures(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{``, 0},
		{`abc`, 0},
		{`(a)`, 1},
		{`(a)(b)`, 2},
		{`((a)(b))`, 3},
		{`(a|(b))*`, 2},
		{`x(a)?y`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := mustParse(t, tt.pattern)
			if got := re.NumCaptures(); got != tt.want {
				t.Errorf("NumCaptures(%q) = %d, want %d", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestClassMatches(t *testing.T) {
	tests := []struct {
		pattern string
		b       byte
		want    bool
	}{
		{`[abc]`, 'a', true},
		{`[abc]`, 'd', false},
		{`[^abc]`, 'a', false},
		{`[^abc]`, 'd', true},
		{`[a-z]`, 'm', true},
		{`[a-z]`, 'M', false},
		{`[a-zA-Z]`, 'M', true},
		{`[\d]`, '7', true},
		{`[\d]`, 'x', false},
		{`[^\d]`, 'x', true},
		{`[\s]`, '\t', true},
		{`[\s]`, 'x', false},
		{`[\w]`, '_', true},
		{`[\w]`, '-', false},
		{`[]`, 'a', false},
		{`[]`, 0, false},
		{`[^]`, 'a', true},
		{`[^]`, 0, true},
		{`[\0]`, 0, true},
		{`[\0]`, '0', false},
		{`[ \n\r\0\S\s\d\\TESTREGEX]`, 'T', true},
		{`[ \n\r\0\S\s\d\\TESTREGEX]`, 0, true},
		{`[ \n\r\0\S\s\d\\TESTREGEX]`, 'z', true},
		{`[^\s]`, ' ', false},
		{`[^\s]`, 'e', true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := mustParse(t, tt.pattern)
			if re.Op != OpClass {
				t.Fatalf("Parse(%q).Op = %v, want Class", tt.pattern, re.Op)
			}
			if got := re.Class.Matches(tt.b); got != tt.want {
				t.Errorf("class %q Matches(%#x) = %v, want %v", tt.pattern, tt.b, got, tt.want)
			}
		})
	}
}

func TestMetaByteSets(t *testing.T) {
	for _, b := range []byte{' ', '\t', '\n', '\r', '\v', '\f'} {
		if !IsSpaceByte(b) {
			t.Errorf("IsSpaceByte(%#x) = false", b)
		}
	}
	for _, b := range []byte{'a', 'Z', '0', '_', 0} {
		if IsSpaceByte(b) {
			t.Errorf("IsSpaceByte(%#x) = true", b)
		}
	}
	for _, b := range []byte{'a', 'z', 'A', 'Z', '0', '9', '_'} {
		if !IsWordByte(b) {
			t.Errorf("IsWordByte(%#x) = false", b)
		}
	}
	for _, b := range []byte{' ', '-', '.', 0, 0xff} {
		if IsWordByte(b) {
			t.Errorf("IsWordByte(%#x) = true", b)
		}
	}
	if !IsDigitByte('5') || IsDigitByte('a') {
		t.Error("IsDigitByte misclassifies")
	}
}
