package syntax

// maxNestingDepth bounds group nesting so adversarial patterns cannot
// exhaust the parser's call stack.
const maxNestingDepth = 1000

type parser struct {
	pattern string
	pos     int
	numCap  int
	depth   int
}

// Parse converts pattern into its tree form. On failure it returns a
// *Error and no tree; a failed parse never exposes partial results.
func Parse(pattern string) (*Regexp, error) {
	p := &parser{pattern: pattern}
	re, err := p.parseAlternate()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.pattern) {
		// parseAlternate stops early only on an unmatched ')'
		return nil, p.errorAt(ErrUnexpectedParen, p.pos)
	}
	return re, nil
}

func (p *parser) errorAt(code ErrorCode, pos int) error {
	return &Error{Code: code, Pattern: p.pattern, Pos: pos}
}

// parseAlternate parses a sequence of '|'-separated branches, stopping at
// ')' or the end of the pattern.
func (p *parser) parseAlternate() (*Regexp, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.pattern) || p.pattern[p.pos] != '|' {
		return first, nil
	}
	subs := []*Regexp{first}
	for p.pos < len(p.pattern) && p.pattern[p.pos] == '|' {
		p.pos++
		sub, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return &Regexp{Op: OpAlternate, Sub: subs}, nil
}

func (p *parser) parseConcat() (*Regexp, error) {
	var subs []*Regexp
	for p.pos < len(p.pattern) {
		if c := p.pattern[p.pos]; c == '|' || c == ')' {
			break
		}
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		atom, err = p.applyQuantifier(atom)
		if err != nil {
			return nil, err
		}
		subs = append(subs, atom)
	}
	switch len(subs) {
	case 0:
		return &Regexp{Op: OpEmpty}, nil
	case 1:
		return subs[0], nil
	}
	return &Regexp{Op: OpConcat, Sub: subs}, nil
}

// applyQuantifier wraps atom in an OpRepeat node when the next pattern
// byte is a quantifier. A quantifier may follow only a literal, a class,
// '.' or a group.
func (p *parser) applyQuantifier(atom *Regexp) (*Regexp, error) {
	if p.pos >= len(p.pattern) {
		return atom, nil
	}
	var min, max int
	switch p.pattern[p.pos] {
	case '*':
		min, max = 0, MaxUnbounded
	case '+':
		min, max = 1, MaxUnbounded
	case '?':
		min, max = 0, 1
	default:
		return atom, nil
	}
	if !quantifiable(atom) {
		return nil, p.errorAt(ErrMissingRepeatArgument, p.pos)
	}
	p.pos++
	greedy := true
	if p.pos < len(p.pattern) && p.pattern[p.pos] == '?' {
		greedy = false
		p.pos++
	}
	if p.pos < len(p.pattern) {
		// a second quantifier would repeat a repetition, which the
		// language does not have
		switch p.pattern[p.pos] {
		case '*', '+', '?':
			return nil, p.errorAt(ErrMissingRepeatArgument, p.pos)
		}
	}
	return &Regexp{Op: OpRepeat, Sub: []*Regexp{atom}, Min: min, Max: max, Greedy: greedy}, nil
}

func quantifiable(atom *Regexp) bool {
	switch atom.Op {
	case OpLiteral, OpAnyByte, OpClass, OpCapture:
		return true
	}
	return false
}

func (p *parser) parseAtom() (*Regexp, error) {
	switch c := p.pattern[p.pos]; c {
	case '(':
		if p.depth >= maxNestingDepth {
			return nil, p.errorAt(ErrNestingDepth, p.pos)
		}
		open := p.pos
		p.pos++
		p.depth++
		index := p.numCap
		p.numCap++
		sub, err := p.parseAlternate()
		if err != nil {
			return nil, err
		}
		p.depth--
		if p.pos >= len(p.pattern) || p.pattern[p.pos] != ')' {
			return nil, p.errorAt(ErrMissingParen, open)
		}
		p.pos++
		return &Regexp{Op: OpCapture, Cap: index, Sub: []*Regexp{sub}}, nil
	case '[':
		return p.parseClass()
	case '.':
		p.pos++
		return &Regexp{Op: OpAnyByte}, nil
	case '^':
		p.pos++
		if p.pos == 1 {
			return &Regexp{Op: OpBeginText}, nil
		}
		return &Regexp{Op: OpLiteral, Byte: '^'}, nil
	case '$':
		p.pos++
		if p.pos == len(p.pattern) {
			return &Regexp{Op: OpEndText}, nil
		}
		return &Regexp{Op: OpLiteral, Byte: '$'}, nil
	case '*', '+', '?':
		return nil, p.errorAt(ErrMissingRepeatArgument, p.pos)
	case '\\':
		return p.parseEscapeAtom()
	default:
		p.pos++
		return &Regexp{Op: OpLiteral, Byte: c}, nil
	}
}

// escItem is one resolved escape: either a meta class or a plain byte.
type escItem struct {
	meta MetaClass
	b    byte
}

// parseEscape resolves the escape starting at p.pos (which holds '\\').
//
// Two hex digits denote a byte and win over every other reading, so \dd
// is the byte 0xDD; the digit class followed by a literal 'd' must be
// written \d\64. After the hex form, the meta classes and the named
// controls n, r, t and 0 are tried; any other byte stands for itself.
func (p *parser) parseEscape() (escItem, error) {
	if p.pos+1 >= len(p.pattern) {
		return escItem{}, p.errorAt(ErrTrailingBackslash, p.pos)
	}
	c := p.pattern[p.pos+1]
	if hexVal(c) >= 0 && p.pos+2 < len(p.pattern) {
		if lo := hexVal(p.pattern[p.pos+2]); lo >= 0 {
			b := byte(hexVal(c)<<4 | lo)
			p.pos += 3
			return escItem{b: b}, nil
		}
	}
	p.pos += 2
	switch c {
	case 's':
		return escItem{meta: MetaSpace}, nil
	case 'S':
		return escItem{meta: MetaNonSpace}, nil
	case 'd':
		return escItem{meta: MetaDigit}, nil
	case 'D':
		return escItem{meta: MetaNonDigit}, nil
	case 'w':
		return escItem{meta: MetaWord}, nil
	case 'W':
		return escItem{meta: MetaNonWord}, nil
	case 'n':
		return escItem{b: '\n'}, nil
	case 'r':
		return escItem{b: '\r'}, nil
	case 't':
		return escItem{b: '\t'}, nil
	case '0':
		return escItem{b: 0}, nil
	}
	return escItem{b: c}, nil
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func (p *parser) parseEscapeAtom() (*Regexp, error) {
	it, err := p.parseEscape()
	if err != nil {
		return nil, err
	}
	if it.meta != 0 {
		return &Regexp{Op: OpClass, Class: &CharClass{Meta: it.meta}}, nil
	}
	return &Regexp{Op: OpLiteral, Byte: it.b}, nil
}

// parseClass parses a bracket expression starting at '['. The first ']'
// always closes the class, so "[]" is the empty class, which matches no
// byte at all (and "[^]" consequently matches every byte).
func (p *parser) parseClass() (*Regexp, error) {
	open := p.pos
	p.pos++
	cc := &CharClass{}
	if p.pos < len(p.pattern) && p.pattern[p.pos] == '^' {
		cc.Negate = true
		p.pos++
	}
	for {
		if p.pos >= len(p.pattern) {
			return nil, p.errorAt(ErrMissingBracket, open)
		}
		c := p.pattern[p.pos]
		if c == ']' {
			p.pos++
			break
		}
		var lo byte
		if c == '\\' {
			it, err := p.parseEscape()
			if err != nil {
				return nil, err
			}
			if it.meta != 0 {
				cc.Meta |= it.meta
				continue
			}
			lo = it.b
		} else {
			lo = c
			p.pos++
		}
		if p.pos+1 < len(p.pattern) && p.pattern[p.pos] == '-' && p.pattern[p.pos+1] != ']' {
			rangePos := p.pos
			p.pos++
			var hi byte
			if p.pattern[p.pos] == '\\' {
				it, err := p.parseEscape()
				if err != nil {
					return nil, err
				}
				if it.meta != 0 {
					return nil, p.errorAt(ErrInvalidClassRange, rangePos)
				}
				hi = it.b
			} else {
				hi = p.pattern[p.pos]
				p.pos++
			}
			if lo > hi {
				return nil, p.errorAt(ErrInvalidClassRange, rangePos)
			}
			cc.Ranges = append(cc.Ranges, ByteRange{Lo: lo, Hi: hi})
			continue
		}
		cc.Ranges = append(cc.Ranges, ByteRange{Lo: lo, Hi: lo})
	}
	return &Regexp{Op: OpClass, Class: cc}, nil
}
