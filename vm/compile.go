package vm

import (
	"errors"

	"github.com/zhangjinde/foundation-regex/internal/conv"
	"github.com/zhangjinde/foundation-regex/syntax"
)

// Compile parses pattern and compiles it into a fresh program.
// Compilation is atomic: it returns either a complete immutable program
// or an error, never a partial result.
func Compile(pattern string) (*Program, error) {
	return CompileConfig(pattern, DefaultConfig())
}

// CompileConfig is Compile with an explicit configuration.
func CompileConfig(pattern string, cfg Config) (*Program, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	re, err := syntax.Parse(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	p, err := compileTree(re, pattern, cfg)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return p, nil
}

var errNilParseTree = errors.New("nil parse tree")

// CompileRegexp compiles a parse tree already obtained from
// syntax.Parse, sparing callers that analyze the tree a second parse.
// The program carries no pattern text, so its diagnostics and Pattern
// read like an assembled program's.
func CompileRegexp(re *syntax.Regexp) (*Program, error) {
	return CompileRegexpConfig(re, DefaultConfig())
}

// CompileRegexpConfig is CompileRegexp with an explicit configuration.
func CompileRegexpConfig(re *syntax.Regexp, cfg Config) (*Program, error) {
	if re == nil {
		return nil, &CompileError{Err: errNilParseTree}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &CompileError{Err: err}
	}
	p, err := compileTree(re, "", cfg)
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	return p, nil
}

// compileTree is the code generation shared by every compile entry
// point: lower the tree into a fresh arena and wrap it in a program.
func compileTree(re *syntax.Regexp, pattern string, cfg Config) (*Program, error) {
	c := compiler{limit: cfg.maxProgramSize()}
	if err := c.compileTop(re); err != nil {
		return nil, err
	}
	p := &Program{
		insts:   c.insts,
		numCaps: re.NumCaptures(),
		pattern: pattern,
		cfg:     cfg,
	}
	p.setFlags()
	return p, nil
}

// CompileInto compiles pattern into the fixed arena of a preallocated
// program and reports whether it succeeded. The arena capacity chosen at
// NewProgram time is the compile limit, so a zero-value Program has no
// room and every pattern fails. On failure the program is left empty and
// matches nothing; it never holds a partial compilation.
func CompileInto(pattern string, p *Program) bool {
	if p == nil {
		return false
	}
	p.prefilter = nil
	re, err := syntax.Parse(pattern)
	if err != nil {
		p.insts = p.insts[:0]
		p.setFlags()
		return false
	}
	c := compiler{insts: p.insts[:0], limit: cap(p.insts)}
	if err := c.compileTop(re); err != nil {
		p.insts = p.insts[:0]
		p.setFlags()
		return false
	}
	p.insts = c.insts
	p.numCaps = re.NumCaptures()
	p.pattern = pattern
	p.setFlags()
	return true
}

// compiler lowers a parse tree into a flat instruction slice, bounded by
// limit. It appends only; targets that are not known yet are patched
// once the covered region is emitted.
type compiler struct {
	insts []Inst
	limit int
}

func (c *compiler) compileTop(re *syntax.Regexp) error {
	if err := c.compile(re); err != nil {
		return err
	}
	_, err := c.emit(Inst{Op: OpMatch})
	return err
}

func (c *compiler) emit(inst Inst) (InstID, error) {
	if len(c.insts) >= c.limit {
		return InvalidInst, ErrProgramTooLarge
	}
	c.insts = append(c.insts, inst)
	return InstID(len(c.insts) - 1), nil
}

// next returns the ID the next emitted instruction will get.
func (c *compiler) next() InstID {
	return InstID(len(c.insts))
}

func (c *compiler) compile(re *syntax.Regexp) error {
	switch re.Op {
	case syntax.OpEmpty:
		return nil
	case syntax.OpLiteral:
		_, err := c.emit(Inst{Op: OpLiteral, Lit: re.Byte})
		return err
	case syntax.OpAnyByte:
		_, err := c.emit(Inst{Op: OpAny})
		return err
	case syntax.OpClass:
		_, err := c.emit(Inst{Op: OpClass, Class: re.Class})
		return err
	case syntax.OpBeginText:
		_, err := c.emit(Inst{Op: OpAnchorStart})
		return err
	case syntax.OpEndText:
		_, err := c.emit(Inst{Op: OpAnchorEnd})
		return err
	case syntax.OpCapture:
		g := conv.ToUint32(re.Cap)
		if _, err := c.emit(Inst{Op: OpGroupStart, Group: g}); err != nil {
			return err
		}
		if err := c.compile(re.Sub[0]); err != nil {
			return err
		}
		_, err := c.emit(Inst{Op: OpGroupEnd, Group: g})
		return err
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if err := c.compile(sub); err != nil {
				return err
			}
		}
		return nil
	case syntax.OpAlternate:
		return c.compileAlternate(re)
	case syntax.OpRepeat:
		return c.compileRepeat(re)
	}
	return ErrInvalidProgram
}

// compileAlternate lays the branches out back to back:
//
//	branch a0, a1, .., ak
//	a0: <first>  jump end
//	a1: <second> jump end
//	..
//	ak: <last>
//	end:
func (c *compiler) compileAlternate(re *syntax.Regexp) error {
	b, err := c.emit(Inst{Op: OpBranch, Alts: make([]InstID, len(re.Sub))})
	if err != nil {
		return err
	}
	jumps := make([]InstID, 0, len(re.Sub)-1)
	for i, sub := range re.Sub {
		c.insts[b].Alts[i] = c.next()
		if err := c.compile(sub); err != nil {
			return err
		}
		if i < len(re.Sub)-1 {
			j, err := c.emit(Inst{Op: OpJump, X: InvalidInst})
			if err != nil {
				return err
			}
			jumps = append(jumps, j)
		}
	}
	end := c.next()
	for _, j := range jumps {
		c.insts[j].X = end
	}
	return nil
}

func (c *compiler) compileRepeat(re *syntax.Regexp) error {
	sub := re.Sub[0]
	if body, ok := singleConsuming(sub); ok {
		return c.emitCounted(re, body)
	}
	switch {
	case re.Min == 0 && re.Max == 1:
		return c.compileOptional(re)
	case re.Min == 0:
		return c.compileLoop(re)
	default:
		// one mandatory iteration, then a star loop
		if err := c.compile(sub); err != nil {
			return err
		}
		return c.compileLoop(re)
	}
}

// singleConsuming returns the one-instruction form of a repetition body
// when it consumes exactly one byte per iteration. Such repetitions
// compile to the counted OpRepeat form instead of a loop.
func singleConsuming(re *syntax.Regexp) (Inst, bool) {
	switch re.Op {
	case syntax.OpLiteral:
		return Inst{Op: OpLiteral, Lit: re.Byte}, true
	case syntax.OpAnyByte:
		return Inst{Op: OpAny}, true
	case syntax.OpClass:
		return Inst{Op: OpClass, Class: re.Class}, true
	}
	return Inst{}, false
}

func (c *compiler) emitCounted(re *syntax.Regexp, body Inst) error {
	maxN := Unbounded
	if re.Max != syntax.MaxUnbounded {
		maxN = conv.ToUint32(re.Max)
	}
	head := Inst{Op: OpRepeat, Min: conv.ToUint32(re.Min), Max: maxN, Greedy: re.Greedy}
	if _, err := c.emit(head); err != nil {
		return err
	}
	_, err := c.emit(body)
	return err
}

// compileOptional handles multi-instruction bodies with a 0-or-1 bound
// as a two-way branch between the body and the fall-through.
func (c *compiler) compileOptional(re *syntax.Regexp) error {
	b, err := c.emit(Inst{Op: OpBranch, Alts: make([]InstID, 2)})
	if err != nil {
		return err
	}
	body := c.next()
	if err := c.compile(re.Sub[0]); err != nil {
		return err
	}
	end := c.next()
	if re.Greedy {
		c.insts[b].Alts[0], c.insts[b].Alts[1] = body, end
	} else {
		c.insts[b].Alts[0], c.insts[b].Alts[1] = end, body
	}
	return nil
}

// compileLoop emits the uncounted zero-or-more loop form:
//
//	head: loop body, end
//	body: <body>
//	      loopend head
//	end:
func (c *compiler) compileLoop(re *syntax.Regexp) error {
	head, err := c.emit(Inst{Op: OpLoop, X: InvalidInst, Y: InvalidInst, Greedy: re.Greedy})
	if err != nil {
		return err
	}
	c.insts[head].X = c.next()
	if err := c.compile(re.Sub[0]); err != nil {
		return err
	}
	if _, err := c.emit(Inst{Op: OpLoopEnd, X: head}); err != nil {
		return err
	}
	c.insts[head].Y = c.next()
	return nil
}
