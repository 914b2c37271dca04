// Package gen renders compiled patterns as Go source.
//
// The output file declares one package-level program variable built by
// vm.MustAssemble from a written-down instruction table, so the pattern
// pays no parse or compile cost at run time. Generated files carry the
// standard "DO NOT EDIT" marker and import only the vm and syntax
// packages.
package gen

import (
	"bytes"
	"fmt"
	"go/token"
	"os"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/zhangjinde/foundation-regex/syntax"
	"github.com/zhangjinde/foundation-regex/vm"
)

const (
	vmPath     = "github.com/zhangjinde/foundation-regex/vm"
	syntaxPath = "github.com/zhangjinde/foundation-regex/syntax"
)

// Options describes one generated program variable.
type Options struct {
	// Pattern is the pattern to compile.
	Pattern string

	// Package is the package clause of the generated file.
	Package string

	// VarName is the name of the generated program variable.
	VarName string
}

// Validate reports the first problem with the options. The pattern
// itself is checked by Generate, which compiles it.
func (o Options) Validate() error {
	if !token.IsIdentifier(o.Package) {
		return fmt.Errorf("gen: package name %q is not a valid identifier", o.Package)
	}
	if !token.IsIdentifier(o.VarName) {
		return fmt.Errorf("gen: variable name %q is not a valid identifier", o.VarName)
	}
	return nil
}

// Generate compiles the pattern and renders the source of a file
// declaring it as an assembled program variable.
func Generate(opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	prog, err := vm.Compile(opts.Pattern)
	if err != nil {
		return nil, err
	}

	f := jen.NewFile(opts.Package)
	f.HeaderComment("Code generated by regexgen; DO NOT EDIT.")
	f.ImportName(vmPath, "vm")
	f.ImportName(syntaxPath, "syntax")

	f.Comment(fmt.Sprintf("%s is the compiled form of %s.", opts.VarName, quotePattern(opts.Pattern)))
	f.Var().Id(opts.VarName).Op("=").Qual(vmPath, "MustAssemble").Call(
		jen.Index().Qual(vmPath, "Inst").ValuesFunc(func(g *jen.Group) {
			for _, in := range prog.Instructions() {
				g.Add(instLit(in))
			}
		}),
		jen.Lit(prog.NumCaptures()),
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("gen: render: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the generated source to path, creating or
// truncating it.
func WriteFile(path string, opts Options) error {
	src, err := Generate(opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, src, 0o644)
}

// quotePattern renders the pattern for the variable's doc comment,
// preferring the backquoted form patterns are usually written in.
func quotePattern(pat string) string {
	clean := pat != "" && !strings.Contains(pat, "`")
	for i := 0; clean && i < len(pat); i++ {
		if pat[i] < 0x20 || pat[i] > 0x7e {
			clean = false
		}
	}
	if clean {
		return "`" + pat + "`"
	}
	return strconv.Quote(pat)
}

// instLit writes one instruction as a composite literal, naming only
// the fields its opcode reads.
func instLit(in vm.Inst) jen.Code {
	d := jen.Dict{jen.Id("Op"): jen.Qual(vmPath, "Op"+in.Op.String())}
	switch in.Op {
	case vm.OpLiteral:
		d[jen.Id("Lit")] = byteLit(in.Lit)
	case vm.OpClass:
		d[jen.Id("Class")] = classLit(in.Class)
	case vm.OpGroupStart, vm.OpGroupEnd:
		d[jen.Id("Group")] = jen.Lit(int(in.Group))
	case vm.OpJump:
		d[jen.Id("X")] = jen.Lit(int(in.X))
	case vm.OpBranch:
		d[jen.Id("Alts")] = jen.Index().Qual(vmPath, "InstID").ValuesFunc(func(g *jen.Group) {
			for _, alt := range in.Alts {
				g.Lit(int(alt))
			}
		})
	case vm.OpLoop:
		d[jen.Id("X")] = jen.Lit(int(in.X))
		d[jen.Id("Y")] = jen.Lit(int(in.Y))
		if in.Greedy {
			d[jen.Id("Greedy")] = jen.True()
		}
	case vm.OpLoopEnd:
		d[jen.Id("X")] = jen.Lit(int(in.X))
	case vm.OpRepeat:
		d[jen.Id("Min")] = jen.Lit(int(in.Min))
		if in.Max == vm.Unbounded {
			d[jen.Id("Max")] = jen.Qual(vmPath, "Unbounded")
		} else {
			d[jen.Id("Max")] = jen.Lit(int(in.Max))
		}
		if in.Greedy {
			d[jen.Id("Greedy")] = jen.True()
		}
	}
	return jen.Values(d)
}

// byteLit prefers the rune form for bytes that print cleanly.
func byteLit(b byte) jen.Code {
	if b > 0x20 && b < 0x7f {
		return jen.LitRune(rune(b))
	}
	return jen.Lit(b)
}

func classLit(c *syntax.CharClass) jen.Code {
	if c == nil {
		return jen.Nil()
	}
	d := jen.Dict{}
	if len(c.Ranges) > 0 {
		d[jen.Id("Ranges")] = jen.Index().Qual(syntaxPath, "ByteRange").ValuesFunc(func(g *jen.Group) {
			for _, r := range c.Ranges {
				g.Values(jen.Dict{
					jen.Id("Lo"): byteLit(r.Lo),
					jen.Id("Hi"): byteLit(r.Hi),
				})
			}
		})
	}
	if c.Meta != 0 {
		d[jen.Id("Meta")] = metaLit(c.Meta)
	}
	if c.Negate {
		d[jen.Id("Negate")] = jen.True()
	}
	return jen.Op("&").Qual(syntaxPath, "CharClass").Values(d)
}

var metaFlagNames = []struct {
	flag syntax.MetaClass
	name string
}{
	{syntax.MetaSpace, "MetaSpace"},
	{syntax.MetaNonSpace, "MetaNonSpace"},
	{syntax.MetaDigit, "MetaDigit"},
	{syntax.MetaNonDigit, "MetaNonDigit"},
	{syntax.MetaWord, "MetaWord"},
	{syntax.MetaNonWord, "MetaNonWord"},
}

func metaLit(m syntax.MetaClass) jen.Code {
	var expr *jen.Statement
	for _, f := range metaFlagNames {
		if m&f.flag == 0 {
			continue
		}
		if expr == nil {
			expr = jen.Qual(syntaxPath, f.name)
		} else {
			expr = expr.Op("|").Qual(syntaxPath, f.name)
		}
	}
	if expr == nil {
		return jen.Lit(int(m))
	}
	return expr
}
