package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/zhangjinde/foundation-regex/gen"
)

func main() {
	log.SetFlags(0)
	if err := mainNoExit(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(2)
	}
}

func mainNoExit() error {
	var args arguments
	parseFlags(&args)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"validate flags", args.validate},
		{"generate", args.generate},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %v", step.name, err)
		}
	}
	return nil
}

type arguments struct {
	pkg     string
	varName string
	output  string

	pattern string
}

func parseFlags(args *arguments) {
	flag.Usage = func() {
		const usage = `Usage: regexgen [flags...] pattern
Where:
  pattern is the pattern to compile into the generated file
Examples:
  # Print a generated key=value matcher on stdout.
  regexgen -pkg config -var KV '(\w+)=(\w+)'
  # Write a port matcher next to its user.
  regexgen -var Port -o port_gen.go ':(\d+)$'

Exit status:
  0 if the file was generated
  2 if an error occurred

Supported command-line flags:
`
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}

	flag.StringVar(&args.pkg, "pkg", "patterns",
		`package clause of the generated file`)
	flag.StringVar(&args.varName, "var", "Pattern",
		`name of the generated program variable`)
	flag.StringVar(&args.output, "o", "",
		`output file, stdout when empty`)

	flag.Parse()

	args.pattern = flag.Arg(0)
}

func (a *arguments) validate() error {
	if flag.NArg() != 1 {
		return fmt.Errorf("want exactly one pattern argument, got %d", flag.NArg())
	}
	return gen.Options{Pattern: a.pattern, Package: a.pkg, VarName: a.varName}.Validate()
}

func (a *arguments) generate() error {
	opts := gen.Options{Pattern: a.pattern, Package: a.pkg, VarName: a.varName}
	if a.output == "" {
		src, err := gen.Generate(opts)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(src)
		return err
	}
	return gen.WriteFile(a.output, opts)
}
