// Command flatgen reads a compiled FlatBuffers reflection schema and
// emits a builder and verifier source file for it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/flatforge/flatforge/codegen"
	"github.com/flatforge/flatforge/schema"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("flatgen", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	output := fs.String("output", ".", "directory to write generated sources into")
	pkg := fs.String("package", "generated", "Go package name for generated sources")

	if err := fs.Parse(args); err != nil {
		return exitCode(codegen.NewUsageError(err.Error()))
	}
	if fs.NArg() != 1 {
		return exitCode(codegen.NewUsageError("expected exactly one <schema.bin> argument"))
	}

	if err := generate(fs.Arg(0), *output, *pkg); err != nil {
		fmt.Fprintln(os.Stderr, "flatgen:", err)
		return exitCode(err)
	}
	return 0
}

func generate(schemaPath, outputDir, pkg string) error {
	buf, err := os.ReadFile(schemaPath)
	if err != nil {
		return codegen.NewIOError("reading "+schemaPath, err)
	}

	s, err := schema.Load(buf)
	if err != nil {
		return codegen.NewIOError("parsing "+schemaPath, err)
	}

	stem := codegen.Stem(schemaPath)
	return codegen.GenerateAll(context.Background(), pkg, outputDir, map[string]*schema.Schema{stem: s})
}

// exitCode maps err to the sysexits-style code its concrete type names,
// defaulting to a generic failure for anything unclassified rather than
// ever panicking on bad but well-formed input.
func exitCode(err error) int {
	switch err.(type) {
	case *codegen.UsageError:
		return 64
	case *codegen.IOError:
		return 65
	case *codegen.RenderError:
		return 66
	default:
		return 1
	}
}
