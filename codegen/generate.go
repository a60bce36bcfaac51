package codegen

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/flatforge/flatforge/schema"
)

// Output is one schema's rendered builder and verifier source, ready to
// be written to disk.
type Output struct {
	Stem        string
	BuilderSrc  []byte
	VerifierSrc []byte
}

// GenerateAll renders one Output per (stem, schema) pair concurrently,
// bounded by GOMAXPROCS, and writes each pair to <dir>/<stem>_builder.go
// and <dir>/<stem>_verify.go.
func GenerateAll(ctx context.Context, pkg, dir string, schemas map[string]*schema.Schema) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for stem, s := range schemas {
		stem, s := stem, s
		g.Go(func() error {
			builderSrc, verifierSrc, err := Render(pkg, s)
			if err != nil {
				return err
			}
			if err := writeFile(dir, stem+"_builder.go", builderSrc); err != nil {
				return err
			}
			return writeFile(dir, stem+"_verify.go", verifierSrc)
		})
	}
	return g.Wait()
}

func writeFile(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewIOError("writing "+path, err)
	}
	return nil
}

// Stem derives a schema.bin path's output-file stem: its base name with
// any extension stripped.
func Stem(schemaPath string) string {
	base := filepath.Base(schemaPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
