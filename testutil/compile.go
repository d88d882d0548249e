package testutil

import (
	"github.com/arenalang/snc/internal/arena"
	"github.com/arenalang/snc/internal/codegen"
	"github.com/arenalang/snc/internal/errors"
	"github.com/arenalang/snc/internal/parser"
	"github.com/arenalang/snc/internal/symtab"
	"github.com/arenalang/snc/internal/types"
)

// CompileResult is the outcome of running src through every phase up to
// (and, if clean, including) code generation.
type CompileResult struct {
	C    string
	Errs *errors.Collector
}

// Compile lexes, parses, type-checks, and (if no errors accumulated)
// generates C for a single-file snippet, skipping internal/loader since
// test fixtures are self-contained (spec.md section 7's "skip code
// generation on any accumulated error" is honored the same way
// cmd/snc's pipeline does it).
func Compile(src, file string) CompileResult {
	errs := &errors.Collector{}
	a := arena.New(1 << 16)

	mod := parser.ParseModule(src, file, a, errs)
	if errs.HasErrors() {
		return CompileResult{Errs: errs}
	}

	table := symtab.New(a)
	types.New(table, errs, file).Check(mod)
	if errs.HasErrors() {
		return CompileResult{Errs: errs}
	}

	gen := codegen.New(table, errs, file)
	c, err := gen.Generate(mod)
	if err != nil {
		return CompileResult{Errs: errs}
	}
	return CompileResult{C: c, Errs: errs}
}

// HasCode reports whether any accumulated diagnostic carries the given
// code, for table-driven "expect TYP007" style assertions.
func (r CompileResult) HasCode(code string) bool {
	if r.Errs == nil {
		return false
	}
	for _, rep := range r.Errs.Reports() {
		if rep.Code == code {
			return true
		}
	}
	return false
}
