// Command snc compiles a source file (spec.md's ".sn") to portable C,
// following the teacher's cmd/ailang single-binary, flag-based CLI
// (github.com/fatih/color for diagnostics, a flag.Arg(0) command switch).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/arenalang/snc/internal/arena"
	"github.com/arenalang/snc/internal/ast"
	"github.com/arenalang/snc/internal/codegen"
	"github.com/arenalang/snc/internal/config"
	"github.com/arenalang/snc/internal/errors"
	"github.com/arenalang/snc/internal/loader"
	"github.com/arenalang/snc/internal/manifest"
	"github.com/arenalang/snc/internal/symtab"
	"github.com/arenalang/snc/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// searchPathFlags collects repeated `-I` flags.
type searchPathFlags []string

func (s *searchPathFlags) String() string { return strings.Join(*s, ",") }
func (s *searchPathFlags) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		outFlag     = flag.String("o", "", "output .c path (defaults to replacing .sn with .c)")
		jsonFlag    = flag.Bool("json", false, "emit structured JSON diagnostics instead of text")
		versionFlag = flag.Bool("version", false, "print version information")
		helpFlag    = flag.Bool("help", false, "show help")
		searchPaths searchPathFlags
	)
	flag.Var(&searchPaths, "I", "additional import search path (repeatable)")
	flag.Parse()

	if *versionFlag {
		fmt.Println(bold("snc") + " dev")
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch command := flag.Arg(0); command {
	case "build":
		requireArg(1, "build <file.sn>")
		os.Exit(buildFile(flag.Arg(1), *outFlag, []string(searchPaths), *jsonFlag))
	case "check":
		requireArg(1, "check <file.sn>")
		os.Exit(checkFile(flag.Arg(1), []string(searchPaths), *jsonFlag))
	case "repl":
		runREPL()
	case "manifest":
		requireArg(2, "manifest run <dir>")
		os.Exit(runManifest(flag.Arg(2), flag.Arg(3)))
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func requireArg(n int, usage string) {
	if flag.NArg() <= n {
		fmt.Fprintf(os.Stderr, "%s: missing argument\nUsage: snc %s\n", red("Error"), usage)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("snc") + " - the arena-lifetime source-to-C compiler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  snc <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file.sn>         Compile a source file to C\n", cyan("build"))
	fmt.Printf("  %s <file.sn>         Type-check without generating C\n", cyan("check"))
	fmt.Printf("  %s                   Start the syntax/type-check console\n", cyan("repl"))
	fmt.Printf("  %s run <dir>         Run a golden scenario manifest\n", cyan("manifest"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -o <path>    output .c path")
	fmt.Println("  -I <path>    additional import search path (repeatable)")
	fmt.Println("  -json        emit structured JSON diagnostics")
	fmt.Println("  -version     print version information")
}

// compileResult carries everything a downstream command (build, manifest
// runner) needs after a successful load+typecheck pass.
type compileResult struct {
	table *symtab.Table
	mod   *ast.Module
}

// pipeline runs config-discovery -> load -> typecheck. errs accumulates
// diagnostics from every phase (spec.md section 7: collect, don't halt on
// first error). A non-nil returned error means an unrecoverable I/O or
// configuration failure, distinct from accumulated user diagnostics.
func pipeline(path string, extraSearchPaths []string, errs *errors.Collector) (*compileResult, error) {
	cfg, err := config.Discover(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	searchPaths := cfg.ResolveSearchPaths(extraSearchPaths)

	a := arena.New(1 << 20)
	ld := loader.New(a, errs, searchPaths)
	mod, err := ld.Load(path)
	if err != nil && !errs.HasErrors() {
		return nil, err
	}
	if errs.HasErrors() {
		return &compileResult{mod: mod}, nil
	}

	table := symtab.New(a)
	types.New(table, errs, path).Check(mod)
	return &compileResult{table: table, mod: mod}, nil
}

func checkFile(path string, searchPaths []string, jsonOut bool) int {
	errs := &errors.Collector{}
	_, err := pipeline(path, searchPaths, errs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 1
	}
	if errs.HasErrors() {
		printDiagnostics(errs, jsonOut)
		return 1
	}
	fmt.Println(green("OK") + ": no type errors")
	return 0
}

func buildFile(path, out string, searchPaths []string, jsonOut bool) int {
	errs := &errors.Collector{}
	res, err := pipeline(path, searchPaths, errs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 1
	}
	if errs.HasErrors() {
		printDiagnostics(errs, jsonOut)
		return 1
	}

	gen := codegen.New(res.table, errs, path)
	c, genErr := gen.Generate(res.mod)
	if genErr != nil || errs.HasErrors() {
		printDiagnostics(errs, jsonOut)
		return 1
	}

	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".c"
	}
	if err := os.WriteFile(out, []byte(c), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 1
	}

	cfg, _ := config.Discover(filepath.Dir(path))
	if links := cfg.MergeLinks(gen.Links()); len(links) > 0 {
		fmt.Printf("%s: link flags: %s\n", cyan("info"), strings.Join(links, " "))
	}
	fmt.Printf("%s: wrote %s\n", green("OK"), out)
	return 0
}

func runManifest(dir, filter string) int {
	path := dir
	if stat, err := os.Stat(dir); err == nil && stat.IsDir() {
		path = filepath.Join(dir, "manifest.yml")
	}
	m, err := manifest.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return 1
	}

	base := filepath.Dir(path)
	failures := 0
	for _, sc := range m.Scenarios {
		if filter != "" && !strings.Contains(sc.Path, filter) {
			continue
		}
		if !runScenario(base, sc) {
			failures++
		}
	}
	if failures > 0 {
		fmt.Printf("%s: %d scenario(s) failed\n", red("FAIL"), failures)
		return 1
	}
	fmt.Println(green("OK") + ": all scenarios passed")
	return 0
}

func runScenario(baseDir string, sc manifest.Scenario) bool {
	src := filepath.Join(baseDir, sc.Path)
	errs := &errors.Collector{}
	res, err := pipeline(src, nil, errs)

	if sc.Status == manifest.StatusFailing {
		if err == nil && !errs.HasErrors() {
			fmt.Printf("%s: %s expected to fail but compiled clean\n", red("FAIL"), sc.Path)
			return false
		}
		for _, code := range sc.Failing.Diagnostics {
			found := false
			for _, r := range errs.Reports() {
				if r.Code == code {
					found = true
					break
				}
			}
			if !found {
				fmt.Printf("%s: %s expected diagnostic %s, not reported\n", red("FAIL"), sc.Path, code)
				return false
			}
		}
		fmt.Printf("%s: %s\n", green("PASS"), sc.Path)
		return true
	}

	if err != nil || errs.HasErrors() {
		fmt.Printf("%s: %s failed to compile\n", red("FAIL"), sc.Path)
		printDiagnostics(errs, false)
		return false
	}
	gen := codegen.New(res.table, errs, src)
	c, genErr := gen.Generate(res.mod)
	if genErr != nil || errs.HasErrors() {
		fmt.Printf("%s: %s codegen failed\n", red("FAIL"), sc.Path)
		return false
	}
	for _, want := range sc.Expected.Contains {
		if !strings.Contains(c, want) {
			fmt.Printf("%s: %s missing expected fragment %q\n", red("FAIL"), sc.Path, want)
			return false
		}
	}
	fmt.Printf("%s: %s\n", green("PASS"), sc.Path)
	return true
}

func printDiagnostics(errs *errors.Collector, jsonOut bool) {
	for _, r := range errs.Reports() {
		if jsonOut {
			s, _ := r.ToJSON(true)
			fmt.Println(s)
			continue
		}
		loc := "?"
		if r.Span != nil {
			loc = r.Span.String()
		}
		fmt.Fprintf(os.Stderr, "%s [%s] %s: %s\n", yellow(r.Phase), r.Code, loc, r.Message)
	}
}
