package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/arenalang/snc/internal/arena"
	"github.com/arenalang/snc/internal/errors"
	"github.com/arenalang/snc/internal/parser"
	"github.com/arenalang/snc/internal/symtab"
	"github.com/arenalang/snc/internal/types"
)

// runREPL starts a read-only syntax/type-check console: each snippet is
// lexed, parsed, and type-checked, with diagnostics (or confirmation)
// printed immediately; nothing is ever executed (spec.md's non-goals
// exclude a bytecode VM or interpreter). Grounded on the teacher's
// internal/repl.Start loop, trimmed to this one-shot check-and-report
// cycle instead of evaluation with persistent bindings.
func runREPL() {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".snc_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetMultiLineMode(true)

	fmt.Println(bold("snc repl") + " - syntax and type-check console (no execution)")
	fmt.Println("Type a snippet and press enter; :quit to exit.")
	fmt.Println()

	for {
		input, err := line.Prompt("snc> ")
		if err == io.EOF {
			fmt.Println(green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			break
		}

		line.AppendHistory(input)
		checkSnippet(input)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func checkSnippet(src string) {
	errs := &errors.Collector{}
	a := arena.New(1 << 16)

	mod := parser.ParseModule(src, "<repl>", a, errs)
	if !errs.HasErrors() {
		table := symtab.New(a)
		types.New(table, errs, "<repl>").Check(mod)
	}

	if errs.HasErrors() {
		for _, r := range errs.Reports() {
			fmt.Printf("%s %s\n", red(r.Code), r.Message)
		}
		return
	}
	fmt.Println(green("OK"))
}
