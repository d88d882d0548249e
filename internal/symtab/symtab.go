// Package symtab implements the lexically-scoped symbol table of spec.md
// section 4.4: a stack of Scopes, a permanent global scope, per-scope
// arena-depth tracking, thread-handle state transitions, frozen-capture
// tracking, and two-phase namespace lookup.
package symtab

import (
	"fmt"

	"github.com/arenalang/snc/internal/arena"
	"github.com/arenalang/snc/internal/ast"
)

// Kind classifies what a Symbol denotes.
type Kind int

const (
	KindGlobal Kind = iota
	KindLocal
	KindParam
	KindNamespace
	KindType
)

// ThreadState is the {normal, pending, synchronised} state machine on a
// thread-handle variable (spec.md section 5).
type ThreadState int

const (
	ThreadNormal ThreadState = iota
	ThreadPending
	ThreadSynchronised
)

// Symbol is a single binding: a variable, function, namespace, or type name.
type Symbol struct {
	Name            string
	Type            ast.Type
	Kind            Kind
	Offset          int
	ArenaDepth      int
	MemQual         ast.MemQual
	FuncMod         ast.FuncMod
	DeclaredFuncMod ast.FuncMod
	IsFunction      bool
	IsNative        bool
	ThreadState     ThreadState
	Frozen          bool
	FreezeCount     int
	FrozenArgs      []string
	IsNamespace     bool
	NamespaceSyms   []*Symbol
}

// Scope is a single lexical level, linked to its enclosing scope. Symbols
// are inserted LIFO; redeclaration in the same scope updates the existing
// Symbol's Type in place rather than shadowing within the scope.
type Scope struct {
	Parent          *Scope
	Symbols         []*Symbol
	NextLocalOffset int
	NextParamOffset int
	ArenaDepth      int
}

func newScope(parent *Scope) *Scope {
	depth := 0
	if parent != nil {
		depth = parent.ArenaDepth
	}
	return &Scope{Parent: parent, ArenaDepth: depth}
}

// findLocal looks up name within this scope only, most-recent first so a
// redeclaration shadows (and updates) an earlier one.
func (s *Scope) findLocal(name string) *Symbol {
	for i := len(s.Symbols) - 1; i >= 0; i-- {
		if s.Symbols[i].Name == name {
			return s.Symbols[i]
		}
	}
	return nil
}

// Table is a stack of Scopes rooted at a permanent Global scope.
type Table struct {
	Global            *Scope
	current           *Scope
	Arena             *arena.Arena
	CurrentArenaDepth int
}

// New creates a Table with its permanent global scope and registers the
// built-ins `print(any): void` and `to_string(any): str` (spec.md section
// 4.4).
func New(a *arena.Arena) *Table {
	global := newScope(nil)
	t := &Table{Global: global, current: global, Arena: a}
	t.AddFunction("print", []ast.Type{ast.TAny}, ast.TVoid, false)
	t.AddFunction("to_string", []ast.Type{ast.TAny}, ast.TString, false)
	return t
}

// PushScope enters a new nested scope. bumpArena increments the new
// scope's arena depth relative to its parent — the code generator calls
// this when it opens a fresh `RtArena*` context (function body, private
// block, loop iteration).
func (t *Table) PushScope(bumpArena bool) *Scope {
	s := newScope(t.current)
	if bumpArena {
		s.ArenaDepth++
		t.CurrentArenaDepth++
	}
	t.current = s
	return s
}

// PopScope leaves the current scope, returning the names of any symbols
// still in ThreadPending state — leaving a scope with a pending handle is
// an error per spec.md section 5. Refuses to pop the global scope.
func (t *Table) PopScope() []string {
	if t.current == t.Global {
		panic("symtab: cannot pop the global scope")
	}
	var pending []string
	for _, sym := range t.current.Symbols {
		if sym.ThreadState == ThreadPending {
			pending = append(pending, sym.Name)
		}
	}
	t.current = t.current.Parent
	return pending
}

// Current returns the innermost active scope.
func (t *Table) Current() *Scope { return t.current }

func (t *Table) add(sym *Symbol) *Symbol {
	if existing := t.current.findLocal(sym.Name); existing != nil {
		existing.Type = sym.Type
		existing.IsFunction = sym.IsFunction
		existing.IsNative = sym.IsNative
		return existing
	}
	sym.ArenaDepth = t.current.ArenaDepth
	t.current.Symbols = append(t.current.Symbols, sym)
	return sym
}

// AddSymbol declares a plain local/global variable.
func (t *Table) AddSymbol(name string, typ ast.Type) *Symbol {
	return t.AddSymbolWithKind(name, typ, KindLocal)
}

func (t *Table) AddSymbolWithKind(name string, typ ast.Type, kind Kind) *Symbol {
	if t.current == t.Global && kind == KindLocal {
		kind = KindGlobal
	}
	return t.add(&Symbol{Name: name, Type: typ, Kind: kind})
}

// AddSymbolFull declares a symbol with a memory qualifier, used for `var`
// declarations carrying `as val`/`as ref`.
func (t *Table) AddSymbolFull(name string, typ ast.Type, kind Kind, q ast.MemQual) *Symbol {
	sym := t.add(&Symbol{Name: name, Type: typ, Kind: kind, MemQual: q})
	return sym
}

// AddParam declares a function parameter.
func (t *Table) AddParam(name string, typ ast.Type, q ast.MemQual) *Symbol {
	sym := t.add(&Symbol{Name: name, Type: typ, Kind: KindParam, MemQual: q})
	sym.Offset = t.current.NextParamOffset
	t.current.NextParamOffset++
	return sym
}

// AddFunction declares a user function in the current scope.
func (t *Table) AddFunction(name string, params []ast.Type, ret ast.Type, native bool) *Symbol {
	ft := ast.NewFunction(ast.Pos{}, ret, params, nil, false, native, "")
	return t.add(&Symbol{Name: name, Type: ft, Kind: KindGlobal, IsFunction: true, IsNative: native})
}

// AddNativeFunction declares a `native fn` with an optional variadic tail.
func (t *Table) AddNativeFunction(name string, params []ast.Type, ret ast.Type, variadic bool) *Symbol {
	ft := ast.NewFunction(ast.Pos{}, ret, params, nil, variadic, true, "")
	return t.add(&Symbol{Name: name, Type: ft, Kind: KindGlobal, IsFunction: true, IsNative: true})
}

// AddNamespace registers `import "m" as ns`'s namespace symbol.
func (t *Table) AddNamespace(name string) *Symbol {
	return t.add(&Symbol{Name: name, Kind: KindNamespace, IsNamespace: true})
}

// LookupSymbol walks the scope chain from current to Global.
func (t *Table) LookupSymbol(name string) *Symbol {
	for s := t.current; s != nil; s = s.Parent {
		if sym := s.findLocal(name); sym != nil {
			return sym
		}
	}
	return nil
}

// LookupSymbolCurrent restricts lookup to the innermost scope only.
func (t *Table) LookupSymbolCurrent(name string) *Symbol {
	return t.current.findLocal(name)
}

// AddSymbolToNamespace registers a symbol inside an already-created
// namespace symbol's inner symbol list.
func (t *Table) AddSymbolToNamespace(ns *Symbol, name string, typ ast.Type) *Symbol {
	sym := &Symbol{Name: name, Type: typ, Kind: KindLocal}
	ns.NamespaceSyms = append(ns.NamespaceSyms, sym)
	return sym
}

// AddFunctionToNamespace registers a function inside a namespace.
func (t *Table) AddFunctionToNamespace(ns *Symbol, name string, params []ast.Type, ret ast.Type) *Symbol {
	ft := ast.NewFunction(ast.Pos{}, ret, params, nil, false, false, "")
	sym := &Symbol{Name: name, Type: ft, Kind: KindGlobal, IsFunction: true}
	ns.NamespaceSyms = append(ns.NamespaceSyms, sym)
	return sym
}

// LookupInNamespace implements the two-phase lookup: outer scope resolves
// the namespace symbol, then the inner list resolves the member.
func (t *Table) LookupInNamespace(nsName, member string) *Symbol {
	ns := t.LookupSymbol(nsName)
	if ns == nil || !ns.IsNamespace {
		return nil
	}
	for _, sym := range ns.NamespaceSyms {
		if sym.Name == member {
			return sym
		}
	}
	return nil
}

// IsNamespace reports whether name resolves to a namespace symbol.
func (t *Table) IsNamespace(name string) bool {
	sym := t.LookupSymbol(name)
	return sym != nil && sym.IsNamespace
}

// MarkPending transitions a thread-handle variable's symbol normal→pending
// at spawn (spec.md section 5). Returns an error if the symbol is already
// pending or synchronised.
func (t *Table) MarkPending(name string) error {
	sym := t.LookupSymbol(name)
	if sym == nil {
		return fmt.Errorf("undefined variable %q", name)
	}
	if sym.ThreadState != ThreadNormal {
		return fmt.Errorf("variable %q is already a thread handle", name)
	}
	sym.ThreadState = ThreadPending
	return nil
}

// MarkSynchronized transitions pending→synchronised at `!`.
func (t *Table) MarkSynchronized(name string) error {
	sym := t.LookupSymbol(name)
	if sym == nil {
		return fmt.Errorf("undefined variable %q", name)
	}
	if sym.ThreadState != ThreadPending {
		return fmt.Errorf("variable %q is not a pending thread handle", name)
	}
	sym.ThreadState = ThreadSynchronised
	return nil
}

// SyncVariable performs the full sync transition and unfreezes the
// arguments the spawn captured, per spec.md section 5 ("sync decrements
// the freeze count on each captured argument").
func (t *Table) SyncVariable(name string, frozenArgs []string) error {
	if err := t.MarkSynchronized(name); err != nil {
		return err
	}
	for _, arg := range frozenArgs {
		t.UnfreezeSymbol(arg)
	}
	return nil
}

// FreezeSymbol increments freeze_count and sets Frozen, invoked for every
// variable a `thread_spawn` captures.
func (t *Table) FreezeSymbol(name string) {
	if sym := t.LookupSymbol(name); sym != nil {
		sym.FreezeCount++
		sym.Frozen = true
	}
}

// UnfreezeSymbol decrements freeze_count, clearing Frozen at zero.
func (t *Table) UnfreezeSymbol(name string) {
	sym := t.LookupSymbol(name)
	if sym == nil || sym.FreezeCount == 0 {
		return
	}
	sym.FreezeCount--
	if sym.FreezeCount == 0 {
		sym.Frozen = false
	}
}
