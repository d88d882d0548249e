// Package runtime describes the external contract of the C runtime library
// the code generator emits `extern` declarations for (spec.md section 4.7).
// The runtime library itself is out of scope (spec.md section 1, "Deliberately
// out of scope... spec'd only by their interface"); this package records
// that interface on the Go side as a name-keyed table. internal/codegen
// does not consult it: the extern block is fixed C text in
// internal/codegen/runtime_extern.go, kept in sync with this table by hand.
//
// Grounded on the teacher's internal/runtime resolver: a name-keyed registry
// plus a lookup that reports a descriptive error on miss, adapted from
// evaluation-time value resolution to compile-time signature validation.
package runtime

import "fmt"

// Category groups a Signature for the extern-block emission order in
// spec.md section 4.7 (arena, closures, strings, print, conversions,
// format, arithmetic, arrays, files, streams, path/dir, bytes, builders,
// time).
type Category string

const (
	CatArena       Category = "arena"
	CatClosure     Category = "closure"
	CatThread      Category = "thread"
	CatString      Category = "string"
	CatPrint       Category = "print"
	CatConvert     Category = "convert"
	CatFormat      Category = "format"
	CatArithmetic  Category = "arithmetic"
	CatArray       Category = "array"
	CatFile        Category = "file"
	CatStream      Category = "stream"
	CatPathDir     Category = "pathdir"
	CatBytes       Category = "bytes"
	CatBuilder     Category = "builder"
	CatTime        Category = "time"
)

// Signature is one runtime symbol's C-level contract.
type Signature struct {
	Name     string
	CSig     string // full C declaration, e.g. "long rt_mod_long(long a, long b)"; empty for symbols registered by name only
	Category Category
}

// registry is the canonical set of runtime symbols generated C code may
// call, keyed by name for O(1) lookup. Populated by registerAll below; kept
// as a single flat map rather than per-category maps since lookups only
// ever need the one symbol a call site names.
var registry = map[string]*Signature{}

func register(cat Category, name, csig string) {
	registry[name] = &Signature{Name: name, CSig: csig, Category: cat}
}

// Lookup resolves name against the runtime contract.
//
// Resolution logic: a single map lookup keyed by the bare function name
// (e.g. "rt_array_push_long"); there is no module-qualified form since the
// runtime is a single flat C namespace, unlike the source language's own
// namespaced imports (internal/loader).
//
// Returns the Signature and true on success, or (nil, false) on a name the
// contract does not promise — callers should treat this as GEN001, a
// compiler-internal inconsistency, since it means codegen tried to invoke a
// helper outside the declared contract.
func Lookup(name string) (*Signature, bool) {
	sig, ok := registry[name]
	return sig, ok
}

// MustLookup is Lookup with a panic on miss, for call sites inside codegen
// that construct helper names from a closed set of suffixes and therefore
// treat a miss as a programming error rather than a user-facing diagnostic.
func MustLookup(name string) *Signature {
	sig, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("runtime: no contract for %q", name))
	}
	return sig
}

// All returns every registered signature. The order is that of map
// iteration and is not defined.
func All() []*Signature {
	out := make([]*Signature, 0, len(registry))
	for _, sig := range registry {
		out = append(out, sig)
	}
	return out
}

func init() {
	registerAll()
}
