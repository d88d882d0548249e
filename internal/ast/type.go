package ast

import (
	"fmt"
	"strings"

	"github.com/arenalang/snc/internal/arena"
)

// PrimKind enumerates the primitive type kinds of spec.md section 3.
type PrimKind int

const (
	PInt PrimKind = iota
	PLong
	PInt32
	PUint
	PUint32
	PDouble
	PFloat
	PChar
	PString
	PBool
	PByte
	PVoid
	PNil
	PAny
)

var primNames = map[PrimKind]string{
	PInt: "int", PLong: "long", PInt32: "int32", PUint: "uint", PUint32: "uint32",
	PDouble: "double", PFloat: "float", PChar: "char", PString: "str", PBool: "bool",
	PByte: "byte", PVoid: "void", PNil: "nil", PAny: "any",
}

func (k PrimKind) String() string { return primNames[k] }

// MemQual is the memory qualifier attached to declarations and parameters
// (`as val` / `as ref`, spec.md sections 1 and 4.6).
type MemQual int

const (
	MemQualNone MemQual = iota
	MemQualVal
	MemQualRef
)

// FuncMod is the `shared`/`private` modifier on functions and blocks, and
// reused for loops per spec.md's "shared while/for" sugar.
type FuncMod int

const (
	ModNone FuncMod = iota
	ModShared
	ModPrivate
)

func (m FuncMod) String() string {
	switch m {
	case ModShared:
		return "shared"
	case ModPrivate:
		return "private"
	default:
		return ""
	}
}

// Type is the tagged sum over primitive and composite types (spec.md
// section 3). Types are immutable once created.
type Type interface {
	Node
	typeNode()
	String() string
}

type typeBase struct{ Pos Pos }

func (t typeBase) Position() Pos { return t.Pos }
func (typeBase) typeNode()       {}

// PrimitiveType is one of the scalar kinds in PrimKind.
type PrimitiveType struct {
	typeBase
	Kind PrimKind
}

func (t *PrimitiveType) String() string { return t.Kind.String() }

// ArrayType is `T[]`.
type ArrayType struct {
	typeBase
	Elem Type
}

func (t *ArrayType) String() string { return t.Elem.String() + "[]" }

// FunctionType is a first-class function or native-callback signature.
type FunctionType struct {
	typeBase
	Return        Type
	Params        []Type
	ParamMemQuals []MemQual
	IsVariadic    bool
	IsNative      bool
	TypedefName   string
}

func (t *FunctionType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	variadic := ""
	if t.IsVariadic {
		variadic = ", ..."
	}
	ret := "void"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return fmt.Sprintf("fn(%s%s): %s", strings.Join(parts, ", "), variadic, ret)
}

// PointerType is a raw pointer, used internally by the code generator for
// `as ref` boxing and never written directly in source.
type PointerType struct {
	typeBase
	Base Type
}

func (t *PointerType) String() string { return "*" + t.Base.String() }

// OpaqueType is a `type T = opaque` declaration's nominal type.
type OpaqueType struct {
	typeBase
	Name string
}

func (t *OpaqueType) String() string { return t.Name }

// Factory constructors (arena-free; callers arena.Strdup any strings that
// must outlive a transient buffer before constructing).

func NewPrimitive(pos Pos, kind PrimKind) *PrimitiveType {
	return &PrimitiveType{typeBase{pos}, kind}
}

func NewArray(pos Pos, elem Type) *ArrayType {
	return &ArrayType{typeBase{pos}, elem}
}

func NewFunction(pos Pos, ret Type, params []Type, quals []MemQual, variadic, native bool, typedefName string) *FunctionType {
	return &FunctionType{typeBase{pos}, ret, params, quals, variadic, native, typedefName}
}

func NewPointer(pos Pos, base Type) *PointerType {
	return &PointerType{typeBase{pos}, base}
}

func NewOpaque(pos Pos, name string) *OpaqueType {
	return &OpaqueType{typeBase{pos}, name}
}

// Convenience singletons for the primitive kinds; these never need cloning
// since PrimitiveType carries no arena-owned pointers beyond its Pos.File.
var (
	TInt    = NewPrimitive(Pos{}, PInt)
	TLong   = NewPrimitive(Pos{}, PLong)
	TDouble = NewPrimitive(Pos{}, PDouble)
	TChar   = NewPrimitive(Pos{}, PChar)
	TString = NewPrimitive(Pos{}, PString)
	TBool   = NewPrimitive(Pos{}, PBool)
	TByte   = NewPrimitive(Pos{}, PByte)
	TVoid   = NewPrimitive(Pos{}, PVoid)
	TNil    = NewPrimitive(Pos{}, PNil)
	TAny    = NewPrimitive(Pos{}, PAny)
)

// TypeEquals is structural equality, recursing through arrays and function
// signatures; primitives compare by kind, and `any` matches every
// primitive (spec.md section 3, invariant
// "type_equals(clone(T), T) holds for all T").
func TypeEquals(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch at := a.(type) {
	case *PrimitiveType:
		bt, ok := b.(*PrimitiveType)
		if !ok {
			return false
		}
		if at.Kind == PAny || bt.Kind == PAny {
			return true
		}
		return at.Kind == bt.Kind
	case *ArrayType:
		bt, ok := b.(*ArrayType)
		if !ok {
			return false
		}
		return TypeEquals(at.Elem, bt.Elem)
	case *FunctionType:
		bt, ok := b.(*FunctionType)
		if !ok {
			return false
		}
		if len(at.Params) != len(bt.Params) || at.IsVariadic != bt.IsVariadic {
			return false
		}
		if !TypeEquals(at.Return, bt.Return) {
			return false
		}
		for i := range at.Params {
			if !TypeEquals(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return true
	case *PointerType:
		bt, ok := b.(*PointerType)
		if !ok {
			return false
		}
		return TypeEquals(at.Base, bt.Base)
	case *OpaqueType:
		bt, ok := b.(*OpaqueType)
		if !ok {
			return false
		}
		return at.Name == bt.Name
	default:
		return false
	}
}

// CloneType deep-copies t into target arena a, per spec.md section 3.
func CloneType(t Type, a *arena.Arena) Type {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case *PrimitiveType:
		c := *v
		return &c
	case *ArrayType:
		return &ArrayType{v.typeBase, CloneType(v.Elem, a)}
	case *FunctionType:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = CloneType(p, a)
		}
		quals := make([]MemQual, len(v.ParamMemQuals))
		copy(quals, v.ParamMemQuals)
		return &FunctionType{
			typeBase:      v.typeBase,
			Return:        CloneType(v.Return, a),
			Params:        params,
			ParamMemQuals: quals,
			IsVariadic:    v.IsVariadic,
			IsNative:      v.IsNative,
			TypedefName:   a.Strdup(v.TypedefName),
		}
	case *PointerType:
		return &PointerType{v.typeBase, CloneType(v.Base, a)}
	case *OpaqueType:
		return &OpaqueType{v.typeBase, a.Strdup(v.Name)}
	default:
		return t
	}
}

// IsPrintable reports whether t is acceptable to `print`/`to_string`/string
// concatenation's right-hand side (spec.md section 4.5, rule for `+`).
func IsPrintable(t Type) bool {
	if t == nil {
		return false
	}
	if p, ok := t.(*PrimitiveType); ok {
		switch p.Kind {
		case PInt, PLong, PInt32, PUint, PUint32, PDouble, PFloat, PChar, PString, PBool, PByte, PAny:
			return true
		}
		return false
	}
	if _, ok := t.(*ArrayType); ok {
		return true
	}
	return false
}

// IsNumeric reports whether t is one of the numeric primitive kinds.
func IsNumeric(t Type) bool {
	p, ok := t.(*PrimitiveType)
	if !ok {
		return false
	}
	switch p.Kind {
	case PInt, PLong, PInt32, PUint, PUint32, PDouble, PFloat:
		return true
	}
	return false
}

// IsReferenceType reports whether t escapes-checking treats it as a
// reference type that cannot leave a `private` scope (spec.md section 4.5).
func IsReferenceType(t Type) bool {
	switch t.(type) {
	case *ArrayType, *FunctionType:
		return true
	case *PrimitiveType:
		return t.(*PrimitiveType).Kind == PString
	}
	return false
}

// PromotionRank orders numeric kinds for widening: double ≻ long ≻ int
// (spec.md section 4.5).
func PromotionRank(k PrimKind) int {
	switch k {
	case PDouble, PFloat:
		return 3
	case PLong:
		return 2
	case PInt, PInt32, PUint, PUint32:
		return 1
	default:
		return 0
	}
}

// Promote returns the widened type of two numeric types. When either side
// has no promotion rank (e.g. byte/char mixed with long), it returns a if
// the two types are equal and nil otherwise; non-primitives give nil.
func Promote(a, b Type) Type {
	ap, aok := a.(*PrimitiveType)
	bp, bok := b.(*PrimitiveType)
	if !aok || !bok {
		return nil
	}
	ra, rb := PromotionRank(ap.Kind), PromotionRank(bp.Kind)
	if ra == 0 || rb == 0 {
		if TypeEquals(a, b) {
			return a
		}
		return nil
	}
	if ra >= rb {
		return a
	}
	return b
}
