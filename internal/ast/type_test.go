package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arenalang/snc/internal/arena"
)

func TestTypeEqualsPrimitives(t *testing.T) {
	assert.True(t, TypeEquals(TInt, NewPrimitive(Pos{}, PInt)))
	assert.False(t, TypeEquals(TInt, TLong))
}

func TestTypeEqualsAny(t *testing.T) {
	assert.True(t, TypeEquals(TAny, TString))
	assert.True(t, TypeEquals(TInt, TAny))
}

func TestTypeEqualsArrays(t *testing.T) {
	a1 := NewArray(Pos{}, TInt)
	a2 := NewArray(Pos{}, NewPrimitive(Pos{}, PInt))
	assert.True(t, TypeEquals(a1, a2))
	assert.False(t, TypeEquals(a1, NewArray(Pos{}, TString)))
}

func TestTypeEqualsFunctions(t *testing.T) {
	f1 := NewFunction(Pos{}, TInt, []Type{TInt, TString}, nil, false, false, "")
	f2 := NewFunction(Pos{}, TInt, []Type{TInt, TString}, nil, false, false, "")
	assert.True(t, TypeEquals(f1, f2))
	f3 := NewFunction(Pos{}, TInt, []Type{TInt}, nil, false, false, "")
	assert.False(t, TypeEquals(f1, f3))
}

func TestCloneTypeRoundTrip(t *testing.T) {
	a := arena.New(0)
	orig := NewFunction(Pos{}, TString, []Type{NewArray(Pos{}, TInt)}, []MemQual{MemQualVal}, false, false, "Callback")
	cloned := CloneType(orig, a)
	assert.True(t, TypeEquals(orig, cloned))
	cf := cloned.(*FunctionType)
	assert.Equal(t, "Callback", cf.TypedefName)
}

func TestPromotion(t *testing.T) {
	assert.Equal(t, TDouble.String(), Promote(TInt, TDouble).String())
	assert.Equal(t, TDouble.String(), Promote(TDouble, TInt).String())
	assert.Equal(t, TLong.String(), Promote(TLong, TInt).String())
}

func TestIsReferenceType(t *testing.T) {
	assert.True(t, IsReferenceType(TString))
	assert.True(t, IsReferenceType(NewArray(Pos{}, TInt)))
	assert.False(t, IsReferenceType(TInt))
}

func TestIsPrintable(t *testing.T) {
	assert.True(t, IsPrintable(TInt))
	assert.True(t, IsPrintable(NewArray(Pos{}, TBool)))
	assert.False(t, IsPrintable(TVoid))
}
