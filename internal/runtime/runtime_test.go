package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupKnownSymbol(t *testing.T) {
	sig, ok := Lookup("rt_arena_create")
	assert.True(t, ok)
	assert.Equal(t, CatArena, sig.Category)
}

func TestLookupUnknownSymbol(t *testing.T) {
	_, ok := Lookup("rt_does_not_exist")
	assert.False(t, ok)
}

func TestMustLookupPanicsOnMiss(t *testing.T) {
	assert.Panics(t, func() { MustLookup("rt_nope") })
}

func TestEverySuffixedArithmeticHelperRegistered(t *testing.T) {
	for _, name := range []string{"rt_add_long", "rt_sub_double", "rt_mul_long", "rt_div_double", "rt_neg_long", "rt_mod_long"} {
		_, ok := Lookup(name)
		assert.True(t, ok, "expected %s to be registered", name)
	}
}

func TestAllReturnsNonEmptyRegistry(t *testing.T) {
	assert.NotEmpty(t, All())
}
