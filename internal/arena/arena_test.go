package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocAlignment(t *testing.T) {
	a := New(64)
	p1 := a.Alloc(3)
	p2 := a.Alloc(1)
	require.NotNil(t, p1)
	require.NotNil(t, p2)
	assert.Equal(t, 3, len(p1))
	assert.Equal(t, 1, len(p2))
	assert.Equal(t, 16, a.Bytes())
}

func TestStrdupCopiesAndIsolates(t *testing.T) {
	a := New(64)
	src := []byte("hello")
	s := a.Strdup(string(src))
	src[0] = 'X'
	assert.Equal(t, "hello", s)
}

func TestStrndup(t *testing.T) {
	a := New(64)
	s := a.Strndup("hello world", 5)
	assert.Equal(t, "hello", s)
}

func TestGrowAcrossBlocks(t *testing.T) {
	a := New(16)
	for i := 0; i < 100; i++ {
		a.Strdup("0123456789")
	}
	assert.Greater(t, a.Bytes(), 900)
	assert.Greater(t, len(a.blocks), 1)
}

func TestSprintf(t *testing.T) {
	a := New(64)
	s := a.Sprintf("%s:%d", "main.sn", 12)
	assert.Equal(t, "main.sn:12", s)
}

func TestFreeAllResets(t *testing.T) {
	a := New(64)
	a.Strdup("abc")
	a.FreeAll()
	assert.Equal(t, 0, a.Bytes())
}
