package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("fn main =>\n")...)
	out := Normalize(src)
	assert.Equal(t, "fn main =>\n", string(out))
}

func TestNormalizeNFC(t *testing.T) {
	nfd := "café" // "café" in NFD
	out := Normalize([]byte(nfd))
	assert.Equal(t, "café", string(out))
}
