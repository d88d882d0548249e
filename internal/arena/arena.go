// Package arena implements the compile-time bump allocator described in
// spec.md section 4.1. Every AST node, token lexeme copy, and symbol the
// compiler creates is allocated from a single Arena; the arena is released
// as one unit when the compiler exits. Allocation never fails except by
// abort — the compiler is a short-lived batch tool and an out-of-memory
// condition here is unrecoverable.
package arena

import "fmt"

const (
	defaultBlockSize = 64 * 1024
	alignment        = 8
)

// Arena is a growable bump allocator. It is not safe for concurrent use;
// the compiler is single-threaded per spec.md section 5.
type Arena struct {
	blocks   [][]byte
	cur      []byte
	used     int
	blockLen int
	total    int
}

// New creates an Arena whose blocks grow in blockSize increments. A
// blockSize of 0 selects a sensible default.
func New(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	a := &Arena{blockLen: blockSize}
	a.grow(blockSize)
	return a
}

func (a *Arena) grow(min int) {
	size := a.blockLen
	if size < min {
		size = min
	}
	block := make([]byte, size)
	a.blocks = append(a.blocks, block)
	a.cur = block
	a.used = 0
}

func alignUp(n int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}

// Alloc reserves nbytes of zeroed memory with 8-byte alignment. Allocation
// never returns an error; a request too large for a single block is
// satisfied by a dedicated oversized block.
func (a *Arena) Alloc(nbytes int) []byte {
	if nbytes < 0 {
		panic(fmt.Sprintf("arena: negative allocation size %d", nbytes))
	}
	need := alignUp(nbytes)
	if a.used+need > len(a.cur) {
		a.grow(need)
	}
	b := a.cur[a.used : a.used+nbytes : a.used+need]
	a.used += need
	a.total += need
	return b
}

// Strdup copies s into the arena and returns the copy. Used to normalize
// every borrowed token/lexeme into an arena-owned string with no lifetime
// ambiguity, per spec.md section 9 (dedup of borrowed vs owned strings).
func (a *Arena) Strdup(s string) string {
	buf := a.Alloc(len(s))
	copy(buf, s)
	return string(buf)
}

// Strndup copies the first n bytes of s into the arena.
func (a *Arena) Strndup(s string, n int) string {
	if n > len(s) {
		n = len(s)
	}
	return a.Strdup(s[:n])
}

// Sprintf formats into arena-owned memory, mirroring the C runtime's
// arena_sprintf helper used for compiler-internal message construction.
func (a *Arena) Sprintf(format string, args ...interface{}) string {
	return a.Strdup(fmt.Sprintf(format, args...))
}

// Bytes returns the number of bytes handed out so far across all blocks.
func (a *Arena) Bytes() int {
	return a.total
}

// FreeAll releases every block. It is the only deallocation path; the
// Arena must not be used afterward.
func (a *Arena) FreeAll() {
	a.blocks = nil
	a.cur = nil
	a.used = 0
	a.total = 0
}
