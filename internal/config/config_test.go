package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("links:\n  - -lm\nsearch_paths:\n  - ./vendor\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"-lm"}, c.Links)
	assert.Equal(t, []string{"./vendor"}, c.SearchPaths)
}

func TestDiscoverWalksUpToAncestor(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("links: [-lm]\n"), 0o644))

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	c, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, []string{"-lm"}, c.Links)
}

func TestDiscoverReturnsEmptyWhenAbsent(t *testing.T) {
	c, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, c.Links)
	assert.Empty(t, c.SearchPaths)
}

func TestMergeLinksDedupsPreservingOrder(t *testing.T) {
	c := &Config{Links: []string{"-lm", "-lpthread"}}
	got := c.MergeLinks([]string{"-lpthread", "-lcurl"})
	assert.Equal(t, []string{"-lm", "-lpthread", "-lcurl"}, got)
}

func TestMergeLinksNilConfig(t *testing.T) {
	var c *Config
	got := c.MergeLinks([]string{"-lm"})
	assert.Equal(t, []string{"-lm"}, got)
}

func TestResolveSearchPathsCLITakesPrecedenceOrder(t *testing.T) {
	c := &Config{SearchPaths: []string{"./lib"}}
	got := c.ResolveSearchPaths([]string{"./cli"})
	assert.Equal(t, []string{"./cli", "./lib"}, got)
}
