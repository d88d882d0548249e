// Package config loads the `.snc.yml` project manifest: default `#link`
// libraries and import search roots shared across a multi-file project, so
// every file doesn't need to repeat the same `#link` pragma (spec.md
// section 3's supplemented features). Grounded on the yaml.v3 convention
// internal/manifest establishes for the golden-scenario manifest.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project manifest filename searched for relative to the
// entry file's directory, and then each of its ancestors up to the
// filesystem root, mirroring how `git` walks up looking for `.git`.
const FileName = ".snc.yml"

// Config is a project's compiler configuration.
type Config struct {
	// Links are `#link` pragma values applied to every file, in addition to
	// whatever each file declares itself.
	Links []string `yaml:"links,omitempty"`
	// SearchPaths are additional import search roots for bare import paths,
	// tried in order before the importing file's own directory
	// (internal/loader's fallback).
	SearchPaths []string `yaml:"search_paths,omitempty"`
}

// Load reads path directly.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &c, nil
}

// Discover walks startDir and its ancestors looking for FileName, returning
// an empty Config (not an error) if none is found anywhere up to the root -
// a project manifest is optional.
func Discover(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return &Config{}, nil
		}
		dir = parent
	}
}

// ResolveSearchPaths merges the config's search roots with any CLI-supplied
// ones, config paths last so CLI flags take precedence on name collisions
// (internal/loader resolves import paths by trying each root in order).
func (c *Config) ResolveSearchPaths(cliPaths []string) []string {
	if c == nil {
		return cliPaths
	}
	return append(append([]string{}, cliPaths...), c.SearchPaths...)
}

// MergeLinks returns the config's default links followed by the file's own,
// deduplicated, preserving first-seen order.
func (c *Config) MergeLinks(fileLinks []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if c != nil {
		for _, l := range c.Links {
			add(l)
		}
	}
	for _, l := range fileLinks {
		add(l)
	}
	return out
}
