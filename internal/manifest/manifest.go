// Package manifest provides types and validation for snc's golden
// end-to-end scenario manifests (spec.md section 8's seed suite S1-S6 and
// beyond). The manifest system keeps the scenario suite self-describing and
// keeps its statistics honest, adapted from the teacher's example-manifest
// convention (internal/manifest), switched from JSON to the teacher's other
// serialization library (gopkg.in/yaml.v3) since scenario sources read far
// better as YAML block-scalars than as escaped JSON strings.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the current manifest schema identifier.
const SchemaVersion = "snc.manifest/v1"

// Status represents the expected outcome of compiling a scenario.
type Status string

const (
	StatusWorking Status = "working"
	StatusFailing Status = "failing"
)

// Expected captures the emitted-C substrings a working scenario must
// contain (spec.md section 8's seed-suite assertions, e.g. S1's
// `double x = rt_mul_double(pi, 2.0);`).
type Expected struct {
	Contains []string `yaml:"contains,omitempty"`
}

// FailingInfo records why a scenario is expected to fail and which
// diagnostic codes it must produce (spec.md section 8's S5: reference
// escape from a private block reports TYP007).
type FailingInfo struct {
	Reason      string   `yaml:"reason"`
	Diagnostics []string `yaml:"diagnostics"`
}

// Scenario is a single named source-to-C compile scenario.
type Scenario struct {
	Path        string       `yaml:"path"`                  // relative path to the .sn source
	Status      Status       `yaml:"status"`
	Tags        []string     `yaml:"tags,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Expected    *Expected    `yaml:"expected,omitempty"`
	Failing     *FailingInfo `yaml:"failing,omitempty"`
}

// Statistics aggregates the suite's pass coverage.
type Statistics struct {
	Total    int     `yaml:"total"`
	Working  int     `yaml:"working"`
	Failing  int     `yaml:"failing"`
	Coverage float64 `yaml:"coverage"`
}

// Manifest is the complete scenario suite.
type Manifest struct {
	Schema       string     `yaml:"schema"`
	SchemaDigest string     `yaml:"schema_digest"`
	GeneratedAt  time.Time  `yaml:"generated_at"`
	Generator    string     `yaml:"generator"`
	Scenarios    []Scenario `yaml:"scenarios"`
	Statistics   Statistics `yaml:"statistics"`
}

// New creates an empty Manifest stamped with the current schema.
func New() *Manifest {
	return &Manifest{
		Schema:      SchemaVersion,
		GeneratedAt: time.Now().UTC(),
		Generator:   "snc -manifest",
		Scenarios:   []Scenario{},
	}
}

// Load reads and validates a manifest from a YAML file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest validation failed: %w", err)
	}

	return &m, nil
}

// Save writes the manifest back out as YAML with refreshed statistics and
// schema digest, sorted by path for deterministic diffs.
func (m *Manifest) Save(path string) error {
	m.UpdateStatistics()
	m.UpdateSchemaDigest()

	sort.Slice(m.Scenarios, func(i, j int) bool {
		return m.Scenarios[i].Path < m.Scenarios[j].Path
	})

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the manifest for internal consistency.
func (m *Manifest) Validate() error {
	if m.Schema != SchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected %s)", m.Schema, SchemaVersion)
	}

	if m.SchemaDigest != "" {
		if expected := m.calculateSchemaDigest(); m.SchemaDigest != expected {
			return fmt.Errorf("schema digest mismatch: got %s, expected %s", m.SchemaDigest, expected)
		}
	}

	seen := make(map[string]bool)
	for _, sc := range m.Scenarios {
		if seen[sc.Path] {
			return fmt.Errorf("duplicate scenario path: %s", sc.Path)
		}
		seen[sc.Path] = true
		if err := validateScenario(sc); err != nil {
			return fmt.Errorf("invalid scenario %s: %w", sc.Path, err)
		}
	}

	if stats := m.calculateStatistics(); m.Statistics != stats {
		return fmt.Errorf("statistics mismatch: recorded %+v, calculated %+v", m.Statistics, stats)
	}

	return nil
}

func validateScenario(sc Scenario) error {
	if sc.Path == "" {
		return fmt.Errorf("missing path")
	}
	if !strings.HasSuffix(sc.Path, ".sn") {
		return fmt.Errorf("scenario path must have .sn extension")
	}
	switch sc.Status {
	case StatusWorking:
		if sc.Expected == nil {
			return fmt.Errorf("working scenario missing expected output")
		}
		if sc.Failing != nil {
			return fmt.Errorf("working scenario should not carry failing info")
		}
	case StatusFailing:
		if sc.Failing == nil || len(sc.Failing.Diagnostics) == 0 {
			return fmt.Errorf("failing scenario missing expected diagnostic codes")
		}
	default:
		return fmt.Errorf("invalid status: %s", sc.Status)
	}
	return nil
}

// UpdateStatistics recalculates Statistics from Scenarios.
func (m *Manifest) UpdateStatistics() { m.Statistics = m.calculateStatistics() }

func (m *Manifest) calculateStatistics() Statistics {
	stats := Statistics{Total: len(m.Scenarios)}
	for _, sc := range m.Scenarios {
		switch sc.Status {
		case StatusWorking:
			stats.Working++
		case StatusFailing:
			stats.Failing++
		}
	}
	if stats.Total > 0 {
		stats.Coverage = float64(stats.Working) / float64(stats.Total)
	}
	return stats
}

// UpdateSchemaDigest recalculates the schema digest.
func (m *Manifest) UpdateSchemaDigest() { m.SchemaDigest = m.calculateSchemaDigest() }

func (m *Manifest) calculateSchemaDigest() string {
	hash := sha256.Sum256([]byte(m.Schema))
	return "sha256:" + hex.EncodeToString(hash[:])[:16]
}

// FindScenario locates a scenario by path.
func (m *Manifest) FindScenario(path string) (*Scenario, bool) {
	for i := range m.Scenarios {
		if m.Scenarios[i].Path == path {
			return &m.Scenarios[i], true
		}
	}
	return nil, false
}

// WorkingScenarios returns every scenario expected to compile clean.
func (m *Manifest) WorkingScenarios() []Scenario {
	var out []Scenario
	for _, sc := range m.Scenarios {
		if sc.Status == StatusWorking {
			out = append(out, sc)
		}
	}
	return out
}

// FailingScenarios returns every scenario expected to fail diagnostics.
func (m *Manifest) FailingScenarios() []Scenario {
	var out []Scenario
	for _, sc := range m.Scenarios {
		if sc.Status == StatusFailing {
			out = append(out, sc)
		}
	}
	return out
}

// GenerateREADMESection renders the same status-table README fragment the
// teacher's manifest generates for its example corpus, adapted to scenarios.
func (m *Manifest) GenerateREADMESection() string {
	var buf strings.Builder

	buf.WriteString("## Scenario Status\n\n")
	buf.WriteString("_Generated from the scenario manifest - do not edit manually_\n\n")
	buf.WriteString(fmt.Sprintf("**Coverage: %.1f%%** (%d/%d working)\n\n",
		m.Statistics.Coverage*100, m.Statistics.Working, m.Statistics.Total))

	if working := m.WorkingScenarios(); len(working) > 0 {
		buf.WriteString("### Working\n\n| File | Description |\n|------|-------------|\n")
		for _, sc := range working {
			desc := sc.Description
			if desc == "" {
				desc = filepath.Base(sc.Path)
			}
			buf.WriteString(fmt.Sprintf("| `%s` | %s |\n", sc.Path, desc))
		}
		buf.WriteString("\n")
	}

	if failing := m.FailingScenarios(); len(failing) > 0 {
		buf.WriteString("### Expected to fail\n\n| File | Reason | Diagnostics |\n|------|--------|-------------|\n")
		for _, sc := range failing {
			buf.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", sc.Path, sc.Failing.Reason, strings.Join(sc.Failing.Diagnostics, ", ")))
		}
		buf.WriteString("\n")
	}

	buf.WriteString(fmt.Sprintf("_Last updated: %s_\n", m.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))
	return buf.String()
}
