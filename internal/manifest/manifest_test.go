package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManifest(t *testing.T) {
	m := New()
	assert.Equal(t, SchemaVersion, m.Schema)
	assert.Equal(t, "snc -manifest", m.Generator)
	assert.Empty(t, m.Scenarios)
}

func TestManifestValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Manifest)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid manifest",
			modify:  func(m *Manifest) {},
			wantErr: false,
		},
		{
			name: "invalid schema version",
			modify: func(m *Manifest) {
				m.Schema = "snc.manifest/v2"
			},
			wantErr: true,
			errMsg:  "unsupported schema version",
		},
		{
			name: "duplicate scenario path",
			modify: func(m *Manifest) {
				m.Scenarios = []Scenario{
					{Path: "test.sn", Status: StatusWorking, Expected: &Expected{}},
					{Path: "test.sn", Status: StatusFailing, Failing: &FailingInfo{Diagnostics: []string{"PAR001"}}},
				}
				m.UpdateStatistics()
			},
			wantErr: true,
			errMsg:  "duplicate scenario path",
		},
		{
			name: "missing path",
			modify: func(m *Manifest) {
				m.Scenarios = []Scenario{{Status: StatusWorking}}
			},
			wantErr: true,
			errMsg:  "missing path",
		},
		{
			name: "invalid status",
			modify: func(m *Manifest) {
				m.Scenarios = []Scenario{{Path: "test.sn", Status: "invalid"}}
			},
			wantErr: true,
			errMsg:  "invalid status",
		},
		{
			name: "working without expected",
			modify: func(m *Manifest) {
				m.Scenarios = []Scenario{{Path: "test.sn", Status: StatusWorking}}
				m.UpdateStatistics()
			},
			wantErr: true,
			errMsg:  "missing expected output",
		},
		{
			name: "failing without diagnostics",
			modify: func(m *Manifest) {
				m.Scenarios = []Scenario{{Path: "test.sn", Status: StatusFailing, Failing: &FailingInfo{Reason: "test"}}}
				m.UpdateStatistics()
			},
			wantErr: true,
			errMsg:  "missing expected diagnostic codes",
		},
		{
			name: "non-sn extension",
			modify: func(m *Manifest) {
				m.Scenarios = []Scenario{{Path: "test.txt", Status: StatusWorking, Expected: &Expected{}}}
				m.UpdateStatistics()
			},
			wantErr: true,
			errMsg:  "must have .sn extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			tt.modify(m)

			err := m.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestStatisticsCalculation(t *testing.T) {
	m := New()
	m.Scenarios = []Scenario{
		{Path: "working1.sn", Status: StatusWorking, Expected: &Expected{}},
		{Path: "working2.sn", Status: StatusWorking, Expected: &Expected{}},
		{Path: "failing1.sn", Status: StatusFailing, Failing: &FailingInfo{Reason: "test", Diagnostics: []string{"PAR001"}}},
	}
	m.UpdateStatistics()

	assert.Equal(t, 3, m.Statistics.Total)
	assert.Equal(t, 2, m.Statistics.Working)
	assert.Equal(t, 1, m.Statistics.Failing)
	assert.InDelta(t, 2.0/3.0, m.Statistics.Coverage, 1e-9)
}

func TestFindScenario(t *testing.T) {
	m := New()
	m.Scenarios = []Scenario{
		{Path: "test1.sn", Status: StatusWorking, Expected: &Expected{}},
		{Path: "test2.sn", Status: StatusFailing, Failing: &FailingInfo{Reason: "test", Diagnostics: []string{"PAR001"}}},
	}

	sc, found := m.FindScenario("test1.sn")
	require.True(t, found)
	assert.Equal(t, StatusWorking, sc.Status)

	_, found = m.FindScenario("test3.sn")
	assert.False(t, found)
}

func TestWorkingScenarios(t *testing.T) {
	m := New()
	m.Scenarios = []Scenario{
		{Path: "working1.sn", Status: StatusWorking, Expected: &Expected{}},
		{Path: "failing.sn", Status: StatusFailing, Failing: &FailingInfo{Reason: "test", Diagnostics: []string{"PAR001"}}},
		{Path: "working2.sn", Status: StatusWorking, Expected: &Expected{}},
	}

	working := m.WorkingScenarios()
	require.Len(t, working, 2)
	for _, sc := range working {
		assert.Equal(t, StatusWorking, sc.Status)
	}
}

func TestSchemaDigest(t *testing.T) {
	m := New()
	m.UpdateSchemaDigest()

	assert.NotEmpty(t, m.SchemaDigest)
	assert.True(t, strings.HasPrefix(m.SchemaDigest, "sha256:"))
	assert.Equal(t, m.calculateSchemaDigest(), m.calculateSchemaDigest())
}

func TestGenerateREADMESection(t *testing.T) {
	m := New()
	m.GeneratedAt = time.Date(2024, 9, 29, 12, 0, 0, 0, time.UTC)
	m.Scenarios = []Scenario{
		{Path: "working.sn", Status: StatusWorking, Description: "a working scenario", Expected: &Expected{}},
		{Path: "failing.sn", Status: StatusFailing, Failing: &FailingInfo{
			Reason:      "escape from a private block",
			Diagnostics: []string{"TYP007"},
		}},
	}
	m.UpdateStatistics()

	readme := m.GenerateREADMESection()

	assert.Contains(t, readme, "## Scenario Status")
	assert.Contains(t, readme, "Coverage: 50.0%")
	assert.Contains(t, readme, "### Working")
	assert.Contains(t, readme, "### Expected to fail")
	assert.Contains(t, readme, "working.sn")
	assert.Contains(t, readme, "TYP007")
	assert.Contains(t, readme, "2024-09-29 12:00:00 UTC")
}

func TestLoadSaveManifest(t *testing.T) {
	tmpDir := t.TempDir()
	manifestPath := filepath.Join(tmpDir, "manifest.yml")

	m1 := New()
	m1.Scenarios = []Scenario{
		{Path: "test.sn", Status: StatusWorking, Expected: &Expected{Contains: []string{"int x ="}}},
	}
	m1.UpdateStatistics()

	require.NoError(t, m1.Save(manifestPath))
	_, err := os.Stat(manifestPath)
	require.NoError(t, err)

	m2, err := Load(manifestPath)
	require.NoError(t, err)

	assert.Equal(t, m1.Schema, m2.Schema)
	require.Len(t, m2.Scenarios, 1)
	assert.Equal(t, "test.sn", m2.Scenarios[0].Path)
	assert.Equal(t, 1, m2.Statistics.Total)
}
