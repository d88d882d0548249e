// Package testutil provides shared fixtures and golden-comparison helpers
// for snc's test suite, adapted from the teacher's testutil/golden.go:
// the same UPDATE_GOLDENS-gated write-or-compare flow, reworked around
// plain C source text (compared with go-cmp's textual diff) instead of
// the teacher's deterministic-JSON golden format, since this package's
// golden artifacts are generated C files, not structured values.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// UpdateGoldens controls whether to (re)write golden files from the
// actual output instead of comparing against them.
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// GoldenPath returns the path to a named golden C file under testdata.
func GoldenPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden.c")
}

// AssertGoldenC compares actual generated C source against the recorded
// golden file, or rewrites it when UPDATE_GOLDENS=true.
func AssertGoldenC(t *testing.T, feature, name, actual string) {
	t.Helper()

	path := GoldenPath(feature, name)
	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			t.Fatalf("failed to write golden file: %v", err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file does not exist: %s\nrun with UPDATE_GOLDENS=true to create it", path)
		}
		t.Fatalf("failed to read golden file: %v", err)
	}

	if diff := cmp.Diff(string(expected), actual); diff != "" {
		t.Errorf("golden mismatch for %s/%s (-want +got):\n%s", feature, name, diff)
	}
}

// AssertContainsAll fails the test if any of wants is not a substring of
// actual, reporting every miss rather than stopping at the first.
func AssertContainsAll(t *testing.T, actual string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(actual, want) {
			t.Errorf("expected generated output to contain %q, got:\n%s", want, actual)
		}
	}
}
