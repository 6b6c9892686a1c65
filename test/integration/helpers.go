// Package integration exercises the engines against a real filesystem.
package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/danieljhkim/corpussplit/internal/clock"
	"github.com/danieljhkim/corpussplit/internal/engine"
	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/hash"
	"github.com/danieljhkim/corpussplit/internal/layout"
	"github.com/danieljhkim/corpussplit/internal/planner"
)

// newEngine returns an engine over the real filesystem with a fixed clock.
func newEngine() *engine.Engine {
	clk := clock.NewSteppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)
	return engine.New(fsops.NewRealFS(), hash.NewSHA256Hasher(), clk, nil)
}

// writeItems creates n files named f00, f01, ... in dir. Each file holds its
// own base name so moved items can be traced.
func writeItems(t *testing.T, dir string, n int) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("f%02d", i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

// listNames returns the sorted entry names of dir, or nil if it is missing.
func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// mustRead returns the contents of path.
func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// flatSpec builds the train/valid/test spec.
func flatSpec(t *testing.T, fractions ...float64) layout.SplitSpec {
	t.Helper()
	spec, err := layout.FlatSpec(fractions)
	if err != nil {
		t.Fatalf("FlatSpec(%v) error = %v", fractions, err)
	}
	return spec
}

// siteSpec builds the H1..Hn spec.
func siteSpec(t *testing.T, fractions ...float64) layout.SplitSpec {
	t.Helper()
	spec, err := layout.SiteSpec(fractions)
	if err != nil {
		t.Fatalf("SiteSpec(%v) error = %v", fractions, err)
	}
	return spec
}

// assertNoStaging fails if a staging directory was left in root.
func assertNoStaging(t *testing.T, root string) {
	t.Helper()
	for _, name := range listNames(t, root) {
		if layout.IsStagingName(name) {
			t.Errorf("staging directory %s left in %s", name, root)
		}
	}
}

// itemsFor returns the items assigned to bucket for the category and case.
func itemsFor(plan *planner.Plan, bucket, category, caseName string) []string {
	for _, a := range plan.Assignments {
		if a.Bucket == bucket && a.Category == category && a.Case == caseName {
			return a.Items
		}
	}
	return nil
}
