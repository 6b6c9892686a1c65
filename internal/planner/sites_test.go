package planner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/layout"
)

func siteSpec(t *testing.T, fractions ...float64) layout.SplitSpec {
	t.Helper()
	spec, err := layout.SiteSpec(fractions)
	require.NoError(t, err)
	return spec
}

func TestBuildSiteSplitPlan_ScenarioSevenItems(t *testing.T) {
	m := fsops.NewMemFS()
	addItems(m, "/in/tumor/case1", 7)
	m.AddDir("/out")

	plan, err := BuildSiteSplitPlan(m, "/in", "/out", siteSpec(t, 0.5, 0.3, 0.2), 3, nil)
	require.NoError(t, err)
	require.False(t, plan.HasConflicts())

	assert.Equal(t, []string{"f0", "f1", "f2"}, itemsFor(plan, "H1", "tumor", "case1"))
	assert.Equal(t, []string{"f3", "f4"}, itemsFor(plan, "H2", "tumor", "case1"))
	assert.Equal(t, []string{"f5", "f6"}, itemsFor(plan, "H3", "tumor", "case1"))
	assert.Empty(t, plan.Slack)
	assert.Equal(t, 7, plan.CountOps(OpCopy))
}

func TestBuildSiteSplitPlan_SkeletonForEverySite(t *testing.T) {
	m := fsops.NewMemFS()
	addItems(m, "/in/tumor/case1", 1)
	m.AddDir("/in/tumor/case2")
	addItems(m, "/in/normal/case3", 2)

	plan, err := BuildSiteSplitPlan(m, "/in", "/out", siteSpec(t, 0.5, 0.3, 0.2), 3, nil)
	require.NoError(t, err)

	mkdirs := map[string]bool{}
	for _, op := range plan.Operations {
		if op.Type == OpMkdir {
			mkdirs[op.RelDest] = true
		}
	}
	for _, site := range []string{"H1", "H2", "H3"} {
		for _, rel := range []string{"", "tumor", "normal", "tumor/case1", "tumor/case2", "normal/case3"} {
			assert.True(t, mkdirs[filepath.Join(site, filepath.FromSlash(rel))], "missing %s/%s", site, rel)
		}
	}
}

func TestBuildSiteSplitPlan_OperationsOrderedBySite(t *testing.T) {
	m := fsops.NewMemFS()
	addItems(m, "/in/tumor/case1", 4)

	plan, err := BuildSiteSplitPlan(m, "/in", "/out", siteSpec(t, 0.5, 0.5), 3, nil)
	require.NoError(t, err)

	var sites []string
	for _, op := range plan.Operations {
		if len(sites) == 0 || sites[len(sites)-1] != op.Bucket {
			sites = append(sites, op.Bucket)
		}
	}
	assert.Equal(t, []string{"H1", "H2"}, sites)
}

func TestBuildSiteSplitPlan_RecordsSlack(t *testing.T) {
	m := fsops.NewMemFS()
	addItems(m, "/in/tumor/case1", 10)

	plan, err := BuildSiteSplitPlan(m, "/in", "/out", siteSpec(t, 0.7, 0.2, 0.1), 3, nil)
	require.NoError(t, err)

	require.Len(t, plan.Slack, 1)
	assert.Equal(t, "case1", plan.Slack[0].Case)
	assert.Equal(t, 1, plan.Slack[0].Dropped)
	assert.Empty(t, itemsFor(plan, "H3", "tumor", "case1"))
	assert.Equal(t, 9, plan.CountOps(OpCopy))
}

func TestBuildSiteSplitPlan_ExistingSite(t *testing.T) {
	m := fsops.NewMemFS()
	addItems(m, "/in/tumor/case1", 2)
	m.AddDir("/out/H2")

	plan, err := BuildSiteSplitPlan(m, "/in", "/out", siteSpec(t, 0.5, 0.5), 3, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, plan.ConflictError(), layout.ErrAlreadyExists)
}

func TestBuildSiteSplitPlan_StrayFiles(t *testing.T) {
	m := fsops.NewMemFS()
	addItems(m, "/in/tumor/case1", 2)
	m.AddFile("/in/tumor/notes.txt", nil)

	plan, err := BuildSiteSplitPlan(m, "/in", "/out", siteSpec(t, 1), 3, nil)
	require.NoError(t, err)
	assert.True(t, plan.HasConflicts())

	filter, err := NewFilter([]string{"*.txt"})
	require.NoError(t, err)
	plan, err = BuildSiteSplitPlan(m, "/in", "/out", siteSpec(t, 1), 3, filter)
	require.NoError(t, err)
	assert.False(t, plan.HasConflicts())
	assert.Equal(t, []string{filepath.Join("tumor", "notes.txt")}, plan.Skipped)
}

func TestBuildSiteSplitPlan_MissingInput(t *testing.T) {
	_, err := BuildSiteSplitPlan(fsops.NewMemFS(), "/in", "/out", siteSpec(t, 1), 3, nil)
	assert.ErrorIs(t, err, layout.ErrNotFound)
}
