package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/corpussplit/internal/clock"
	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/hash"
)

func siteCorpus() *fsops.MemFS {
	m := fsops.NewMemFS()
	addItems(m, "/in/tumor/case1", 7)
	m.AddDir("/in/tumor/case2")
	addItems(m, "/in/normal/case3", 1)
	return m
}

func TestSplitSites_SevenItems(t *testing.T) {
	m := siteCorpus()
	source := m.Paths()

	result, err := newTestEngine(m).SplitSites(context.Background(), &SiteSplitRequest{
		Input:  "/in",
		Output: "/out",
		Spec:   siteSpec(t, 0.5, 0.3, 0.2),
		Seed:   3,
		Verify: true,
	})
	require.NoError(t, err)
	assert.True(t, result.Staged)

	assert.Equal(t, []string{"f00", "f01", "f02"}, m.Names("/out/H1/tumor/case1"))
	assert.Equal(t, []string{"f03", "f04"}, m.Names("/out/H2/tumor/case1"))
	assert.Equal(t, []string{"f05", "f06"}, m.Names("/out/H3/tumor/case1"))

	// source untouched
	for _, p := range source {
		_, err := m.Lstat(p)
		assert.NoError(t, err, p)
	}
	assert.Len(t, m.Names("/in/tumor/case1"), 7)

	data, err := m.ReadFile("/out/H2/tumor/case1/f03")
	require.NoError(t, err)
	assert.Equal(t, "/in/tumor/case1/f03", string(data))
}

func TestSplitSites_SkeletonComplete(t *testing.T) {
	m := siteCorpus()

	_, err := newTestEngine(m).SplitSites(context.Background(), &SiteSplitRequest{
		Input: "/in", Output: "/out", Spec: siteSpec(t, 0.5, 0.3, 0.2),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"H1", "H2", "H3"}, m.Names("/out"))
	for _, site := range []string{"H1", "H2", "H3"} {
		for _, dir := range []string{"tumor/case1", "tumor/case2", "normal/case3"} {
			assert.True(t, m.IsDir(filepath.Join("/out", site, dir)), "%s/%s", site, dir)
		}
	}
	// a single item only reaches the last site: [0,0), [0,0), [0,1)
	assert.Empty(t, m.Names("/out/H1/normal/case3"))
	assert.Equal(t, []string{"f00"}, m.Names("/out/H3/normal/case3"))
}

func TestSplitSites_DirectMatchesStaged(t *testing.T) {
	staged, direct := siteCorpus(), siteCorpus()
	spec := siteSpec(t, 0.7, 0.2, 0.1)

	_, err := newTestEngine(staged).SplitSites(context.Background(), &SiteSplitRequest{Input: "/in", Output: "/out", Spec: spec})
	require.NoError(t, err)
	_, err = newTestEngine(direct).SplitSites(context.Background(), &SiteSplitRequest{Input: "/in", Output: "/out", Spec: spec, Direct: true})
	require.NoError(t, err)

	assert.Equal(t, staged.Paths(), direct.Paths())
}

func TestSplitSites_VerifyMismatchRollsBack(t *testing.T) {
	m := siteCorpus()
	eng := New(m, hash.NewFakeHasher(), clock.NewFakeClock(time.Time{}), nil)

	_, err := eng.SplitSites(context.Background(), &SiteSplitRequest{
		Input: "/in", Output: "/out", Spec: siteSpec(t, 0.5, 0.5), Verify: true,
	})
	require.ErrorIs(t, err, ErrVerify)
	assert.Empty(t, m.Names("/out"))
}

func TestSplitSites_CopyFailureRollsBack(t *testing.T) {
	m := siteCorpus()
	m.FailOn("copy", "/in/tumor/case1/f05", errBoom)

	_, err := newTestEngine(m).SplitSites(context.Background(), &SiteSplitRequest{
		Input: "/in", Output: "/out", Spec: siteSpec(t, 0.5, 0.3, 0.2),
	})
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, m.Names("/out"))
}

func TestSplitSites_ExistingSite(t *testing.T) {
	m := siteCorpus()
	m.AddDir("/out/H1")

	_, err := newTestEngine(m).SplitSites(context.Background(), &SiteSplitRequest{
		Input: "/in", Output: "/out", Spec: siteSpec(t, 0.5, 0.5),
	})
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, []string{"H1"}, m.Names("/out"))
}

func TestSplitSites_ReplaceClearsOutput(t *testing.T) {
	m := siteCorpus()
	m.AddFile("/out/H1/tumor/case1/stale", nil)

	_, err := newTestEngine(m).SplitSites(context.Background(), &SiteSplitRequest{
		Input: "/in", Output: "/out", Replace: true, Spec: siteSpec(t, 0.5, 0.5),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"H1", "H2"}, m.Names("/out"))
	assert.NotContains(t, m.Names("/out/H1/tumor/case1"), "stale")
}

func TestSplitSites_ReplaceDryRunLeavesOutput(t *testing.T) {
	m := siteCorpus()
	m.AddFile("/out/H1/tumor/case1/stale", nil)
	before := m.Paths()

	result, err := newTestEngine(m).SplitSites(context.Background(), &SiteSplitRequest{
		Input: "/in", Output: "/out", Replace: true, DryRun: true, Spec: siteSpec(t, 0.5, 0.5),
	})
	require.NoError(t, err)
	assert.False(t, result.Plan.HasConflicts())
	assert.Equal(t, before, m.Paths())
}

func TestSplitSites_OutputInsideInput(t *testing.T) {
	m := siteCorpus()

	_, err := newTestEngine(m).SplitSites(context.Background(), &SiteSplitRequest{
		Input: "/in", Output: "/in/tumor/out", Spec: siteSpec(t, 1),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestSplitSites_SlackReported(t *testing.T) {
	m := fsops.NewMemFS()
	addItems(m, "/in/tumor/case1", 10)

	result, err := newTestEngine(m).SplitSites(context.Background(), &SiteSplitRequest{
		Input: "/in", Output: "/out", Spec: siteSpec(t, 0.7, 0.2, 0.1),
	})
	require.NoError(t, err)

	require.Len(t, result.Plan.Slack, 1)
	assert.Equal(t, 1, result.Plan.Slack[0].Dropped)
	assert.Len(t, m.Names("/out/H1/tumor/case1"), 7)
	assert.Len(t, m.Names("/out/H2/tumor/case1"), 2)
	assert.Empty(t, m.Names("/out/H3/tumor/case1"))
}
