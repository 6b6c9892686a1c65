package engine

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/corpussplit/internal/clock"
	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/hash"
	"github.com/danieljhkim/corpussplit/internal/layout"
	"github.com/danieljhkim/corpussplit/internal/planner"
)

func flatCorpus() *fsops.MemFS {
	m := fsops.NewMemFS()
	addItems(m, "/corpus/tumor", 10)
	addItems(m, "/corpus/normal", 5)
	return m
}

func TestSplit_Staged(t *testing.T) {
	m := flatCorpus()
	eng := newTestEngine(m)

	result, err := eng.Split(context.Background(), &SplitRequest{
		Root: "/corpus",
		Spec: flatSpec(t, 0.7, 0.2, 0.1),
		Seed: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "run1", result.RunID)
	assert.True(t, result.Staged)
	assert.Equal(t, len(result.Plan.Operations), result.Applied)
	assert.True(t, result.FinishedAt.After(result.StartedAt))

	assert.Equal(t, []string{"test", "train", "valid"}, m.Names("/corpus"))
	assert.Len(t, m.Names("/corpus/train/tumor"), 7)
	assert.Len(t, m.Names("/corpus/valid/tumor"), 2)
	assert.Len(t, m.Names("/corpus/test/tumor"), 1)
	assert.Len(t, m.Names("/corpus/train/normal"), 4)
	assert.Len(t, m.Names("/corpus/valid/normal"), 1)
	assert.Empty(t, m.Names("/corpus/test/normal"))
	assert.True(t, m.IsDir("/corpus/test/normal"))

	for _, item := range itemsFor(result.Plan, layout.Valid, "tumor", "") {
		data, err := m.ReadFile(filepath.Join("/corpus/valid/tumor", item))
		require.NoError(t, err)
		assert.Equal(t, "/corpus/tumor/"+item, string(data))
	}
}

func TestSplit_DirectMatchesStaged(t *testing.T) {
	staged := flatCorpus()
	direct := flatCorpus()

	_, err := newTestEngine(staged).Split(context.Background(), &SplitRequest{
		Root: "/corpus", Spec: flatSpec(t, 0.7, 0.2, 0.1), Seed: 3,
	})
	require.NoError(t, err)

	result, err := newTestEngine(direct).Split(context.Background(), &SplitRequest{
		Root: "/corpus", Spec: flatSpec(t, 0.7, 0.2, 0.1), Seed: 3, Direct: true,
	})
	require.NoError(t, err)
	assert.False(t, result.Staged)

	assert.Equal(t, staged.Paths(), direct.Paths())
}

func TestSplit_Deterministic(t *testing.T) {
	a, b := flatCorpus(), flatCorpus()
	req := func() *SplitRequest {
		return &SplitRequest{Root: "/corpus", Spec: flatSpec(t, 0.6, 0.2, 0.2), Seed: 42}
	}

	_, err := newTestEngine(a).Split(context.Background(), req())
	require.NoError(t, err)
	_, err = newTestEngine(b).Split(context.Background(), req())
	require.NoError(t, err)

	assert.Equal(t, a.Paths(), b.Paths())
}

func TestSplit_EmptyCategory(t *testing.T) {
	m := fsops.NewMemFS()
	m.AddDir("/corpus/empty")

	_, err := newTestEngine(m).Split(context.Background(), &SplitRequest{
		Root: "/corpus", Spec: flatSpec(t, 0.7, 0.2, 0.1), Seed: 3,
	})
	require.NoError(t, err)

	for _, p := range layout.PartitionNames() {
		assert.True(t, m.IsDir(filepath.Join("/corpus", p, "empty")), p)
	}
	assert.False(t, m.IsDir("/corpus/empty"))
}

func TestSplit_VerifyStagedTree(t *testing.T) {
	m := flatCorpus()

	_, err := newTestEngine(m).Split(context.Background(), &SplitRequest{
		Root: "/corpus", Spec: flatSpec(t, 0.7, 0.2, 0.1), Seed: 3, Verify: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"test", "train", "valid"}, m.Names("/corpus"))
}

func TestSplit_RollbackOnMoveFailure(t *testing.T) {
	m := flatCorpus()
	eng := newTestEngine(m)
	spec := flatSpec(t, 0.7, 0.2, 0.1)

	dry, err := eng.Split(context.Background(), &SplitRequest{Root: "/corpus", Spec: spec, Seed: 3, DryRun: true})
	require.NoError(t, err)
	last := itemsFor(dry.Plan, layout.Test, "tumor", "")
	require.NotEmpty(t, last)

	before := m.Paths()
	m.FailOn("move", filepath.Join("/corpus/tumor", last[0]), errBoom)

	result, err := eng.Split(context.Background(), &SplitRequest{Root: "/corpus", Spec: spec, Seed: 3})
	require.ErrorIs(t, err, errBoom)
	require.NotNil(t, result)

	assert.Equal(t, before, m.Paths(), "tree must be restored")
	assert.False(t, m.IsDir(filepath.Join("/corpus", layout.StagingName("run1"))))
}

func TestSplit_DirectFailureLeavesPartialTree(t *testing.T) {
	m := flatCorpus()
	m.FailOn("mkdir", "/corpus/test/tumor", errBoom)

	_, err := newTestEngine(m).Split(context.Background(), &SplitRequest{
		Root: "/corpus", Spec: flatSpec(t, 0.7, 0.2, 0.1), Seed: 3, Direct: true,
	})
	require.ErrorIs(t, err, errBoom)
	assert.True(t, m.IsDir("/corpus/train"))
}

func TestSplit_ConflictLeavesTreeUntouched(t *testing.T) {
	m := flatCorpus()
	m.AddFile("/corpus/README", []byte("notes"))
	before := m.Paths()

	result, err := newTestEngine(m).Split(context.Background(), &SplitRequest{
		Root: "/corpus", Spec: flatSpec(t, 0.7, 0.2, 0.1), Seed: 3,
	})
	require.ErrorIs(t, err, ErrConflict)
	require.NotNil(t, result)
	assert.True(t, result.Plan.HasConflicts())
	assert.Equal(t, before, m.Paths())
}

func TestSplit_DryRun(t *testing.T) {
	m := flatCorpus()
	before := m.Paths()

	result, err := newTestEngine(m).Split(context.Background(), &SplitRequest{
		Root: "/corpus", Spec: flatSpec(t, 0.7, 0.2, 0.1), Seed: 3, DryRun: true,
	})
	require.NoError(t, err)
	assert.Zero(t, result.Applied)
	assert.Equal(t, 15, result.Plan.CountOps(planner.OpMove))
	assert.Equal(t, before, m.Paths())
}

func TestSplit_WarnsWhenFractionsMissOne(t *testing.T) {
	tests := []struct {
		name      string
		fractions []float64
		wantWarn  bool
	}{
		{name: "default", fractions: []float64{0.7, 0.2, 0.1}},
		{name: "short", fractions: []float64{0.5, 0.2, 0.1}, wantWarn: true},
		{name: "over", fractions: []float64{0.8, 0.3, 0.1}, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			m := flatCorpus()
			eng := New(m, hash.NewSHA256HasherFor(m), clock.NewSteppingClock(testStart, time.Second),
				slog.New(slog.NewTextHandler(&buf, nil)))

			_, err := eng.Split(context.Background(), &SplitRequest{
				Root: "/corpus", Spec: flatSpec(t, tt.fractions...), Seed: 3, DryRun: true,
			})
			require.NoError(t, err)
			if tt.wantWarn {
				assert.Contains(t, buf.String(), "fractions do not sum to 1")
			} else {
				assert.NotContains(t, buf.String(), "fractions do not sum to 1")
			}
		})
	}
}

func TestSplit_MissingRoot(t *testing.T) {
	_, err := newTestEngine(fsops.NewMemFS()).Split(context.Background(), &SplitRequest{
		Root: "/missing", Spec: flatSpec(t, 0.7, 0.2, 0.1), Seed: 3,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSplit_CancelledContextRollsBack(t *testing.T) {
	m := flatCorpus()
	before := m.Paths()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(m).Split(ctx, &SplitRequest{
		Root: "/corpus", Spec: flatSpec(t, 0.7, 0.2, 0.1), Seed: 3,
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before, m.Paths())
}

func TestSplit_ExcludedEntriesStayInPlace(t *testing.T) {
	m := flatCorpus()
	m.AddFile("/corpus/tumor/.DS_Store", nil)
	filter, err := planner.NewFilter([]string{".*"})
	require.NoError(t, err)

	result, err := newTestEngine(m).Split(context.Background(), &SplitRequest{
		Root: "/corpus", Spec: flatSpec(t, 0.7, 0.2, 0.1), Seed: 3, Filter: filter,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"tumor"}, result.Plan.Retained)
	assert.Equal(t, []string{".DS_Store"}, m.Names("/corpus/tumor"))
	assert.False(t, m.IsDir("/corpus/normal"))
}
