package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/corpussplit/internal/clock"
	"github.com/danieljhkim/corpussplit/internal/config"
	"github.com/danieljhkim/corpussplit/internal/engine"
	"github.com/danieljhkim/corpussplit/internal/fsops"
	"github.com/danieljhkim/corpussplit/internal/hash"
	"github.com/danieljhkim/corpussplit/internal/manifest"
	"github.com/danieljhkim/corpussplit/internal/planner"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	jsonOutput bool
	logLevel   string
}

// session bundles what a command needs to run against the real filesystem.
type session struct {
	cfg    *config.Config
	fs     fsops.FS
	clock  clock.Clock
	engine *engine.Engine
}

// newSession loads configuration, applies --log-level and builds an engine
// with real implementations of all dependencies.
func (g *globalOptions) newSession(cmd *cobra.Command) (*session, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.Load(g.configPath, dir)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	fs := fsops.NewRealFS()
	clk := &clock.RealClock{}

	return &session{
		cfg:    cfg,
		fs:     fs,
		clock:  clk,
		engine: engine.New(fs, hash.NewSHA256Hasher(), clk, logger),
	}, nil
}

// recordRun builds the manifest of a run and saves it when path is set.
func (s *session) recordRun(result *engine.RunResult, dryRun bool, path string) (*manifest.Manifest, error) {
	created := result.FinishedAt
	if created.IsZero() {
		created = s.clock.Now()
	}
	m := manifest.FromPlan(result.Plan, result.RunID, created)
	m.DryRun = dryRun
	m.Applied = result.Applied
	m.Staged = result.Staged

	if path != "" {
		if err := manifest.Save(s.fs, path, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printConflicts lists the conflicts that stopped a plan.
func printConflicts(w io.Writer, plan *planner.Plan) {
	PrintSection(w, "Conflicts")
	for _, c := range plan.Conflicts {
		PrintError(w, fmt.Sprintf("%s: %s", c.Path, c.Reason))
	}
	_, _ = fmt.Fprintln(w)
}

// printRun prints the human summary of a split, merge or site split.
func printRun(w io.Writer, m *manifest.Manifest, opCount int) {
	if m.DryRun {
		PrintSection(w, "Dry Run")
		PrintLabelValue(w, "Operations", PrintCount(opCount, "operation", "operations"))
	} else {
		PrintSection(w, "Summary")
		PrintLabelValue(w, "Run", m.RunID)
		mode := "direct"
		if m.Staged {
			mode = "staged"
		}
		PrintLabelValue(w, "Mode", mode)
		PrintLabelValue(w, "Applied", PrintCount(m.Applied, "operation", "operations"))
	}
	PrintLabelValue(w, "Root", m.Root)

	buckets := make([]string, 0, len(m.Totals))
	for bucket := range m.Totals {
		buckets = append(buckets, bucket)
	}
	if len(m.Spec) > 0 {
		order := m.Spec.Names()
		sort.SliceStable(buckets, func(i, j int) bool {
			return slices.Index(order, buckets[i]) < slices.Index(order, buckets[j])
		})
	} else {
		sort.Strings(buckets)
	}
	for _, bucket := range buckets {
		PrintLabelValue(w, bucket, PrintCount(m.Totals[bucket], "item", "items"))
	}

	if len(m.Orphans) > 0 {
		_, _ = fmt.Fprintln(w)
		PrintWarning(w, "Categories not present in train were deleted:")
		PrintList(w, m.Orphans, 1)
	}
	if len(m.Retained) > 0 {
		_, _ = fmt.Fprintln(w)
		PrintWarning(w, "Categories kept because they hold excluded entries:")
		PrintList(w, m.Retained, 1)
	}
	if len(m.Slack) > 0 {
		_, _ = fmt.Fprintln(w)
		PrintWarning(w, fmt.Sprintf("%s do not cover their items exactly", PrintCount(len(m.Slack), "case", "cases")))
		for _, s := range m.Slack {
			PrintList(w, []string{fmt.Sprintf("%s/%s: %d dropped, %d duplicated", s.Category, s.Case, s.Dropped, s.Duplicated)}, 1)
		}
	}
	_, _ = fmt.Fprintln(w)
}
