package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/corpussplit/internal/engine"
	"github.com/danieljhkim/corpussplit/internal/layout"
	"github.com/danieljhkim/corpussplit/internal/planner"
)

func newSplitDatasetCmd(g *globalOptions) *cobra.Command {
	var (
		part partitionOptions
		exec executionOptions
	)

	cmd := &cobra.Command{
		Use:   "split-dataset <input> <output>",
		Short: "Copy a corpus and split it into train, valid and test",
		Long: `Copy <input> to <output>, replacing <output> if it exists, then move the
items of every category into train/, valid/ and test/ by the given fractions.

Items are shuffled with a seeded sequencer, so the same corpus, fractions and
seed always produce the same assignment. The train and valid counts are
round(fraction * items) with ties to even, and test takes the remainder, so
every item is placed: with the default 0.7,0.2,0.1 a category of 10 items
gets 7, 2 and 1. The drained category directory is removed.

A dry run plans against <input> and copies nothing.`,
		Example: `  corpussplit split-dataset ./raw ./split
  corpussplit split-dataset ./raw ./split -p 0.8,0.1,0.1 --seed 42
  corpussplit split-dataset ./raw ./split --exclude '.*' --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplitDataset(cmd, g, &part, &exec, args[0], args[1])
		},
	}

	part.register(cmd.Flags())
	exec.register(cmd.Flags(), true)
	return cmd
}

func runSplitDataset(cmd *cobra.Command, g *globalOptions, part *partitionOptions, exec *executionOptions, input, output string) error {
	s, err := g.newSession(cmd)
	if err != nil {
		return err
	}
	fractions, seed, filter, err := part.resolve(cmd.Flags(), s.cfg.Split, s.cfg.Exclude)
	if err != nil {
		return err
	}
	spec, err := layout.FlatSpec(fractions)
	if err != nil {
		return err
	}
	direct, verify := exec.resolve(cmd.Flags(), s.cfg)

	root := input
	if !exec.dryRun {
		copied, err := s.engine.CopyCorpus(cmd.Context(), &engine.CopyRequest{
			Src:    input,
			Dst:    output,
			Verify: verify,
		})
		if err != nil {
			return err
		}
		if !g.jsonOutput {
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Copied %s to %s", PrintCount(copied.Files, "file", "files"), copied.Dst))
		}
		root = copied.Dst
	}

	result, err := s.engine.Split(cmd.Context(), &engine.SplitRequest{
		Root:   root,
		Spec:   spec,
		Seed:   seed,
		Filter: filter,
		Direct: direct,
		Verify: verify,
		DryRun: exec.dryRun,
	})
	return finishRun(cmd, g, s, exec, result, err)
}

// finishRun reports the outcome of a split, merge or site split.
func finishRun(cmd *cobra.Command, g *globalOptions, s *session, exec *executionOptions, result *engine.RunResult, runErr error) error {
	if runErr != nil {
		if result != nil && result.Plan != nil && result.Plan.HasConflicts() && !g.jsonOutput {
			printConflicts(cmd.ErrOrStderr(), result.Plan)
		}
		return runErr
	}

	m, err := s.recordRun(result, exec.dryRun, exec.manifest)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if g.jsonOutput {
		if exec.dryRun {
			return outputJSON(out, result.Plan)
		}
		return outputJSON(out, m)
	}

	printRun(out, m, len(result.Plan.Operations))
	if exec.dryRun {
		if n := result.Plan.CountOps(planner.OpMove); n > 0 {
			PrintLabelValue(out, "Moves", PrintCount(n, "move", "moves"))
		}
		if n := result.Plan.CountOps(planner.OpCopy); n > 0 {
			PrintLabelValue(out, "Copies", PrintCount(n, "copy", "copies"))
		}
		ops := make([]string, 0, len(result.Plan.Operations))
		for _, op := range result.Plan.Operations {
			if op.Source != "" {
				ops = append(ops, fmt.Sprintf("%s %s -> %s", op.Type, op.Source, op.Dest))
			} else {
				ops = append(ops, fmt.Sprintf("%s %s", op.Type, op.Dest))
			}
		}
		if len(ops) == 0 {
			PrintEmptyState(out, "Nothing to do")
		}
		PrintList(out, ops, 1)
		return nil
	}
	PrintSuccess(out, fmt.Sprintf("%s complete", m.Kind))
	return nil
}
