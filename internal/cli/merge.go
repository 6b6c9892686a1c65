package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/corpussplit/internal/engine"
)

func newMergeDatasetCmd(g *globalOptions) *cobra.Command {
	var (
		strict bool
		exec   executionOptions
	)

	cmd := &cobra.Command{
		Use:   "merge-dataset <input>",
		Short: "Fold train, valid and test back into category directories",
		Long: `Move every item of train/, valid/ and test/ back into <input>/<category>/
and remove the three partition directories.

Categories are taken from train/. A category that exists only in valid/ or
test/ is deleted with its partition directory and reported; pass --strict
to refuse the merge instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.newSession(cmd)
			if err != nil {
				return err
			}
			direct, _ := exec.resolve(cmd.Flags(), s.cfg)

			result, err := s.engine.Merge(cmd.Context(), &engine.MergeRequest{
				Root:   args[0],
				Strict: strict,
				Direct: direct,
				DryRun: exec.dryRun,
			})
			return finishRun(cmd, g, s, &exec, result, err)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail if categories outside train would be deleted")
	exec.register(cmd.Flags(), false)
	return cmd
}
