package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/corpussplit/internal/engine"
	"github.com/danieljhkim/corpussplit/internal/layout"
)

func newHospitalSplitCmd(g *globalOptions) *cobra.Command {
	var (
		part partitionOptions
		exec executionOptions
	)

	cmd := &cobra.Command{
		Use:   "hospital-split <input> <output>",
		Short: "Copy a category/case corpus into per-site trees H1..Hn",
		Long: `Copy <input>/<category>/<case>/ items into
<output>/Split_<a>_<b>_.../H<i>/<category>/<case>/, one site per fraction.

Items of each case are sorted by name and cut into contiguous ranges, so site
assignment depends only on the fractions. The Split_ directory is replaced if
it exists and <input> is never modified. Every site receives the full
category/case skeleton, even where its slice is empty.`,
		Example: `  corpussplit hospital-split ./corpus ./sites
  corpussplit hospital-split ./corpus ./sites -p 0.4,0.3,0.2,0.1 --verify`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.newSession(cmd)
			if err != nil {
				return err
			}
			fractions, seed, filter, err := part.resolve(cmd.Flags(), s.cfg.Sites, s.cfg.Exclude)
			if err != nil {
				return err
			}
			spec, err := layout.SiteSpec(fractions)
			if err != nil {
				return err
			}
			direct, verify := exec.resolve(cmd.Flags(), s.cfg)

			result, err := s.engine.SplitSites(cmd.Context(), &engine.SiteSplitRequest{
				Input:   args[0],
				Output:  filepath.Join(args[1], layout.SplitRootName(fractions)),
				Replace: true,
				Spec:    spec,
				Seed:    seed,
				Filter:  filter,
				Direct:  direct,
				Verify:  verify,
				DryRun:  exec.dryRun,
			})
			return finishRun(cmd, g, s, &exec, result, err)
		},
	}

	part.register(cmd.Flags())
	exec.register(cmd.Flags(), true)
	return cmd
}
