package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newCountCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count <root>",
		Short: "Count the items in every directory of a corpus",
		Long: `Walk <root> and list every directory that directly holds files, with its
file and subdirectory counts. Useful before and after a split or merge.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.newSession(cmd)
			if err != nil {
				return err
			}
			result, err := s.engine.Inventory(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if g.jsonOutput {
				return outputJSON(out, result)
			}

			PrintSection(out, "Inventory")
			PrintLabelValue(out, "Root", result.Root)
			if len(result.Dirs) == 0 {
				PrintEmptyState(out, "No files found")
				return nil
			}

			rows := make([][]string, 0, len(result.Dirs))
			for _, d := range result.Dirs {
				rows = append(rows, []string{d.Path, strconv.Itoa(d.Files), strconv.Itoa(d.Dirs)})
			}
			PrintTable(out, []string{"DIRECTORY", "FILES", "DIRS"}, rows)
			PrintLabelValue(out, "Total", PrintCount(result.Total, "file", "files"))
			return nil
		},
	}
}
