package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gomstl/snapshot"
)

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspect <snapshot>",
		Short:   "Show the header and columns of a snapshot",
		Example: "  mstl inspect load.mstl",
		Args:    cobra.ExactArgs(1),
	}

	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		h, err := snapshot.Inspect(b)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", args[0], err)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "File:\t%s (%d bytes)\n", args[0], len(b))
		fmt.Fprintf(tw, "Version:\t%d\n", h.Version)
		fmt.Fprintf(tw, "Compression:\t%s\n", h.Compression)
		fmt.Fprintf(tw, "Rows:\t%d\n", h.Rows)
		fmt.Fprintf(tw, "Periods:\t%v\n", h.Periods)
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "COLUMN\tRAW\tSTORED\tRATIO")
		fmt.Fprintln(tw, strings.Repeat("─", 40))
		for _, c := range h.Columns {
			ratio := 0.0
			if c.RawSize > 0 {
				ratio = float64(c.CompressedSize) / float64(c.RawSize)
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\n", c.Name, c.RawSize, c.CompressedSize, ratio)
		}
		return tw.Flush()
	})
	return cmd
}
