package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataexplorer/internal/catalog"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets [id]",
	Short: "List the sample datasets or show one with its raw values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cat := catalog.Default()
		if len(args) == 0 {
			for _, d := range cat.All() {
				switch d.Kind() {
				case catalog.KindContent:
					fmt.Fprintf(out, "%-20s %s  [bacaan]\n", d.ID, d.Name)
				default:
					fmt.Fprintf(out, "%-20s %s  (%d rows, %d dirty)\n", d.ID, d.Name, len(d.Data), d.DirtyCount())
				}
			}
			return nil
		}
		d, err := cat.Get(args[0])
		if err != nil {
			return err
		}
		printDataset(out, d)
		return nil
	},
}

func printDataset(out io.Writer, d catalog.Dataset) {
	fmt.Fprintf(out, "%s\n%s\n\n", d.Name, d.Description)
	if d.Kind() == catalog.KindContent {
		fmt.Fprintln(out, d.Content)
		return
	}
	for _, p := range d.Data {
		mark := "✓"
		if p.Value.Dirty() {
			mark = "⚠"
		}
		fmt.Fprintf(out, "%s %-24s %s\n", mark, p.Label, p.Value.String())
	}
}

// resolveDataset picks a data dataset from a catalog id or a --file path.
func resolveDataset(args []string, file string) (catalog.Dataset, error) {
	var (
		d   catalog.Dataset
		err error
	)
	switch {
	case file != "" && len(args) > 0:
		return d, fmt.Errorf("pass either a dataset id or --file, not both")
	case file != "":
		d, err = catalog.LoadFile(file)
	case len(args) == 1:
		d, err = catalog.Default().Get(strings.TrimSpace(args[0]))
	default:
		return d, fmt.Errorf("a dataset id or --file is required")
	}
	if err != nil {
		return d, err
	}
	if d.Kind() != catalog.KindData {
		return d, fmt.Errorf("dataset %s has no data to analyze", d.ID)
	}
	return d, nil
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}
