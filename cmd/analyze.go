package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataexplorer/internal/analysis"
	"github.com/KaramelBytes/dataexplorer/internal/utils"
)

var (
	anFile   string
	anKind   string
	anOutput string
	anJSON   bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [id]",
	Short: "Clean a dataset and show what was kept and dropped",
	Example: `  dataexplorer clean nilai_siswa
  dataexplorer clean --file nilai.csv --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := resolveDataset(args, anFile)
		if err != nil {
			return err
		}
		cleaned, rep := analysis.CleanWithReport(d.Data)
		out := cmd.OutOrStdout()
		if anJSON {
			b, err := utils.PrettyJSON(struct {
				Cleaned []analysis.DataPoint    `json:"cleaned"`
				Report  analysis.CleaningReport `json:"report"`
			}{cleaned, rep})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		for _, p := range cleaned {
			fmt.Fprintf(out, "%-24s %g\n", p.Label, p.Value)
		}
		fmt.Fprintf(out, "\n✓ Kept %d of %d rows (null dropped: %d, non-numeric dropped: %d)\n",
			rep.Kept, rep.Total, rep.DroppedNull, rep.DroppedInvalid)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [id]",
	Short: "Print the cleaning and statistics summary of a dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := resolveDataset(args, anFile)
		if err != nil {
			return err
		}
		rep, err := analysis.NewReport(d.Name, d.Data)
		if err != nil {
			return err
		}
		md := rep.Markdown()
		if anOutput != "" {
			if err := utils.SafeWriteFile(anOutput, []byte(md)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Summary written to %s\n", anOutput)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart [id]",
	Short: "Emit the chart configuration for a dataset as JSON",
	Example: `  dataexplorer chart penjualan_kantin --kind pie`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := analysis.ParseChartKind(anKind)
		if err != nil {
			return err
		}
		d, err := resolveDataset(args, anFile)
		if err != nil {
			return err
		}
		cfgChart := analysis.BuildChart(kind, d.Name, analysis.Clean(d.Data))
		b, err := utils.PrettyJSON(cfgChart)
		if err != nil {
			return err
		}
		if anOutput != "" {
			if err := utils.SafeWriteFile(anOutput, b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Chart written to %s\n", anOutput)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{cleanCmd, statsCmd, chartCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVar(&anFile, "file", "", "analyze a csv, json or yaml file instead of a sample dataset")
	}
	cleanCmd.Flags().BoolVar(&anJSON, "json", false, "emit cleaned rows and report as JSON")
	statsCmd.Flags().StringVar(&anOutput, "output", "", "write the summary to a file")
	chartCmd.Flags().StringVar(&anKind, "kind", "bar", "chart kind: bar|pie|line")
	chartCmd.Flags().StringVar(&anOutput, "output", "", "write the chart JSON to a file")
}
