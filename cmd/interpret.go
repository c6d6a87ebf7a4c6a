package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataexplorer/internal/analysis"
	"github.com/KaramelBytes/dataexplorer/internal/interpret"
	"github.com/KaramelBytes/dataexplorer/internal/utils"
)

var (
	intFile       string
	intKind       string
	intDryRun     bool
	intStream     bool
	intModel      string
	intProvider   string
	intTimeoutSec int
)

var interpretCmd = &cobra.Command{
	Use:   "interpret [id]",
	Short: "Ask the configured model for a short interpretation of a cleaned dataset",
	Example: `  dataexplorer interpret nilai_siswa --dry-run
  dataexplorer interpret penjualan_kantin --kind pie --stream
  dataexplorer interpret --file data.csv --provider ollama --model llama3.1:8b`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := analysis.ParseChartKind(intKind)
		if err != nil {
			return err
		}
		d, err := resolveDataset(args, intFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		in := interpret.Input{DatasetName: d.Name, Chart: kind, Cleaned: analysis.Clean(d.Data)}

		if intDryRun {
			prompt := interpret.BuildPrompt(in.DatasetName, in.Chart, in.Cleaned)
			data := interpret.PromptData(in.Cleaned)
			fmt.Fprintf(out, "Tokens: total≈%d\n", utils.CountTokens(prompt))
			parts := map[string]string{"data": data, "template": strings.Replace(prompt, data, "", 1)}
			for _, tc := range utils.TokenBreakdown(parts) {
				fmt.Fprintf(out, "  %-9s ≈%d\n", tc.Label, tc.Tokens)
			}
			fmt.Fprintln(out, "\n--dry-run: no API call will be made. Prompt preview below --")
			fmt.Fprintln(out, prompt)
			return nil
		}

		req, provider, err := buildRequester(cfg, runtimeOptions{ProviderFlag: intProvider, ModelFlag: intModel})
		if err != nil {
			return err
		}
		if err := req.Check(in); err != nil {
			return explainAIError(err, provider, req.Model())
		}

		timeout := time.Duration(intTimeoutSec) * time.Second
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		fmt.Fprintf(cmd.ErrOrStderr(), "⚙ Generating with provider=%s model=%s ...\n", provider, req.Model())
		if intStream {
			if _, err := req.Stream(ctx, in, func(d string) { fmt.Fprint(out, d) }); err != nil {
				return explainAIError(err, provider, req.Model())
			}
			fmt.Fprintln(out)
			return nil
		}
		text, err := req.Request(ctx, in)
		if err != nil {
			return explainAIError(err, provider, req.Model())
		}
		fmt.Fprintln(out, text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interpretCmd)
	interpretCmd.Flags().StringVar(&intFile, "file", "", "interpret a csv, json or yaml file instead of a sample dataset")
	interpretCmd.Flags().StringVar(&intKind, "kind", "bar", "chart kind mentioned in the prompt: bar|pie|line")
	interpretCmd.Flags().BoolVar(&intDryRun, "dry-run", false, "print the prompt and a token estimate without calling the API")
	interpretCmd.Flags().BoolVar(&intStream, "stream", false, "stream the response if the provider supports it")
	interpretCmd.Flags().StringVar(&intModel, "model", "", "override model (default from config or provider)")
	interpretCmd.Flags().StringVar(&intProvider, "provider", "", "provider: gemini|openrouter|ollama (default from config)")
	interpretCmd.Flags().IntVar(&intTimeoutSec, "timeout-sec", 120, "request timeout in seconds")
}
