package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataexplorer/internal/analysis"
	"github.com/KaramelBytes/dataexplorer/internal/catalog"
	"github.com/KaramelBytes/dataexplorer/internal/cue"
	"github.com/KaramelBytes/dataexplorer/internal/interpret"
	"github.com/KaramelBytes/dataexplorer/internal/wizard"
)

var (
	wtFile  string
	wtQuiet bool
)

var walkthroughCmd = &cobra.Command{
	Use:   "walkthrough",
	Short: "Run the five-step data-analysis walkthrough interactively",
	Long: `Commands: a dataset number or id to select it, 'c' to clean, 'n' next, 'b' back,
'k bar|pie|line' to change the chart, 'i' to interpret, 'r' to start over, 'q' to quit.
While the info card is open: 's' starts the quiz, option numbers answer, 'n'/'b' move,
'u' retries and 'x' closes it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.Default()
		if wtFile != "" {
			d, err := catalog.LoadFile(wtFile)
			if err != nil {
				return err
			}
			if cat, err = cat.With(d); err != nil {
				return err
			}
		}
		log := cliLogger()
		defer func() { _ = log.Sync() }()

		var emit cue.Emitter = cue.Discard
		if !wtQuiet {
			player := cue.NewPlayer(cue.NewBellSink(cmd.ErrOrStderr()), cue.WithLogger(log))
			defer player.Close()
			emit = player
		}
		req, _, err := buildRequester(cfg, runtimeOptions{})
		if err != nil {
			return err
		}
		wc := wizard.Config{Catalog: cat, Requester: req, Cues: emit, Logger: log}
		if cfg != nil {
			wc.Timings = &wizard.Timings{FadeOut: cfg.FadeOut(), FadeIn: cfg.FadeIn(), CleanDelay: cfg.CleanDelay()}
		}
		ctl, err := wizard.New(wc)
		if err != nil {
			return err
		}
		defer ctl.Close()
		return runWalkthrough(cmd.Context(), ctl, bufio.NewScanner(cmd.InOrStdin()), cmd.OutOrStdout())
	},
}

// runWalkthrough reads one command per line and renders the state after each.
func runWalkthrough(ctx context.Context, ctl *wizard.Controller, in *bufio.Scanner, out io.Writer) error {
	renderSnapshot(out, ctl.Snapshot())
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if line == "q" {
			return nil
		}
		snap := ctl.Snapshot()
		var err error
		if snap.Overlay != nil {
			err = overlayCommand(ctl, line)
		} else {
			err = stepCommand(ctx, ctl, snap, line, out)
		}
		if err != nil {
			fmt.Fprintln(out, "⚠", err)
		}
		if err := ctl.WaitIdle(ctx); err != nil {
			return err
		}
		renderSnapshot(out, ctl.Snapshot())
	}
}

func stepCommand(ctx context.Context, ctl *wizard.Controller, snap wizard.Snapshot, line string, out io.Writer) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "n":
		return ctl.Next()
	case "b":
		return ctl.Prev()
	case "r":
		return ctl.Reset()
	case "c":
		if err := ctl.Clean(); err != nil {
			return err
		}
		fmt.Fprintln(out, "⚙ Membersihkan data...")
		return nil
	case "k":
		if len(fields) < 2 {
			return fmt.Errorf("usage: k bar|pie|line")
		}
		return ctl.SetChartKind(analysis.ChartKind(fields[1]))
	case "i":
		fmt.Fprintln(out, "⚙ Menghasilkan interpretasi...")
		_, err := ctl.Interpret(ctx)
		switch {
		case errors.Is(err, wizard.ErrWrongStep), errors.Is(err, wizard.ErrBusy), errors.Is(err, wizard.ErrClosed):
			return err
		}
		// Failures are shown by the interpretation view.
		return nil
	}
	if sel, ok := snap.View.(wizard.SelectionView); ok {
		id := line
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(sel.Datasets) {
			id = sel.Datasets[n-1].ID
		}
		return ctl.SelectDataset(id)
	}
	return fmt.Errorf("unknown command %q", line)
}

func overlayCommand(ctl *wizard.Controller, line string) error {
	switch line {
	case "s":
		return ctl.StartOverlayQuiz()
	case "n":
		return ctl.NextOverlayQuestion()
	case "b":
		return ctl.PrevOverlayQuestion()
	case "u":
		return ctl.RetryOverlayQuiz()
	case "x":
		return ctl.CloseOverlay()
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return fmt.Errorf("unknown command %q", line)
	}
	return ctl.AnswerOverlayQuiz(n - 1)
}

func renderSnapshot(out io.Writer, s wizard.Snapshot) {
	if s.Overlay != nil {
		renderOverlay(out, s.Overlay)
		return
	}
	fmt.Fprintf(out, "\n== Langkah %d/%d: %s ==\n%s\n\n", int(s.Step), len(s.Steps), s.Title, s.Guide)
	switch v := s.View.(type) {
	case wizard.SelectionView:
		for i, d := range v.Datasets {
			fmt.Fprintf(out, "%2d) %s - %s\n", i+1, d.Name, d.Description)
		}
	case wizard.CleaningView:
		for _, r := range v.Raw {
			mark := "✓"
			if r.Dirty {
				mark = "⚠"
			}
			fmt.Fprintf(out, "%s %-24s %s\n", mark, r.Label, r.Value)
		}
		if v.Cleaning {
			fmt.Fprintln(out, "⚙ Membersihkan data...")
		}
	case wizard.StatisticsView:
		if v.Err != "" {
			fmt.Fprintln(out, "✗", v.Err)
			break
		}
		fmt.Fprintf(out, "Data bersih: %d dari %d baris\n", v.Report.Kept, v.Report.Total)
		fmt.Fprintf(out, "Rata-rata (Mean): %s\nNilai Tengah (Median): %s\nModus: %s\n", v.Mean, v.Median, v.Mode)
	case wizard.VisualizationView:
		fmt.Fprintf(out, "%s\n", v.Chart.Kind.Title())
		renderBars(out, v.Chart)
	case wizard.InterpretationView:
		switch {
		case v.Loading:
			fmt.Fprintln(out, "⚙ Menghasilkan interpretasi...")
		case v.Error != "":
			fmt.Fprintln(out, "✗", v.Error)
		case v.Interpretation != "":
			fmt.Fprintln(out, v.Interpretation)
		case !v.Configured:
			fmt.Fprintln(out, "⚠", interpret.NotConfiguredMessage)
		default:
			fmt.Fprintln(out, "Ketik 'i' untuk meminta interpretasi.")
		}
	}
}

// renderBars draws each point as a proportional row of blocks.
func renderBars(out io.Writer, c analysis.ChartConfig) {
	if len(c.Series) == 0 {
		return
	}
	pts := c.Series[0].Points
	top := 0.0
	for _, p := range pts {
		if p.Value > top {
			top = p.Value
		}
	}
	for _, p := range pts {
		n := 0
		if top > 0 && p.Value > 0 {
			n = int(p.Value / top * 30)
		}
		fmt.Fprintf(out, "%-24s %s %g\n", p.Label, strings.Repeat("█", n), p.Value)
	}
}

func renderOverlay(out io.Writer, o *wizard.OverlayState) {
	fmt.Fprintf(out, "\n== %s ==\n", o.Name)
	switch o.View {
	case wizard.OverlayInfo:
		fmt.Fprintln(out, o.Content)
		fmt.Fprintln(out, "Ketik 's' untuk mulai kuis atau 'x' untuk menutup.")
	case wizard.OverlayQuiz:
		q := o.Quiz
		fmt.Fprintf(out, "Pertanyaan %d dari %d\n%s\n", q.Index+1, q.Total, q.Question.Question)
		for i, opt := range q.Question.Options {
			mark := " "
			if q.Selected != nil && *q.Selected == i {
				mark = "*"
			}
			fmt.Fprintf(out, " %s %d) %s\n", mark, i+1, opt)
		}
	case wizard.OverlayResult:
		if r := o.Quiz.Result; r != nil {
			fmt.Fprintf(out, "Skor: %d/100 (%d dari %d benar)\n%s\n", r.Score, r.Correct, r.Total, r.Message)
		}
		fmt.Fprintln(out, "Ketik 'u' untuk mengulang atau 'x' untuk menutup.")
	}
}

func init() {
	rootCmd.AddCommand(walkthroughCmd)
	walkthroughCmd.Flags().StringVar(&wtFile, "file", "", "add a csv, json or yaml dataset to the selection")
	walkthroughCmd.Flags().BoolVar(&wtQuiet, "quiet", false, "disable terminal bell cues")
}
