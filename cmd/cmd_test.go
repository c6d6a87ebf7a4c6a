package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	cfgpkg "github.com/KaramelBytes/dataexplorer/internal/config"
	"github.com/KaramelBytes/dataexplorer/internal/interpret"
)

// runCmd executes the root command with args and stdin, returning stdout.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	// Flag values persist between Execute calls; reset the ones tests vary.
	anFile, anKind, anOutput, anJSON = "", "bar", "", false
	intFile, intKind, intDryRun, intStream, intModel, intProvider = "", "bar", false, false, "", ""
	quizName, quizPrintPath, quizRecipient = "", "", ""
	wtFile, wtQuiet = "", false
	cfgFile = ""
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := runCmd(t, stdin, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

func withConfig(t *testing.T, c *cfgpkg.Global) {
	t.Helper()
	old := cfg
	cfg = c
	t.Cleanup(func() { cfg = old })
}

func expectContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestDatasetsCommand(t *testing.T) {
	withConfig(t, nil)
	out := mustRun(t, "", "datasets")
	expectContains(t, out, "nilai_siswa", "(10 rows, 2 dirty)", "info_analisis_data", "[bacaan]")

	out = mustRun(t, "", "datasets", "nilai_siswa")
	expectContains(t, out, "Nilai Ujian Siswa", "⚠ Fani", "⚠ Dewi", "✓ Andi")

	if _, err := runCmd(t, "", "datasets", "tidak_ada"); err == nil {
		t.Fatalf("expected error for unknown dataset")
	}
}

func TestCleanStatsChart(t *testing.T) {
	withConfig(t, nil)
	out := mustRun(t, "", "clean", "nilai_siswa")
	expectContains(t, out, "✓ Kept 9 of 10 rows (null dropped: 1, non-numeric dropped: 0)")

	out = mustRun(t, "", "stats", "nilai_siswa")
	expectContains(t, out, "Mean (Rata-rata): 85.56", "Median (Nilai Tengah): 85")

	out = mustRun(t, "", "chart", "penjualan_kantin", "--kind", "pie")
	expectContains(t, out, `"kind": "pie"`, `"label": "Nasi Goreng"`)

	if _, err := runCmd(t, "", "chart", "penjualan_kantin", "--kind", "radar"); err == nil {
		t.Fatalf("expected invalid chart kind error")
	}
	if _, err := runCmd(t, "", "clean", "info_analisis_data"); err == nil {
		t.Fatalf("expected error for a reading-only dataset")
	}
}

func TestCleanFromFile(t *testing.T) {
	withConfig(t, nil)
	path := filepath.Join(t.TempDir(), "nilai.csv")
	if err := os.WriteFile(path, []byte("nama,nilai\nAna,90\nBima,\"80\"\nCaca,abc\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	out := mustRun(t, "", "clean", "--file", path)
	expectContains(t, out, "Ana", "Bima", "✓ Kept 2 of 3 rows")
	if _, err := runCmd(t, "", "clean", "nilai_siswa", "--file", path); err == nil {
		t.Fatalf("expected error when both id and --file are given")
	}
}

func TestInterpretDryRunAndUnconfigured(t *testing.T) {
	withConfig(t, &cfgpkg.Global{Provider: "gemini"})
	out := mustRun(t, "", "interpret", "nilai_siswa", "--kind", "line", "--dry-run")
	expectContains(t, out, "Tokens: total≈", "  data ", "  template ", `Dataset: "Nilai Ujian Siswa"`, `Jenis Grafik: "line"`, `"label":"Andi","value":85`)

	_, err := runCmd(t, "", "interpret", "nilai_siswa")
	if err == nil || !strings.Contains(err.Error(), interpret.NotConfiguredMessage) {
		t.Fatalf("expected not-configured error, got %v", err)
	}
}

func TestQuizCommand(t *testing.T) {
	withConfig(t, &cfgpkg.Global{ReportRecipient: "guru@example.com"})
	printPath := filepath.Join(t.TempDir(), "hasil.txt")
	// Bad input, back-navigation on the first question, then option 1 for all 20.
	stdin := "x\nb\n" + strings.Repeat("1\n", 20)
	out := mustRun(t, stdin, "quiz", "--name", "Budi", "--print", printPath)
	expectContains(t, out, "Pertanyaan 20 dari 20", "Skor: ", "Kepada: guru@example.com", "Subjek: Nilai Kuis Analisis Data - Budi", "mailto:guru@example.com?subject=")
	b, err := os.ReadFile(printPath)
	if err != nil || !strings.Contains(string(b), "Nama Siswa: Budi") {
		t.Fatalf("printable result: %q, %v", b, err)
	}

	if _, err := runCmd(t, strings.Repeat("1\n", 20), "quiz", "--name", " "); err == nil || err.Error() != "Harap masukkan nama lengkap Anda." {
		t.Fatalf("expected empty name error, got %v", err)
	}
	if _, err := runCmd(t, "1\n", "quiz"); err == nil {
		t.Fatalf("expected error when input ends early")
	}
}

func TestWalkthroughCommand(t *testing.T) {
	withConfig(t, &cfgpkg.Global{FadeOutMs: 1, FadeInMs: 1, CleanDelayMs: 1})
	stdin := strings.Join([]string{
		"6", "x", // open and close the reading card
		"1", "c", "n", "k pie", "n", "i", "b", "r", "q",
	}, "\n") + "\n"
	out := mustRun(t, stdin, "walkthrough", "--quiet")
	expectContains(t, out,
		"== Langkah 1/5",
		"Definisi Analisis Data",
		"⚠ Fani",
		"Rata-rata (Mean): 85.56",
		"Grafik Lingkaran",
		"✗ "+interpret.NotConfiguredMessage,
	)
	// Initial render, after closing the card, after the reset.
	if strings.Count(out, "== Langkah 1/5") < 3 {
		t.Fatalf("reset did not return to the first step:\n%s", out)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	withConfig(t, nil)
	for _, k := range []string{"DATAEXPLORER_API_KEY", "GEMINI_API_KEY", "API_KEY", "DATAEXPLORER_PROVIDER"} {
		t.Setenv(k, "")
	}
	masked := strings.Repeat("*", 11) + "3456"
	path := filepath.Join(t.TempDir(), "config.yaml")
	out := mustRun(t, "", "config", "set", "provider", "local", "--config", path)
	expectContains(t, out, "✓ Set provider = ollama")
	if _, err := runCmd(t, "", "config", "set", "provider", "skynet", "--config", path); err == nil {
		t.Fatalf("expected invalid provider error")
	}
	out = mustRun(t, "", "config", "set", "api_key", "sk-abcdef123456", "--config", path)
	expectContains(t, out, "✓ Set api_key = "+masked)

	reloaded, err := cfgpkg.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Provider != "ollama" || reloaded.APIKey != "sk-abcdef123456" {
		t.Fatalf("unexpected saved config %+v", reloaded)
	}

	out = mustRun(t, "", "config", "show")
	expectContains(t, out, "provider: ollama", "api_key: "+masked)
}
