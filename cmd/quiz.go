package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataexplorer/internal/catalog"
	"github.com/KaramelBytes/dataexplorer/internal/quiz"
	"github.com/KaramelBytes/dataexplorer/internal/utils"
)

var (
	quizName      string
	quizPrintPath string
	quizRecipient string
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the data-analysis quiz in the terminal",
	Long: `Answer each question by typing the option number. Type 'b' to go back one question.
When finished, pass --name to prepare the score email for your teacher and --print to save the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := quiz.NewEngine(catalog.Questions())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		in := bufio.NewScanner(cmd.InOrStdin())
		if err := runQuiz(eng, in, out); err != nil {
			return err
		}
		res, _ := eng.Result()
		fmt.Fprintf(out, "\nSkor: %d/100 (%d dari %d benar)\n%s\n", res.Score, res.Correct, res.Total, res.Message)

		if quizPrintPath != "" {
			if err := utils.SafeWriteFile(quizPrintPath, []byte(quiz.Printable(res, quizName))); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Result written to %s\n", quizPrintPath)
		}
		if quizName == "" && !cmd.Flags().Changed("name") {
			return nil
		}
		recipient := quizRecipient
		if recipient == "" && cfg != nil {
			recipient = cfg.ReportRecipient
		}
		rep, err := quiz.ComposeReport(quizName, res, recipient)
		if errors.Is(err, quiz.ErrEmptyName) {
			return errors.New(quiz.EmptyNameMessage)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nKepada: %s\nSubjek: %s\n\n%s\n\n%s\n", rep.Recipient, rep.Subject, rep.Body, rep.MailtoURL())
		fmt.Fprintln(out, "✓", quiz.ReportReadyMessage)
		return nil
	},
}

// runQuiz drives eng from line input until the attempt is scored.
func runQuiz(eng *quiz.Engine, in *bufio.Scanner, out io.Writer) error {
	for !eng.Completed() {
		q := eng.Current()
		fmt.Fprintf(out, "\nPertanyaan %d dari %d\n%s\n", eng.Index()+1, eng.Total(), q.Question)
		sel, answered := eng.Selected()
		for i, o := range q.Options {
			mark := " "
			if answered && sel == i {
				mark = "*"
			}
			fmt.Fprintf(out, " %s %d) %s\n", mark, i+1, o)
		}
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return err
			}
			return fmt.Errorf("quiz aborted before the last question")
		}
		line := strings.TrimSpace(in.Text())
		if strings.EqualFold(line, "b") {
			if err := eng.Prev(); err != nil {
				fmt.Fprintln(out, "⚠", err)
			}
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(out, "⚠ Ketik nomor pilihan atau 'b' untuk kembali.")
			continue
		}
		if err := eng.Answer(n - 1); err != nil {
			fmt.Fprintln(out, "⚠", err)
			continue
		}
		if err := eng.Next(); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(quizCmd)
	quizCmd.Flags().StringVar(&quizName, "name", "", "your full name, used for the score email")
	quizCmd.Flags().StringVar(&quizPrintPath, "print", "", "write a printable result to this file")
	quizCmd.Flags().StringVar(&quizRecipient, "recipient", "", "teacher email address (default from config)")
}
