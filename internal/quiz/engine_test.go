package quiz

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func testBank(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{ID: i + 1, Question: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: i % 4}
	}
	return qs
}

func TestScoreFifteenOfTwenty(t *testing.T) {
	qs := testBank(20)
	ans := Answers{}
	for i, q := range qs {
		if i < 15 {
			ans[q.ID] = q.CorrectAnswer
		} else {
			ans[q.ID] = (q.CorrectAnswer + 1) % 4
		}
	}
	if got := Score(qs, ans); got != 75 {
		t.Fatalf("Score = %d, want 75", got)
	}
}

func TestScoreRoundsAndIgnoresUnanswered(t *testing.T) {
	qs := testBank(3)
	// 2 of 3 correct -> 66.67 -> 67; the third is unanswered.
	ans := Answers{1: qs[0].CorrectAnswer, 2: qs[1].CorrectAnswer}
	if got := Score(qs, ans); got != 67 {
		t.Fatalf("Score = %d, want 67", got)
	}
	if got := Score(qs, Answers{}); got != 0 {
		t.Fatalf("Score with no answers = %d", got)
	}
}

func TestEngineFlow(t *testing.T) {
	e, err := NewEngine(testBank(3))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := e.Next(); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("expected ErrUnanswered, got %v", err)
	}
	if err := e.Prev(); !errors.Is(err, ErrAtFirstQuestion) {
		t.Fatalf("expected ErrAtFirstQuestion, got %v", err)
	}
	if err := e.Answer(9); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	// Re-answering overwrites and does not advance.
	_ = e.Answer(1)
	_ = e.Answer(0)
	if sel, _ := e.Selected(); sel != 0 || e.Index() != 0 {
		t.Fatalf("unexpected state: sel=%d idx=%d", sel, e.Index())
	}
	if err := e.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	_ = e.Answer(3)
	// Back keeps the answer of the question left behind.
	if err := e.Prev(); err != nil {
		t.Fatalf("Prev: %v", err)
	}
	if err := e.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if sel, ok := e.Selected(); !ok || sel != 3 {
		t.Fatalf("answer lost on back-navigation: %d %v", sel, ok)
	}
	_ = e.Next()
	_ = e.Answer(2)
	if !e.IsLast() {
		t.Fatalf("expected last question")
	}
	if _, ok := e.Result(); ok {
		t.Fatalf("result available before completion")
	}
	if err := e.Next(); err != nil {
		t.Fatalf("final Next: %v", err)
	}
	score, ok := e.Score()
	if !ok || !e.Completed() {
		t.Fatalf("expected completion")
	}
	// Correct answers are 0,1,2; given 0,3,2 -> 2/3.
	if score != 67 {
		t.Fatalf("score = %d, want 67", score)
	}
	res, _ := e.Result()
	if res.Correct != 2 || res.Total != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if err := e.Answer(0); !errors.Is(err, ErrCompleted) {
		t.Fatalf("expected ErrCompleted, got %v", err)
	}
}

func TestEngineRetryResets(t *testing.T) {
	e, _ := NewEngine(testBank(2))
	_ = e.Answer(0)
	_ = e.Next()
	_ = e.Answer(1)
	_ = e.Next()
	if !e.Completed() {
		t.Fatalf("expected completion")
	}
	e.Retry()
	if e.Index() != 0 || e.Completed() || len(e.Answers()) != 0 {
		t.Fatalf("retry did not reset: idx=%d completed=%v answers=%v", e.Index(), e.Completed(), e.Answers())
	}
	if _, ok := e.Score(); ok {
		t.Fatalf("score survived retry")
	}
}

func TestNewEngineValidates(t *testing.T) {
	if _, err := NewEngine(nil); !errors.Is(err, ErrEmptyBank) {
		t.Fatalf("expected ErrEmptyBank, got %v", err)
	}
	bad := []Question{{ID: 1, Options: []string{"only"}}}
	if _, err := NewEngine(bad); err == nil {
		t.Fatalf("expected error for single option")
	}
	dup := []Question{{ID: 1, Options: []string{"a", "b"}}, {ID: 1, Options: []string{"a", "b"}}}
	if _, err := NewEngine(dup); err == nil {
		t.Fatalf("expected error for duplicate id")
	}
}

func TestResultMessageThresholds(t *testing.T) {
	cases := map[int]string{
		100: "Luar Biasa!",
		90:  "Luar Biasa!",
		89:  "Kerja Bagus!",
		75:  "Kerja Bagus!",
		60:  "Bagus! Terus",
		59:  "Jangan Menyerah!",
		0:   "Jangan Menyerah!",
	}
	for score, prefix := range cases {
		if got := ResultMessage(score); !strings.HasPrefix(got, prefix) {
			t.Errorf("ResultMessage(%d) = %q, want prefix %q", score, got, prefix)
		}
	}
}

func TestComposeReport(t *testing.T) {
	res := NewResult(75, 15, 20)
	if _, err := ComposeReport("   ", res, ""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	rep, err := ComposeReport(" Siti Aminah ", res, "")
	if err != nil {
		t.Fatalf("ComposeReport: %v", err)
	}
	if rep.Recipient != DefaultRecipient {
		t.Fatalf("recipient = %s", rep.Recipient)
	}
	if rep.Subject != "Nilai Kuis Analisis Data - Siti Aminah" {
		t.Fatalf("subject = %q", rep.Subject)
	}
	if !strings.Contains(rep.Body, "Skor: 75/100\nJawaban Benar: 15 dari 20 soal.") {
		t.Fatalf("body = %q", rep.Body)
	}

	link := rep.MailtoURL()
	if strings.Contains(link, "+") || strings.Contains(link, " ") {
		t.Fatalf("mailto not component-encoded: %s", link)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse mailto: %v", err)
	}
	if u.Scheme != "mailto" || u.Opaque != DefaultRecipient {
		t.Fatalf("unexpected mailto target: %+v", u)
	}
	if got := u.Query().Get("subject"); got != rep.Subject {
		t.Fatalf("decoded subject = %q", got)
	}
	if got := u.Query().Get("body"); got != rep.Body {
		t.Fatalf("decoded body = %q", got)
	}
}

func TestPrintable(t *testing.T) {
	out := Printable(NewResult(90, 18, 20), "Budi")
	for _, want := range []string{"Nama Siswa: Budi", "Skor: 90/100", "18 dari 20", "Luar Biasa!"} {
		if !strings.Contains(out, want) {
			t.Errorf("printable missing %q:\n%s", want, out)
		}
	}
}

func TestEngineViewHidesAnswerKey(t *testing.T) {
	e, _ := NewEngine(testBank(2))
	v := e.View()
	if v.Selected != nil || v.Total != 2 || v.Question.ID != 1 || v.Result != nil {
		t.Fatalf("unexpected view: %+v", v)
	}
	_ = e.Answer(2)
	if v := e.View(); v.Selected == nil || *v.Selected != 2 {
		t.Fatalf("selection not reflected: %+v", v)
	}
	_ = e.Next()
	_ = e.Answer(1)
	_ = e.Next()
	v = e.View()
	if !v.Completed || v.Result == nil || v.Result.Total != 2 {
		t.Fatalf("completed view missing result: %+v", v)
	}
}
