package quiz

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultRecipient receives score reports unless configured otherwise.
const DefaultRecipient = "evyervina59@guru.smp.belajar.id"

// ErrEmptyName is returned when a report is requested without a student name.
var ErrEmptyName = errors.New("student name is empty")

// EmptyNameMessage is the inline validation shown for ErrEmptyName.
const EmptyNameMessage = "Harap masukkan nama lengkap Anda."

// ReportReadyMessage is shown once the email draft is prepared.
const ReportReadyMessage = "Bagus! Sekarang tinggal kirim email yang sudah disiapkan di aplikasi email Anda."

// Result is the outcome of a completed attempt.
type Result struct {
	Score   int    `json:"score"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// NewResult attaches the feedback message for score.
func NewResult(score, correct, total int) Result {
	return Result{Score: score, Correct: correct, Total: total, Message: ResultMessage(score)}
}

// ResultMessage picks the encouragement shown for a score.
func ResultMessage(score int) string {
	switch {
	case score >= 90:
		return "Luar Biasa! Pemahamanmu sangat mendalam!"
	case score >= 75:
		return "Kerja Bagus! Kamu sudah sangat paham materi ini."
	case score >= 60:
		return "Bagus! Terus berlatih untuk lebih mahir lagi."
	default:
		return "Jangan Menyerah! Coba pelajari lagi materinya dan ulangi kuisnya."
	}
}

// Report is a pre-filled email draft for the teacher. Delivery is up to the mail client.
type Report struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// ComposeReport formats the score report for name. An empty recipient uses DefaultRecipient.
func ComposeReport(name string, r Result, recipient string) (Report, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Report{}, ErrEmptyName
	}
	if recipient == "" {
		recipient = DefaultRecipient
	}
	body := fmt.Sprintf("Halo,\n\nBerikut adalah hasil kuis Analisis Data saya:\n\nNama Siswa: %s\nSkor: %d/100\nJawaban Benar: %d dari %d soal.\n\nTerima kasih.",
		name, r.Score, r.Correct, r.Total)
	return Report{
		Recipient: recipient,
		Subject:   "Nilai Kuis Analisis Data - " + name,
		Body:      body,
	}, nil
}

// MailtoURL encodes the draft as a mailto link.
func (r Report) MailtoURL() string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", r.Recipient, encodeComponent(r.Subject), encodeComponent(r.Body))
}

// encodeComponent percent-encodes like a URI component: spaces become %20, not '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Printable renders the result view as plain text for printing.
func Printable(r Result, name string) string {
	var b strings.Builder
	b.WriteString("Hasil Kuis Analisis Data\n")
	b.WriteString("========================\n\n")
	if n := strings.TrimSpace(name); n != "" {
		b.WriteString(fmt.Sprintf("Nama Siswa: %s\n", n))
	}
	b.WriteString(fmt.Sprintf("Skor: %d/100\n", r.Score))
	b.WriteString(fmt.Sprintf("Jawaban Benar: %d dari %d soal\n\n", r.Correct, r.Total))
	b.WriteString(r.Message)
	b.WriteString("\n")
	return b.String()
}
