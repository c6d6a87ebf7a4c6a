package wizard

import "fmt"

// Step is one of the five walkthrough stages.
type Step int

const (
	StepSelection Step = iota + 1
	StepCleaning
	StepStatistics
	StepVisualization
	StepInterpretation
)

// FirstStep and LastStep bound navigation.
const (
	FirstStep = StepSelection
	LastStep  = StepInterpretation
)

var stepTitles = [...]string{
	StepSelection:      "Pengumpulan Data",
	StepCleaning:       "Pembersihan Data",
	StepStatistics:     "Pengolahan Data",
	StepVisualization:  "Visualisasi Data",
	StepInterpretation: "Interpretasi Data",
}

var stepGuides = [...]string{
	StepSelection:      "Halo, Penjelajah Data! Aku Datanaut. Tugas pertama kita adalah memilih set data. Ini seperti memilih peta harta karun!",
	StepCleaning:       "Kadang data itu sedikit berantakan. Jangan khawatir! Kita akan membersihkannya agar kinclong dan siap diolah. Anggap saja ini seperti merapikan kamarmu.",
	StepStatistics:     "Waktunya berhitung! Mean, Median, dan Modus adalah 3 'jurus' andalan kita untuk memahami inti dari data. Keren, kan?",
	StepVisualization:  "Angka-angka itu bagus, tapi gambar lebih bercerita! Ayo kita ubah data kita menjadi grafik yang menarik agar lebih mudah dipahami.",
	StepInterpretation: "Ini bagian paling seru! Kita akan mencari tahu 'cerita' di balik data ini. Aku bisa bantu kamu dengan kekuatan AI-ku!",
}

// Valid reports whether s is within 1..5.
func (s Step) Valid() bool { return s >= FirstStep && s <= LastStep }

// Title is the tracker label.
func (s Step) Title() string {
	if !s.Valid() {
		return ""
	}
	return stepTitles[s]
}

// Guide is the mascot's line for the step.
func (s Step) Guide() string {
	if !s.Valid() {
		return ""
	}
	return stepGuides[s]
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return fmt.Sprintf("%d. %s", int(s), s.Title())
}

// Titles lists the tracker labels in order.
func Titles() []string {
	out := make([]string, 0, LastStep)
	for s := FirstStep; s <= LastStep; s++ {
		out = append(out, s.Title())
	}
	return out
}

// Phase is the state of the step hand-off animation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFadingOut
	PhaseSwapping
	PhaseFadingIn
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFadingOut:
		return "fading_out"
	case PhaseSwapping:
		return "swapping"
	case PhaseFadingIn:
		return "fading_in"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}
