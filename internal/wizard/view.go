package wizard

import (
	"github.com/KaramelBytes/dataexplorer/internal/analysis"
	"github.com/KaramelBytes/dataexplorer/internal/catalog"
	"github.com/KaramelBytes/dataexplorer/internal/quiz"
)

// StepView is the content of the current step. The set of variants is closed:
// SelectionView, CleaningView, StatisticsView, VisualizationView, InterpretationView.
type StepView interface {
	Step() Step
	stepView()
}

// DatasetCard is a catalog entry as listed in the selection step.
type DatasetCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HasData     bool   `json:"has_data"`
	Rows        int    `json:"rows"`
	DirtyCount  int    `json:"dirty_count"`
}

func cardOf(d catalog.Dataset) DatasetCard {
	return DatasetCard{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		HasData:     d.Kind() == catalog.KindData,
		Rows:        len(d.Data),
		DirtyCount:  d.DirtyCount(),
	}
}

// RawRow is one raw entry with its display value.
type RawRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Dirty bool   `json:"dirty"`
}

type SelectionView struct {
	Datasets []DatasetCard `json:"datasets"`
}

type CleaningView struct {
	Dataset  DatasetCard `json:"dataset"`
	Raw      []RawRow    `json:"raw"`
	Cleaning bool        `json:"cleaning"`
}

type StatisticsView struct {
	Cleaned []analysis.DataPoint    `json:"cleaned"`
	Report  analysis.CleaningReport `json:"report"`
	Summary *analysis.Summary       `json:"summary,omitempty"`
	Mean    string                  `json:"mean,omitempty"`
	Median  string                  `json:"median,omitempty"`
	Mode    string                  `json:"mode,omitempty"`
	Err     string                  `json:"error,omitempty"`
}

type VisualizationView struct {
	Chart analysis.ChartConfig `json:"chart"`
	Kinds []analysis.ChartKind `json:"kinds"`
}

type InterpretationView struct {
	DatasetName    string `json:"dataset_name"`
	Configured     bool   `json:"configured"`
	Loading        bool   `json:"loading"`
	Interpretation string `json:"interpretation,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (SelectionView) Step() Step      { return StepSelection }
func (CleaningView) Step() Step       { return StepCleaning }
func (StatisticsView) Step() Step     { return StepStatistics }
func (VisualizationView) Step() Step  { return StepVisualization }
func (InterpretationView) Step() Step { return StepInterpretation }

func (SelectionView) stepView()      {}
func (CleaningView) stepView()       {}
func (StatisticsView) stepView()     {}
func (VisualizationView) stepView()  {}
func (InterpretationView) stepView() {}

func rawRows(points []analysis.RawDataPoint) []RawRow {
	out := make([]RawRow, len(points))
	for i, p := range points {
		out[i] = RawRow{Label: p.Label, Value: p.Value.String(), Dirty: p.Value.Dirty()}
	}
	return out
}

func statisticsView(cleaned []analysis.DataPoint, rep analysis.CleaningReport) StatisticsView {
	v := StatisticsView{Cleaned: cleaned, Report: rep}
	s, err := analysis.Describe(cleaned)
	if err != nil {
		v.Err = err.Error()
		return v
	}
	v.Summary = &s
	v.Mean, v.Median, v.Mode = s.MeanText(), s.MedianText(), s.ModeText()
	return v
}

// OverlayView is the page of the info overlay.
type OverlayView string

const (
	OverlayInfo   OverlayView = "info"
	OverlayQuiz   OverlayView = "quiz"
	OverlayResult OverlayView = "result"
)

// OverlayState is the client-facing overlay snapshot.
type OverlayState struct {
	DatasetID string      `json:"dataset_id"`
	Name      string      `json:"name"`
	Content   string      `json:"content"`
	View      OverlayView `json:"view"`
	Quiz      *quiz.View  `json:"quiz,omitempty"`
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Step      Step               `json:"step"`
	Title     string             `json:"title"`
	Guide     string             `json:"guide"`
	Steps     []string           `json:"steps"`
	Phase     string             `json:"phase"`
	DatasetID string             `json:"dataset_id,omitempty"`
	Chart     analysis.ChartKind `json:"chart"`
	Cleaning  bool               `json:"cleaning"`
	Loading   bool               `json:"loading"`
	CanNext   bool               `json:"can_next"`
	CanPrev   bool               `json:"can_prev"`
	View      StepView           `json:"view"`
	Overlay   *OverlayState      `json:"overlay,omitempty"`
}
