package wizard

import "github.com/KaramelBytes/dataexplorer/internal/analysis"

// Snapshot copies the state and renders the current step's view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		Step:     c.step,
		Title:    c.step.Title(),
		Guide:    c.step.Guide(),
		Steps:    Titles(),
		Phase:    c.phase.String(),
		Chart:    c.chart,
		Cleaning: c.cleaning,
		Loading:  c.loading,
		View:     c.view(),
	}
	if c.dataset != nil {
		s.DatasetID = c.dataset.ID
	}
	idle := c.phase == PhaseIdle && !c.cleaning
	s.CanNext = idle && c.nextAllowed() == nil
	s.CanPrev = idle && c.step > FirstStep
	if c.overlay != nil {
		s.Overlay = c.overlay.state()
	}
	return s
}

// View renders the current step.
func (c *Controller) View() StepView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *Controller) view() StepView {
	switch c.step {
	case StepCleaning:
		v := CleaningView{Cleaning: c.cleaning}
		if c.dataset != nil {
			v.Dataset = cardOf(*c.dataset)
			v.Raw = rawRows(c.dataset.Data)
		}
		return v
	case StepStatistics:
		return statisticsView(c.cleaned, c.report)
	case StepVisualization:
		title := ""
		if c.dataset != nil {
			title = c.dataset.Name
		}
		return VisualizationView{
			Chart: analysis.BuildChart(c.chart, title, c.cleaned),
			Kinds: append([]analysis.ChartKind(nil), analysis.ChartKinds...),
		}
	case StepInterpretation:
		v := InterpretationView{
			Configured:     c.requester.Configured(),
			Loading:        c.loading,
			Interpretation: c.text,
			Error:          c.errMsg,
		}
		if c.dataset != nil {
			v.DatasetName = c.dataset.Name
		}
		return v
	default:
		all := c.catalog.All()
		cards := make([]DatasetCard, len(all))
		for i, d := range all {
			cards[i] = cardOf(d)
		}
		return SelectionView{Datasets: cards}
	}
}
