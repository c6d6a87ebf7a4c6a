// Package wizard drives the five-step data-analysis walkthrough.
//
// The Controller owns all walkthrough state. Every step change goes through a
// short hand-off (fade-out, swap, fade-in) timed by an injected Clock; while it
// runs no other transition is accepted.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/KaramelBytes/dataexplorer/internal/analysis"
	"github.com/KaramelBytes/dataexplorer/internal/catalog"
	"github.com/KaramelBytes/dataexplorer/internal/cue"
	"github.com/KaramelBytes/dataexplorer/internal/interpret"
	"github.com/KaramelBytes/dataexplorer/internal/quiz"
)

var (
	ErrTransitionInProgress = errors.New("a step transition is in progress")
	ErrWrongStep            = errors.New("not available at the current step")
	ErrNoDataset            = errors.New("no dataset selected")
	ErrNotCleaned           = errors.New("data has not been cleaned yet")
	ErrAtFirstStep          = errors.New("already at the first step")
	ErrAtLastStep           = errors.New("already at the last step")
	ErrCleaning             = errors.New("cleaning in progress")
	ErrBusy                 = errors.New("an interpretation is already being generated")
	ErrStale                = errors.New("interpretation discarded: the walkthrough moved on")
	ErrEmptyDataset         = errors.New("dataset has neither data nor content")
	ErrClosed               = errors.New("walkthrough closed")
)

// Config wires a Controller. Zero fields get defaults.
type Config struct {
	Catalog   *catalog.Catalog
	Questions []quiz.Question
	Requester *interpret.Requester
	Cues      cue.Emitter
	Clock     Clock
	Logger    *zap.Logger
	// Timings nil means DefaultTimings.
	Timings   *Timings
}

// Controller is safe for concurrent use.
type Controller struct {
	catalog   *catalog.Catalog
	questions []quiz.Question
	requester *interpret.Requester
	cues      cue.Emitter
	clock     Clock
	log       *zap.Logger
	timings   Timings

	mu         sync.Mutex
	step       Step
	phase      Phase
	dataset    *catalog.Dataset
	cleaned    []analysis.DataPoint
	report     analysis.CleaningReport
	cleaning   bool
	cleanTimer Timer
	chart      analysis.ChartKind
	text       string
	errMsg     string
	loading    bool
	overlay    *overlay
	// epoch invalidates pending cleaning and interpretation results.
	epoch  uint64
	closed bool

	idle       chan struct{}
	idleClosed bool
}

// New returns a controller at step 1.
func New(cfg Config) (*Controller, error) {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Questions == nil {
		cfg.Questions = catalog.Questions()
	}
	if _, err := quiz.NewEngine(cfg.Questions); err != nil {
		return nil, fmt.Errorf("question bank: %w", err)
	}
	if cfg.Cues == nil {
		cfg.Cues = cue.Discard
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	c := &Controller{
		catalog:   cfg.Catalog,
		questions: cfg.Questions,
		requester: cfg.Requester,
		cues:      cfg.Cues,
		clock:     cfg.Clock,
		log:       cfg.Logger,
		timings:   resolveTimings(cfg.Timings),
		step:      StepSelection,
		chart:     analysis.ChartBar,
		idle:      make(chan struct{}),
	}
	c.syncIdle()
	return c, nil
}

// Step returns the current step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Phase returns the hand-off phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Catalog is the dataset source of the selection step.
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

// SelectDataset picks a dataset at step 1. A data dataset starts cleaning at
// step 2; a content dataset opens the info overlay and leaves the walkthrough as is.
func (c *Controller) SelectDataset(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.syncIdle()
	if c.closed {
		return ErrClosed
	}
	if c.step != StepSelection {
		return ErrWrongStep
	}
	ds, err := c.catalog.Get(id)
	if err != nil {
		return err
	}
	switch ds.Kind() {
	case catalog.KindContent:
		return c.openOverlay(ds)
	case catalog.KindEmpty:
		return ErrEmptyDataset
	}
	if c.phase != PhaseIdle {
		return ErrTransitionInProgress
	}
	c.cues.Emit(cue.Select)
	c.epoch++
	c.dataset = &ds
	c.cleaned = nil
	c.report = analysis.CleaningReport{}
	c.text, c.errMsg = "", ""
	return c.transition(StepCleaning, nil)
}

// Clean starts cleaning the selected dataset. The result lands after the
// configured delay, followed by a hand-off to step 3.
func (c *Controller) Clean() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.syncIdle()
	switch {
	case c.closed:
		return ErrClosed
	case c.step != StepCleaning:
		return ErrWrongStep
	case c.dataset == nil:
		return ErrNoDataset
	case c.cleaning:
		return ErrCleaning
	case c.phase != PhaseIdle:
		return ErrTransitionInProgress
	}
	c.cleaning = true
	c.cues.Emit(cue.Generate)
	epoch, raw := c.epoch, c.dataset.Data
	c.cleanTimer = c.clock.AfterFunc(c.timings.CleanDelay, func() { c.finishClean(epoch, raw) })
	return nil
}

func (c *Controller) finishClean(epoch uint64, raw []analysis.RawDataPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.syncIdle()
	if c.closed || epoch != c.epoch || !c.cleaning {
		return
	}
	c.cleaning = false
	c.cleanTimer = nil
	cleaned, rep := analysis.CleanWithReport(raw)
	c.cues.Emit(cue.Success)
	c.cleaned, c.report = cleaned, rep
	c.log.Debug("dataset cleaned", zap.Int("kept", rep.Kept), zap.Int("dropped", rep.Dropped()))
	if err := c.transition(StepStatistics, nil); err != nil {
		c.log.Warn("hand-off after cleaning rejected", zap.Error(err))
	}
}

// Next advances one step when the current step's precondition holds.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.syncIdle()
	if c.closed {
		return ErrClosed
	}
	c.cues.Emit(cue.Click)
	if err := c.navigable(); err != nil {
		return err
	}
	if err := c.nextAllowed(); err != nil {
		return err
	}
	return c.transition(c.step+1, nil)
}

// Prev goes back one step. Leaving step 5 abandons a pending interpretation.
func (c *Controller) Prev() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.syncIdle()
	if c.closed {
		return ErrClosed
	}
	c.cues.Emit(cue.Click)
	if err := c.navigable(); err != nil {
		return err
	}
	if c.step == FirstStep {
		return ErrAtFirstStep
	}
	if c.step == StepInterpretation {
		c.epoch++
		c.loading = false
	}
	return c.transition(c.step-1, nil)
}

// SetChartKind changes the visualization at step 4. Data is untouched.
func (c *Controller) SetChartKind(kind analysis.ChartKind) error {
	k, err := analysis.ParseChartKind(string(kind))
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepVisualization {
		return ErrWrongStep
	}
	c.cues.Emit(cue.Click)
	c.chart = k
	return nil
}

// Reset returns everything to its initial value through one hand-off.
// A pending cleaning or interpretation result is discarded.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.syncIdle()
	if c.closed {
		return ErrClosed
	}
	if c.phase != PhaseIdle {
		return ErrTransitionInProgress
	}
	c.cues.Emit(cue.Select)
	c.epoch++
	c.stopCleaning()
	c.loading = false
	return c.transition(StepSelection, func() {
		c.dataset = nil
		c.cleaned = nil
		c.report = analysis.CleaningReport{}
		c.chart = analysis.ChartBar
		c.text, c.errMsg = "", ""
		c.overlay = nil
	})
}

// Interpret requests an interpretation at step 5 and blocks until it is done.
func (c *Controller) Interpret(ctx context.Context) (string, error) {
	return c.interpret(ctx, nil)
}

// InterpretStream is Interpret with partial output forwarded to onDelta.
func (c *Controller) InterpretStream(ctx context.Context, onDelta func(string)) (string, error) {
	return c.interpret(ctx, onDelta)
}

func (c *Controller) interpret(ctx context.Context, onDelta func(string)) (string, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrClosed
	}
	if c.step != StepInterpretation {
		c.mu.Unlock()
		return "", ErrWrongStep
	}
	if c.loading {
		c.mu.Unlock()
		return "", ErrBusy
	}
	in := interpret.Input{Chart: c.chart, Cleaned: c.cleaned}
	if c.dataset != nil {
		in.DatasetName = c.dataset.Name
	}
	if err := c.requester.Check(in); err != nil {
		c.errMsg = interpret.UserMessage(err)
		c.cues.Emit(cue.Error)
		c.mu.Unlock()
		return "", err
	}
	c.cues.Emit(cue.Generate)
	c.loading = true
	c.text, c.errMsg = "", ""
	epoch := c.epoch
	c.mu.Unlock()

	var (
		text string
		err  error
	)
	if onDelta != nil {
		text, err = c.requester.Stream(ctx, in, onDelta)
	} else {
		text, err = c.requester.Request(ctx, in)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || epoch != c.epoch || c.step != StepInterpretation {
		c.log.Debug("stale interpretation discarded", zap.Error(err))
		return "", ErrStale
	}
	c.loading = false
	if err != nil {
		c.errMsg = interpret.UserMessage(err)
		c.cues.Emit(cue.Error)
		c.log.Warn("interpretation failed", zap.Error(err))
		return "", err
	}
	c.text = text
	c.cues.Emit(cue.Success)
	return text, nil
}

// WaitIdle blocks until no hand-off or cleaning is pending.
func (c *Controller) WaitIdle(ctx context.Context) error {
	c.mu.Lock()
	ch := c.idle
	c.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels pending timers. Later calls return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.epoch++
	c.stopCleaning()
	c.phase = PhaseIdle
	c.loading = false
	c.syncIdle()
}

func (c *Controller) stopCleaning() {
	if c.cleanTimer != nil {
		c.cleanTimer.Stop()
		c.cleanTimer = nil
	}
	c.cleaning = false
}

func (c *Controller) navigable() error {
	if c.cleaning {
		return ErrCleaning
	}
	if c.phase != PhaseIdle {
		return ErrTransitionInProgress
	}
	return nil
}

func (c *Controller) nextAllowed() error {
	switch {
	case c.step >= LastStep:
		return ErrAtLastStep
	case c.step == StepSelection && c.dataset == nil:
		return ErrNoDataset
	case c.step == StepCleaning && c.cleaned == nil:
		return ErrNotCleaned
	}
	return nil
}

// transition starts the hand-off to step to. apply runs at the swap, before the step changes.
// Callers hold c.mu.
func (c *Controller) transition(to Step, apply func()) error {
	if c.phase != PhaseIdle {
		return ErrTransitionInProgress
	}
	c.phase = PhaseFadingOut
	c.log.Debug("step hand-off", zap.Stringer("from", c.step), zap.Stringer("to", to))
	c.clock.AfterFunc(c.timings.FadeOut, func() { c.swap(to, apply) })
	return nil
}

func (c *Controller) swap(to Step, apply func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.phase != PhaseFadingOut {
		return
	}
	c.phase = PhaseSwapping
	if apply != nil {
		apply()
	}
	c.step = to
	c.cues.Emit(cue.Transition)
	c.phase = PhaseFadingIn
	c.clock.AfterFunc(c.timings.FadeIn, c.settle)
}

func (c *Controller) settle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.syncIdle()
	if c.closed || c.phase != PhaseFadingIn {
		return
	}
	c.phase = PhaseIdle
}

// syncIdle keeps c.idle closed exactly while nothing is pending. Callers hold c.mu.
func (c *Controller) syncIdle() {
	busy := !c.closed && (c.phase != PhaseIdle || c.cleaning)
	switch {
	case busy && c.idleClosed:
		c.idle = make(chan struct{})
		c.idleClosed = false
	case !busy && !c.idleClosed:
		close(c.idle)
		c.idleClosed = true
	}
}
