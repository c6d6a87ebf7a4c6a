package wizard

import (
	"errors"

	"github.com/KaramelBytes/dataexplorer/internal/catalog"
	"github.com/KaramelBytes/dataexplorer/internal/cue"
	"github.com/KaramelBytes/dataexplorer/internal/quiz"
)

var (
	ErrNoOverlay   = errors.New("info overlay is not open")
	ErrOverlayView = errors.New("not available on the current overlay page")
)

// overlay is the reading card opened from a content dataset. Its quiz never
// touches walkthrough state.
type overlay struct {
	dataset catalog.Dataset
	view    OverlayView
	engine  *quiz.Engine
}

func (c *Controller) openOverlay(ds catalog.Dataset) error {
	eng, err := quiz.NewEngine(c.questions)
	if err != nil {
		return err
	}
	c.overlay = &overlay{dataset: ds, view: OverlayInfo, engine: eng}
	c.cues.Emit(cue.Click)
	return nil
}

func (c *Controller) withOverlay(views []OverlayView, f func(o *overlay) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.overlay == nil {
		return ErrNoOverlay
	}
	for _, v := range views {
		if c.overlay.view == v {
			return f(c.overlay)
		}
	}
	return ErrOverlayView
}

// StartOverlayQuiz moves from the info page to a fresh quiz attempt.
func (c *Controller) StartOverlayQuiz() error {
	return c.withOverlay([]OverlayView{OverlayInfo}, func(o *overlay) error {
		c.cues.Emit(cue.Select)
		o.engine.Retry()
		o.view = OverlayQuiz
		return nil
	})
}

// AnswerOverlayQuiz records option for the current overlay question.
func (c *Controller) AnswerOverlayQuiz(option int) error {
	return c.withOverlay([]OverlayView{OverlayQuiz}, func(o *overlay) error {
		if err := o.engine.Answer(option); err != nil {
			return err
		}
		c.cues.Emit(cue.Click)
		return nil
	})
}

// NextOverlayQuestion advances; on the last question it scores and shows the result page.
func (c *Controller) NextOverlayQuestion() error {
	return c.withOverlay([]OverlayView{OverlayQuiz}, func(o *overlay) error {
		if err := o.engine.Next(); err != nil {
			return err
		}
		c.cues.Emit(cue.Transition)
		if o.engine.Completed() {
			o.view = OverlayResult
			c.cues.Emit(cue.Success)
		}
		return nil
	})
}

// PrevOverlayQuestion goes back one question.
func (c *Controller) PrevOverlayQuestion() error {
	return c.withOverlay([]OverlayView{OverlayQuiz}, func(o *overlay) error {
		if err := o.engine.Prev(); err != nil {
			return err
		}
		c.cues.Emit(cue.Transition)
		return nil
	})
}

// RetryOverlayQuiz starts the overlay quiz over from the result page.
func (c *Controller) RetryOverlayQuiz() error {
	return c.withOverlay([]OverlayView{OverlayResult}, func(o *overlay) error {
		c.cues.Emit(cue.Select)
		o.engine.Retry()
		o.view = OverlayQuiz
		return nil
	})
}

// CloseOverlay dismisses the overlay from any page.
func (c *Controller) CloseOverlay() error {
	return c.withOverlay([]OverlayView{OverlayInfo, OverlayQuiz, OverlayResult}, func(*overlay) error {
		c.cues.Emit(cue.Click)
		c.overlay = nil
		return nil
	})
}

// OverlayQuizResult returns the overlay quiz result once it is complete.
func (c *Controller) OverlayQuizResult() (quiz.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.overlay == nil {
		return quiz.Result{}, false
	}
	return c.overlay.engine.Result()
}

func (o *overlay) state() *OverlayState {
	s := &OverlayState{
		DatasetID: o.dataset.ID,
		Name:      o.dataset.Name,
		Content:   o.dataset.Content,
		View:      o.view,
	}
	if o.view != OverlayInfo {
		v := o.engine.View()
		s.Quiz = &v
	}
	return s
}
