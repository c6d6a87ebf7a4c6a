package quiz

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrCompleted       = errors.New("quiz already completed")
	ErrUnanswered      = errors.New("current question has no answer")
	ErrAtFirstQuestion = errors.New("already at the first question")
	ErrInvalidOption   = errors.New("option out of range")
	ErrEmptyBank       = errors.New("question bank is empty")
)

// Question is one multiple-choice item. CorrectAnswer indexes Options.
type Question struct {
	ID            int      `json:"id" yaml:"id"`
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer int      `json:"correct_answer" yaml:"correct_answer"`
}

// Validate checks the question is usable by the engine.
func (q Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("question %d: needs at least 2 options", q.ID)
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("question %d: correct answer %d out of range", q.ID, q.CorrectAnswer)
	}
	return nil
}

// Answers maps question id to the selected option index.
type Answers map[int]int

// Engine walks a fixed question bank one question at a time.
// It is not safe for concurrent use; callers serialize access.
type Engine struct {
	questions []Question
	index     int
	answers   Answers
	completed bool
	score     int
}

// NewEngine validates the bank and starts a fresh attempt.
func NewEngine(questions []Question) (*Engine, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyBank
	}
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
	}
	return &Engine{questions: questions, answers: Answers{}}, nil
}

// Current returns the question at the current index.
func (e *Engine) Current() Question { return e.questions[e.index] }

// Index is the 0-based position of the current question.
func (e *Engine) Index() int { return e.index }

// Total is the number of questions in the bank.
func (e *Engine) Total() int { return len(e.questions) }

// IsLast reports whether the current question is the final one.
func (e *Engine) IsLast() bool { return e.index == len(e.questions)-1 }

// Completed reports whether the attempt has been scored.
func (e *Engine) Completed() bool { return e.completed }

// Score returns the final score and whether it is available yet.
func (e *Engine) Score() (int, bool) { return e.score, e.completed }

// Selected returns the recorded option for the current question.
func (e *Engine) Selected() (int, bool) {
	v, ok := e.answers[e.Current().ID]
	return v, ok
}

// Answers returns a copy of the recorded answers.
func (e *Engine) Answers() Answers {
	out := make(Answers, len(e.answers))
	for k, v := range e.answers {
		out[k] = v
	}
	return out
}

// Answer records option for the current question. The last write wins.
func (e *Engine) Answer(option int) error {
	if e.completed {
		return ErrCompleted
	}
	q := e.Current()
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: %d (question %d has %d options)", ErrInvalidOption, option, q.ID, len(q.Options))
	}
	e.answers[q.ID] = option
	return nil
}

// Next moves forward, or scores the attempt when on the last question.
func (e *Engine) Next() error {
	if e.completed {
		return ErrCompleted
	}
	if _, ok := e.answers[e.Current().ID]; !ok {
		return ErrUnanswered
	}
	if !e.IsLast() {
		e.index++
		return nil
	}
	e.score = Score(e.questions, e.answers)
	e.completed = true
	return nil
}

// Prev moves back one question. Answers are kept.
func (e *Engine) Prev() error {
	if e.completed {
		return ErrCompleted
	}
	if e.index == 0 {
		return ErrAtFirstQuestion
	}
	e.index--
	return nil
}

// Retry discards the attempt and starts again from the first question.
func (e *Engine) Retry() {
	e.index = 0
	e.answers = Answers{}
	e.completed = false
	e.score = 0
}

// Result summarizes a completed attempt. ok is false before completion.
func (e *Engine) Result() (Result, bool) {
	if !e.completed {
		return Result{}, false
	}
	return NewResult(e.score, CorrectCount(e.questions, e.answers), len(e.questions)), true
}

// CorrectCount counts answers matching the correct option. Unanswered is incorrect.
func CorrectCount(questions []Question, answers Answers) int {
	n := 0
	for _, q := range questions {
		if a, ok := answers[q.ID]; ok && a == q.CorrectAnswer {
			n++
		}
	}
	return n
}

// Score is round(100 * correct / total).
func Score(questions []Question, answers Answers) int {
	if len(questions) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(CorrectCount(questions, answers)) / float64(len(questions))))
}

// Prompt is a question without its answer key, safe to send to a client.
type Prompt struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// View is a client-facing snapshot of an attempt.
type View struct {
	Index     int     `json:"index"`
	Total     int     `json:"total"`
	Question  Prompt  `json:"question"`
	Selected  *int    `json:"selected,omitempty"`
	IsLast    bool    `json:"is_last"`
	Completed bool    `json:"completed"`
	Result    *Result `json:"result,omitempty"`
}

// View snapshots the attempt.
func (e *Engine) View() View {
	q := e.Current()
	v := View{
		Index:     e.index,
		Total:     len(e.questions),
		Question:  Prompt{ID: q.ID, Question: q.Question, Options: append([]string(nil), q.Options...)},
		IsLast:    e.IsLast(),
		Completed: e.completed,
	}
	if sel, ok := e.Selected(); ok {
		v.Selected = &sel
	}
	if r, ok := e.Result(); ok {
		v.Result = &r
	}
	return v
}
