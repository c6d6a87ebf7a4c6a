package server

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/KaramelBytes/dataexplorer/internal/quiz"
)

// quizSession is a standalone attempt. quiz.Engine is not safe for concurrent
// use, so every access goes through mu.
type quizSession struct {
	mu     sync.Mutex
	engine *quiz.Engine
}

type quizResponse struct {
	ID   string    `json:"id"`
	Quiz quiz.View `json:"quiz"`
}

type reportRequest struct {
	Name string `json:"name"`
}

type reportResponse struct {
	Report  quiz.Report `json:"report"`
	Mailto  string      `json:"mailto"`
	Message string      `json:"message"`
}

func (s *Server) quizRoutes(r chi.Router) {
	r.Post("/", s.createQuiz)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", s.getQuiz)
		r.Delete("/", s.deleteQuiz)
		r.Post("/answer", s.answerQuiz)
		r.Post("/next", s.quizAction((*quiz.Engine).Next))
		r.Post("/back", s.quizAction((*quiz.Engine).Prev))
		r.Post("/retry", s.quizAction(func(e *quiz.Engine) error { e.Retry(); return nil }))
		r.Post("/report", s.quizReport)
		r.Get("/print", s.quizPrint)
	})
}

func (s *Server) createQuiz(w http.ResponseWriter, r *http.Request) {
	eng, err := quiz.NewEngine(s.opts.Questions)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id := s.quizzes.Create(&quizSession{engine: eng})
	writeJSON(w, http.StatusCreated, quizResponse{ID: id, Quiz: eng.View()})
}

// withQuiz runs f on the session's engine under its lock.
func (s *Server) withQuiz(w http.ResponseWriter, r *http.Request, f func(id string, e *quiz.Engine) error) {
	id := chi.URLParam(r, "id")
	qs, err := s.quizzes.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	qs.mu.Lock()
	defer qs.mu.Unlock()
	if err := f(id, qs.engine); err != nil {
		s.fail(w, r, err)
	}
}

func (s *Server) getQuiz(w http.ResponseWriter, r *http.Request) {
	s.withQuiz(w, r, func(id string, e *quiz.Engine) error {
		writeJSON(w, http.StatusOK, quizResponse{ID: id, Quiz: e.View()})
		return nil
	})
}

func (s *Server) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := s.quizzes.Delete(chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) quizAction(f func(*quiz.Engine) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.withQuiz(w, r, func(id string, e *quiz.Engine) error {
			if err := f(e); err != nil {
				return err
			}
			writeJSON(w, http.StatusOK, quizResponse{ID: id, Quiz: e.View()})
			return nil
		})
	}
}

func (s *Server) answerQuiz(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := decode(r, &req); err != nil || req.Option == nil {
		s.fail(w, r, errBadBody)
		return
	}
	s.quizAction(func(e *quiz.Engine) error { return e.Answer(*req.Option) })(w, r)
}

// quizReport formats the mailto draft for a completed attempt.
func (s *Server) quizReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.withQuiz(w, r, func(_ string, e *quiz.Engine) error {
		res, ok := e.Result()
		if !ok {
			return errIncomplete
		}
		rep, err := quiz.ComposeReport(req.Name, res, s.opts.Recipient)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, reportResponse{Report: rep, Mailto: rep.MailtoURL(), Message: quiz.ReportReadyMessage})
		return nil
	})
}

func (s *Server) quizPrint(w http.ResponseWriter, r *http.Request) {
	s.withQuiz(w, r, func(_ string, e *quiz.Engine) error {
		res, ok := e.Result()
		if !ok {
			return errIncomplete
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(quiz.Printable(res, r.URL.Query().Get("name"))))
		return nil
	})
}
