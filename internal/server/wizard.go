package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KaramelBytes/dataexplorer/internal/analysis"
	"github.com/KaramelBytes/dataexplorer/internal/cue"
	"github.com/KaramelBytes/dataexplorer/internal/wizard"
)

type wizardSession struct {
	ctl  *wizard.Controller
	cues *cue.Buffer
}

type wizardResponse struct {
	ID    string          `json:"id"`
	State wizard.Snapshot `json:"state"`
	Cues  []cue.Cue       `json:"cues,omitempty"`
}

type selectRequest struct {
	DatasetID string `json:"dataset_id"`
}

type chartRequest struct {
	Kind string `json:"kind"`
}

type optionRequest struct {
	Option *int `json:"option"`
}

func (s *Server) wizardRoutes(r chi.Router) {
	r.Post("/", s.createWizard)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", s.getWizard)
		r.Delete("/", s.deleteWizard)
		r.Post("/select", s.selectDataset)
		r.Post("/clean", s.wizardAction((*wizard.Controller).Clean))
		r.Post("/next", s.wizardAction((*wizard.Controller).Next))
		r.Post("/back", s.wizardAction((*wizard.Controller).Prev))
		r.Post("/reset", s.wizardAction((*wizard.Controller).Reset))
		r.Post("/interpret", s.interpret)
		r.Put("/chart", s.setChart)
		r.Route("/overlay", func(r chi.Router) {
			r.Post("/start", s.wizardAction((*wizard.Controller).StartOverlayQuiz))
			r.Post("/retry", s.wizardAction((*wizard.Controller).RetryOverlayQuiz))
			r.Post("/close", s.wizardAction((*wizard.Controller).CloseOverlay))
			r.Post("/answer", s.overlayAnswer)
			r.Post("/next", s.wizardAction((*wizard.Controller).NextOverlayQuestion))
			r.Post("/back", s.wizardAction((*wizard.Controller).PrevOverlayQuestion))
		})
	})
}

func (s *Server) createWizard(w http.ResponseWriter, r *http.Request) {
	buf := cue.NewBuffer(cue.DefaultBufferSize)
	ctl, err := s.opts.NewWizard(buf)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	id := s.wizards.Create(&wizardSession{ctl: ctl, cues: buf})
	writeJSON(w, http.StatusCreated, wizardResponse{ID: id, State: ctl.Snapshot()})
}

func (s *Server) wizardFor(w http.ResponseWriter, r *http.Request) (string, *wizardSession, bool) {
	id := chi.URLParam(r, "id")
	ws, err := s.wizards.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return "", nil, false
	}
	return id, ws, true
}

// getWizard returns the state and drains the cues emitted since the last poll.
func (s *Server) getWizard(w http.ResponseWriter, r *http.Request) {
	id, ws, ok := s.wizardFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse{ID: id, State: ws.ctl.Snapshot(), Cues: ws.cues.Drain()})
}

func (s *Server) deleteWizard(w http.ResponseWriter, r *http.Request) {
	if err := s.wizards.Delete(chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondWizard(w http.ResponseWriter, r *http.Request, id string, ws *wizardSession, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse{ID: id, State: ws.ctl.Snapshot()})
}

func (s *Server) wizardAction(f func(*wizard.Controller) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ws, ok := s.wizardFor(w, r)
		if !ok {
			return
		}
		s.respondWizard(w, r, id, ws, f(ws.ctl))
	}
}

func (s *Server) selectDataset(w http.ResponseWriter, r *http.Request) {
	id, ws, ok := s.wizardFor(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondWizard(w, r, id, ws, ws.ctl.SelectDataset(req.DatasetID))
}

func (s *Server) setChart(w http.ResponseWriter, r *http.Request) {
	id, ws, ok := s.wizardFor(w, r)
	if !ok {
		return
	}
	var req chartRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondWizard(w, r, id, ws, ws.ctl.SetChartKind(analysis.ChartKind(req.Kind)))
}

func (s *Server) overlayAnswer(w http.ResponseWriter, r *http.Request) {
	id, ws, ok := s.wizardFor(w, r)
	if !ok {
		return
	}
	var req optionRequest
	if err := decode(r, &req); err != nil || req.Option == nil {
		s.fail(w, r, errBadBody)
		return
	}
	s.respondWizard(w, r, id, ws, ws.ctl.AnswerOverlayQuiz(*req.Option))
}

// interpret blocks until the text arrives or the request is cancelled.
func (s *Server) interpret(w http.ResponseWriter, r *http.Request) {
	id, ws, ok := s.wizardFor(w, r)
	if !ok {
		return
	}
	_, err := ws.ctl.Interpret(r.Context())
	s.respondWizard(w, r, id, ws, err)
}
