package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/KaramelBytes/dataexplorer/internal/analysis"
	"github.com/KaramelBytes/dataexplorer/internal/catalog"
	"github.com/KaramelBytes/dataexplorer/internal/cue"
	"github.com/KaramelBytes/dataexplorer/internal/interpret"
	"github.com/KaramelBytes/dataexplorer/internal/quiz"
	"github.com/KaramelBytes/dataexplorer/internal/session"
	"github.com/KaramelBytes/dataexplorer/internal/wizard"
)

var (
	errBadBody    = errors.New("invalid request body")
	errIncomplete = errors.New("quiz is not completed")
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadBody
	}
	return nil
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var genErr *interpret.GenerationError
	switch {
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, catalog.ErrDatasetNotFound),
		errors.Is(err, cue.ErrUnknown),
		errors.Is(err, wizard.ErrClosed):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrTransitionInProgress),
		errors.Is(err, wizard.ErrCleaning),
		errors.Is(err, wizard.ErrBusy),
		errors.Is(err, wizard.ErrStale):
		return http.StatusConflict
	case errors.Is(err, interpret.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &genErr):
		return http.StatusBadGateway
	case errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrNoDataset),
		errors.Is(err, wizard.ErrNotCleaned),
		errors.Is(err, wizard.ErrAtFirstStep),
		errors.Is(err, wizard.ErrAtLastStep),
		errors.Is(err, wizard.ErrEmptyDataset),
		errors.Is(err, wizard.ErrNoOverlay),
		errors.Is(err, wizard.ErrOverlayView),
		errors.Is(err, interpret.ErrNothingToInterpret),
		errors.Is(err, analysis.ErrInvalidChartKind),
		errors.Is(err, quiz.ErrCompleted),
		errors.Is(err, quiz.ErrUnanswered),
		errors.Is(err, quiz.ErrAtFirstQuestion),
		errors.Is(err, quiz.ErrInvalidOption),
		errors.Is(err, quiz.ErrEmptyName),
		errors.Is(err, errIncomplete):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// messageFor is the text sent to the client. Interpretation and report
// failures carry the student-facing message.
func messageFor(err error) string {
	switch {
	case errors.Is(err, quiz.ErrEmptyName):
		return quiz.EmptyNameMessage
	case errors.Is(err, interpret.ErrNotConfigured),
		errors.Is(err, interpret.ErrNothingToInterpret):
		return interpret.UserMessage(err)
	}
	var genErr *interpret.GenerationError
	if errors.As(err, &genErr) {
		return interpret.GenerationFailedMessage
	}
	return err.Error()
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Warn("request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: messageFor(err)})
}
