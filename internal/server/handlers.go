package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/pathfinder/internal/questionnaire"
	"github.com/spigell/pathfinder/internal/report"
	"github.com/spigell/pathfinder/internal/session"
)

// sessionView is the JSON shape of a session.
type sessionView struct {
	ID         string                  `json:"id"`
	Phase      session.Phase           `json:"phase"`
	Position   int                     `json:"position"`
	Total      int                     `json:"total"`
	Question   *questionnaire.Question `json:"question,omitempty"`
	Answer     any                     `json:"answer,omitempty"`
	CanProceed bool                    `json:"canProceed"`
	Report     *report.Report          `json:"report,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

type answerRequest struct {
	Value any `json:"value"`
}

type toggleRequest struct {
	Option string `json:"option"`
}

func newView(id string, sess *session.Session) sessionView {
	state := sess.State()
	pos, total := sess.Progress()

	view := sessionView{
		ID:       id,
		Phase:    state.Phase(),
		Position: pos,
		Total:    total,
	}

	switch st := state.(type) {
	case session.Testing:
		q := sess.Catalog().At(st.Index)
		view.Question = q
		view.Answer, _ = sess.Answers().Value(q.ID)
		view.CanProceed = sess.CanProceed()
	case session.Results:
		view.Report = st.Report
	case session.Failed:
		view.Error = st.Message
	}

	return view
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, *session.Session, bool) {
	id := mux.Vars(r)["id"]

	sess, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return id, nil, false
	}
	return id, sess, true
}

// writeActionError maps session and answer errors onto HTTP statuses.
func (s *Server) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrWrongState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNotAnswered),
		errors.Is(err, questionnaire.ErrUnknownOption),
		errors.Is(err, questionnaire.ErrWrongType),
		errors.Is(err, questionnaire.ErrRatingRange):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("handling session action", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// questions handles GET /v1/questions
func (s *Server) questions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"questions": s.store.catalog.Questions()})
}

// create handles POST /v1/sessions
func (s *Server) create(w http.ResponseWriter, _ *http.Request) {
	id, sess := s.store.Create()
	s.logger.Info("session created", zap.String("session_id", id))
	writeJSON(w, http.StatusCreated, newView(id, sess))
}

// get handles GET /v1/sessions/{id}
func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newView(id, sess))
}

// remove handles DELETE /v1/sessions/{id}
func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(mux.Vars(r)["id"]) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// start handles POST /v1/sessions/{id}/start
func (s *Server) start(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := sess.Start(); err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newView(id, sess))
}

// answer handles PUT /v1/sessions/{id}/answer
func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, _, err := sess.Current()
	if err != nil {
		s.writeActionError(w, err)
		return
	}

	if err := applyAnswer(sess, q, req.Value); err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newView(id, sess))
}

// applyAnswer coerces a JSON value into the shape the current question takes.
func applyAnswer(sess *session.Session, q *questionnaire.Question, value any) error {
	switch q.Type {
	case questionnaire.SingleChoice:
		var option string
		if err := decode(value, &option, false); err != nil {
			return err
		}
		return sess.Select(option)
	case questionnaire.Rating:
		var n float64
		if err := decode(value, &n, true); err != nil {
			return err
		}
		if n != math.Trunc(n) {
			return fmt.Errorf("%w, got %v", questionnaire.ErrRatingRange, n)
		}
		return sess.Rate(int(n))
	case questionnaire.FreeText:
		var text string
		if err := decode(value, &text, false); err != nil {
			return err
		}
		return sess.Write(text)
	default:
		return fmt.Errorf("%w: %s answers are changed with toggle", questionnaire.ErrWrongType, q.Type)
	}
}

func decode(value, target any, weak bool) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: weak,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(value); err != nil {
		return fmt.Errorf("%w: %v", questionnaire.ErrWrongType, err)
	}
	return nil
}

// toggle handles POST /v1/sessions/{id}/toggle
func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := sess.Toggle(req.Option); err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newView(id, sess))
}

// next handles POST /v1/sessions/{id}/next
func (s *Server) next(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	// The analysis outlives the request.
	state, err := sess.Next(context.WithoutCancel(r.Context()))
	if err != nil {
		s.writeActionError(w, err)
		return
	}

	status := http.StatusOK
	if state.Phase() == session.PhaseAnalyzing {
		status = http.StatusAccepted
	}
	writeJSON(w, status, newView(id, sess))
}

// reset handles POST /v1/sessions/{id}/reset
func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := sess.Reset(); err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newView(id, sess))
}

func results(w http.ResponseWriter, sess *session.Session) (*report.Report, bool) {
	st, ok := sess.State().(session.Results)
	if !ok {
		writeError(w, http.StatusConflict, "report is not available")
		return nil, false
	}
	return st.Report, true
}

// report handles GET /v1/sessions/{id}/report
func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, ok := results(w, sess)
	if !ok {
		return
	}

	data, err := report.Export(result, format)
	if err != nil {
		s.logger.Error("exporting report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format != report.FormatJSON {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="pathfinder-report.%s"`, format.Extension()))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// share handles GET /v1/sessions/{id}/share
func (s *Server) share(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	result, ok := results(w, sess)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": report.ShareSummary(result)})
}
