package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/rothsim/internal/config"
	"github.com/rgehrsitz/rothsim/internal/domain"
	"github.com/rgehrsitz/rothsim/internal/output"
	"github.com/rgehrsitz/rothsim/internal/storage"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeMsgpack = "application/msgpack"

	maxBodyBytes    = 1 << 20
	defaultRunLimit = 50
)

// validationError marks a request the client must fix
type validationError struct {
	err error
}

func (e validationError) Error() string { return e.err.Error() }
func (e validationError) Unwrap() error { return e.err }

type gridRequest struct {
	Scenario domain.Scenario    `json:"scenario"`
	Options  domain.GridOptions `json:"options"`
}

type saveScenarioRequest struct {
	Name     string          `json:"name"`
	Scenario domain.Scenario `json:"scenario"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDefaultScenario(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, r, http.StatusOK, config.DefaultScenario())
}

// handleSimulate handles POST /api/simulate
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var sc domain.Scenario
	if err := s.decodeScenario(r, &sc); err != nil {
		s.writeErr(w, r, err)
		return
	}

	res := s.engine.RunSimulation(sc)
	s.recordRun(r, "", storage.RunSimulate, sc.Name, res.Summary)
	s.writeResponse(w, r, http.StatusOK, res)
}

// handleOptimize handles POST /api/optimize/{type}
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	t, err := domain.ParseOptimizationType(chi.URLParam(r, "type"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var sc domain.Scenario
	if err := s.decodeScenario(r, &sc); err != nil {
		s.writeErr(w, r, err)
		return
	}

	res, err := s.optimizer().Run(t, sc)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if res.Best != nil {
		s.recordRun(r, "", storage.RunOptimize, res.Best.Label, res.Best.Summary)
	}

	s.log.Info().
		Str("type", string(t)).
		Int("candidates", len(res.Variants)).
		Str("best_score", res.BestScore.StringFixed(0)).
		Msg("Optimization completed")

	s.writeResponse(w, r, http.StatusOK, res)
}

// handleGrid handles POST /api/grid
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	var req gridRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := s.prepareScenario(&req.Scenario); err != nil {
		s.writeErr(w, r, err)
		return
	}

	grid := s.optimizer().ComputeRothConversionGrid(req.Scenario, req.Options)
	if len(grid.Cells) > 0 {
		best := grid.BestCell
		label := fmt.Sprintf("Grid best: %s until age %d", output.FormatWhole(best.Amount), best.EndAge)
		s.recordRun(r, "", storage.RunGrid, label, domain.Summary{FinalTANW: best.TANW})
	}
	s.writeResponse(w, r, http.StatusOK, grid)
}

// handleStrategies handles POST /api/strategies
func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	var sc domain.Scenario
	if err := s.decodeScenario(r, &sc); err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.writeResponse(w, r, http.StatusOK, s.optimizer().CompareWithdrawalStrategies(sc))
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListScenarios(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if list == nil {
		list = []storage.SavedScenario{}
	}
	s.writeResponse(w, r, http.StatusOK, list)
}

// handleSaveScenario stores {name, scenario}. ?id= replaces an existing record.
func (s *Server) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	var req saveScenarioRequest
	if err := s.decodeBody(r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := s.prepareScenario(&req.Scenario); err != nil {
		s.writeErr(w, r, err)
		return
	}

	saved := &storage.SavedScenario{
		ID:       r.URL.Query().Get("id"),
		Name:     req.Name,
		Scenario: req.Scenario,
	}
	if err := s.store.SaveScenario(r.Context(), saved); err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.writeResponse(w, r, http.StatusCreated, saved)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	saved, err := s.store.GetScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.writeResponse(w, r, http.StatusOK, saved)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteScenario(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRunScenario simulates a saved scenario and records the run against it
func (s *Server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	saved, err := s.store.GetScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	res := s.engine.RunSimulation(saved.Scenario)
	s.recordRun(r, saved.ID, storage.RunSimulate, saved.Name, res.Summary)
	s.writeResponse(w, r, http.StatusOK, res)
}

// handleListRuns handles GET /api/runs?scenario=<id>&limit=<n>
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), r.URL.Query().Get("scenario"), limit)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if runs == nil {
		runs = []storage.RunRecord{}
	}
	s.writeResponse(w, r, http.StatusOK, runs)
}

// recordRun stores a run when storage is configured. Failures are logged, not returned.
func (s *Server) recordRun(r *http.Request, scenarioID string, kind storage.RunKind, label string, sum domain.Summary) {
	if s.store == nil {
		return
	}
	run := &storage.RunRecord{
		ScenarioID: scenarioID,
		Kind:       kind,
		Label:      label,
		FinalTANW:  sum.FinalTANW,
		Summary:    sum,
	}
	if err := s.store.RecordRun(r.Context(), run); err != nil {
		s.log.Error().Err(err).Str("kind", string(kind)).Msg("Failed to record run")
	}
}

// decodeScenario reads a bare scenario body, fills order defaults and validates it
func (s *Server) decodeScenario(r *http.Request, sc *domain.Scenario) error {
	if err := s.decodeBody(r, sc); err != nil {
		return err
	}
	return s.prepareScenario(sc)
}

func (s *Server) prepareScenario(sc *domain.Scenario) error {
	config.ApplyOrderDefaults(sc)
	if err := s.parser.ValidateScenario(sc); err != nil {
		return validationError{fmt.Errorf("scenario validation failed: %w", err)}
	}
	return nil
}

// decodeBody reads JSON, or MessagePack when the request says so
func (s *Server) decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return validationError{fmt.Errorf("read body: %w", err)}
	}
	if len(data) == 0 {
		return validationError{errors.New("request body is empty")}
	}

	if isMsgpack(r.Header.Get("Content-Type")) {
		if err := output.UnmarshalMsgpack(data, v); err != nil {
			return validationError{fmt.Errorf("invalid msgpack body: %w", err)}
		}
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return validationError{fmt.Errorf("invalid JSON body: %w", err)}
	}
	return nil
}

// writeResponse encodes v as MessagePack when the client accepts it, JSON otherwise
func (s *Server) writeResponse(w http.ResponseWriter, r *http.Request, status int, v any) {
	if acceptsMsgpack(r.Header.Get("Accept")) {
		data, err := output.MarshalMsgpack(v)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to encode msgpack response")
			http.Error(w, "encoding failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentTypeMsgpack)
		w.WriteHeader(status)
		_, _ = w.Write(data)
		return
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeResponse(w, r, status, map[string]string{"error": message})
}

// writeErr maps an error to a status code
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var ve validationError
	switch {
	case errors.As(err, &ve):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		s.writeError(w, r, http.StatusNotFound, err.Error())
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func isMsgpack(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mt == contentTypeMsgpack || mt == "application/x-msgpack")
}

func acceptsMsgpack(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		if isMsgpack(strings.TrimSpace(part)) {
			return true
		}
	}
	return false
}
