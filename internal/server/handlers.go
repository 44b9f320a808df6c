package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/repbook/internal/models"
	"github.com/meltforce/repbook/internal/workout"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.templates.List(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	tpl, err := s.templates.Create(r.Context(), req.Name)
	if err != nil {
		s.storageError(w, err)
		return
	}

	// A fresh template gets its first session for today up front, so the
	// calendar marks the creation day. Explicit two-step: the catalog and
	// the ledger stay independent.
	session, err := s.ledger.Today(r.Context(), tpl.ID)
	if err != nil {
		s.storageError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"template": tpl,
		"session":  session,
	})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.templates.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storageError(w, err)
		return
	}
	if tpl == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	// Sessions logged against this template are kept: history outlives the
	// template.
	if err := s.templates.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		MuscleGroup string `json:"muscleGroup"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	ex, err := s.templates.AddExercise(r.Context(), chi.URLParam(r, "id"), req.Name, req.MuscleGroup)
	if err != nil {
		s.storageError(w, err)
		return
	}
	if ex == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	err := s.templates.DeleteExercise(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "exerciseID"))
	if err != nil {
		s.storageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	flat, err := s.templates.AllExercisesFlat(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	// Alphabetical for selection lists; the store itself keeps enumeration
	// order.
	sort.SliceStable(flat, func(i, j int) bool {
		return strings.ToLower(flat[i].Name) < strings.ToLower(flat[j].Name)
	})
	if flat == nil {
		flat = []models.Exercise{}
	}
	writeJSON(w, http.StatusOK, flat)
}

func (s *Server) handleTodaySession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID string `json:"templateId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.TemplateID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "templateId is required"})
		return
	}

	session, err := s.ledger.Today(r.Context(), req.TemplateID)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetExerciseData(w http.ResponseWriter, r *http.Request) {
	data, err := s.ledger.ExerciseData(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "exerciseID"))
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleSaveExerciseData(w http.ResponseWriter, r *http.Request) {
	var data models.SeriesLog
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	ok, err := s.ledger.SaveExerciseData(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "exerciseID"), data)
	if err != nil {
		s.storageError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.ledger.ExerciseHistory(r.Context(), chi.URLParam(r, "templateID"), chi.URLParam(r, "exerciseID"))
	if err != nil {
		s.storageError(w, err)
		return
	}
	if history == nil {
		history = []workout.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleGlobalHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.ledger.GlobalExerciseHistory(r.Context(), chi.URLParam(r, "exerciseID"))
	if err != nil {
		s.storageError(w, err)
		return
	}
	if history == nil {
		history = []workout.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleSessionDates(w http.ResponseWriter, r *http.Request) {
	dates, err := s.ledger.SessionDates(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

func (s *Server) handleSessionCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.ledger.TotalSessions(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// progressionResponse is the chart payload: chronological points plus the
// summary figures shown next to the chart. Progression is null when no
// baseline exists (fewer than two points, or a zero first value).
type progressionResponse struct {
	Exercise    string          `json:"exercise"`
	Metric      workout.Metric  `json:"metric"`
	Points      []workout.Point `json:"points"`
	Progression *float64        `json:"progression"`
	Max         float64         `json:"max"`
	Last        float64         `json:"last"`
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	exerciseID := r.URL.Query().Get("exercise")
	if exerciseID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	metric := workout.Metric(r.URL.Query().Get("metric"))
	if metric == "" {
		metric = workout.MetricMaxWeight
	}
	if !workout.ValidMetric(metric) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "metric must be weight or volume"})
		return
	}

	history, err := s.ledger.GlobalExerciseHistory(r.Context(), exerciseID)
	if err != nil {
		s.storageError(w, err)
		return
	}

	points := workout.ChartPoints(history, metric)
	resp := progressionResponse{
		Exercise: exerciseID,
		Metric:   metric,
		Points:   points,
		Max:      workout.MaxValue(points),
	}
	if len(points) > 0 {
		resp.Last = points[len(points)-1].Value
	}
	if pct, ok := workout.Progression(points); ok {
		resp.Progression = &pct
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) storageError(w http.ResponseWriter, err error) {
	s.log.Error("storage error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
