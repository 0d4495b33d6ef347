// Package api exposes HTTP handlers for the workout log service.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"example.com/workoutlog/internal/domain"
	"example.com/workoutlog/internal/observability"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	workouts *domain.WorkoutService
	library  *domain.LibraryService
}

// NewHandler builds a Handler.
func NewHandler(workouts *domain.WorkoutService, library *domain.LibraryService) *Handler {
	return &Handler{workouts: workouts, library: library}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/workouts", h.workoutCollection)
	mux.HandleFunc("/api/workouts/", h.workoutByID)
	mux.HandleFunc("/api/exercises", h.exerciseLibrary)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) workoutCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listWorkouts(w, r)
	case http.MethodPost:
		h.createWorkout(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) workoutByID(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/workouts/")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing workout id")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid workout id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.updateWorkout(w, r, id)
	case http.MethodDelete:
		h.deleteWorkout(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.workouts.List(r.Context())
	if err != nil {
		serverError(w, "list workouts", err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (h *Handler) createWorkout(w http.ResponseWriter, r *http.Request) {
	var req WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	created, err := h.workouts.Create(r.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		serverError(w, "create workout", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateWorkout(w http.ResponseWriter, r *http.Request, id int64) {
	var req WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	updated, err := h.workouts.Update(r.Context(), id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		case errors.Is(err, domain.ErrWorkoutNotFound):
			writeError(w, http.StatusNotFound, "not_found", "workout not found")
		default:
			serverError(w, "update workout", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteWorkout(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.workouts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrWorkoutNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "workout not found")
			return
		}
		serverError(w, "delete workout", err)
		return
	}
	writeText(w, http.StatusOK, "workout deleted")
}

func (h *Handler) exerciseLibrary(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listExerciseNames(w, r)
	case http.MethodPost:
		h.addExerciseName(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listExerciseNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.library.List(r.Context())
	if err != nil {
		serverError(w, "list exercise names", err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) addExerciseName(w http.ResponseWriter, r *http.Request) {
	var req AddExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	record, inserted, err := h.library.Add(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyExerciseName) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		serverError(w, "add exercise name", err)
		return
	}
	if !inserted {
		writeText(w, http.StatusOK, "exercise already exists")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// WorkoutRequest is the payload for POST and PUT on /api/workouts.
type WorkoutRequest struct {
	Date        string          `json:"date"`
	WorkoutType string          `json:"workoutType"`
	Exercises   json.RawMessage `json:"exercises"`
}

// Validate ensures all required fields are present. The exercises payload is
// only checked for presence, never for shape.
func (r WorkoutRequest) Validate() error {
	if strings.TrimSpace(r.Date) == "" || strings.TrimSpace(r.WorkoutType) == "" || isJSONNull(r.Exercises) {
		return errors.New("missing required fields")
	}
	return nil
}

func (r WorkoutRequest) toInput() domain.CreateWorkoutInput {
	return domain.CreateWorkoutInput{
		Date:        r.Date,
		WorkoutType: r.WorkoutType,
		Exercises:   r.Exercises,
	}
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// AddExerciseRequest is the payload for POST /api/exercises.
type AddExerciseRequest struct {
	Name string `json:"name"`
}

// Validate ensures request correctness.
func (r AddExerciseRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// serverError logs the underlying failure and returns a generic message; store
// internals never reach the client.
func serverError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s failed: %v", op, err)
	observability.RecordStorageError()
	writeError(w, http.StatusInternalServerError, "server_error", "internal error")
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{"type": code, "detail": detail})
}

func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
