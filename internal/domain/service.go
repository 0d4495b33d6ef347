// Package domain defines the business logic for the workout log service.
package domain

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"example.com/workoutlog/internal/observability"
)

var (
	// ErrWorkoutNotFound is returned when a workout cannot be located.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrMissingFields indicates a create/update payload lacking required fields.
	ErrMissingFields = errors.New("missing required fields")
	// ErrEmptyExerciseName indicates a blank exercise name after trimming.
	ErrEmptyExerciseName = errors.New("exercise name is required")
)

// WorkoutService orchestrates workout reads and writes.
type WorkoutService struct {
	repo Repository
}

// NewWorkoutService constructs a WorkoutService.
func NewWorkoutService(repo Repository) *WorkoutService {
	return &WorkoutService{repo: repo}
}

// CreateWorkoutInput captures the payload from the API layer.
type CreateWorkoutInput struct {
	Date        string
	WorkoutType string
	Exercises   []byte
}

func (in CreateWorkoutInput) validate() error {
	if strings.TrimSpace(in.Date) == "" || strings.TrimSpace(in.WorkoutType) == "" || exercisesAbsent(in.Exercises) {
		return ErrMissingFields
	}
	return nil
}

// exercisesAbsent treats a missing key and an explicit JSON null the same way.
// An empty array is a present, valid payload.
func exercisesAbsent(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// List returns every workout, ordered by date descending.
func (s *WorkoutService) List(ctx context.Context) ([]Workout, error) {
	return s.repo.ListWorkouts(ctx)
}

// Create validates the payload and persists a new workout. The store assigns
// the identifier; createdAt is stamped here so both strategies agree on it.
func (s *WorkoutService) Create(ctx context.Context, input CreateWorkoutInput) (*Workout, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	workout := Workout{
		Date:        input.Date,
		WorkoutType: input.WorkoutType,
		Exercises:   input.Exercises,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.CreateWorkout(ctx, workout)
	if err != nil {
		return nil, err
	}
	observability.RecordWorkoutPersisted(created.CreatedAt)
	return created, nil
}

// Update replaces date, workoutType and exercises in place. Identity and
// createdAt are never touched.
func (s *WorkoutService) Update(ctx context.Context, id int64, input CreateWorkoutInput) (*Workout, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateWorkout(ctx, id, Workout{
		Date:        input.Date,
		WorkoutType: input.WorkoutType,
		Exercises:   input.Exercises,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrWorkoutNotFound
	}
	observability.RecordWorkoutPersisted(time.Now().UTC())
	return updated, nil
}

// Delete removes the workout permanently.
func (s *WorkoutService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteWorkout(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrWorkoutNotFound
	}
	return nil
}

// LibraryService maintains the deduplicated exercise-name set.
type LibraryService struct {
	repo Repository
}

// NewLibraryService constructs a LibraryService.
func NewLibraryService(repo Repository) *LibraryService {
	return &LibraryService{repo: repo}
}

// List returns the sorted set of known names.
func (s *LibraryService) List(ctx context.Context) ([]string, error) {
	return s.repo.ListExerciseNames(ctx)
}

// Add inserts a name if absent. The second return reports whether a record was
// created; false means the name was already present, which is not an error.
func (s *LibraryService) Add(ctx context.Context, name string) (*ExerciseName, bool, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, false, ErrEmptyExerciseName
	}

	record, err := s.repo.AddExerciseName(ctx, trimmed)
	if err != nil {
		return nil, false, err
	}
	if record == nil {
		return nil, false, nil
	}
	observability.RecordExerciseNameAdded(time.Now().UTC())
	return record, true, nil
}
