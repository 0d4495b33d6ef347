package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Workout is a dated exercise session. The exercises payload is opaque to the
// service: it is stored and echoed back verbatim, never schema-validated.
type Workout struct {
	ID          int64           `json:"id"`
	Date        string          `json:"date"`
	WorkoutType string          `json:"workoutType"`
	Exercises   json.RawMessage `json:"exercises"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ExerciseName is an entry in the deduplicated exercise library.
type ExerciseName struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Repository captures persistence operations. Both the document-file and the
// Postgres strategies implement it; nil results signal not-found (or, for
// AddExerciseName, already-present) as a first-class outcome rather than an error.
type Repository interface {
	ListWorkouts(ctx context.Context) ([]Workout, error)
	CreateWorkout(ctx context.Context, workout Workout) (*Workout, error)
	UpdateWorkout(ctx context.Context, id int64, workout Workout) (*Workout, error)
	DeleteWorkout(ctx context.Context, id int64) (bool, error)
	ListExerciseNames(ctx context.Context) ([]string, error)
	AddExerciseName(ctx context.Context, name string) (*ExerciseName, error)
}
