// Package jsonfile provides document-file persistence: the whole collection
// lives in a single JSON document that is fully read and fully rewritten on
// every operation. Suitable for local use; a crash mid-write can leave a
// truncated file, which is an accepted limitation of this strategy.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"example.com/workoutlog/internal/domain"
)

// Store implements domain.Repository over a single JSON document.
type Store struct {
	mu     sync.Mutex
	path   string
	lastID int64
}

type document struct {
	Workouts        []domain.Workout      `json:"workouts"`
	ExerciseLibrary []domain.ExerciseName `json:"exerciseLibrary"`
}

// NewStore creates a store backed by the document at path. The file is created
// lazily on first write; a missing file reads as an empty collection.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("empty store path")
	}
	return &Store{path: path}, nil
}

func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &document{}, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}
	return &doc, nil
}

func (s *Store) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}

// nextID derives identifiers from the clock, bumping past the last issued
// value so back-to-back writes within one millisecond stay unique.
func (s *Store) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// ListWorkouts returns all workouts ordered by date descending.
func (s *Store) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Workout, len(doc.Workouts))
	copy(out, doc.Workouts)
	sortWorkouts(out)
	return out, nil
}

// CreateWorkout assigns an identifier and appends the workout to the document.
func (s *Store) CreateWorkout(ctx context.Context, workout domain.Workout) (*domain.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	workout.ID = s.nextID()
	doc.Workouts = append(doc.Workouts, workout)
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return &workout, nil
}

// UpdateWorkout replaces date, workoutType and exercises for the given id.
// A nil result means no such workout exists.
func (s *Store) UpdateWorkout(ctx context.Context, id int64, workout domain.Workout) (*domain.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range doc.Workouts {
		if doc.Workouts[i].ID != id {
			continue
		}
		doc.Workouts[i].Date = workout.Date
		doc.Workouts[i].WorkoutType = workout.WorkoutType
		doc.Workouts[i].Exercises = workout.Exercises
		if err := s.save(doc); err != nil {
			return nil, err
		}
		updated := doc.Workouts[i]
		return &updated, nil
	}
	return nil, nil
}

// DeleteWorkout removes the workout permanently. False means not found.
func (s *Store) DeleteWorkout(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	for i := range doc.Workouts {
		if doc.Workouts[i].ID != id {
			continue
		}
		doc.Workouts = append(doc.Workouts[:i], doc.Workouts[i+1:]...)
		if err := s.save(doc); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// ListExerciseNames returns the library names sorted ascending.
func (s *Store) ListExerciseNames(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(doc.ExerciseLibrary))
	for _, entry := range doc.ExerciseLibrary {
		names = append(names, entry.Name)
	}
	sort.Strings(names)
	return names, nil
}

// AddExerciseName inserts the name if absent. The store mutex makes the
// check-and-insert atomic, so concurrent duplicates cannot both succeed.
// A nil result means the name was already present.
func (s *Store) AddExerciseName(ctx context.Context, name string) (*domain.ExerciseName, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, entry := range doc.ExerciseLibrary {
		if entry.Name == name {
			return nil, nil
		}
	}

	record := domain.ExerciseName{ID: s.nextID(), Name: name}
	doc.ExerciseLibrary = append(doc.ExerciseLibrary, record)
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return &record, nil
}

// sortWorkouts orders by date descending with id descending as tie-break.
// Dates are compared as strings, which matches calendar ordering for the
// ISO-style dates clients send.
func sortWorkouts(workouts []domain.Workout) {
	sort.SliceStable(workouts, func(i, j int) bool {
		if workouts[i].Date != workouts[j].Date {
			return workouts[i].Date > workouts[j].Date
		}
		return workouts[i].ID > workouts[j].ID
	})
}
