// Package postgres provides the relational persistence strategy.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/workoutlog/internal/domain"
)

// Repository provides Postgres-backed persistence for workouts and the
// exercise library.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListWorkouts returns all workouts ordered by date descending.
func (r *Repository) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	const query = `SELECT id, date, workout_type, exercises, created_at
        FROM workouts ORDER BY date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Workout, 0)
	for rows.Next() {
		var w domain.Workout
		if err := rows.Scan(&w.ID, &w.Date, &w.WorkoutType, &w.Exercises, &w.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, w)
	}
	return results, rows.Err()
}

// CreateWorkout inserts the workout and returns it with the sequence-assigned id.
func (r *Repository) CreateWorkout(ctx context.Context, workout domain.Workout) (*domain.Workout, error) {
	const stmt = `INSERT INTO workouts (date, workout_type, exercises, created_at)
        VALUES ($1, $2, $3, $4) RETURNING id`

	row := r.pool.QueryRow(ctx, stmt, workout.Date, workout.WorkoutType, workout.Exercises, workout.CreatedAt)
	if err := row.Scan(&workout.ID); err != nil {
		return nil, err
	}
	return &workout, nil
}

// UpdateWorkout replaces the mutable columns in place. A nil result signals
// zero rows affected, i.e. no such workout.
func (r *Repository) UpdateWorkout(ctx context.Context, id int64, workout domain.Workout) (*domain.Workout, error) {
	const stmt = `UPDATE workouts SET date=$2, workout_type=$3, exercises=$4
        WHERE id=$1 RETURNING id, date, workout_type, exercises, created_at`

	row := r.pool.QueryRow(ctx, stmt, id, workout.Date, workout.WorkoutType, workout.Exercises)
	var updated domain.Workout
	if err := row.Scan(&updated.ID, &updated.Date, &updated.WorkoutType, &updated.Exercises, &updated.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

// DeleteWorkout removes the row. False means nothing was deleted.
func (r *Repository) DeleteWorkout(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListExerciseNames returns library names sorted ascending.
func (r *Repository) ListExerciseNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM exercise_library ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddExerciseName inserts the name, relying on the unique constraint to make
// the operation atomic: when the name already exists the insert is a no-op and
// RETURNING yields no row, which maps to the nil already-present outcome.
func (r *Repository) AddExerciseName(ctx context.Context, name string) (*domain.ExerciseName, error) {
	const stmt = `INSERT INTO exercise_library (name) VALUES ($1)
        ON CONFLICT (name) DO NOTHING RETURNING id`

	row := r.pool.QueryRow(ctx, stmt, name)
	record := domain.ExerciseName{Name: name}
	if err := row.Scan(&record.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
