//go:build integration

package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/workoutlog/internal/domain"
)

func setupRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("workoutlog"),
		postgrescontainer.WithUsername("workoutlog"),
		postgrescontainer.WithPassword("workoutlog"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, waitForDatabase(ctx, pool))
	require.NoError(t, EnsureSchema(ctx, pool))
	// Schema bootstrap must be idempotent across restarts.
	require.NoError(t, EnsureSchema(ctx, pool))

	return NewRepository(pool)
}

func waitForDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	var err error
	for i := 0; i < 30; i++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		time.Sleep(time.Second)
	}
	return err
}

func TestWorkoutCRUDRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t, ctx)

	created, err := repo.CreateWorkout(ctx, domain.Workout{
		Date:        "2024-01-01",
		WorkoutType: "Leg Day",
		Exercises:   json.RawMessage(`[{"name":"Squat","sets":3}]`),
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	second, err := repo.CreateWorkout(ctx, domain.Workout{
		Date:        "2024-02-01",
		WorkoutType: "Pull Day",
		Exercises:   json.RawMessage(`[]`),
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NotEqual(t, created.ID, second.ID)

	workouts, err := repo.ListWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, workouts, 2)
	require.Equal(t, second.ID, workouts[0].ID, "most recent date first")

	updated, err := repo.UpdateWorkout(ctx, created.ID, domain.Workout{
		Date:        "2024-01-05",
		WorkoutType: "Push Day",
		Exercises:   json.RawMessage(`[{"name":"Bench","sets":5}]`),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Push Day", updated.WorkoutType)
	require.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Millisecond)

	missing, err := repo.UpdateWorkout(ctx, 99999, domain.Workout{
		Date:        "2024-01-05",
		WorkoutType: "Push Day",
		Exercises:   json.RawMessage(`[]`),
	})
	require.NoError(t, err)
	require.Nil(t, missing)

	deleted, err := repo.DeleteWorkout(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repo.DeleteWorkout(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	workouts, err = repo.ListWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
}

func TestExerciseLibraryUpsertIgnoresConflict(t *testing.T) {
	ctx := context.Background()
	repo := setupRepository(t, ctx)

	record, err := repo.AddExerciseName(ctx, "Squat")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotZero(t, record.ID)

	duplicate, err := repo.AddExerciseName(ctx, "Squat")
	require.NoError(t, err)
	require.Nil(t, duplicate, "conflict must map to the already-present outcome")

	_, err = repo.AddExerciseName(ctx, "Bench Press")
	require.NoError(t, err)

	names, err := repo.ListExerciseNames(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Bench Press", "Squat"}, names)
}
