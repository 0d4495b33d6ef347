package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workoutlog",
		Subsystem: "persistence",
		Name:      "last_workout_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout write.",
	})
	exerciseNameGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workoutlog",
		Subsystem: "persistence",
		Name:      "last_exercise_name_added_timestamp_seconds",
		Help:      "Unix timestamp of the most recent exercise-library insert.",
	})
	storageErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workoutlog",
		Subsystem: "persistence",
		Name:      "storage_errors_total",
		Help:      "Count of storage operations that failed and surfaced as 500s.",
	})
)

func init() {
	prometheus.MustRegister(workoutPersistGauge, exerciseNameGauge, storageErrorCounter)
}

// RecordWorkoutPersisted updates the workout write watermark gauge.
func RecordWorkoutPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	workoutPersistGauge.Set(float64(ts.Unix()))
}

// RecordExerciseNameAdded updates the exercise-library watermark gauge.
func RecordExerciseNameAdded(ts time.Time) {
	if ts.IsZero() {
		return
	}
	exerciseNameGauge.Set(float64(ts.Unix()))
}

// RecordStorageError increments the storage failure counter.
func RecordStorageError() {
	storageErrorCounter.Inc()
}
