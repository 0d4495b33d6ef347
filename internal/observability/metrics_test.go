package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherValue(t *testing.T, name string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		metrics := family.GetMetric()
		if len(metrics) == 0 {
			t.Fatalf("metric family %s has no samples", name)
		}
		metric := metrics[0]
		if family.GetType() == dto.MetricType_COUNTER {
			return metric.GetCounter().GetValue()
		}
		return metric.GetGauge().GetValue()
	}
	t.Fatalf("metric family %s not registered", name)
	return 0
}

func TestRecordWorkoutPersistedSetsWatermark(t *testing.T) {
	ts := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	RecordWorkoutPersisted(ts)

	got := gatherValue(t, "workoutlog_persistence_last_workout_persisted_timestamp_seconds")
	if got != float64(ts.Unix()) {
		t.Fatalf("expected %d got %f", ts.Unix(), got)
	}
}

func TestRecordWorkoutPersistedIgnoresZeroTime(t *testing.T) {
	ts := time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC)
	RecordWorkoutPersisted(ts)
	RecordWorkoutPersisted(time.Time{})

	got := gatherValue(t, "workoutlog_persistence_last_workout_persisted_timestamp_seconds")
	if got != float64(ts.Unix()) {
		t.Fatalf("zero time should not move the watermark, got %f", got)
	}
}

func TestRecordStorageErrorIncrements(t *testing.T) {
	before := gatherValue(t, "workoutlog_persistence_storage_errors_total")
	RecordStorageError()
	after := gatherValue(t, "workoutlog_persistence_storage_errors_total")

	if after != before+1 {
		t.Fatalf("expected counter to advance by 1, got %f -> %f", before, after)
	}
}
