package input

import (
	"testing"
	"time"
)

func TestMetricsRecordOutcome(t *testing.T) {
	m := NewMetrics()

	for _, o := range []Outcome{OutcomeEditable, OutcomeUnmatched, OutcomeRepeat, OutcomeStray, OutcomeReleased, OutcomeInvoked, OutcomeFailed} {
		m.RecordOutcome(o)
	}

	snap := m.Snapshot()
	tests := []struct {
		name string
		got  uint64
		want uint64
	}{
		{"Editable", snap.Editable, 1},
		{"Unmatched", snap.Unmatched, 1},
		{"Matches", snap.Matches, 5},
		{"Repeats", snap.Repeats, 1},
		{"Strays", snap.Strays, 1},
		{"Invocations", snap.Invocations, 2},
		{"Failures", snap.Failures, 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	m := NewMetrics()
	m.SetEnabled(false)

	m.RecordKeyEvent(time.Millisecond)
	m.RecordOutcome(OutcomeInvoked)

	if m.KeyEventsTotal() != 0 || m.Invocations() != 0 {
		t.Error("disabled metrics recorded events")
	}
	if m.IsEnabled() {
		t.Error("IsEnabled() = true after SetEnabled(false)")
	}
}

func TestMetricsLatency(t *testing.T) {
	m := NewMetrics()
	for i := 1; i <= 100; i++ {
		m.RecordKeyEvent(time.Duration(i) * time.Microsecond)
	}

	snap := m.Snapshot()
	if snap.KeyEventsTotal != 100 {
		t.Errorf("KeyEventsTotal = %d, want 100", snap.KeyEventsTotal)
	}
	if snap.MaxKeyLatency != 100*time.Microsecond {
		t.Errorf("MaxKeyLatency = %v, want 100µs", snap.MaxKeyLatency)
	}
	if snap.PeakKeyLatency != 100*time.Microsecond {
		t.Errorf("PeakKeyLatency = %v, want 100µs", snap.PeakKeyLatency)
	}
	if snap.P99KeyLatency != 100*time.Microsecond {
		t.Errorf("P99KeyLatency = %v, want 100µs", snap.P99KeyLatency)
	}
	if snap.AvgKeyLatency != 50500*time.Nanosecond {
		t.Errorf("AvgKeyLatency = %v, want 50.5µs", snap.AvgKeyLatency)
	}
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.RecordKeyEvent(time.Millisecond)
	m.RecordOutcome(OutcomeFailed)
	m.Reset()

	snap := m.Snapshot()
	if snap.KeyEventsTotal != 0 || snap.Failures != 0 || snap.PeakKeyLatency != 0 {
		t.Errorf("Snapshot after Reset = %+v", snap)
	}
}

func TestMetricsHealthCheck(t *testing.T) {
	m := NewMetrics()
	if h := m.HealthCheck(time.Second); !h.Healthy || h.Message != "healthy" {
		t.Errorf("fresh HealthCheck = %+v", h)
	}

	m.RecordOutcome(OutcomeFailed)
	if h := m.HealthCheck(time.Second); !h.Healthy || h.Failures != 1 {
		t.Errorf("HealthCheck with failures = %+v", h)
	}

	m.RecordKeyEvent(2 * time.Second)
	if h := m.HealthCheck(time.Second); h.Healthy {
		t.Errorf("HealthCheck over threshold = %+v", h)
	}
}
