package input

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks key dispatch counts and latency.
type Metrics struct {
	// Event counters
	keyEventsTotal atomic.Uint64
	editable       atomic.Uint64
	unmatched      atomic.Uint64
	matches        atomic.Uint64
	repeats        atomic.Uint64
	strays         atomic.Uint64
	invocations    atomic.Uint64
	failures       atomic.Uint64

	// Latency tracking
	mu                sync.RWMutex
	keyLatencies      []time.Duration
	actionLatencies   []time.Duration
	maxLatencySamples int
	latencyIdx        int
	actionLatencyIdx  int

	// Peak latency (all time)
	peakKeyLatency    atomic.Int64
	peakActionLatency atomic.Int64

	startTime time.Time

	enabled atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		keyLatencies:      make([]time.Duration, 1000),
		actionLatencies:   make([]time.Duration, 1000),
		maxLatencySamples: 1000,
		startTime:         time.Now(),
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m.enabled.Load()
}

// RecordKeyEvent records a key event with its processing time.
func (m *Metrics) RecordKeyEvent(latency time.Duration) {
	if !m.enabled.Load() {
		return
	}

	m.keyEventsTotal.Add(1)
	storePeak(&m.peakKeyLatency, latency)

	m.mu.Lock()
	m.keyLatencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % m.maxLatencySamples
	m.mu.Unlock()
}

// RecordAction records an invoker call with its processing time.
func (m *Metrics) RecordAction(latency time.Duration) {
	if !m.enabled.Load() {
		return
	}

	storePeak(&m.peakActionLatency, latency)

	m.mu.Lock()
	m.actionLatencies[m.actionLatencyIdx] = latency
	m.actionLatencyIdx = (m.actionLatencyIdx + 1) % m.maxLatencySamples
	m.mu.Unlock()
}

// RecordOutcome counts a handled key event by outcome.
func (m *Metrics) RecordOutcome(o Outcome) {
	if !m.enabled.Load() {
		return
	}

	switch o {
	case OutcomeEditable:
		m.editable.Add(1)
	case OutcomeUnmatched:
		m.unmatched.Add(1)
	case OutcomeRepeat:
		m.repeats.Add(1)
	case OutcomeStray:
		m.strays.Add(1)
	case OutcomeInvoked:
		m.invocations.Add(1)
	case OutcomeFailed:
		m.invocations.Add(1)
		m.failures.Add(1)
	}
	if o >= OutcomeRepeat {
		m.matches.Add(1)
	}
}

func storePeak(peak *atomic.Int64, latency time.Duration) {
	ns := latency.Nanoseconds()
	for {
		current := peak.Load()
		if ns <= current {
			return
		}
		if peak.CompareAndSwap(current, ns) {
			return
		}
	}
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	// Counters
	KeyEventsTotal uint64
	Editable       uint64
	Unmatched      uint64
	Matches        uint64
	Repeats        uint64
	Strays         uint64
	Invocations    uint64
	Failures       uint64

	// Latency stats
	AvgKeyLatency  time.Duration
	MaxKeyLatency  time.Duration
	P99KeyLatency  time.Duration
	PeakKeyLatency time.Duration

	AvgActionLatency  time.Duration
	MaxActionLatency  time.Duration
	P99ActionLatency  time.Duration
	PeakActionLatency time.Duration

	// Rates
	EventsPerSecond float64

	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	keyLatencies := make([]time.Duration, len(m.keyLatencies))
	copy(keyLatencies, m.keyLatencies)
	actionLatencies := make([]time.Duration, len(m.actionLatencies))
	copy(actionLatencies, m.actionLatencies)
	uptime := time.Since(m.startTime)
	m.mu.RUnlock()

	keyCount := m.keyEventsTotal.Load()

	snap := MetricsSnapshot{
		KeyEventsTotal:    keyCount,
		Editable:          m.editable.Load(),
		Unmatched:         m.unmatched.Load(),
		Matches:           m.matches.Load(),
		Repeats:           m.repeats.Load(),
		Strays:            m.strays.Load(),
		Invocations:       m.invocations.Load(),
		Failures:          m.failures.Load(),
		PeakKeyLatency:    time.Duration(m.peakKeyLatency.Load()),
		PeakActionLatency: time.Duration(m.peakActionLatency.Load()),
		Uptime:            uptime,
	}

	if uptime > 0 {
		snap.EventsPerSecond = float64(keyCount) / uptime.Seconds()
	}

	snap.AvgKeyLatency, snap.MaxKeyLatency, snap.P99KeyLatency = calculateLatencyStats(keyLatencies)
	snap.AvgActionLatency, snap.MaxActionLatency, snap.P99ActionLatency = calculateLatencyStats(actionLatencies)

	return snap
}

// calculateLatencyStats computes average, max, and p99 from a slice of latencies.
func calculateLatencyStats(latencies []time.Duration) (avg, maxLat, p99 time.Duration) {
	// Unused ring slots are zero.
	valid := make([]time.Duration, 0, len(latencies))
	for _, l := range latencies {
		if l > 0 {
			valid = append(valid, l)
		}
	}

	if len(valid) == 0 {
		return 0, 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
		if l > maxLat {
			maxLat = l
		}
	}
	avg = sum / time.Duration(len(valid))

	sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })

	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	p99 = valid[idx]

	return avg, maxLat, p99
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.keyEventsTotal.Store(0)
	m.editable.Store(0)
	m.unmatched.Store(0)
	m.matches.Store(0)
	m.repeats.Store(0)
	m.strays.Store(0)
	m.invocations.Store(0)
	m.failures.Store(0)
	m.peakKeyLatency.Store(0)
	m.peakActionLatency.Store(0)

	m.mu.Lock()
	m.keyLatencies = make([]time.Duration, m.maxLatencySamples)
	m.actionLatencies = make([]time.Duration, m.maxLatencySamples)
	m.latencyIdx = 0
	m.actionLatencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}

// KeyEventsTotal returns the total number of key events processed.
func (m *Metrics) KeyEventsTotal() uint64 {
	return m.keyEventsTotal.Load()
}

// Invocations returns the number of invoker calls.
func (m *Metrics) Invocations() uint64 {
	return m.invocations.Load()
}

// Failures returns the number of invoker calls that reported failure.
func (m *Metrics) Failures() uint64 {
	return m.failures.Load()
}

// HealthStatus represents the current health status of input processing.
type HealthStatus struct {
	Healthy          bool
	Failures         uint64
	PeakLatency      time.Duration
	LatencyThreshold time.Duration
	Message          string
}

// HealthCheck returns the current health status. Failed invocations are
// reported but do not make input unhealthy; only slow dispatch does.
func (m *Metrics) HealthCheck(latencyThreshold time.Duration) HealthStatus {
	status := HealthStatus{
		Healthy:          true,
		Failures:         m.failures.Load(),
		PeakLatency:      time.Duration(m.peakKeyLatency.Load()),
		LatencyThreshold: latencyThreshold,
	}

	switch {
	case status.PeakLatency > latencyThreshold:
		status.Healthy = false
		status.Message = "latency threshold exceeded"
	case status.Failures > 0:
		status.Message = "some actions were not found"
	default:
		status.Message = "healthy"
	}

	return status
}

// Timer helps measure operation duration.
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// StartKeyEventTimer starts a timer for measuring key event processing.
func (m *Metrics) StartKeyEventTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// Stop stops the timer and records the key event latency.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.RecordKeyEvent(elapsed)
	return elapsed
}

// StartActionTimer starts a timer for measuring action processing.
func (m *Metrics) StartActionTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// StopAction stops the timer and records the action latency.
func (t *Timer) StopAction() time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.RecordAction(elapsed)
	return elapsed
}
