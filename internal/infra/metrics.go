package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	snapshotsNormalized atomic.Uint64
	parseFailures       atomic.Uint64
	reconnects          atomic.Uint64
	pollsServed         atomic.Uint64

	// Latency tracking (normalization time per feed message)
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	activeConnections atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordSnapshot records one normalized snapshot with its parse latency.
func (m *Metrics) RecordSnapshot(latencyNs int64) {
	m.snapshotsNormalized.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordParseFailure records a feed message that could not be normalized.
func (m *Metrics) RecordParseFailure() {
	m.parseFailures.Add(1)
}

// RecordReconnect records one scheduled reconnect attempt firing.
func (m *Metrics) RecordReconnect() {
	m.reconnects.Add(1)
}

// RecordPoll records one REST fallback poll that produced a snapshot.
func (m *Metrics) RecordPoll() {
	m.pollsServed.Add(1)
}

// IncrementConnections increments active connections by 1.
func (m *Metrics) IncrementConnections() {
	m.activeConnections.Add(1)
}

// DecrementConnections decrements active connections by 1.
func (m *Metrics) DecrementConnections() {
	m.activeConnections.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	SnapshotsNormalized uint64
	ParseFailures       uint64
	Reconnects          uint64
	PollsServed         uint64
	AvgLatencyNs        int64
	ActiveConnections   int32
	Timestamp           time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		SnapshotsNormalized: m.snapshotsNormalized.Load(),
		ParseFailures:       m.parseFailures.Load(),
		Reconnects:          m.reconnects.Load(),
		PollsServed:         m.pollsServed.Load(),
		AvgLatencyNs:        avgLatency,
		ActiveConnections:   m.activeConnections.Load(),
		Timestamp:           time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.snapshotsNormalized.Store(0)
	m.parseFailures.Store(0)
	m.reconnects.Store(0)
	m.pollsServed.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.activeConnections.Store(0)
}
