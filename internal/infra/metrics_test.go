package infra

import (
	"testing"
)

func TestMetrics_RecordSnapshot(t *testing.T) {
	m := &Metrics{}

	m.RecordSnapshot(1000)
	m.RecordSnapshot(2000)
	m.RecordSnapshot(3000)

	snap := m.Snapshot()

	if snap.SnapshotsNormalized != 3 {
		t.Errorf("Expected 3 snapshots, got %d", snap.SnapshotsNormalized)
	}

	// Average latency: (1000 + 2000 + 3000) / 3 = 2000
	if snap.AvgLatencyNs != 2000 {
		t.Errorf("Expected avg latency 2000, got %d", snap.AvgLatencyNs)
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := &Metrics{}

	m.RecordParseFailure()
	m.RecordParseFailure()
	m.RecordReconnect()
	m.RecordPoll()

	snap := m.Snapshot()
	if snap.ParseFailures != 2 {
		t.Errorf("Expected 2 parse failures, got %d", snap.ParseFailures)
	}
	if snap.Reconnects != 1 {
		t.Errorf("Expected 1 reconnect, got %d", snap.Reconnects)
	}
	if snap.PollsServed != 1 {
		t.Errorf("Expected 1 poll, got %d", snap.PollsServed)
	}
}

func TestMetrics_Connections(t *testing.T) {
	m := &Metrics{}

	m.IncrementConnections()
	m.IncrementConnections()

	snap := m.Snapshot()
	if snap.ActiveConnections != 2 {
		t.Errorf("Expected 2 connections, got %d", snap.ActiveConnections)
	}

	m.DecrementConnections()
	snap = m.Snapshot()
	if snap.ActiveConnections != 1 {
		t.Errorf("Expected 1 connection, got %d", snap.ActiveConnections)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := &Metrics{}
	m.RecordSnapshot(500)
	m.RecordParseFailure()
	m.IncrementConnections()

	m.Reset()

	snap := m.Snapshot()
	if snap.SnapshotsNormalized != 0 || snap.ParseFailures != 0 || snap.ActiveConnections != 0 || snap.AvgLatencyNs != 0 {
		t.Errorf("Reset left residual values: %+v", snap)
	}
}
