package clientmetrics

import (
	"testing"
	"time"
)

func TestSnapshotCountsDeliveries(t *testing.T) {
	m := New()
	m.IncrementQueued()
	m.IncrementQueued()
	m.IncrementRefused()
	m.IncrementDelivered(120)
	m.IncrementErrors()

	s := m.Snapshot()
	if s.Queued != 2 || s.Refused != 1 || s.Delivered != 1 || s.BytesSent != 120 || s.Errors != 1 {
		t.Errorf("unexpected snapshot: %+v", s)
	}
	if s.ConnectionDuration != 0 {
		t.Errorf("expected zero connection duration before connect, got %s", s.ConnectionDuration)
	}
}

func TestConnectionDuration(t *testing.T) {
	m := New()
	m.MarkConnected()
	time.Sleep(5 * time.Millisecond)
	if d := m.Snapshot().ConnectionDuration; d <= 0 {
		t.Errorf("expected positive duration after connect, got %s", d)
	}

	m.Reset()
	if d := m.Snapshot().ConnectionDuration; d != 0 {
		t.Errorf("expected zero duration after reset, got %s", d)
	}
}
