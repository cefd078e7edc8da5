package types

import (
	"testing"
)

func TestWorkerState_String(t *testing.T) {
	tests := []struct {
		state    WorkerState
		expected string
	}{
		{WorkerStateIdle, "idle"},
		{WorkerStateWorking, "working"},
		{WorkerStateStopped, "stopped"},
		{WorkerState(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestWorkerStats(t *testing.T) {
	stats := WorkerStats{ID: 1, State: WorkerStateWorking, Processed: 10, Stolen: 4}

	if !stats.IsActive() {
		t.Errorf("expected worker to be active")
	}
	if stats.IsIdle() {
		t.Errorf("expected worker not to be idle")
	}
	if rate := stats.StealRate(); rate != 0.4 {
		t.Errorf("expected steal rate 0.4, got %v", rate)
	}

	empty := WorkerStats{State: WorkerStateIdle}
	if !empty.IsIdle() {
		t.Errorf("expected worker to be idle")
	}
	if rate := empty.StealRate(); rate != 0 {
		t.Errorf("expected steal rate 0, got %v", rate)
	}
}
