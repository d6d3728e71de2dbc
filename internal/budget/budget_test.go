package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingDispatcher struct {
	calls int
	err   error
}

func (d *countingDispatcher) Dispatch(ctx context.Context) error {
	d.calls++
	return d.err
}

func TestMonitor_Check_UnderLimit(t *testing.T) {
	dispatcher := &countingDispatcher{}
	monitor := NewMonitor(110*time.Second, dispatcher, zap.NewNop())
	monitor.start = time.Now().Add(-109 * time.Second)

	if err := monitor.Check(context.Background()); err != nil {
		t.Fatalf("Check at elapsed=109s returned %v, want nil", err)
	}
	if dispatcher.calls != 0 {
		t.Errorf("dispatcher invoked %d times under limit, want 0", dispatcher.calls)
	}
}

func TestMonitor_Check_OverLimit(t *testing.T) {
	dispatcher := &countingDispatcher{}
	monitor := NewMonitor(110*time.Second, dispatcher, zap.NewNop())
	monitor.start = time.Now().Add(-111 * time.Second)

	err := monitor.Check(context.Background())
	if !errors.Is(err, ErrExceeded) {
		t.Fatalf("Check at elapsed=111s returned %v, want ErrExceeded", err)
	}
	if dispatcher.calls != 1 {
		t.Errorf("dispatcher invoked %d times, want 1", dispatcher.calls)
	}
}

func TestMonitor_Check_DispatchesOnceDuringUnwind(t *testing.T) {
	dispatcher := &countingDispatcher{}
	monitor := NewMonitor(time.Second, dispatcher, zap.NewNop())
	monitor.start = time.Now().Add(-2 * time.Second)

	for i := 0; i < 3; i++ {
		if err := monitor.Check(context.Background()); !errors.Is(err, ErrExceeded) {
			t.Fatalf("Check #%d returned %v, want ErrExceeded", i, err)
		}
	}
	if dispatcher.calls != 1 {
		t.Errorf("dispatcher invoked %d times across unwind checks, want 1", dispatcher.calls)
	}
}

func TestMonitor_Check_DispatchFailureDoesNotChangeOutcome(t *testing.T) {
	dispatcher := &countingDispatcher{err: errors.New("trigger endpoint down")}
	monitor := NewMonitor(time.Second, dispatcher, zap.NewNop())
	monitor.start = time.Now().Add(-2 * time.Second)

	if err := monitor.Check(context.Background()); !errors.Is(err, ErrExceeded) {
		t.Fatalf("Check returned %v, want ErrExceeded despite dispatch failure", err)
	}
}

func TestMonitor_Check_NilDispatcher(t *testing.T) {
	monitor := NewMonitor(time.Second, nil, zap.NewNop())
	monitor.start = time.Now().Add(-2 * time.Second)

	if err := monitor.Check(context.Background()); !errors.Is(err, ErrExceeded) {
		t.Fatalf("Check returned %v, want ErrExceeded", err)
	}
}
