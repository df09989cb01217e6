package sweeper

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/adbilling/internal/usecase"
)

type fakeReconciler struct {
	calls  atomic.Int32
	report *usecase.SweepReport
	err    error
}

func (f *fakeReconciler) Sweep(ctx context.Context) (*usecase.SweepReport, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakePurger struct {
	mu     sync.Mutex
	cutoff []time.Time
	n      int64
	err    error
}

func (f *fakePurger) PurgeExpiredMutations(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoff = append(f.cutoff, now)
	return f.n, f.err
}

type fakeObserver struct {
	sweeps     atomic.Int32
	sweepErrs  atomic.Int32
	purgedRows atomic.Int64
}

func (f *fakeObserver) ObserveSweep(_ time.Duration, err error) {
	f.sweeps.Add(1)
	if err != nil {
		f.sweepErrs.Add(1)
	}
}

func (f *fakeObserver) ObservePurge(n int64) { f.purgedRows.Add(n) }

func TestRunOnce(t *testing.T) {
	var buf bytes.Buffer
	reconciler := &fakeReconciler{report: &usecase.SweepReport{Examined: 3, Settled: 1, Unresolved: 1, ResendExpired: 1}}
	purger := &fakePurger{n: 5}
	observer := &fakeObserver{}
	var cleaned atomic.Int32

	s := New(Config{
		Reconciler: reconciler,
		Purger:     purger,
		Cleanup:    func() { cleaned.Add(1) },
		Observer:   observer,
		Logger:     zerolog.New(&buf),
		Interval:   time.Second,
	})

	s.RunOnce(context.Background())

	if reconciler.calls.Load() != 1 || len(purger.cutoff) != 1 || cleaned.Load() != 1 {
		t.Fatalf("expected one sweep, purge and cleanup; got %d, %d, %d",
			reconciler.calls.Load(), len(purger.cutoff), cleaned.Load())
	}
	if observer.sweeps.Load() != 1 || observer.purgedRows.Load() != 5 {
		t.Fatalf("unexpected observations: sweeps=%d purged=%d", observer.sweeps.Load(), observer.purgedRows.Load())
	}
	if n := strings.Count(buf.String(), "sweep finished"); n != 1 {
		t.Fatalf("expected exactly one sweep summary, got %d in %q", n, buf.String())
	}
	if !strings.Contains(buf.String(), `"resend_expired":1`) {
		t.Fatalf("expected expired resend windows in the summary, got %q", buf.String())
	}
}

func TestRunOnceContinuesAfterFailures(t *testing.T) {
	var buf bytes.Buffer
	reconciler := &fakeReconciler{err: errors.New("ledger down")}
	purger := &fakePurger{err: errors.New("balance store down")}
	observer := &fakeObserver{}
	var cleaned atomic.Int32

	s := New(Config{
		Reconciler: reconciler,
		Purger:     purger,
		Cleanup:    func() { cleaned.Add(1) },
		Observer:   observer,
		Logger:     zerolog.New(&buf),
	})

	s.RunOnce(context.Background())

	if cleaned.Load() != 1 {
		t.Fatalf("expected cleanup to run after failures")
	}
	if observer.sweepErrs.Load() != 1 {
		t.Fatalf("expected failed sweep to be observed")
	}
	out := buf.String()
	if !strings.Contains(out, "sweep failed") || !strings.Contains(out, "purge of expired mutations failed") {
		t.Fatalf("expected both failures to be logged, got %q", out)
	}
}

func TestStartRunsUntilCancelled(t *testing.T) {
	reconciler := &fakeReconciler{report: &usecase.SweepReport{}}
	s := New(Config{Reconciler: reconciler, Logger: zerolog.Nop(), Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for reconciler.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected repeated sweeps, got %d", reconciler.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sweeper did not stop")
	}
}
