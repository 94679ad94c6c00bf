// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/models"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount int
}

func (m *mockWorker) Run(_ context.Context) {
	m.runCount++
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := New(w1, w2, w3)
	ws.Run(context.Background())

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := New()

	// Should not panic on empty workers list
	ws.Run(context.Background())
}

func TestWorkers_Run_Order(t *testing.T) {
	var (
		mu    sync.Mutex
		order []int
	)

	newOrderWorker := func(id int) Worker {
		return &orderWorker{id: id, mu: &mu, order: &order}
	}

	ws := New(newOrderWorker(1), newOrderWorker(2), newOrderWorker(3))
	ws.Run(context.Background())

	expected := []int{1, 2, 3}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("expected order[%d]=%d, got %d", i, v, order[i])
		}
	}
}

// orderWorker is a helper that appends its ID to a shared slice on Run.
type orderWorker struct {
	id    int
	mu    *sync.Mutex
	order *[]int
}

func (o *orderWorker) Run(_ context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	*o.order = append(*o.order, o.id)
}

// stubRetentionSweeper counts sweep invocations.
type stubRetentionSweeper struct {
	calls atomic.Int64
}

func (s *stubRetentionSweeper) CleanupExpired(_ context.Context, _ time.Time) (models.CleanupReport, error) {
	s.calls.Add(1)
	return models.CleanupReport{Scanned: 1, Deleted: 1}, nil
}

// stubGrantSweeper counts sweep invocations.
type stubGrantSweeper struct {
	calls atomic.Int64
}

func (s *stubGrantSweeper) Sweep(_ context.Context, _ time.Time) (int, error) {
	s.calls.Add(1)
	return 1, nil
}

func waitForCalls(t *testing.T, counter *atomic.Int64, want int64) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if counter.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected at least %d sweep calls, got %d", want, counter.Load())
}

func TestRetentionWorker_SweepsOnTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := &stubRetentionSweeper{}
	NewRetentionWorker(sweeper, 10*time.Millisecond, logger.Nop()).Run(ctx)

	waitForCalls(t, &sweeper.calls, 2)
}

func TestRetentionWorker_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	sweeper := &stubRetentionSweeper{}
	NewRetentionWorker(sweeper, 10*time.Millisecond, logger.Nop()).Run(ctx)

	waitForCalls(t, &sweeper.calls, 1)
	cancel()

	time.Sleep(30 * time.Millisecond)
	after := sweeper.calls.Load()
	time.Sleep(50 * time.Millisecond)

	if got := sweeper.calls.Load(); got != after {
		t.Errorf("worker kept sweeping after cancellation: %d -> %d", after, got)
	}
}

func TestGrantWorker_SweepsOnTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := &stubGrantSweeper{}
	NewGrantWorker(sweeper, 10*time.Millisecond, logger.Nop()).Run(ctx)

	waitForCalls(t, &sweeper.calls, 2)
}
