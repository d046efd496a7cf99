package usecase

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	t.Parallel()

	pool := NewPool(2, 8, nil)
	pool.Start(context.Background())

	var mu sync.Mutex
	seen := map[int]bool{}
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		if !pool.Submit(func(context.Context) {
			defer wg.Done()
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		}) {
			t.Fatalf("submit %d rejected", i)
		}
	}
	wg.Wait()

	if len(seen) != 5 {
		t.Fatalf("expected 5 tasks to run, got %d", len(seen))
	}

	if err := pool.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestPoolRejectsAfterStop(t *testing.T) {
	t.Parallel()

	pool := NewPool(1, 4, nil)
	pool.Start(context.Background())
	if err := pool.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if pool.Submit(func(context.Context) {}) {
		t.Fatal("stopped pool must reject tasks")
	}
}

func TestPoolRejectsBeforeStart(t *testing.T) {
	t.Parallel()

	pool := NewPool(1, 4, nil)
	if pool.Submit(func(context.Context) {}) {
		t.Fatal("unstarted pool must reject tasks")
	}
}

func TestPoolContainsPanics(t *testing.T) {
	t.Parallel()

	pool := NewPool(1, 4, nil)
	pool.Start(context.Background())

	done := make(chan struct{})
	if !pool.Submit(func(context.Context) { panic("boom") }) {
		t.Fatal("submit rejected")
	}
	if !pool.Submit(func(context.Context) { close(done) }) {
		t.Fatal("submit after panic rejected")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panicking task")
	}

	if err := pool.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestPoolStopHonorsContext(t *testing.T) {
	t.Parallel()

	pool := NewPool(1, 4, nil)
	pool.Start(context.Background())

	release := make(chan struct{})
	if !pool.Submit(func(context.Context) { <-release }) {
		t.Fatal("submit rejected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := pool.Stop(ctx); err == nil {
		t.Fatal("expected deadline error while a task is stuck")
	}

	close(release)
}
