package retention

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xiy/reflective-mcp/internal/store"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakePruner) Prune(_ context.Context, before time.Time) (store.PruneResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, before)
	if f.err != nil {
		return store.PruneResult{}, f.err
	}
	return store.PruneResult{Requests: 2, Prompts: 1}, nil
}

func (f *fakePruner) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

func TestRunOnce_UsesMaxAgeCutoff(t *testing.T) {
	t.Parallel()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	p := &fakePruner{}

	before := time.Now().UTC()
	res := RunOnce(context.Background(), logger, time.Hour, p)
	if res.Requests != 2 || res.Prompts != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	cutoff := p.cutoffs[0]
	if d := before.Sub(cutoff); d < time.Hour || d > time.Hour+time.Second {
		t.Fatalf("cutoff %v is not one hour before %v", cutoff, before)
	}
}

func TestRunOnce_SwallowsErrors(t *testing.T) {
	t.Parallel()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	res := RunOnce(context.Background(), logger, time.Hour, &fakePruner{err: errors.New("disk full")})
	if res != (store.PruneResult{}) {
		t.Fatalf("expected zero result on error, got %+v", res)
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	t.Parallel()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	p := &fakePruner{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Start(ctx, logger, 5*time.Millisecond, time.Hour, p)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for p.calls() == 0 {
		select {
		case <-deadline:
			t.Fatal("worker never pruned")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestStart_PrunesBeforeFirstTick(t *testing.T) {
	t.Parallel()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	p := &fakePruner{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Start(ctx, logger, time.Hour, time.Hour, p)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for p.calls() == 0 {
		select {
		case <-deadline:
			t.Fatal("worker did not prune at start")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done
	if got := p.calls(); got != 1 {
		t.Fatalf("expected exactly one startup prune, got %d", got)
	}
}
