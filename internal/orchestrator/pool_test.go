package orchestrator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shaiso/flowweave/internal/domain"
)

func TestPool_SubmitAndWait(t *testing.T) {
	pool := NewPool(2)

	future := pool.Submit(context.Background(), nil, func(prev *domain.TaskRecord) domain.TaskRecord {
		if prev != nil {
			t.Error("head task must not see a predecessor")
		}
		return domain.TaskRecord{Name: "a", Result: domain.ResultSuccess}
	})

	record, err := future.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Name != "a" || record.Result != domain.ResultSuccess {
		t.Errorf("unexpected record: %+v", record)
	}
}

func TestPool_ChainedSubmitWaitsForPredecessor(t *testing.T) {
	pool := NewPool(2)

	var firstDone atomic.Bool

	first := pool.Submit(context.Background(), nil, func(prev *domain.TaskRecord) domain.TaskRecord {
		time.Sleep(20 * time.Millisecond)
		firstDone.Store(true)
		return domain.TaskRecord{Name: "a", Result: domain.ResultSuccess, Data: 42}
	})

	second := pool.Submit(context.Background(), first, func(prev *domain.TaskRecord) domain.TaskRecord {
		if !firstDone.Load() {
			t.Error("successor started before predecessor finished")
		}
		if prev == nil || prev.Data != 42 {
			t.Errorf("successor should receive predecessor record, got %+v", prev)
		}
		return domain.TaskRecord{Name: "b", Result: domain.ResultSuccess}
	})

	if _, err := second.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPool_DeepChainDoesNotDeadlock(t *testing.T) {
	// Ожидание предшественника происходит до захвата слота пула,
	// поэтому цепочка глубже размера пула не может его заклинить.
	pool := NewPool(1)

	var prev *Future
	for i := 0; i < 10; i++ {
		prev = pool.Submit(context.Background(), prev, func(p *domain.TaskRecord) domain.TaskRecord {
			return domain.TaskRecord{Result: domain.ResultSuccess}
		})
	}

	done := make(chan struct{})
	go func() {
		prev.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("chain deadlocked on pool exhaustion")
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := NewPool(2)

	var active, peak atomic.Int32
	futures := make([]*Future, 0, 8)

	for i := 0; i < 8; i++ {
		futures = append(futures, pool.Submit(context.Background(), nil, func(prev *domain.TaskRecord) domain.TaskRecord {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			active.Add(-1)
			return domain.TaskRecord{Result: domain.ResultSuccess}
		}))
	}

	for _, f := range futures {
		f.Wait()
	}

	if peak.Load() > 2 {
		t.Errorf("pool exceeded its bound: peak %d", peak.Load())
	}
}

func TestPool_PanicInJobBecomesError(t *testing.T) {
	pool := NewPool(1)

	future := pool.Submit(context.Background(), nil, func(prev *domain.TaskRecord) domain.TaskRecord {
		panic("job panic")
	})

	if _, err := future.Wait(); err == nil {
		t.Error("expected error from panicking job")
	}
}

func TestPool_PredecessorErrorPropagates(t *testing.T) {
	pool := NewPool(1)

	bad := pool.Submit(context.Background(), nil, func(prev *domain.TaskRecord) domain.TaskRecord {
		panic("boom")
	})

	chained := pool.Submit(context.Background(), bad, func(prev *domain.TaskRecord) domain.TaskRecord {
		t.Error("successor must not run after predecessor error")
		return domain.TaskRecord{}
	})

	if _, err := chained.Wait(); err == nil {
		t.Error("expected predecessor error to propagate")
	}
}
