package orchestrator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shaiso/flowweave/internal/domain"
	"github.com/shaiso/flowweave/internal/event"
	"github.com/shaiso/flowweave/internal/ops"
)

// stubHandler — управляемая операция для тестов.
type stubHandler struct {
	result domain.Result
	data   any
	err    error

	panicOnRun    bool
	runs          *atomic.Int32
	captureOption func(map[string]any)
	capturePrev   func(*domain.TaskRecord)
}

func (h *stubHandler) Configure(option map[string]any) error {
	if h.captureOption != nil {
		h.captureOption(option)
	}
	return nil
}

func (h *stubHandler) Run(ctx context.Context, prev *domain.TaskRecord) (domain.Result, any, error) {
	if h.runs != nil {
		h.runs.Add(1)
	}
	if h.capturePrev != nil {
		h.capturePrev(prev)
	}
	if h.panicOnRun {
		panic("stub handler panic")
	}
	return h.result, h.data, h.err
}

// successFactory возвращает фабрику успешной операции со счётчиком запусков.
func successFactory(runs *atomic.Int32) ops.Factory {
	return func() ops.Handler {
		return &stubHandler{result: domain.ResultSuccess, runs: runs}
	}
}

// failFactory возвращает фабрику падающей операции.
func failFactory(runs *atomic.Int32) ops.Factory {
	return func() ops.Handler {
		return &stubHandler{result: domain.ResultFail, err: errors.New("stub failure"), runs: runs}
	}
}

// recordingSink — Sink, запоминающий пропущенные stages.
type recordingSink struct {
	*event.Nop
	mu           sync.Mutex
	stageIgnored []string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{Nop: event.NewNop()}
}

func (s *recordingSink) StageIgnore(stage string, part, all int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stageIgnored = append(s.stageIgnored, stage)
}

func invocation(name string, h ops.Handler, doOnly string) *Invocation {
	return &Invocation{
		Name:     name,
		Handler:  h,
		Option:   map[string]any{},
		Stage:    "s1",
		FlowPart: 1,
		FlowAll:  1,
		DoOnly:   doOnly,
	}
}

func TestRunner_NoGating(t *testing.T) {
	// Без do_only task выполняется независимо от результата
	// предшественника — связь в цепочке сама по себе не ограничивает.
	var runs atomic.Int32
	runner := NewRunner(event.NewNop())

	for _, prevResult := range []domain.Result{domain.ResultSuccess, domain.ResultFail} {
		h := &stubHandler{result: domain.ResultSuccess, runs: &runs}
		prev := &domain.TaskRecord{Name: "prev", Result: prevResult}

		record := runner.Run(context.Background(), invocation("t", h, ""), prev)
		if record.Result != domain.ResultSuccess {
			t.Errorf("prev=%v: expected SUCCESS, got %v", prevResult, record.Result)
		}
	}

	if runs.Load() != 2 {
		t.Errorf("expected 2 runs, got %d", runs.Load())
	}
}

func TestRunner_PreSuccessGating(t *testing.T) {
	var runs atomic.Int32
	runner := NewRunner(event.NewNop())

	// Предшественник FAIL → IGNORE, handler не вызывается.
	h := &stubHandler{result: domain.ResultSuccess, runs: &runs}
	prev := &domain.TaskRecord{Name: "prev", Result: domain.ResultFail}

	record := runner.Run(context.Background(), invocation("t", h, domain.DoOnlyPreSuccess), prev)
	if record.Result != domain.ResultIgnore {
		t.Errorf("expected IGNORE, got %v", record.Result)
	}
	if record.Data != nil {
		t.Errorf("expected nil data, got %v", record.Data)
	}
	if runs.Load() != 0 {
		t.Error("handler must not be invoked when gated")
	}

	// Предшественник SUCCESS → выполняется.
	prev.Result = domain.ResultSuccess
	record = runner.Run(context.Background(), invocation("t", h, domain.DoOnlyPreSuccess), prev)
	if record.Result != domain.ResultSuccess {
		t.Errorf("expected SUCCESS, got %v", record.Result)
	}
	if runs.Load() != 1 {
		t.Errorf("expected 1 run, got %d", runs.Load())
	}
}

func TestRunner_PreFailGating(t *testing.T) {
	// pre_fail — точное зеркало pre_success.
	var runs atomic.Int32
	runner := NewRunner(event.NewNop())

	h := &stubHandler{result: domain.ResultSuccess, runs: &runs}
	prev := &domain.TaskRecord{Name: "prev", Result: domain.ResultSuccess}

	record := runner.Run(context.Background(), invocation("t", h, domain.DoOnlyPreFail), prev)
	if record.Result != domain.ResultIgnore {
		t.Errorf("expected IGNORE, got %v", record.Result)
	}
	if runs.Load() != 0 {
		t.Error("handler must not be invoked when gated")
	}

	prev.Result = domain.ResultFail
	record = runner.Run(context.Background(), invocation("t", h, domain.DoOnlyPreFail), prev)
	if record.Result != domain.ResultSuccess {
		t.Errorf("expected SUCCESS, got %v", record.Result)
	}
}

func TestRunner_GatingWithoutPredecessor(t *testing.T) {
	// Голова цепочки с do_only выполняется безусловно:
	// гейтинг действует только при наличии предшественника.
	var runs atomic.Int32
	runner := NewRunner(event.NewNop())

	h := &stubHandler{result: domain.ResultSuccess, runs: &runs}
	record := runner.Run(context.Background(), invocation("t", h, domain.DoOnlyPreSuccess), nil)

	if record.Result != domain.ResultSuccess {
		t.Errorf("expected SUCCESS, got %v", record.Result)
	}
	if runs.Load() != 1 {
		t.Errorf("expected 1 run, got %d", runs.Load())
	}
}

func TestRunner_HandlerErrorBecomesFail(t *testing.T) {
	runner := NewRunner(event.NewNop())

	h := &stubHandler{result: domain.ResultSuccess, err: errors.New("boom")}
	record := runner.Run(context.Background(), invocation("t", h, ""), nil)

	if record.Result != domain.ResultFail {
		t.Errorf("expected FAIL, got %v", record.Result)
	}
	if record.Data != nil {
		t.Errorf("expected nil data on failure, got %v", record.Data)
	}
}

func TestRunner_HandlerPanicBecomesFail(t *testing.T) {
	// Паника handler'а не роняет движок.
	runner := NewRunner(event.NewNop())

	h := &stubHandler{panicOnRun: true}
	record := runner.Run(context.Background(), invocation("t", h, ""), nil)

	if record.Result != domain.ResultFail {
		t.Errorf("expected FAIL, got %v", record.Result)
	}
}

func TestRunner_RecordCarriesOption(t *testing.T) {
	runner := NewRunner(event.NewNop())

	inv := invocation("t", &stubHandler{result: domain.ResultSuccess, data: "out"}, "")
	inv.Option = map[string]any{"key": "value"}

	record := runner.Run(context.Background(), inv, nil)
	if record.Name != "t" {
		t.Errorf("unexpected name: %s", record.Name)
	}
	if record.Option["key"] != "value" {
		t.Errorf("record should carry merged option, got %v", record.Option)
	}
	if record.Data != "out" {
		t.Errorf("unexpected data: %v", record.Data)
	}
}
