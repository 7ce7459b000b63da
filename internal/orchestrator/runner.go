package orchestrator

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/shaiso/flowweave/internal/domain"
	"github.com/shaiso/flowweave/internal/event"
	"github.com/shaiso/flowweave/internal/ops"
	"github.com/shaiso/flowweave/internal/telemetry"
)

// Invocation — разрешённый к выполнению task.
//
// Эфемерная структура: создаётся планировщиком stage непосредственно
// перед подачей в пул и отбрасывается после получения записи результата.
type Invocation struct {
	// Name — имя task.
	Name string

	// Handler — экземпляр операции (свой на каждое выполнение).
	Handler ops.Handler

	// Option — полностью слитые опции (default → global → task).
	Option map[string]any

	// Stage — имя stage-владельца.
	Stage string

	// FlowPart, FlowAll — номер комбинации и общее количество комбинаций.
	FlowPart, FlowAll int

	// DoOnly — гейтинг по результату предшественника.
	DoOnly string
}

// Runner выполняет ровно один task.
//
// Граница ошибок движка: любая ошибка или паника handler'а ловится
// здесь и конвертируется в запись с результатом FAIL — выполнение
// соседних цепочек продолжается.
type Runner struct {
	sink event.Sink
}

// NewRunner создаёт Runner с указанным Event Sink.
func NewRunner(sink event.Sink) *Runner {
	return &Runner{sink: sink}
}

// Run выполняет task и возвращает запись результата.
//
// prev — запись результата предшественника (nil для головы цепочки).
// Гейтинг: при do_only "pre_success" task выполняется, только если
// предшественник SUCCESS, при "pre_fail" — только если FAIL. Без
// do_only task выполняется всегда — связь в цепочке сама по себе
// выполнение не ограничивает. Подавленный task получает IGNORE,
// handler не вызывается.
func (r *Runner) Run(ctx context.Context, inv *Invocation, prev *domain.TaskRecord) domain.TaskRecord {
	run := true
	if prev != nil {
		switch inv.DoOnly {
		case domain.DoOnlyPreSuccess:
			run = prev.Result == domain.ResultSuccess
		case domain.DoOnlyPreFail:
			run = prev.Result == domain.ResultFail
		}
	}

	if !run {
		if prev != nil {
			r.sink.TaskIgnoreLink(inv.Stage, prev.Name, inv.Name, inv.DoOnly, inv.FlowPart, inv.FlowAll)
		} else {
			r.sink.TaskIgnore(inv.Stage, inv.Name, inv.DoOnly, inv.FlowPart, inv.FlowAll)
		}
		return domain.TaskRecord{
			Name:   inv.Name,
			Option: inv.Option,
			Result: domain.ResultIgnore,
		}
	}

	if prev != nil {
		r.sink.TaskStartLink(inv.Stage, prev.Name, inv.Name, inv.FlowPart, inv.FlowAll)
	} else {
		r.sink.TaskStart(inv.Stage, inv.Name, inv.FlowPart, inv.FlowAll)
	}

	start := time.Now()
	result, data := r.invoke(ctx, inv, prev)
	telemetry.ObserveTask(result.String(), time.Since(start))

	r.sink.TaskEnd(inv.Stage, inv.Name, inv.FlowPart, inv.FlowAll, result)

	return domain.TaskRecord{
		Name:   inv.Name,
		Option: inv.Option,
		Data:   data,
		Result: result,
	}
}

// invoke вызывает handler с защитой от ошибок и паник.
func (r *Runner) invoke(ctx context.Context, inv *Invocation, prev *domain.TaskRecord) (result domain.Result, data any) {
	defer func() {
		if p := recover(); p != nil {
			r.sink.Error(fmt.Sprintf("task %s/%s panic: %v\n%s",
				inv.Stage, inv.Name, p, debug.Stack()))
			result = domain.ResultFail
			data = nil
		}
	}()

	if err := inv.Handler.Configure(inv.Option); err != nil {
		r.sink.Error(fmt.Sprintf("task %s/%s configure: %v", inv.Stage, inv.Name, err))
		return domain.ResultFail, nil
	}

	result, data, err := inv.Handler.Run(ctx, prev)
	if err != nil {
		r.sink.Error(fmt.Sprintf("task %s/%s: %v", inv.Stage, inv.Name, err))
		return domain.ResultFail, nil
	}

	return result, data
}
