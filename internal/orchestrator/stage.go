package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"github.com/shaiso/flowweave/internal/domain"
	"github.com/shaiso/flowweave/internal/engine"
)

// stageContext — контекст выполнения одного stage в рамках комбинации.
type stageContext struct {
	// name — имя stage.
	name string

	// tasks — определения tasks stage.
	tasks domain.StageSpec

	// defaultOption — default_option flow.
	defaultOption map[string]any

	// globalOption — срез активной глобальной комбинации для stage.
	globalOption map[string]any

	// part, all — номер комбинации и общее количество комбинаций.
	part, all int
}

// runStage выполняет один stage и возвращает агрегированный результат.
//
// Головы цепочек (chain.part == "head") обходятся в алфавитном порядке
// имён; каждая голова запускает независимый обход по chain.next.
// Task, не объявленный головой и не упомянутый ни в одном next,
// не запускается вовсе — это сознательно сохранённое поведение
// исходной конфигурационной семантики, без диагностики.
//
// Stage получает FAIL, если любой из поданных tasks разрешился FAIL
// или ожидание его Future вернуло ошибку; ошибка построения цепочки
// (цикл, битая ссылка) прерывает подачу этой цепочки, уже поданные
// futures при этом дожидаются завершения.
func (o *Orchestrator) runStage(ctx context.Context, sc *stageContext) domain.Result {
	stageResult := domain.ResultSuccess

	names := make([]string, 0, len(sc.tasks))
	for name := range sc.tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	var futures []*Future
	for _, name := range names {
		if !sc.tasks[name].Chain.IsHead() {
			continue
		}

		dispatched, err := o.dispatch(ctx, sc, name, nil, nil)
		futures = append(futures, dispatched...)
		if err != nil {
			o.sink.Error(err.Error())
			stageResult = domain.ResultFail
		}
	}

	for _, future := range futures {
		record, err := future.Wait()
		if err != nil {
			o.sink.Error(err.Error())
			stageResult = domain.ResultFail
			continue
		}
		if record.Result == domain.ResultFail {
			stageResult = domain.ResultFail
		}
	}

	return stageResult
}

// dispatch рекурсивно подаёт task и его преемников в пул.
//
// path — имена tasks текущего пути обхода от головы; повтор имени на
// пути — CycleError до подачи task в пул. Каждая ветвь получает
// собственную копию пути, поэтому ромбовидное схождение (два пути к
// одному task) циклом не считается, а сами ветви друг друга не видят.
//
// Возвращает futures всех поданных tasks поддерева; при ошибке
// построения уже поданные futures возвращаются вместе с ошибкой.
func (o *Orchestrator) dispatch(ctx context.Context, sc *stageContext, name string, prev *Future, path []string) ([]*Future, error) {
	for _, seen := range path {
		if seen == name {
			return nil, &CycleError{
				Stage: sc.name,
				Task:  name,
				Path:  append(append([]string{}, path...), name),
			}
		}
	}

	task, exists := sc.tasks[name]
	if !exists {
		return nil, fmt.Errorf("stage %s: %w: %q", sc.name, ErrTaskNotFound, name)
	}

	factory, err := o.registry.Resolve(task.Op)
	if err != nil {
		return nil, fmt.Errorf("stage %s: task %q: %w", sc.name, name, err)
	}

	option := engine.MergeAll(sc.defaultOption, sc.globalOption, task.Option)

	inv := &Invocation{
		Name:     name,
		Handler:  factory(),
		Option:   option,
		Stage:    sc.name,
		FlowPart: sc.part,
		FlowAll:  sc.all,
		DoOnly:   task.DoOnly,
	}

	future := o.pool.Submit(ctx, prev, func(prevRecord *domain.TaskRecord) domain.TaskRecord {
		return o.runner.Run(ctx, inv, prevRecord)
	})

	futures := []*Future{future}

	// Копия пути на каждую ветвь: преемники не видят посещённого
	// в соседних ветвях.
	branchPath := make([]string, len(path), len(path)+1)
	copy(branchPath, path)
	branchPath = append(branchPath, name)

	for _, next := range task.Chain.Next {
		dispatched, err := o.dispatch(ctx, sc, next, future, branchPath)
		futures = append(futures, dispatched...)
		if err != nil {
			return futures, err
		}
	}

	return futures, nil
}
