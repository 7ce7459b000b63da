package orchestrator

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shaiso/flowweave/internal/domain"
	"github.com/shaiso/flowweave/internal/engine"
	"github.com/shaiso/flowweave/internal/event"
	"github.com/shaiso/flowweave/internal/ops"
	"github.com/shaiso/flowweave/internal/telemetry"
)

// Orchestrator — верхний драйвер выполнения flow.
//
// Разворачивает global_option в комбинации и выполняет каждую
// комбинацию целиком: последовательно или на ограниченном пуле
// комбинаций. Все tasks всех комбинаций идут через один общий
// пул tasks.
type Orchestrator struct {
	registry *ops.Registry
	sink     event.Sink
	logger   *slog.Logger
	pool     *Pool
	runner   *Runner

	// flowWorkers — размер пула комбинаций (параллельный режим).
	flowWorkers int
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Registry — реестр операций (обязателен).
	Registry *ops.Registry

	// Sink — приёмник событий (по умолчанию event.Nop).
	Sink event.Sink

	// Logger — structured logger (по умолчанию slog.Default()).
	Logger *slog.Logger

	// TaskPoolSize — размер пула tasks (default: min(32, NumCPU+4)).
	TaskPoolSize int

	// FlowWorkers — размер пула комбинаций (default: NumCPU).
	FlowWorkers int
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	sink := cfg.Sink
	if sink == nil {
		sink = event.NewNop()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	flowWorkers := cfg.FlowWorkers
	if flowWorkers <= 0 {
		flowWorkers = runtime.NumCPU()
	}

	return &Orchestrator{
		registry:    cfg.Registry,
		sink:        sink,
		logger:      logger,
		pool:        NewPool(cfg.TaskPoolSize),
		runner:      NewRunner(sink),
		flowWorkers: flowWorkers,
	}
}

// Run выполняет flow для всех комбинаций глобальных опций.
//
// parallel выбирает режим выполнения комбинаций: последовательный
// или на пуле размером FlowWorkers. Возвращает результаты комбинаций
// в порядке их генерации.
func (o *Orchestrator) Run(ctx context.Context, spec *domain.FlowSpec, parallel bool) []domain.Result {
	combos := engine.Combinations(spec.GlobalOption)
	all := len(combos)

	logger := telemetry.WithRunID(o.logger, uuid.NewString())
	if spec.Name != "" {
		logger = telemetry.WithFlow(logger, spec.Name)
	}
	logger.Info("starting flow run", "combinations", all, "parallel", parallel)

	results := make([]domain.Result, all)

	if parallel {
		g := new(errgroup.Group)
		g.SetLimit(o.flowWorkers)

		for i, combo := range combos {
			i, combo := i, combo
			o.sink.FlowStart(i+1, all)
			o.sink.FlowOption(i+1, all, combo)

			g.Go(func() error {
				results[i] = o.runFlow(ctx, spec, combo, i+1, all)
				return nil
			})
		}
		_ = g.Wait()

		// События завершения — в порядке комбинаций, как и при
		// последовательном режиме.
		for i, result := range results {
			telemetry.ObserveFlow(result.String())
			o.sink.FlowEnd(i+1, all, result)
		}
	} else {
		for i, combo := range combos {
			o.sink.FlowStart(i+1, all)
			o.sink.FlowOption(i+1, all, combo)

			results[i] = o.runFlow(ctx, spec, combo, i+1, all)

			telemetry.ObserveFlow(results[i].String())
			o.sink.FlowEnd(i+1, all, results[i])
		}
	}

	logger.Info("flow run finished", "success", AllSucceeded(results))

	return results
}

// AllSucceeded возвращает true, если каждая комбинация — SUCCESS.
// Конъюнкция результатов определяет код возврата процесса.
func AllSucceeded(results []domain.Result) bool {
	for _, result := range results {
		if result != domain.ResultSuccess {
			return false
		}
	}
	return true
}
