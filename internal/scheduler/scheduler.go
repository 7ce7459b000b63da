package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/shaiso/flowweave/internal/domain"
	"github.com/shaiso/flowweave/internal/orchestrator"
)

// Scheduler запускает flow по cron-расписанию.
//
// Каждое срабатывание — полный запуск flow со всеми комбинациями,
// как при однократном `flowweave run`. Срабатывания одного flow не
// накладываются: повторный тик при ещё идущем запуске пропускается.
type Scheduler struct {
	cron         *cron.Cron
	orchestrator *orchestrator.Orchestrator
	logger       *slog.Logger

	mu      sync.Mutex
	running map[cron.EntryID]bool
}

// Config — конфигурация Scheduler.
type Config struct {
	// Orchestrator — драйвер выполнения flow (обязателен).
	Orchestrator *orchestrator.Orchestrator

	// Logger — structured logger (по умолчанию slog.Default()).
	Logger *slog.Logger
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:         cron.New(cron.WithParser(cronParser)),
		orchestrator: cfg.Orchestrator,
		logger:       logger,
		running:      make(map[cron.EntryID]bool),
	}
}

// Add регистрирует flow для повторяющихся запусков.
func (s *Scheduler) Add(ctx context.Context, spec *domain.FlowSpec, expr string, parallel bool) error {
	var id cron.EntryID

	entryID, err := s.cron.AddFunc(expr, func() {
		if !s.tryAcquire(id) {
			s.logger.Warn("skipping tick, previous run still in progress",
				"flow", spec.Name)
			return
		}
		defer s.release(id)

		s.logger.Info("scheduled run starting", "flow", spec.Name, "cron", expr)
		results := s.orchestrator.Run(ctx, spec, parallel)
		s.logger.Info("scheduled run finished",
			"flow", spec.Name,
			"success", orchestrator.AllSucceeded(results),
		)
	})
	if err != nil {
		return fmt.Errorf("schedule flow %s: %w", spec.Name, err)
	}
	id = entryID

	return nil
}

// Start запускает планировщик в фоне.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения текущих запусков.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tryAcquire(id cron.EntryID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[id] {
		return false
	}
	s.running[id] = true
	return true
}

func (s *Scheduler) release(id cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, id)
}
