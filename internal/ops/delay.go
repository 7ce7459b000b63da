package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/shaiso/flowweave/internal/domain"
)

const (
	// OpDelay — код операции delay.
	OpDelay = "delay"

	// Ключи опций delay.
	optionDurationSec = "duration_sec"
	optionDurationMs  = "duration_ms"
)

// DelayHandler — операция задержки.
//
// Приостанавливает цепочку на указанное время.
//
// Опции:
//
//	duration_sec: 10    # задержка в секундах
//	# или
//	duration_ms: 500    # задержка в миллисекундах
type DelayHandler struct {
	duration time.Duration
}

// NewDelayHandler создаёт новый DelayHandler.
func NewDelayHandler() *DelayHandler {
	return &DelayHandler{}
}

// Configure извлекает длительность из опций.
func (h *DelayHandler) Configure(option map[string]any) error {
	if sec := OptionInt(option, optionDurationSec); sec > 0 {
		h.duration = time.Duration(sec) * time.Second
		return nil
	}
	if ms := OptionInt(option, optionDurationMs); ms > 0 {
		h.duration = time.Duration(ms) * time.Millisecond
		return nil
	}
	return fmt.Errorf("%s: duration_sec or duration_ms required", OpDelay)
}

// Run выполняет задержку с учётом отмены контекста.
func (h *DelayHandler) Run(ctx context.Context, prev *domain.TaskRecord) (domain.Result, any, error) {
	timer := time.NewTimer(h.duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return domain.ResultFail, nil, fmt.Errorf("%s cancelled: %w", OpDelay, ctx.Err())
	case <-timer.C:
		return domain.ResultSuccess, map[string]any{
			"duration_ms": h.duration.Milliseconds(),
		}, nil
	}
}
