// Package telemetry обеспечивает наблюдаемость движка.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//
// Человекочитаемый вывод хода выполнения идёт через internal/event,
// telemetry отвечает за машинные логи и метрики.
package telemetry
