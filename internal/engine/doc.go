// Package engine содержит чистые алгоритмы движка flow.
//
// Включает:
//   - merge.go   — глубокое слияние слоёв опций (default → global → task)
//   - combine.go — разворачивание global_option в декартово
//     произведение комбинаций
//
// Функции пакета детерминированы и не изменяют входные данные.
// Планирование и выполнение живут в internal/orchestrator.
package engine
