// Package orchestrator содержит движок планирования и выполнения flow.
//
// Включает:
//   - orchestrator.go — верхний драйвер: комбинации, последовательный
//     и параллельный режимы, агрегация результатов
//   - flow.go         — выполнение одной комбинации: stages по порядку,
//     пропуск после падения
//   - stage.go        — планировщик stage: головы цепочек, обход next,
//     обнаружение циклов на пути, подача в пул
//   - runner.go       — выполнение одного task: гейтинг do_only,
//     вызов handler'а, конвертация ошибок в FAIL
//   - pool.go         — ограниченный пул tasks и Future
//
// Порядок в цепочке обеспечивается только зависимостью от Future
// предшественника: замыкание task'а блокируется на нём до запуска.
// Исчерпание пула даёт обратное давление, но не нарушает порядок.
package orchestrator
