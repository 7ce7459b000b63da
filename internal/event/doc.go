// Package event содержит Event Sink — приёмник структурированных
// событий жизненного цикла flow / stage / task.
//
// Включает:
//   - sink.go    — интерфейс Sink
//   - console.go — консольная реализация с цветным выводом
//   - nop.go     — пустая реализация для тестов
//
// Движок не пишет в консоль напрямую: весь человекочитаемый вывод
// идёт через Sink. Реализации не возвращают ошибок и не паникуют.
package event
