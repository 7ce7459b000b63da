// Package ops содержит Operation Registry и встроенные операции.
//
// Включает:
//   - op.go       — интерфейс Handler, фабрики, реестр кодов операций
//   - echo.go     — операция вывода сообщения
//   - delay.go    — операция задержки
//   - http.go     — операция HTTP-запроса
//   - exec.go     — операция запуска внешней команды
//
// Реестр — явная таблица регистрации: код операции → фабрика handler'а.
// Регистрация одного кода дважды делает его неоднозначным, и Resolve
// для него завершается ошибкой.
package ops
