// Package cli реализует команды бинарника flowweave.
//
// Команды:
//   - run FLOW      — однократный запуск flow файла
//   - info [FLOW]   — доступные коды операций (или операции flow)
//   - schedule FLOW — повторяющиеся запуски по cron-расписанию
//
// FLOW — путь к YAML файлу либо короткое имя, разрешаемое в
// flow/<name>.yml. Код возврата процесса ненулевой, если хотя бы
// одна комбинация завершилась не SUCCESS.
package cli
