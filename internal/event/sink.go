package event

import "github.com/shaiso/flowweave/internal/domain"

// Sink — приёмник событий жизненного цикла.
//
// part / all — номер текущей комбинации и общее количество комбинаций
// запуска ("[Flow part / all]" в консольном выводе).
//
// Реализации обязаны быть потокобезопасными: события приходят
// одновременно из разных комбинаций и tasks.
type Sink interface {
	// FlowStart — начало выполнения комбинации.
	FlowStart(part, all int)

	// FlowOption — активная комбинация глобальных опций.
	FlowOption(part, all int, combo domain.Combination)

	// FlowEnd — завершение комбинации с итоговым результатом.
	FlowEnd(part, all int, result domain.Result)

	// StageStart — начало выполнения stage.
	StageStart(stage string, part, all int)

	// StageIgnore — stage пропущен из-за падения предыдущего stage.
	StageIgnore(stage string, part, all int)

	// StageEnd — завершение stage с агрегированным результатом.
	StageEnd(stage string, part, all int, result domain.Result)

	// TaskStart — начало выполнения task без предшественника.
	TaskStart(stage, task string, part, all int)

	// TaskStartLink — начало выполнения task в цепочке
	// (prev — имя предшественника).
	TaskStartLink(stage, prev, task string, part, all int)

	// TaskIgnore — task подавлен гейтингом do_only, без предшественника.
	TaskIgnore(stage, task, doOnly string, part, all int)

	// TaskIgnoreLink — task в цепочке подавлен гейтингом do_only.
	TaskIgnoreLink(stage, prev, task, doOnly string, part, all int)

	// TaskEnd — завершение task с результатом.
	TaskEnd(stage, task string, part, all int, result domain.Result)

	// Error — форматированная трасса ошибки выполнения.
	Error(msg string)

	// Print — произвольный текст подробного лога (режим -l).
	Print(text string)
}
