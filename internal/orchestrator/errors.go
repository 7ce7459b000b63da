package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

// Ошибки планирования stage.
var (
	// ErrCycleDetected — имя task повторилось на одном пути обхода цепочки.
	ErrCycleDetected = errors.New("cycle detected in task chain")

	// ErrTaskNotFound — chain.next ссылается на несуществующий task.
	ErrTaskNotFound = errors.New("chain references unknown task")
)

// CycleError — цикл на пути обхода цепочки stage.
//
// Обнаруживается до подачи task в пул: это проверка построения,
// а не дедлок времени выполнения. Ромбовидное схождение путей
// циклом не является — проверка ведётся по одному пути.
type CycleError struct {
	// Stage — имя stage, где найден цикл.
	Stage string

	// Task — имя task, повторившегося на пути.
	Task string

	// Path — путь от головы цепочки до повтора.
	Path []string
}

// Error реализует интерфейс error.
func (e *CycleError) Error() string {
	return fmt.Sprintf("stage %s: cycle detected at task %q (path: %s)",
		e.Stage, e.Task, strings.Join(e.Path, " -> "))
}

// Unwrap возвращает базовую ошибку.
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}
