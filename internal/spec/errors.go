package spec

import "errors"

// Ошибки загрузки файла flow.
var (
	// ErrNotFound — файл flow не найден.
	ErrNotFound = errors.New("flow file not found")

	// ErrParse — документ не является валидным YAML.
	ErrParse = errors.New("flow file parse failed")
)

// Ошибки валидации FlowSpec.
var (
	// ErrEmptyFlow — список flow пуст.
	ErrEmptyFlow = errors.New("flow has no stages")

	// ErrUnknownStage — flow ссылается на необъявленный stage.
	ErrUnknownStage = errors.New("flow references unknown stage")

	// ErrEmptyStage — stage не содержит tasks.
	ErrEmptyStage = errors.New("stage has no tasks")

	// ErrEmptyOp — task не имеет кода операции.
	ErrEmptyOp = errors.New("task has empty op")

	// ErrUnknownNext — chain.next ссылается на несуществующий task.
	ErrUnknownNext = errors.New("chain references unknown task")

	// ErrSelfNext — task ссылается сам на себя в chain.next.
	ErrSelfNext = errors.New("task chains to itself")

	// ErrBadDoOnly — недопустимое значение do_only.
	ErrBadDoOnly = errors.New("invalid do_only value")

	// ErrNoHead — stage не содержит ни одного head task.
	ErrNoHead = errors.New("stage has no head task")

	// ErrUnknownOp — код операции не разрешается реестром.
	ErrUnknownOp = errors.New("unresolvable op code")

	// ErrUnknownGlobalStage — ключ global_option ссылается на
	// необъявленный stage.
	ErrUnknownGlobalStage = errors.New("global_option references unknown stage")
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	Stage   string // имя stage, где произошла ошибка (может быть пустым)
	Task    string // имя task, где произошла ошибка (может быть пустым)
	Field   string // поле, вызвавшее ошибку
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	switch {
	case e.Stage != "" && e.Task != "":
		return "stage " + e.Stage + ", task " + e.Task + ": " + e.Message
	case e.Stage != "":
		return "stage " + e.Stage + ": " + e.Message
	default:
		return e.Message
	}
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(stage, task, field, message string, err error) *ValidationError {
	return &ValidationError{
		Stage:   stage,
		Task:    task,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
