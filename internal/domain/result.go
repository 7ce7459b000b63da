package domain

// Result — трёхзначный результат выполнения task / stage / flow.
//
// Числовые значения фиксированы (FAIL=0, SUCCESS=1, IGNORE=2) и
// используются при сериализации записей в JSON-вывод CLI.
type Result int

const (
	// ResultFail — выполнение завершилось неудачей.
	ResultFail Result = iota

	// ResultSuccess — выполнение завершилось успешно.
	ResultSuccess

	// ResultIgnore — выполнение пропущено (гейтинг do_only или
	// пропуск stage после падения предыдущего).
	ResultIgnore
)

// String возвращает строковое представление результата.
func (r Result) String() string {
	switch r {
	case ResultFail:
		return "FAIL"
	case ResultSuccess:
		return "SUCCESS"
	case ResultIgnore:
		return "IGNORE"
	default:
		return "UNKNOWN"
	}
}

// TaskRecord — запись результата одного task.
//
// Единица, которая передаётся дальше по цепочке: для преемника это
// "результат предшественника", на уровне stage — материал агрегации.
type TaskRecord struct {
	// Name — имя task.
	Name string `json:"name"`

	// Option — полностью слитые опции, с которыми выполнялся task.
	Option map[string]any `json:"option,omitempty"`

	// Data — данные, возвращённые handler'ом (nil при FAIL и IGNORE).
	Data any `json:"data,omitempty"`

	// Result — результат выполнения.
	Result Result `json:"result"`
}
