package domain

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Гейтинг выполнения task по результату предшественника (do_only).
const (
	// DoOnlyPreSuccess — task выполняется, только если предшественник SUCCESS.
	DoOnlyPreSuccess = "pre_success"

	// DoOnlyPreFail — task выполняется, только если предшественник FAIL.
	DoOnlyPreFail = "pre_fail"
)

// ChainPartHead — роль "head": task является корнем цепочки внутри stage.
const ChainPartHead = "head"

// FlowSpec — описание рабочего процесса.
//
// FlowSpec — это "программа" для FlowWeave: упорядоченный список stages,
// их содержимое и слои опций. Загружается из YAML файла (internal/spec)
// и после загрузки не изменяется — все компоненты читают его как
// неизменяемую структуру.
type FlowSpec struct {
	// Name — имя flow (обычно имя файла без расширения).
	Name string `yaml:"name,omitempty"`

	// Flow — упорядоченная последовательность имён stages.
	// Stages выполняются строго в этом порядке.
	Flow []string `yaml:"flow" validate:"required,min=1"`

	// Stages — определения stages (имя stage → StageSpec).
	Stages map[string]StageSpec `yaml:"stage" validate:"required"`

	// DefaultOption — опции по умолчанию для всех tasks.
	// Нижний слой при слиянии опций (engine.MergeAll).
	DefaultOption map[string]any `yaml:"default_option,omitempty"`

	// GlobalOption — спецификация глобальных опций для генерации комбинаций.
	// Nil, если комбинации не используются (ровно один запуск flow).
	GlobalOption *GlobalOption `yaml:"global_option,omitempty"`

	// OpSources — идентификаторы источников операций.
	// Используются CLI для выбора набора регистрируемых handlers.
	OpSources StringList `yaml:"op_source,omitempty"`
}

// StageSpec — содержимое одного stage: имя task → TaskSpec.
// Имена tasks уникальны в пределах stage (гарантируется YAML mapping).
type StageSpec map[string]TaskSpec

// TaskSpec — определение одного task внутри stage.
type TaskSpec struct {
	// Op — код операции (ключ в Operation Registry).
	Op string `yaml:"op" validate:"required"`

	// Option — локальные опции task.
	// Верхний слой при слиянии опций, перекрывает default и global.
	Option map[string]any `yaml:"option,omitempty"`

	// DoOnly — гейтинг по результату предшественника:
	// "pre_success", "pre_fail" или пусто (выполнять всегда).
	DoOnly string `yaml:"do_only,omitempty"`

	// Chain — описание связей task внутри stage.
	Chain ChainSpec `yaml:"chain,omitempty"`
}

// ChainSpec — позиция task в цепочке stage.
type ChainSpec struct {
	// Part — роль: "head" (корень цепочки) или роль связи.
	// Пустое значение трактуется как "head".
	Part string `yaml:"part,omitempty"`

	// Next — имена tasks-преемников в том же stage.
	// В YAML допускается и скаляр, и список.
	Next StringList `yaml:"next,omitempty"`
}

// IsHead возвращает true, если task — корень цепочки.
func (c ChainSpec) IsHead() bool {
	return c.Part == "" || c.Part == ChainPartHead
}

// StringList — список строк, принимающий в YAML и скаляр, и последовательность.
type StringList []string

// UnmarshalYAML реализует yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		*s = StringList{single}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}
		*s = StringList(many)
		return nil
	default:
		return fmt.Errorf("line %d: expected scalar or sequence", node.Line)
	}
}

// GlobalOption — спецификация глобальных опций.
//
// В YAML это mapping: ключ группы (имена stages через запятую) →
// mapping опция → список значений-кандидатов. Порядок групп и ключей
// сохраняется из документа, чтобы порядок комбинаций был воспроизводим.
type GlobalOption struct {
	// Groups — группы опций в порядке объявления.
	Groups []OptionGroup
}

// OptionGroup — одна группа глобальных опций.
type OptionGroup struct {
	// Stages — ключ группы: имена stages через запятую ("stageA,stageB").
	Stages string

	// Keys — опции группы в порядке объявления.
	Keys []OptionValues
}

// OptionValues — значения-кандидаты одной опции.
type OptionValues struct {
	// Key — имя опции.
	Key string

	// Values — список значений-кандидатов в порядке объявления.
	Values []any
}

// UnmarshalYAML реализует yaml.Unmarshaler с сохранением порядка ключей.
func (g *GlobalOption) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: global_option must be a mapping", node.Line)
	}

	for i := 0; i < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		if valNode.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: global_option group %q must be a mapping",
				valNode.Line, keyNode.Value)
		}

		group := OptionGroup{Stages: keyNode.Value}

		for j := 0; j < len(valNode.Content); j += 2 {
			values := OptionValues{Key: valNode.Content[j].Value}
			if err := valNode.Content[j+1].Decode(&values.Values); err != nil {
				return fmt.Errorf("global_option %q/%q: %w",
					keyNode.Value, values.Key, err)
			}
			group.Keys = append(group.Keys, values)
		}

		g.Groups = append(g.Groups, group)
	}

	return nil
}

// Combination — одно конкретное назначение глобальных опций.
//
// Создаётся Combination Expander'ом (engine.Combinations) один раз
// на запуск flow и далее читается всеми stages без изменений.
type Combination struct {
	// Entries — назначения по группам в порядке объявления global_option.
	Entries []CombinationEntry
}

// CombinationEntry — назначение опций одной группы.
type CombinationEntry struct {
	// Stages — ключ группы (имена stages через запятую).
	Stages string

	// Option — конкретное назначение (имя опции → выбранное значение).
	Option map[string]any
}

// StageOption собирает опции всех групп, в которые входит stage.
//
// Ключ группы разбирается по запятым, имена сравниваются после trim.
// При пересечении групп более поздняя группа перекрывает раннюю
// (поверхностное объединение, как в исходной семантике).
func (c Combination) StageOption(stage string) map[string]any {
	merged := make(map[string]any)

	for _, entry := range c.Entries {
		for _, name := range strings.Split(entry.Stages, ",") {
			if strings.TrimSpace(name) != stage {
				continue
			}
			for k, v := range entry.Option {
				merged[k] = v
			}
			break
		}
	}

	return merged
}

// String возвращает компактное представление комбинации для вывода.
func (c Combination) String() string {
	if len(c.Entries) == 0 {
		return "{}"
	}

	var b strings.Builder
	b.WriteString("{")
	for i, entry := range c.Entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", entry.Stages, entry.Option)
	}
	b.WriteString("}")
	return b.String()
}
