package engine

import "github.com/shaiso/flowweave/internal/domain"

// Combinations разворачивает global_option в список конкретных комбинаций.
//
// Сначала для каждой группы считается декартово произведение по спискам
// значений её опций, затем — произведение по группам. Порядок комбинаций
// детерминирован и следует порядку объявления групп, ключей и значений
// в документе.
//
// Если global_option отсутствует, возвращается ровно одна пустая
// комбинация — один запуск flow.
//
// Размер результата — произведение количеств кандидатов на всех уровнях
// и может расти экспоненциально; это принятая цена, не дефект.
func Combinations(global *domain.GlobalOption) []domain.Combination {
	if global == nil || len(global.Groups) == 0 {
		return []domain.Combination{{}}
	}

	combos := []domain.Combination{{}}

	for _, group := range global.Groups {
		options := groupCombinations(group)

		next := make([]domain.Combination, 0, len(combos)*len(options))
		for _, combo := range combos {
			for _, option := range options {
				entries := make([]domain.CombinationEntry, len(combo.Entries), len(combo.Entries)+1)
				copy(entries, combo.Entries)
				entries = append(entries, domain.CombinationEntry{
					Stages: group.Stages,
					Option: option,
				})
				next = append(next, domain.Combination{Entries: entries})
			}
		}
		combos = next
	}

	return combos
}

// groupCombinations считает декартово произведение внутри одной группы.
// Возвращает список конкретных назначений (имя опции → значение).
func groupCombinations(group domain.OptionGroup) []map[string]any {
	assignments := []map[string]any{{}}

	for _, values := range group.Keys {
		next := make([]map[string]any, 0, len(assignments)*len(values.Values))
		for _, assignment := range assignments {
			for _, value := range values.Values {
				extended := make(map[string]any, len(assignment)+1)
				for k, v := range assignment {
					extended[k] = v
				}
				extended[values.Key] = value
				next = append(next, extended)
			}
		}
		assignments = next
	}

	return assignments
}
