package engine

import "reflect"

// Merge выполняет глубокое слияние двух словарей опций.
//
// Возвращает новый словарь; base и override не изменяются.
//
// Правила по ключу:
//   - оба значения mapping → рекурсивное слияние;
//   - хотя бы одно значение список → слияние списков (mergeToList);
//   - иначе значение override замещает значение base.
func Merge(base, override map[string]any) map[string]any {
	result := copyMap(base)

	for key, value := range override {
		current, exists := result[key]
		if !exists {
			result[key] = copyValue(value)
			continue
		}

		currentMap, currentIsMap := current.(map[string]any)
		valueMap, valueIsMap := value.(map[string]any)

		switch {
		case currentIsMap && valueIsMap:
			result[key] = Merge(currentMap, valueMap)
		case isList(current) || isList(value):
			result[key] = mergeToList(current, value)
		default:
			result[key] = copyValue(value)
		}
	}

	return result
}

// MergeAll сливает словари слева направо: Merge(Merge(d1,d2),d3)...
//
// Так разрешаются опции task: default_option flow → срез активной
// глобальной комбинации для stage → локальные опции task.
func MergeAll(dicts ...map[string]any) map[string]any {
	if len(dicts) == 0 {
		return map[string]any{}
	}

	result := copyMap(dicts[0])
	for _, d := range dicts[1:] {
		result = Merge(result, d)
	}
	return result
}

// mergeToList сливает два значения как списки.
//
// Обе стороны приводятся к спискам (скаляр оборачивается в список из
// одного элемента). Элементы override добавляются к base по правилам:
//   - mapping вливается в ПЕРВЫЙ mapping-элемент результата
//     (глубокое слияние), а не добавляется отдельной записью;
//   - прочие значения добавляются, только если равного ещё нет.
func mergeToList(baseVal, overrideVal any) []any {
	result := wrapList(baseVal)

	for _, item := range wrapList(overrideVal) {
		if itemMap, ok := item.(map[string]any); ok {
			merged := false
			for i, existing := range result {
				if existingMap, ok := existing.(map[string]any); ok {
					result[i] = Merge(existingMap, itemMap)
					merged = true
					break
				}
			}
			if !merged {
				result = append(result, itemMap)
			}
			continue
		}

		duplicate := false
		for _, existing := range result {
			if reflect.DeepEqual(existing, item) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			result = append(result, item)
		}
	}

	return result
}

// isList возвращает true, если значение — список.
func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

// wrapList приводит значение к копии-списку.
func wrapList(v any) []any {
	if list, ok := v.([]any); ok {
		return copySlice(list)
	}
	return []any{copyValue(v)}
}

// copyValue делает глубокую копию значения опции.
func copyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return copyMap(typed)
	case []any:
		return copySlice(typed)
	default:
		return v
	}
}

// copyMap делает глубокую копию словаря.
func copyMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = copyValue(v)
	}
	return result
}

// copySlice делает глубокую копию списка.
func copySlice(s []any) []any {
	result := make([]any, len(s))
	for i, v := range s {
		result[i] = copyValue(v)
	}
	return result
}
