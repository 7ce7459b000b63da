package engine

import (
	"reflect"
	"testing"

	"github.com/shaiso/flowweave/internal/domain"
)

func TestCombinations_NoGlobalOption(t *testing.T) {
	// Без global_option — ровно одна пустая комбинация.
	combos := Combinations(nil)

	if len(combos) != 1 {
		t.Fatalf("expected 1 combination, got %d", len(combos))
	}
	if len(combos[0].Entries) != 0 {
		t.Errorf("expected empty combination, got %v", combos[0])
	}
}

func TestCombinations_SingleGroup(t *testing.T) {
	// {"s1": {"x": [1, 2], "y": ["a"]}} → 2 комбинации.
	global := &domain.GlobalOption{
		Groups: []domain.OptionGroup{
			{
				Stages: "s1",
				Keys: []domain.OptionValues{
					{Key: "x", Values: []any{1, 2}},
					{Key: "y", Values: []any{"a"}},
				},
			},
		},
	}

	combos := Combinations(global)

	if len(combos) != 2 {
		t.Fatalf("expected 2 combinations, got %d", len(combos))
	}

	first := combos[0].Entries[0]
	if first.Stages != "s1" {
		t.Errorf("expected group key s1, got %s", first.Stages)
	}
	if !reflect.DeepEqual(first.Option, map[string]any{"x": 1, "y": "a"}) {
		t.Errorf("unexpected first combination: %v", first.Option)
	}

	second := combos[1].Entries[0]
	if !reflect.DeepEqual(second.Option, map[string]any{"x": 2, "y": "a"}) {
		t.Errorf("unexpected second combination: %v", second.Option)
	}
}

func TestCombinations_AcrossGroups(t *testing.T) {
	// 2 значения в первой группе × 2 во второй = 4 комбинации.
	global := &domain.GlobalOption{
		Groups: []domain.OptionGroup{
			{
				Stages: "build",
				Keys: []domain.OptionValues{
					{Key: "arch", Values: []any{"amd64", "arm64"}},
				},
			},
			{
				Stages: "test,deploy",
				Keys: []domain.OptionValues{
					{Key: "env", Values: []any{"staging", "prod"}},
				},
			},
		},
	}

	combos := Combinations(global)

	if len(combos) != 4 {
		t.Fatalf("expected 4 combinations, got %d", len(combos))
	}

	// Порядок детерминирован: первая группа меняется медленнее.
	if combos[0].Entries[0].Option["arch"] != "amd64" ||
		combos[0].Entries[1].Option["env"] != "staging" {
		t.Errorf("unexpected first combination: %v", combos[0])
	}
	if combos[3].Entries[0].Option["arch"] != "arm64" ||
		combos[3].Entries[1].Option["env"] != "prod" {
		t.Errorf("unexpected last combination: %v", combos[3])
	}
}

func TestCombination_StageOption(t *testing.T) {
	combo := domain.Combination{
		Entries: []domain.CombinationEntry{
			{Stages: "build, test", Option: map[string]any{"arch": "amd64"}},
			{Stages: "deploy", Option: map[string]any{"env": "prod"}},
		},
	}

	// Stage входит в группу с пробелом после запятой — имена сравниваются
	// после trim.
	buildOpt := combo.StageOption("test")
	if !reflect.DeepEqual(buildOpt, map[string]any{"arch": "amd64"}) {
		t.Errorf("unexpected option for test: %v", buildOpt)
	}

	deployOpt := combo.StageOption("deploy")
	if !reflect.DeepEqual(deployOpt, map[string]any{"env": "prod"}) {
		t.Errorf("unexpected option for deploy: %v", deployOpt)
	}

	// Stage вне всех групп получает пустые опции.
	noneOpt := combo.StageOption("unknown")
	if len(noneOpt) != 0 {
		t.Errorf("expected empty option, got %v", noneOpt)
	}
}
