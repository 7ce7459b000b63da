package spec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/shaiso/flowweave/internal/domain"
	"github.com/shaiso/flowweave/internal/ops"
)

// validate — общий валидатор структурных тегов.
var validate = validator.New()

// Load читает и валидирует файл flow.
//
// Имя flow выводится из имени файла без расширения, если документ
// не задаёт его явно. Возвращаемый FlowSpec прошёл структурную
// валидацию, но коды операций ещё не проверены — см. ValidateOps.
func Load(path string) (*domain.FlowSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read flow file %s: %w", path, err)
	}

	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("flow file %s: %w", path, err)
	}

	if spec.Name == "" {
		base := filepath.Base(path)
		spec.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return spec, nil
}

// Parse разбирает YAML документ и выполняет структурную валидацию.
func Parse(data []byte) (*domain.FlowSpec, error) {
	var spec domain.FlowSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if err := Validate(&spec); err != nil {
		return nil, err
	}

	return &spec, nil
}

// Validate выполняет полную структурную валидацию FlowSpec.
//
// Проверяет:
// - Наличие flow и stages (теги validate)
// - Каждое имя из flow объявлено в stage
// - Каждый stage не пуст и содержит хотя бы один head
// - Все chain.next ссылаются на tasks того же stage
// - Значения do_only допустимы
// - Ключи global_option ссылаются на объявленные stages
//
// Циклы в цепочках здесь не ищутся: обход зависит от путей и
// выполняется при построении цепочки во время запуска.
func Validate(spec *domain.FlowSpec) error {
	if spec == nil {
		return ErrEmptyFlow
	}

	if err := validate.Struct(spec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			base := ErrEmptyFlow
			if f.Field() == "Stages" {
				base = ErrEmptyStage
			}
			return NewValidationError("", "", f.Field(),
				fmt.Sprintf("field %s failed %q validation", f.Field(), f.Tag()), base)
		}
		return err
	}

	for _, name := range spec.Flow {
		stage, ok := spec.Stages[name]
		if !ok {
			return NewValidationError(name, "", "flow",
				fmt.Sprintf("flow references unknown stage: %s", name), ErrUnknownStage)
		}

		if err := validateStage(name, stage); err != nil {
			return err
		}
	}

	if spec.GlobalOption != nil {
		if err := validateGlobalOption(spec); err != nil {
			return err
		}
	}

	return nil
}

// validateStage валидирует один stage.
func validateStage(name string, stage domain.StageSpec) error {
	if len(stage) == 0 {
		return NewValidationError(name, "", "stage",
			fmt.Sprintf("stage %s has no tasks", name), ErrEmptyStage)
	}

	hasHead := false

	for taskName, task := range stage {
		if task.Op == "" {
			return NewValidationError(name, taskName, "op",
				"task has empty op", ErrEmptyOp)
		}

		if task.DoOnly != "" &&
			task.DoOnly != domain.DoOnlyPreSuccess &&
			task.DoOnly != domain.DoOnlyPreFail {
			return NewValidationError(name, taskName, "do_only",
				fmt.Sprintf("invalid do_only value: %s", task.DoOnly), ErrBadDoOnly)
		}

		if task.Chain.IsHead() {
			hasHead = true
		}

		for _, next := range task.Chain.Next {
			if next == taskName {
				return NewValidationError(name, taskName, "chain.next",
					"task chains to itself", ErrSelfNext)
			}
			if _, ok := stage[next]; !ok {
				return NewValidationError(name, taskName, "chain.next",
					fmt.Sprintf("chains to unknown task: %s", next), ErrUnknownNext)
			}
		}
	}

	if !hasHead {
		return NewValidationError(name, "", "chain.part",
			fmt.Sprintf("stage %s has no head task", name), ErrNoHead)
	}

	return nil
}

// validateGlobalOption проверяет ключи групп global_option.
func validateGlobalOption(spec *domain.FlowSpec) error {
	for _, group := range spec.GlobalOption.Groups {
		for _, stageName := range strings.Split(group.Stages, ",") {
			stageName = strings.TrimSpace(stageName)
			if _, ok := spec.Stages[stageName]; !ok {
				return NewValidationError(stageName, "", "global_option",
					fmt.Sprintf("global_option references unknown stage: %s", stageName),
					ErrUnknownGlobalStage)
			}
		}
	}
	return nil
}

// ValidateOps проверяет, что каждый код операции разрешается реестром.
//
// Вызывается после регистрации источников операций, но до запуска:
// неразрешимый код — это ошибка конфигурации, а не FAIL во время
// выполнения.
func ValidateOps(spec *domain.FlowSpec, registry *ops.Registry) error {
	for _, name := range spec.Flow {
		for taskName, task := range spec.Stages[name] {
			if !registry.Has(task.Op) {
				return NewValidationError(name, taskName, "op",
					fmt.Sprintf("unresolvable op code: %s", task.Op), ErrUnknownOp)
			}
		}
	}
	return nil
}
