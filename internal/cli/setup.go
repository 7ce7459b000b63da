package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shaiso/flowweave/internal/domain"
	"github.com/shaiso/flowweave/internal/ops"
	"github.com/shaiso/flowweave/internal/spec"
)

// flowDir — каталог flow файлов по умолчанию для коротких имён.
const flowDir = "flow"

// resolveFlowPath превращает аргумент команды в путь к flow файлу.
//
// Явный путь (существующий файл) используется как есть; короткое имя
// разрешается в flow/<name>.yml, затем flow/<name>.yaml.
func resolveFlowPath(arg string) string {
	if _, err := os.Stat(arg); err == nil {
		return arg
	}

	for _, ext := range []string{".yml", ".yaml"} {
		candidate := filepath.Join(flowDir, arg+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	// Не нашли — отдаём исходный аргумент, ошибку отдаст загрузчик.
	return arg
}

// loadFlow загружает flow файл и готовит реестр операций.
//
// Реестр наполняется из op_source flow файла (пусто — builtin),
// после чего проверяется разрешимость всех кодов операций.
func loadFlow(arg string) (*domain.FlowSpec, *ops.Registry, error) {
	flowSpec, err := spec.Load(resolveFlowPath(arg))
	if err != nil {
		return nil, nil, err
	}

	registry := ops.NewRegistry()
	if err := ops.RegisterFromSources(registry, flowSpec.OpSources); err != nil {
		return nil, nil, fmt.Errorf("flow %s: %w", flowSpec.Name, err)
	}

	if err := spec.ValidateOps(flowSpec, registry); err != nil {
		return nil, nil, fmt.Errorf("flow %s: %w", flowSpec.Name, err)
	}

	return flowSpec, registry, nil
}
