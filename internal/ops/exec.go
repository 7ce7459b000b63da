package ops

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shaiso/flowweave/internal/domain"
)

// OpExec — код операции exec.
const OpExec = "exec"

// ExecHandler — операция запуска внешней команды.
//
// Опции:
//
//	command: "ls"          # обязательная
//	args: ["-l", "/tmp"]   # аргументы (скаляр или список)
//	dir: "/tmp"            # рабочая директория
//
// Данные task: map со stdout и кодом возврата. Ненулевой код
// возврата — ошибка выполнения.
type ExecHandler struct {
	command string
	args    []string
	dir     string
}

// NewExecHandler создаёт новый ExecHandler.
func NewExecHandler() *ExecHandler {
	return &ExecHandler{}
}

// Configure извлекает команду и аргументы из опций.
func (h *ExecHandler) Configure(option map[string]any) error {
	h.command = OptionString(option, "command")
	if h.command == "" {
		return fmt.Errorf("%s: command required", OpExec)
	}
	h.args = OptionStrings(option, "args")
	h.dir = OptionString(option, "dir")
	return nil
}

// Run запускает команду и ждёт завершения.
func (h *ExecHandler) Run(ctx context.Context, prev *domain.TaskRecord) (domain.Result, any, error) {
	cmd := exec.CommandContext(ctx, h.command, h.args...)
	cmd.Dir = h.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return domain.ResultFail, nil, fmt.Errorf("%s: %s: %w: %s", OpExec, h.command, err, detail)
		}
		return domain.ResultFail, nil, fmt.Errorf("%s: %s: %w", OpExec, h.command, err)
	}

	return domain.ResultSuccess, map[string]any{
		"stdout":    stdout.String(),
		"exit_code": 0,
	}, nil
}
