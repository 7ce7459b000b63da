package ops

import (
	"context"
	"fmt"

	"github.com/shaiso/flowweave/internal/domain"
)

// OpEcho — код операции echo.
const OpEcho = "echo"

// EchoHandler — операция, возвращающая сообщение как данные task.
//
// Опции:
//
//	message: "text"   # сообщение (по умолчанию пусто)
//
// Если у task есть предшественник, его данные дописываются к сообщению.
// Используется в примерах и тестах цепочек.
type EchoHandler struct {
	message string
}

// NewEchoHandler создаёт новый EchoHandler.
func NewEchoHandler() *EchoHandler {
	return &EchoHandler{}
}

// Configure берёт опцию message.
func (h *EchoHandler) Configure(option map[string]any) error {
	h.message = OptionString(option, "message")
	return nil
}

// Run возвращает сообщение.
func (h *EchoHandler) Run(ctx context.Context, prev *domain.TaskRecord) (domain.Result, any, error) {
	message := h.message
	if prev != nil && prev.Data != nil {
		message = fmt.Sprintf("%s %v", message, prev.Data)
	}
	return domain.ResultSuccess, message, nil
}
