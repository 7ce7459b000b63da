package ops

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shaiso/flowweave/internal/domain"
)

// Registry Tests

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.Register("echo", func() Handler { return NewEchoHandler() })

	factory, err := r.Resolve("echo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if factory() == nil {
		t.Fatal("factory returned nil handler")
	}

	// Неизвестный код
	_, err = r.Resolve("unknown")
	if !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("expected ErrUnknownOperation, got %v", err)
	}
}

func TestRegistry_Ambiguous(t *testing.T) {
	// Повторная регистрация кода делает его неоднозначным.
	r := NewRegistry()
	r.Register("dup", func() Handler { return NewEchoHandler() })
	r.Register("dup", func() Handler { return NewDelayHandler() })

	_, err := r.Resolve("dup")
	if !errors.Is(err, ErrAmbiguousOperation) {
		t.Errorf("expected ErrAmbiguousOperation, got %v", err)
	}
	if r.Has("dup") {
		t.Error("ambiguous code should not be resolvable")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	for _, code := range []string{OpEcho, OpDelay, OpHTTP, OpExec} {
		if !r.Has(code) {
			t.Errorf("default registry should have %s", code)
		}
	}

	codes := r.Codes()
	if len(codes) != 4 {
		t.Errorf("expected 4 codes, got %d", len(codes))
	}
}

func TestRegisterFromSources(t *testing.T) {
	r := NewRegistry()
	if err := RegisterFromSources(r, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Has(OpEcho) {
		t.Error("empty source list should register builtin")
	}

	err := RegisterFromSources(NewRegistry(), []string{"no-such-source"})
	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("expected ErrUnknownSource, got %v", err)
	}
}

// Echo Tests

func TestEchoHandler(t *testing.T) {
	h := NewEchoHandler()
	if err := h.Configure(map[string]any{"message": "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, data, err := h.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != domain.ResultSuccess {
		t.Errorf("expected SUCCESS, got %v", result)
	}
	if data != "hello" {
		t.Errorf("expected hello, got %v", data)
	}
}

func TestEchoHandler_AppendsPrevData(t *testing.T) {
	h := NewEchoHandler()
	h.Configure(map[string]any{"message": "got:"})

	prev := &domain.TaskRecord{Name: "upstream", Data: "42", Result: domain.ResultSuccess}
	_, data, err := h.Run(context.Background(), prev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != "got: 42" {
		t.Errorf("unexpected data: %v", data)
	}
}

// Delay Tests

func TestDelayHandler(t *testing.T) {
	h := NewDelayHandler()
	if err := h.Configure(map[string]any{"duration_ms": 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Now()
	result, _, err := h.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != domain.ResultSuccess {
		t.Errorf("expected SUCCESS, got %v", result)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("delay finished too early")
	}
}

func TestDelayHandler_MissingDuration(t *testing.T) {
	h := NewDelayHandler()
	if err := h.Configure(map[string]any{}); err == nil {
		t.Error("expected error for missing duration")
	}
}

func TestDelayHandler_ContextCancelled(t *testing.T) {
	h := NewDelayHandler()
	h.Configure(map[string]any{"duration_sec": 10})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, _, err := h.Run(ctx, nil)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if result != domain.ResultFail {
		t.Errorf("expected FAIL, got %v", result)
	}
}

// HTTP Tests

func TestHTTPHandler(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	h := NewHTTPHandler()
	if err := h.Configure(map[string]any{"url": server.URL}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, data, err := h.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != domain.ResultSuccess {
		t.Errorf("expected SUCCESS, got %v", result)
	}

	outputs := data.(map[string]any)
	if outputs["status"] != http.StatusOK {
		t.Errorf("expected status 200, got %v", outputs["status"])
	}
	if !strings.Contains(outputs["body"].(string), "ok") {
		t.Errorf("unexpected body: %v", outputs["body"])
	}
}

func TestHTTPHandler_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	h := NewHTTPHandler()
	h.Configure(map[string]any{"url": server.URL})

	result, _, err := h.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if result != domain.ResultFail {
		t.Errorf("expected FAIL, got %v", result)
	}
}

func TestHTTPHandler_MissingURL(t *testing.T) {
	h := NewHTTPHandler()
	if err := h.Configure(map[string]any{}); err == nil {
		t.Error("expected error for missing url")
	}
}

// Exec Tests

func TestExecHandler(t *testing.T) {
	h := NewExecHandler()
	if err := h.Configure(map[string]any{
		"command": "echo",
		"args":    []any{"flowweave"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, data, err := h.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != domain.ResultSuccess {
		t.Errorf("expected SUCCESS, got %v", result)
	}

	outputs := data.(map[string]any)
	if !strings.Contains(outputs["stdout"].(string), "flowweave") {
		t.Errorf("unexpected stdout: %v", outputs["stdout"])
	}
}

func TestExecHandler_CommandFails(t *testing.T) {
	h := NewExecHandler()
	h.Configure(map[string]any{"command": "false"})

	result, _, err := h.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for failing command")
	}
	if result != domain.ResultFail {
		t.Errorf("expected FAIL, got %v", result)
	}
}

func TestExecHandler_ScalarArgs(t *testing.T) {
	// Скалярный args оборачивается в список из одного элемента.
	h := NewExecHandler()
	if err := h.Configure(map[string]any{
		"command": "echo",
		"args":    "single",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.args) != 1 || h.args[0] != "single" {
		t.Errorf("unexpected args: %v", h.args)
	}
}
