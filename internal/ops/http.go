package ops

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shaiso/flowweave/internal/domain"
)

const (
	// OpHTTP — код операции http.
	OpHTTP = "http"

	// Ограничение на размер читаемого тела ответа.
	maxResponseBody = 1 << 20 // 1 MiB

	// Таймаут HTTP-клиента по умолчанию.
	defaultHTTPTimeout = 30 * time.Second
)

// HTTPHandler — операция HTTP-запроса.
//
// Опции:
//
//	url: "https://example.com/api"   # обязательная
//	method: "GET"                    # по умолчанию GET
//	body: "..."                      # тело запроса
//	headers:                         # заголовки запроса
//	  Content-Type: application/json
//	expect_status: 200               # ожидаемый статус (0 — любой 2xx)
//
// Данные task: map со status и body ответа.
type HTTPHandler struct {
	url          string
	method       string
	body         string
	headers      map[string]string
	expectStatus int

	client *http.Client
}

// NewHTTPHandler создаёт новый HTTPHandler.
func NewHTTPHandler() *HTTPHandler {
	return &HTTPHandler{
		client: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// Configure извлекает параметры запроса из опций.
func (h *HTTPHandler) Configure(option map[string]any) error {
	h.url = OptionString(option, "url")
	if h.url == "" {
		return fmt.Errorf("%s: url required", OpHTTP)
	}

	h.method = strings.ToUpper(OptionString(option, "method"))
	if h.method == "" {
		h.method = http.MethodGet
	}

	h.body = OptionString(option, "body")
	h.expectStatus = OptionInt(option, "expect_status")

	if raw, ok := option["headers"].(map[string]any); ok {
		h.headers = make(map[string]string, len(raw))
		for k, v := range raw {
			if s, ok := v.(string); ok {
				h.headers[k] = s
			}
		}
	}

	return nil
}

// Run выполняет HTTP-запрос.
func (h *HTTPHandler) Run(ctx context.Context, prev *domain.TaskRecord) (domain.Result, any, error) {
	var body io.Reader
	if h.body != "" {
		body = strings.NewReader(h.body)
	}

	req, err := http.NewRequestWithContext(ctx, h.method, h.url, body)
	if err != nil {
		return domain.ResultFail, nil, fmt.Errorf("%s: build request: %w", OpHTTP, err)
	}
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return domain.ResultFail, nil, fmt.Errorf("%s: %s %s: %w", OpHTTP, h.method, h.url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return domain.ResultFail, nil, fmt.Errorf("%s: read response: %w", OpHTTP, err)
	}

	if !h.statusOK(resp.StatusCode) {
		return domain.ResultFail, nil, fmt.Errorf("%s: %s %s: unexpected status %d",
			OpHTTP, h.method, h.url, resp.StatusCode)
	}

	return domain.ResultSuccess, map[string]any{
		"status": resp.StatusCode,
		"body":   string(respBody),
	}, nil
}

// statusOK проверяет статус ответа: либо точное совпадение с
// expect_status, либо любой 2xx, если expect_status не задан.
func (h *HTTPHandler) statusOK(status int) bool {
	if h.expectStatus > 0 {
		return status == h.expectStatus
	}
	return status >= 200 && status < 300
}
