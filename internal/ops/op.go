package ops

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shaiso/flowweave/internal/domain"
)

// Ошибки реестра операций.
var (
	// ErrUnknownOperation — код операции не зарегистрирован.
	ErrUnknownOperation = errors.New("unknown operation code")

	// ErrAmbiguousOperation — для кода зарегистрировано больше одного handler'а.
	ErrAmbiguousOperation = errors.New("ambiguous operation code")

	// ErrUnknownSource — неизвестный источник операций (op_source).
	ErrUnknownSource = errors.New("unknown operation source")
)

// Handler — исполняемая операция task.
//
// Жизненный цикл одного выполнения: фабрика создаёт новый экземпляр,
// runner вызывает Configure со слитыми опциями, затем Run с записью
// результата предшественника (nil для head task).
type Handler interface {
	// Configure передаёт handler'у слитые опции task.
	// Handler берёт известные ему ключи и игнорирует остальные.
	Configure(option map[string]any) error

	// Run выполняет операцию.
	//
	// prev — запись результата предшественника (nil для head task).
	// Возвращает результат, данные для преемников и ошибку. Ошибка
	// конвертируется runner'ом в FAIL и никогда не роняет движок.
	Run(ctx context.Context, prev *domain.TaskRecord) (domain.Result, any, error)
}

// Factory создаёт новый экземпляр Handler.
// Каждое выполнение task получает собственный экземпляр.
type Factory func() Handler

// Registry — реестр кодов операций.
//
// Потокобезопасен. Повторная регистрация кода не перезаписывает
// фабрику, а помечает код неоднозначным — сохраняется требование
// уникальности handler'а на код.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	ambiguous map[string]bool
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		ambiguous: make(map[string]bool),
	}
}

// DefaultRegistry создаёт реестр со встроенными операциями.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltin(r)
	return r
}

// RegisterBuiltin регистрирует встроенный набор операций.
func RegisterBuiltin(r *Registry) {
	r.Register(OpEcho, func() Handler { return NewEchoHandler() })
	r.Register(OpDelay, func() Handler { return NewDelayHandler() })
	r.Register(OpHTTP, func() Handler { return NewHTTPHandler() })
	r.Register(OpExec, func() Handler { return NewExecHandler() })
}

// sources — именованные источники операций для op_source.
var sources = map[string]func(*Registry){
	"builtin": RegisterBuiltin,
}

// RegisterFromSources наполняет реестр из именованных источников.
// Пустой список источников эквивалентен {"builtin"}.
func RegisterFromSources(r *Registry, names []string) error {
	if len(names) == 0 {
		names = []string{"builtin"}
	}
	for _, name := range names {
		register, ok := sources[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSource, name)
		}
		register(r)
	}
	return nil
}

// Register регистрирует фабрику для кода операции.
// Повторная регистрация того же кода помечает его неоднозначным.
func (r *Registry) Register(code string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[code]; exists {
		r.ambiguous[code] = true
		return
	}
	r.factories[code] = factory
}

// Resolve возвращает фабрику для кода операции.
//
// Возвращает ErrUnknownOperation, если код не зарегистрирован, и
// ErrAmbiguousOperation, если для кода нашлось больше одного кандидата.
func (r *Registry) Resolve(code string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.ambiguous[code] {
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousOperation, code)
	}

	factory, exists := r.factories[code]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, code)
	}

	return factory, nil
}

// Has проверяет, разрешим ли код операции.
func (r *Registry) Has(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[code]
	return exists && !r.ambiguous[code]
}

// Codes возвращает отсортированный список зарегистрированных кодов.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.factories))
	for code := range r.factories {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// OptionString извлекает строковое значение опции.
func OptionString(option map[string]any, key string) string {
	if v, ok := option[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// OptionInt извлекает числовое значение опции.
func OptionInt(option map[string]any, key string) int {
	if v, ok := option[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

// OptionStrings извлекает список строк из опции.
// Скаляр оборачивается в список из одного элемента.
func OptionStrings(option map[string]any, key string) []string {
	v, ok := option[key]
	if !ok {
		return nil
	}

	switch typed := v.(type) {
	case string:
		return []string{typed}
	case []any:
		result := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}
