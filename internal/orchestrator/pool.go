package orchestrator

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/semaphore"

	"github.com/shaiso/flowweave/internal/domain"
)

// Future — отложенная запись результата task.
//
// Создаётся при подаче task в пул и разрешается после завершения.
// Цепочки строятся на Future: замыкание преемника блокируется
// на Future предшественника до запуска.
type Future struct {
	done   chan struct{}
	record domain.TaskRecord
	err    error
}

// Wait блокируется до разрешения Future и возвращает запись результата.
//
// Ошибка означает сбой самого механизма выполнения (отмена контекста,
// паника вне handler'а); ошибки handler'ов конвертируются runner'ом
// в запись с результатом FAIL и сюда не попадают.
func (f *Future) Wait() (domain.TaskRecord, error) {
	<-f.done
	return f.record, f.err
}

// Pool — ограниченный пул выполнения tasks.
//
// Один общий пул обслуживает все комбинации и stages запуска.
// Слот пула занимается только на время работы handler'а: ожидание
// Future предшественника происходит до захвата слота, поэтому
// глубина цепочек не может исчерпать пул до дедлока.
type Pool struct {
	sem *semaphore.Weighted
}

// DefaultPoolSize возвращает размер пула tasks по умолчанию:
// min(32, NumCPU+4) — умеренный множитель параллелизма хоста.
func DefaultPoolSize() int {
	size := runtime.NumCPU() + 4
	if size > 32 {
		size = 32
	}
	return size
}

// NewPool создаёт пул. size <= 0 заменяется на DefaultPoolSize().
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize()
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Submit подаёт task в пул и возвращает его Future.
//
// prev — Future предшественника (nil для головы цепочки). Замыкание
// сначала дожидается предшественника, затем захватывает слот пула
// и вызывает fn с записью результата предшественника.
func (p *Pool) Submit(ctx context.Context, prev *Future, fn func(prev *domain.TaskRecord) domain.TaskRecord) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("task panic: %v\n%s", r, debug.Stack())
			}
		}()

		var prevRecord *domain.TaskRecord
		if prev != nil {
			record, err := prev.Wait()
			if err != nil {
				f.err = fmt.Errorf("predecessor failed: %w", err)
				return
			}
			prevRecord = &record
		}

		if err := p.sem.Acquire(ctx, 1); err != nil {
			f.err = fmt.Errorf("acquire pool slot: %w", err)
			return
		}
		defer p.sem.Release(1)

		f.record = fn(prevRecord)
	}()

	return f
}
