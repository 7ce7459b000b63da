package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метрики движка.
var (
	// TasksTotal — количество завершённых tasks по результату.
	TasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowweave_tasks_total",
		Help: "Completed tasks by result.",
	}, []string{"result"})

	// FlowsTotal — количество завершённых комбинаций flow по результату.
	FlowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowweave_flows_total",
		Help: "Completed flow combinations by result.",
	}, []string{"result"})

	// TaskDuration — длительность выполнения tasks.
	TaskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flowweave_task_duration_seconds",
		Help:    "Task execution duration.",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveTask фиксирует завершение task.
func ObserveTask(result string, duration time.Duration) {
	TasksTotal.WithLabelValues(result).Inc()
	TaskDuration.Observe(duration.Seconds())
}

// ObserveFlow фиксирует завершение комбинации flow.
func ObserveFlow(result string) {
	FlowsTotal.WithLabelValues(result).Inc()
}

// ServeMetrics поднимает HTTP endpoint /metrics на addr.
// Возвращает функцию остановки сервера. Ошибки сервера игнорируются:
// метрики — вспомогательная возможность и не должны ронять запуск.
func ServeMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		_ = server.ListenAndServe()
	}()

	return func() {
		_ = server.Close()
	}
}
