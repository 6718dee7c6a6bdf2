package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ── Prometheus 指标（由 /metrics 暴露） ──

var (
	slotMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_slot_mutations_total",
		Help: "课时写操作次数",
	}, []string{"op", "result"})

	generationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_generation_runs_total",
		Help: "排课生成请求次数",
	}, []string{"result"})

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_duration_seconds",
		Help:    "外部排课生成耗时",
		Buckets: []float64{1, 5, 10, 30, 60, 120},
	})

	scheduleReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_schedule_reviews_total",
		Help: "排课方案审核次数",
	}, []string{"action", "result"})
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
