package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — метрики опроса курсов
type Metrics struct {
	FetchTotal    *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	// Время последнего успешного получения курсов (unix)
	LastSuccess prometheus.Gauge
}

// NewMetrics регистрирует метрики в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_fetch_total",
				Help: "Количество запросов курсов по результату",
			},
			[]string{"result"},
		),

		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rates_fetch_duration_seconds",
				Help:    "Время получения курсов в секундах",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms, 20ms, 40ms...
			},
		),

		LastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "rates_last_success_timestamp_seconds",
				Help: "Время последнего успешного получения курсов",
			},
		),
	}
}
