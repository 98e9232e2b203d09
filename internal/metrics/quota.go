// Package metrics holds the Prometheus collectors for quota state and the
// daemon HTTP surface.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quotaclock"

// Quota state gauges and mutation counters.
var (
	QuotaTotalMinutes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "quota_total_minutes",
		Help:      "Total quota for the current period in minutes",
	})

	QuotaRemainingMinutes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "quota_remaining_minutes",
		Help:      "Remaining quota in minutes",
	})

	QuotaUsedRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "quota_used_ratio",
		Help:      "Fraction of the quota used, 0..1",
	})

	PeriodElapsedRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "period_elapsed_ratio",
		Help:      "Fraction of the current reset window that has passed, 0..1",
	})

	SecondsToReset = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "seconds_to_reset",
		Help:      "Seconds until the window ends, negative once passed",
	})

	AdjustmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adjustments_total",
			Help:      "Remaining-time mutations by source",
		},
		[]string{"source"}, // "quick" / "form" / "undo" / "reset"
	)

	ValidationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Rejected form submissions by field",
		},
		[]string{"field"},
	)

	StorageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Failed reads and writes against the local store",
		},
		[]string{"op"},
	)

	TimerFaultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timer_faults_total",
		Help:      "Countdown callbacks that panicked",
	})
)

var registerOnce sync.Once

// Register adds every collector in this package to the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			QuotaTotalMinutes,
			QuotaRemainingMinutes,
			QuotaUsedRatio,
			PeriodElapsedRatio,
			SecondsToReset,
			AdjustmentsTotal,
			ValidationErrorsTotal,
			StorageErrorsTotal,
			TimerFaultsTotal,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}

// Observation is the subset of a rendered dashboard the gauges track.
type Observation struct {
	TotalMinutes     int
	RemainingMinutes int
	UsedPercent      float64
	PeriodPercent    float64
	SecondsToReset   float64
}

// Observe updates the state gauges.
func Observe(o Observation) {
	QuotaTotalMinutes.Set(float64(o.TotalMinutes))
	QuotaRemainingMinutes.Set(float64(o.RemainingMinutes))
	QuotaUsedRatio.Set(o.UsedPercent / 100)
	PeriodElapsedRatio.Set(o.PeriodPercent / 100)
	SecondsToReset.Set(o.SecondsToReset)
}
