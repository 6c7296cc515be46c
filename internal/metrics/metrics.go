// Package metrics holds the Prometheus collectors of the workload planner.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type collectors struct {
	importRows     *prometheus.CounterVec
	importDuration *prometheus.HistogramVec
	upserts        *prometheus.CounterVec
	lineEnsures    *prometheus.CounterVec
	pivotBuilds    prometheus.Counter
	pivotRows      prometheus.Histogram
}

var singleton = sync.OnceValue(func() *collectors {
	return &collectors{
		importRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workload",
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Import rows by result (imported/skipped) and skip code.",
		}, []string{"result", "code"}),
		importDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "workload",
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Latency distribution of whole import requests.",
			Buckets: []float64{
				0.005, 0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5, 10, 30,
			},
		}, []string{"result"}),
		upserts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workload",
			Subsystem: "store",
			Name:      "upserts_total",
			Help:      "Upserts by kind (comment/entry) and origin.",
		}, []string{"kind", "origin"}),
		lineEnsures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workload",
			Subsystem: "lines",
			Name:      "ensure_total",
			Help:      "Line-creation calls by variant and result.",
		}, []string{"variant", "result"}),
		pivotBuilds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "workload",
			Subsystem: "pivot",
			Name:      "builds_total",
			Help:      "Number of pivot tables built.",
		}),
		pivotRows: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "workload",
			Subsystem: "pivot",
			Name:      "rows",
			Help:      "Number of grouped rows per pivot table.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
})

// ImportRow counts one processed import row. code is empty for imported rows.
func ImportRow(imported bool, code string) {
	result := "skipped"
	if imported {
		result = "imported"
	}
	singleton().importRows.With(prometheus.Labels{"result": result, "code": code}).Inc()
}

// ImportFinished records the duration of a whole import request.
func ImportFinished(ok bool, elapsed time.Duration) {
	result := "error"
	if ok {
		result = "ok"
	}
	singleton().importDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

// Upsert counts one upsert of kind "comment" or "entry".
func Upsert(kind, origin string) {
	singleton().upserts.WithLabelValues(kind, origin).Inc()
}

// LineEnsured counts one line-creation call.
func LineEnsured(variant string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	singleton().lineEnsures.WithLabelValues(variant, result).Inc()
}

// PivotBuilt records one pivot build producing rows grouped rows.
func PivotBuilt(rows int) {
	c := singleton()
	c.pivotBuilds.Inc()
	c.pivotRows.Observe(float64(rows))
}
