package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wonny/dahai/internal/contracts"
)

// Symbol outcomes reported per scan
const (
	OutcomeEvaluated    = "evaluated"
	OutcomeShortHistory = "short_history"
	OutcomeOutOfBand    = "out_of_band"
	OutcomeFailed       = "failed"
)

// Recorder holds the screener's Prometheus collectors on its own registry
// ⭐ SSOT: 指标名称只在这里定义
type Recorder struct {
	registry *prometheus.Registry

	symbolsTotal     *prometheus.CounterVec
	signalsTotal     *prometheus.CounterVec
	rejectsTotal     *prometheus.CounterVec
	scanDuration     prometheus.Histogram
	stageDuration    *prometheus.HistogramVec
	resonanceRecords *prometheus.GaugeVec
	ledgerReconciled prometheus.Counter
	ledgerTotal      prometheus.Gauge
	runsTotal        *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a recorder with a fresh registry (plus Go and process collectors)
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		symbolsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dahai_symbols_total",
			Help: "Symbols processed by the universe scan, by outcome",
		}, []string{"outcome"}),
		signalsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dahai_signals_total",
			Help: "Strategy signals emitted, by strategy",
		}, []string{"strategy"}),
		rejectsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dahai_strategy_rejects_total",
			Help: "Strategy gate rejections, by strategy and gate",
		}, []string{"strategy", "gate"}),
		scanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dahai_scan_duration_seconds",
			Help:    "Wall time of one universe scan",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dahai_stage_duration_seconds",
			Help:    "Wall time of each pipeline stage",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		resonanceRecords: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dahai_resonance_records",
			Help: "Resonance records of the latest run, by tier",
		}, []string{"tier"}),
		ledgerReconciled: f.NewCounter(prometheus.CounterOpts{
			Name: "dahai_ledger_reconciled_total",
			Help: "Runs that reconciled prior picks",
		}),
		ledgerTotal: f.NewGauge(prometheus.GaugeOpts{
			Name: "dahai_ledger_total_return_percent",
			Help: "Cumulative sum of daily mean forward returns",
		}),
		runsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dahai_runs_total",
			Help: "Pipeline runs, by status",
		}, []string{"status"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dahai_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "method", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dahai_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method"}),
	}
}

// Registry exposes the underlying registry (tests, custom exporters)
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordScan folds one run's scan statistics into the counters
func (r *Recorder) RecordScan(stats *contracts.ScanStats, elapsed time.Duration) {
	if stats == nil {
		return
	}
	r.symbolsTotal.WithLabelValues(OutcomeEvaluated).Add(float64(stats.Evaluated))
	r.symbolsTotal.WithLabelValues(OutcomeShortHistory).Add(float64(stats.ShortHistory))
	r.symbolsTotal.WithLabelValues(OutcomeOutOfBand).Add(float64(stats.OutOfBand))
	r.symbolsTotal.WithLabelValues(OutcomeFailed).Add(float64(stats.Failed))

	for id, n := range stats.Hits {
		r.signalsTotal.WithLabelValues(id).Add(float64(n))
	}
	for key, n := range stats.Rejects {
		id, gate := splitReject(key)
		r.rejectsTotal.WithLabelValues(id, gate).Add(float64(n))
	}
	r.scanDuration.Observe(elapsed.Seconds())
}

// RecordStage observes the duration of one pipeline stage
func (r *Recorder) RecordStage(stage contracts.Stage, elapsed time.Duration) {
	r.stageDuration.WithLabelValues(stage.ShortName()).Observe(elapsed.Seconds())
}

// RecordResonance sets the tier gauges for the latest run
func (r *Recorder) RecordResonance(core, watch, total int) {
	r.resonanceRecords.WithLabelValues(string(contracts.TierCore)).Set(float64(core))
	r.resonanceRecords.WithLabelValues(string(contracts.TierWatch)).Set(float64(watch))
	r.resonanceRecords.WithLabelValues("all").Set(float64(total))
}

// RecordLedger updates the ledger collectors after a save
func (r *Recorder) RecordLedger(summary contracts.PerformanceSummary) {
	if summary.Available {
		r.ledgerReconciled.Inc()
	}
	r.ledgerTotal.Set(summary.TotalReturn)
}

// RecordRun counts a finished run
func (r *Recorder) RecordRun(err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	r.runsTotal.WithLabelValues(status).Inc()
}

// RecordRequest observes one HTTP request
func (r *Recorder) RecordRequest(route, method string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(route, method, statusText(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func splitReject(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

func statusText(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
