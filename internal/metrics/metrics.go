package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/pipeline"
	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/validation"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantlayout_requests_total",
		Help: "Total API requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plantlayout_request_duration_ms",
		Help:    "API request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"route"})
	GenerateDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plantlayout_generate_duration_ms",
		Help:    "Layout generation duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	BlocksPlaced = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plantlayout_blocks_placed",
		Help:    "Blocks placed per generation",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	})
	HeatDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plantlayout_heat_duration_ms",
		Help:    "Heat field duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	IssuesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantlayout_issues_total",
		Help: "Validation issues found by kind",
	}, []string{"kind"})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantlayout_cache_hits_total",
		Help: "Pipeline cache hits by stage",
	}, []string{"stage"})
	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantlayout_cache_misses_total",
		Help: "Pipeline cache misses by stage",
	}, []string{"stage"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(GenerateDurationMs)
	prometheus.MustRegister(BlocksPlaced)
	prometheus.MustRegister(HeatDurationMs)
	prometheus.MustRegister(IssuesTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }

// Hooks feeds pipeline events into the collectors.
type Hooks struct{}

var _ pipeline.Hooks = Hooks{}

func (Hooks) OnGenerate(d time.Duration, blocks int) {
	GenerateDurationMs.Observe(ms(d))
	BlocksPlaced.Observe(float64(blocks))
}

func (Hooks) OnValidate(counts map[validation.Kind]int) {
	for kind, n := range counts {
		IssuesTotal.WithLabelValues(string(kind)).Add(float64(n))
	}
}

func (Hooks) OnHeat(d time.Duration, cells int) {
	HeatDurationMs.Observe(ms(d))
}

func (Hooks) OnCache(stage string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(stage).Inc()
		return
	}
	CacheMissesTotal.WithLabelValues(stage).Inc()
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
