package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/stanza/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	ChainLoads   *prometheus.CounterVec
	LoadDuration prometheus.Histogram
	Choices      *prometheus.CounterVec
	Poems        *prometheus.CounterVec
	PoemWords    prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		ChainLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stanza_chain_loads_total",
				Help: "Total number of chain loads, by chain and whether the fallback was used",
			},
			[]string{"chain_id", "fallback"},
		),
		LoadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stanza_chain_load_duration_seconds",
				Help:    "Duration of chain loads, including parsing",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		Choices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stanza_choices_total",
				Help: "Total number of words chosen, by position among the options",
			},
			[]string{"position"},
		),
		Poems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stanza_poems_total",
				Help: "Total number of finished poems, by completion reason",
			},
			[]string{"reason"},
		),
		PoemWords: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stanza_poem_words",
				Help:    "Number of words in finished poems",
				Buckets: prometheus.LinearBuckets(2, 2, 10),
			},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.ChainLoads, m.LoadDuration, m.Choices, m.Poems, m.PoemWords)
	return m
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnChainLoad: func(_ context.Context, e *domain.ChainEvent) {
			m.ChainLoads.WithLabelValues(e.ChainID, strconv.FormatBool(e.Fallback)).Inc()
			m.LoadDuration.Observe(e.Duration.Seconds())
		},
		OnChoice: func(_ context.Context, e *domain.ChoiceEvent) {
			m.Choices.WithLabelValues(strconv.Itoa(e.Position)).Inc()
		},
		OnComplete: func(_ context.Context, e *domain.PoemEvent) {
			m.Poems.WithLabelValues(e.Reason).Inc()
			if e.Poem != nil {
				m.PoemWords.Observe(float64(wordCount(e.Poem)))
			}
		},
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func wordCount(p *domain.Poem) int {
	n := len(p.Completion) + len(strings.Fields(p.UserPath))
	if p.Ending != "" {
		n++
	}
	return n
}
