package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mindshifting/mindshift/pkg/domain"
)

// Collector records engine activity as Prometheus metrics. Attach it
// via Hooks() when constructing the engine.
type Collector struct {
	repliesTotal  *prometheus.CounterVec
	stepsEntered  *prometheus.CounterVec
	turnDuration  *prometheus.HistogramVec
	aiErrorsTotal prometheus.Counter
	undosTotal    prometheus.Counter
	aiCostTotal   prometheus.Counter
	aiTokensTotal prometheus.Counter
}

// NewCollector registers the engine metrics with the given registerer.
// Pass prometheus.DefaultRegisterer for the usual global registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		repliesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindshift_replies_total",
				Help: "Total replies delivered, by step and source (scripted or ai)",
			},
			[]string{"step", "source"},
		),
		stepsEntered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindshift_steps_entered_total",
				Help: "Total step entries, including clarify re-entries and undo",
			},
			[]string{"step"},
		),
		turnDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mindshift_turn_duration_seconds",
				Help:    "Duration of a full turn, from user input to reply",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		aiErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mindshift_ai_errors_total",
				Help: "Generative adapter failures recovered with scripted fallback",
			},
		),
		undosTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mindshift_undos_total",
				Help: "Total successful undo operations",
			},
		),
		aiCostTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mindshift_ai_cost_usd_total",
				Help: "Cumulative generative adapter cost in USD",
			},
		),
		aiTokensTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mindshift_ai_tokens_total",
				Help: "Cumulative generative adapter token usage",
			},
		),
	}
}

// Hooks returns lifecycle hooks that feed this collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, ev *domain.StepEvent) {
			c.stepsEntered.WithLabelValues(string(ev.Step)).Inc()
		},
		OnReply: func(_ context.Context, ev *domain.ReplyEvent) {
			source := "scripted"
			if ev.UsedAI {
				source = "ai"
				c.aiCostTotal.Add(ev.CostUSD)
				c.aiTokensTotal.Add(float64(ev.Tokens))
			}
			c.repliesTotal.WithLabelValues(string(ev.Step), source).Inc()
			c.turnDuration.WithLabelValues(source).Observe(float64(ev.ElapsedMs) / 1000)
		},
		OnAIError: func(_ context.Context, _ *domain.AIErrorEvent) {
			c.aiErrorsTotal.Inc()
		},
		OnUndo: func(_ context.Context, _ *domain.StepEvent) {
			c.undosTotal.Inc()
		},
	}
}

// Accessors for tests and ad-hoc inspection.

func (c *Collector) AIErrors() prometheus.Counter { return c.aiErrorsTotal }
func (c *Collector) Undos() prometheus.Counter    { return c.undosTotal }
func (c *Collector) AICost() prometheus.Counter   { return c.aiCostTotal }
func (c *Collector) AITokens() prometheus.Counter { return c.aiTokensTotal }

// MergeHooks fans each event out to every given hook set, in order.
// Nil callbacks are skipped.
func MergeHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, ev *domain.StepEvent) {
			for _, h := range sets {
				if h.OnStepEnter != nil {
					h.OnStepEnter(ctx, ev)
				}
			}
		},
		OnReply: func(ctx context.Context, ev *domain.ReplyEvent) {
			for _, h := range sets {
				if h.OnReply != nil {
					h.OnReply(ctx, ev)
				}
			}
		},
		OnAIError: func(ctx context.Context, ev *domain.AIErrorEvent) {
			for _, h := range sets {
				if h.OnAIError != nil {
					h.OnAIError(ctx, ev)
				}
			}
		},
		OnUndo: func(ctx context.Context, ev *domain.StepEvent) {
			for _, h := range sets {
				if h.OnUndo != nil {
					h.OnUndo(ctx, ev)
				}
			}
		},
	}
}
