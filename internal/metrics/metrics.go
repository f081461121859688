// Package metrics exposes costing counters on a private Prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simplici0/chefdevalor/internal/pricing"
)

// Collector records costing activity.
type Collector struct {
	registry          *prometheus.Registry
	recipeCostings    prometheus.Counter
	memoHits          prometheus.Counter
	warnings          *prometheus.CounterVec
	shoppingTotal     prometheus.Histogram
	shoppingLineCount prometheus.Gauge
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		recipeCostings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "costing_recipe_computations_total",
			Help: "Recipe cost breakdowns served, including memo hits.",
		}),
		memoHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "costing_memo_hits_total",
			Help: "Recipe cost breakdowns served from the memo.",
		}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "costing_warnings_total",
			Help: "Degraded-mode substitutions by warning code.",
		}, []string{"code"}),
		shoppingTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "costing_shopping_grand_total",
			Help:    "Projected shopping list totals.",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10),
		}),
		shoppingLineCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "costing_shopping_lines",
			Help: "Number of lines in the last computed shopping list.",
		}),
	}

	c.registry.MustRegister(c.recipeCostings, c.memoHits, c.warnings, c.shoppingTotal, c.shoppingLineCount)
	return c
}

// RecordRecipeCosting counts one breakdown and its warnings.
func (c *Collector) RecordRecipeCosting(b pricing.CostBreakdown, memoHit bool) {
	c.recipeCostings.Inc()
	if memoHit {
		c.memoHits.Inc()
	}
	c.RecordWarnings(b.Warnings)
}

// RecordShopping observes an aggregated shopping list.
func (c *Collector) RecordShopping(r pricing.ShoppingResult) {
	c.shoppingTotal.Observe(r.GrandTotal)
	c.shoppingLineCount.Set(float64(len(r.Lines)))
	c.RecordWarnings(r.Warnings)
}

// RecordWarnings counts warnings by code.
func (c *Collector) RecordWarnings(ws []pricing.Warning) {
	for _, w := range ws {
		c.warnings.WithLabelValues(string(w.Code)).Inc()
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
