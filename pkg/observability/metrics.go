package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors fed by coordinator events.
type Metrics struct {
	registry     *prometheus.Registry
	navigations  *prometheus.CounterVec
	requirements *prometheus.CounterVec
	depth        prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfinder_navigation_events_total",
				Help: "Total number of navigation events",
			},
			[]string{"type", "destination"},
		),
		requirements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wayfinder_requirement_events_total",
				Help: "Total number of requirement events",
			},
			[]string{"type", "requirement"},
		),
		depth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wayfinder_push_depth",
				Help:    "Path depth after each push",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
		),
	}
	m.registry.MustRegister(m.navigations, m.requirements, m.depth)
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNavigation: func(_ context.Context, e *domain.NavigationEvent) {
			m.navigations.WithLabelValues(string(e.Type), e.Destination).Inc()
			if e.Type == domain.EventItemPushed {
				m.depth.Observe(float64(e.Depth))
			}
		},
		OnRequirement: func(_ context.Context, e *domain.RequirementEvent) {
			m.requirements.WithLabelValues(string(e.Type), string(e.Requirement)).Inc()
		},
	}
}

// Registry exposes the registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
