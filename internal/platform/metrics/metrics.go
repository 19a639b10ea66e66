// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics registers the Prometheus collectors exposed on /metrics.
//
// Collectors live on a dedicated [prometheus.Registry] owned by [Registry]
// rather than the global default, so tests can build as many servers as they
// like without duplicate-registration panics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "epaper"

// Registry groups every collector the service reports.
type Registry struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ScanTotal         *prometheus.CounterVec
	ScanDuration      prometheus.Histogram
	EditionsAvailable prometheus.Gauge
	PagesAvailable    prometheus.Gauge
	ScanDiagnostics   prometheus.Counter

	ImagesServed *prometheus.CounterVec
}

// New creates a registry with Go runtime and process collectors plus the
// service's own metrics.
func New() *Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),

		ScanTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "scans_total",
			Help:      "Total number of catalog refreshes by trigger",
		}, []string{"trigger"}),

		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "scan_duration_seconds",
			Help:      "Time to scan and normalize the editions root",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),

		EditionsAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "editions",
			Help:      "Editions in the current snapshot",
		}),

		PagesAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "pages",
			Help:      "Pages across all editions in the current snapshot",
		}),

		ScanDiagnostics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "diagnostics_total",
			Help:      "Folders skipped during scans",
		}),

		ImagesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "images",
			Name:      "served_total",
			Help:      "Image requests by outcome",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		r.HTTPRequestsTotal,
		r.HTTPRequestDuration,
		r.ScanTotal,
		r.ScanDuration,
		r.EditionsAvailable,
		r.PagesAvailable,
		r.ScanDiagnostics,
		r.ImagesServed,
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveScan records one catalog refresh.
func (r *Registry) ObserveScan(trigger string, took time.Duration, editions, pages, diagnostics int) {
	r.ScanTotal.WithLabelValues(trigger).Inc()
	r.ScanDuration.Observe(took.Seconds())
	r.EditionsAvailable.Set(float64(editions))
	r.PagesAvailable.Set(float64(pages))
	r.ScanDiagnostics.Add(float64(diagnostics))
}
