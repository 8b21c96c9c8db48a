// Package metrics holds Prometheus instruments that are used across the
// platform.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HostRewritesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "host_rewrites_total",
			Help: "Cumulative number of tenant-host requests rewritten to /site paths.",
		})

	SiteSaveTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "site_save_total",
			Help: "Cumulative number of successful site saves.",
		})

	SiteSaveDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "site_save_denied_total",
			Help: "Cumulative number of saves rejected for ownership or identity reasons.",
		})

	ComposeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "compose_total",
			Help: "Cumulative number of pages composed.",
		})

	ComposeErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "compose_errors_total",
			Help: "Cumulative number of composition failures (malformed template assets).",
		})

	TemplateCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "template_cache_hits_total",
			Help: "Cumulative number of template markup cache hits.",
		})

	TemplateCacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "template_cache_misses_total",
			Help: "Cumulative number of template markup cache misses.",
		})
)

func init() {
	prometheus.MustRegister(
		HostRewritesTotal,
		SiteSaveTotal,
		SiteSaveDeniedTotal,
		ComposeTotal,
		ComposeErrorsTotal,
		TemplateCacheHitsTotal,
		TemplateCacheMissesTotal,
	)
}
