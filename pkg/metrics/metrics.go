// Package metrics 提供 Prometheus 指标采集功能
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "casino_platform"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// 租户解析指标
	TenantResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tenancy",
			Name:      "resolutions_total",
			Help:      "Total number of tenant resolutions by source and result",
		},
		[]string{"source", "result"},
	)

	TenantResolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tenancy",
			Name:      "resolution_duration_seconds",
			Help:      "Tenant resolution duration in seconds",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5},
		},
		[]string{"source"},
	)

	// 缓存指标
	TenantCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of tenant cache hits by key kind",
		},
		[]string{"kind"},
	)

	TenantCacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of tenant cache misses by key kind",
		},
		[]string{"kind"},
	)

	TenantCacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Total number of explicit cache invalidations by key kind",
		},
		[]string{"kind"},
	)

	// 隔离执行指标
	EnforcementDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "isolation",
			Name:      "decisions_total",
			Help:      "Total number of isolation enforcement decisions",
		},
		[]string{"decision"},
	)

	// 配置解析指标
	PropertyResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "property",
			Name:      "resolutions_total",
			Help:      "Total number of property resolutions by winning tier",
		},
		[]string{"tier"},
	)

	PropertyMalformedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "property",
			Name:      "malformed_total",
			Help:      "Total number of malformed property values that fell through",
		},
		[]string{"name"},
	)

	// 审计指标
	AuditRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "records_total",
			Help:      "Total number of audit records by write mode",
		},
		[]string{"mode"},
	)

	AuditDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "dropped_total",
			Help:      "Total number of best-effort audit events dropped on overflow",
		},
	)
)
