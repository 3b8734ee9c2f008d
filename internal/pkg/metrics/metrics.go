// Package metrics 定义服务自身暴露的 Prometheus 指标.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "slurm_dashboard"

var (
	// NodeCacheLookups counts node cache lookups by result: hit, refresh, error, coalesced.
	NodeCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "node_cache_lookups_total",
		Help:      "Node cache lookups partitioned by result.",
	}, []string{"result"})

	// UpstreamRequests counts requests to external sources by upstream and outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Requests sent to slurmrestd, Prometheus and the embedding service.",
	}, []string{"upstream", "endpoint", "outcome"})

	// PowerQueryAttempts counts power query attempts by identifier label and outcome.
	PowerQueryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "power_query_attempts_total",
		Help:      "Power range query attempts partitioned by matched label and outcome.",
	}, []string{"label", "outcome"})
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)
