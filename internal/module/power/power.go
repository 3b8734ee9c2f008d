// Package power 从 Prometheus 获取 IPMI 功率数据并聚合为集群总功率时间序列.
package power

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/cache"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/prometheus"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/metrics"
)

const (
	DefaultWindow    = 24 * time.Hour
	DefaultStep      = 15 * time.Minute
	DefaultMaxPoints = 200
)

// RangeQuerier 执行 Prometheus range 查询, 通常为 *prometheus.Client.
type RangeQuerier interface {
	QueryRange(ctx context.Context, query string, r prometheus.Range) ([]prometheus.Series, error)
}

// NodeSource 提供当前集群节点名, 通常为 *cache.NodeCache.
type NodeSource interface {
	GetOrRefresh(ctx context.Context) cache.Snapshot
}

type Config struct {
	Window    time.Duration
	Step      time.Duration
	MaxPoints int
	Patterns  []QueryPattern
}

func (c *Config) setDefaults() {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.Step <= 0 {
		c.Step = DefaultStep
	}
	if c.MaxPoints <= 0 {
		c.MaxPoints = DefaultMaxPoints
	}
	if len(c.Patterns) == 0 {
		c.Patterns = DefaultPatterns
	}
}

// Summary 最新一个点的汇总及诊断信息.
type Summary struct {
	CurrentTotal       int64 `json:"currentTotal"`
	CurrentAverage     int64 `json:"currentAverage"`
	NodesReporting     int   `json:"nodesReporting"`
	NoPrometheusData   bool  `json:"noPrometheusData,omitempty"`
	ClusterSize        *int  `json:"clusterSize,omitempty"`
	UnfilteredFallback *bool `json:"unfilteredFallback,omitempty"`
	ClusterNodeMatches *int  `json:"clusterNodeMatches,omitempty"`
}

// Result 功率接口的响应体. Status 为 404 表示未配置 Prometheus.
type Result struct {
	Status  int     `json:"status"`
	Data    []Point `json:"data"`
	Summary Summary `json:"summary"`
}

func noData(status int) Result {
	return Result{
		Status:  status,
		Data:    []Point{},
		Summary: Summary{NoPrometheusData: true},
	}
}

type Aggregator struct {
	prom   RangeQuerier
	nodes  NodeSource
	conf   Config
	now    func() time.Time
	logger *slog.Logger
}

// New 创建功率聚合器. prom 为 nil 表示未配置 Prometheus, 所有请求返回无数据.
func New(prom RangeQuerier, nodes NodeSource, conf Config, logger *slog.Logger) *Aggregator {
	conf.setDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		prom:   prom,
		nodes:  nodes,
		conf:   conf,
		now:    time.Now,
		logger: logger,
	}
}

// GetPowerSeries 获取最近 Window 内按 Step 取样的集群功率.
//
// 先依次用 Patterns 中的标签匹配集群节点名, 第一个有结果的模式胜出;
// 都没有结果(或没有节点名)时退回不过滤的查询, 并按标签值子串把序列归属到集群节点.
// 任何查询错误只记录日志, 不会向调用方返回错误.
func (a *Aggregator) GetPowerSeries(ctx context.Context) Result {
	if a.prom == nil {
		return noData(http.StatusNotFound)
	}

	names := a.nodes.GetOrRefresh(ctx).Names
	if len(names) == 0 {
		a.logger.Warn("no cluster nodes found, proceeding with unfiltered power query")
	}

	end := a.now()
	r := prometheus.Range{Start: end.Add(-a.conf.Window), End: end, Step: a.conf.Step}

	var series []prometheus.Series
	if len(names) > 0 {
		series = a.queryPatterns(ctx, names, r)
	}

	fallback := false
	if len(series) == 0 {
		fallback = true
		q := FallbackQuery(a.conf.Step)
		a.logger.Info("no results with filtered power queries, trying unfiltered query", "query", q)
		res, err := a.prom.QueryRange(ctx, q, r)
		switch {
		case err != nil:
			a.logger.Error("unfiltered power query failed", "err", err, "query", q)
			metrics.PowerQueryAttempts.WithLabelValues("fallback", metrics.OutcomeError).Inc()
		case len(res) == 0:
			metrics.PowerQueryAttempts.WithLabelValues("fallback", metrics.OutcomeEmpty).Inc()
		default:
			metrics.PowerQueryAttempts.WithLabelValues("fallback", metrics.OutcomeOK).Inc()
			series = res
		}
	}
	if len(series) == 0 {
		return noData(http.StatusOK)
	}

	matches := 0
	if fallback && len(names) > 0 {
		matches = MatchedIdentities(series, names)
		a.logger.Info("matched power series to cluster nodes", "matched", matches, "series", len(series))
		series = FilterByNodes(series, names)
	}

	points := Bucketize(series, a.conf.MaxPoints)
	if len(points) == 0 {
		return noData(http.StatusOK)
	}

	last := points[len(points)-1]
	clusterSize := len(names)
	return Result{
		Status: http.StatusOK,
		Data:   points,
		Summary: Summary{
			CurrentTotal:       last.Watts,
			CurrentAverage:     last.AverageWatts,
			NodesReporting:     last.NodesReporting,
			ClusterSize:        &clusterSize,
			UnfilteredFallback: &fallback,
			ClusterNodeMatches: &matches,
		},
	}
}

func (a *Aggregator) queryPatterns(ctx context.Context, names []string, r prometheus.Range) []prometheus.Series {
	for _, p := range a.conf.Patterns {
		q := p.Query(names, a.conf.Step)
		a.logger.Debug("trying power query pattern", "label", p.Label, "query", q)

		res, err := a.prom.QueryRange(ctx, q, r)
		if err != nil {
			a.logger.Warn("power query pattern failed", "label", p.Label, "err", err)
			metrics.PowerQueryAttempts.WithLabelValues(p.Label, metrics.OutcomeError).Inc()
			continue
		}
		if len(res) == 0 {
			metrics.PowerQueryAttempts.WithLabelValues(p.Label, metrics.OutcomeEmpty).Inc()
			continue
		}
		metrics.PowerQueryAttempts.WithLabelValues(p.Label, metrics.OutcomeOK).Inc()
		a.logger.Info("found power series", "label", p.Label, "series", len(res))
		return res
	}
	return nil
}
