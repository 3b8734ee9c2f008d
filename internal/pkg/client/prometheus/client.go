// Package prometheus 封装 Prometheus HTTP API 的 range 查询, 将结果转换为与具体库无关的 Series.
package prometheus

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/metrics"
)

// Sample is a single point of a range query result. Time is unix milliseconds.
type Sample struct {
	Time  int64
	Value float64
}

// Series is one labelled series of a range query result.
type Series struct {
	Labels map[string]string
	Values []Sample
}

// Range describes the evaluation window of a range query.
type Range struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

// Client Prometheus range 查询客户端.
type Client struct {
	api     promv1.API
	timeout time.Duration
	logger  *slog.Logger
}

// New 根据 Prometheus 地址创建客户端, 例如 http://prometheus:9090.
// rt 为 nil 时使用 promapi.DefaultRoundTripper.
func New(address string, rt http.RoundTripper, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := promapi.Config{Address: address}
	if rt != nil {
		cfg.RoundTripper = rt
	}
	c, err := promapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create prometheus client for %q: %w", address, err)
	}
	return &Client{api: promv1.NewAPI(c), timeout: timeout, logger: logger}, nil
}

// QueryRange 执行 range 查询. 非 matrix 类型的结果视为错误.
func (c *Client) QueryRange(ctx context.Context, query string, r Range) ([]Series, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	val, warnings, err := c.api.QueryRange(ctx, query, promv1.Range{Start: r.Start, End: r.End, Step: r.Step})
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("prometheus", "query_range", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("prometheus range query failed: %w", err)
	}
	for _, w := range warnings {
		c.logger.Warn("prometheus query warning", "warning", w, "query", query)
	}

	matrix, ok := val.(model.Matrix)
	if !ok {
		metrics.UpstreamRequests.WithLabelValues("prometheus", "query_range", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("unexpected prometheus result type %s", val.Type())
	}
	metrics.UpstreamRequests.WithLabelValues("prometheus", "query_range", metrics.OutcomeOK).Inc()
	return fromMatrix(matrix), nil
}

func fromMatrix(m model.Matrix) []Series {
	out := make([]Series, 0, len(m))
	for _, ss := range m {
		if ss == nil {
			continue
		}
		labels := make(map[string]string, len(ss.Metric))
		for k, v := range ss.Metric {
			labels[string(k)] = string(v)
		}
		values := make([]Sample, 0, len(ss.Values))
		for _, p := range ss.Values {
			values = append(values, Sample{Time: int64(p.Timestamp), Value: float64(p.Value)})
		}
		out = append(out, Series{Labels: labels, Values: values})
	}
	return out
}
