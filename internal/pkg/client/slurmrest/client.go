package slurmrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/slurmrest/model"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/metrics"
)

const (
	headerUserName  = "X-SLURM-USER-NAME"
	headerUserToken = "X-SLURM-USER-TOKEN"
)

// ErrMalformedPayload 表示 slurmrestd 返回的数据结构不符合预期.
var ErrMalformedPayload = errors.New("malformed slurmrestd payload")

// Doer 抽象 http.Client 的 Do 方法，便于在测试中用 mock 实现替换。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config slurmrestd 连接参数.
type Config struct {
	Protocol   string // http 或 https
	Server     string // slurmrestd 主机
	Port       int    // slurmrestd 端口, 默认 6820
	APIVersion string // 例如 v0.0.40
	Account    string // X-SLURM-USER-NAME
	Token      string // X-SLURM-USER-TOKEN
}

// BaseURL 返回形如 http://server:6820 的地址.
func (c Config) BaseURL() *url.URL {
	proto := c.Protocol
	if proto == "" {
		proto = "http"
	}
	port := c.Port
	if port == 0 {
		port = 6820
	}
	return &url.URL{Scheme: proto, Host: c.Server + ":" + strconv.Itoa(port)}
}

// Client 简单的 slurmrestd HTTP 客户端封装。
type Client struct {
	client  Doer
	conf    Config
	timeout time.Duration
	logger  *slog.Logger
}

func New(client Doer, conf Config, timeout time.Duration, logger *slog.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client:  client,
		conf:    conf,
		timeout: timeout,
		logger:  logger,
	}
}

// GetNodes 获取全部节点信息. nodes 字段缺失时返回 ErrMalformedPayload.
func (sc *Client) GetNodes(ctx context.Context) (model.Nodes, error) {
	data := struct {
		Nodes model.Nodes `json:"nodes"`
	}{}
	if err := sc.getJSON(ctx, "slurm", "nodes", nil, &data); err != nil {
		return nil, err
	}
	if data.Nodes == nil {
		sc.logger.Warn("invalid nodes data format from slurmrestd")
		return nil, fmt.Errorf("nodes: %w", ErrMalformedPayload)
	}
	return data.Nodes, nil
}

// GetJobs 获取调度器中当前全部作业. jobs 字段缺失时返回 ErrMalformedPayload.
func (sc *Client) GetJobs(ctx context.Context) (model.Jobs, error) {
	data := struct {
		Jobs model.Jobs `json:"jobs"`
	}{}
	if err := sc.getJSON(ctx, "slurm", "jobs", nil, &data); err != nil {
		return nil, err
	}
	if data.Jobs == nil {
		sc.logger.Warn("invalid jobs data format from slurmrestd")
		return nil, fmt.Errorf("jobs: %w", ErrMalformedPayload)
	}
	return data.Jobs, nil
}

// GetReservations 获取预约信息, 原样返回 slurmrestd 的响应体.
func (sc *Client) GetReservations(ctx context.Context) ([]byte, error) {
	return sc.getRaw(ctx, "slurm", "reservations", nil)
}

// GetUserRunningJobs 从 slurmdbd 获取某用户正在运行的作业, 原样返回响应体.
func (sc *Client) GetUserRunningJobs(ctx context.Context, user string) ([]byte, error) {
	q := url.Values{}
	q.Set("users", user)
	q.Set("state", "running")
	return sc.getRaw(ctx, "slurmdb", "jobs", q)
}

func (sc *Client) endpoint(plugin, resource string, q url.Values) string {
	u := sc.conf.BaseURL()
	u.Path = fmt.Sprintf("/%s/%s/%s", plugin, sc.conf.APIVersion, resource)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (sc *Client) getJSON(ctx context.Context, plugin, resource string, q url.Values, out any) error {
	body, err := sc.getRaw(ctx, plugin, resource, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		sc.logger.Error("unable to decode slurmrestd response", "err", err.Error(), "resource", resource)
		return fmt.Errorf("unable to decode slurmrestd response: %w", err)
	}
	return nil
}

func (sc *Client) getRaw(ctx context.Context, plugin, resource string, q url.Values) ([]byte, error) {
	if sc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sc.timeout)
		defer cancel()
	}

	urlStr := sc.endpoint(plugin, resource, q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		sc.logger.Error("unable to create request for slurmrestd", "err", err.Error(), "url", urlStr)
		return nil, fmt.Errorf("unable to create request for slurmrestd: %w", err)
	}
	req.Header.Set(headerUserName, sc.conf.Account)
	req.Header.Set(headerUserToken, sc.conf.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := sc.client.Do(req)
	if err != nil {
		sc.logger.Error("unable to do request for slurmrestd", "err", err.Error(), "url", urlStr)
		metrics.UpstreamRequests.WithLabelValues("slurmrestd", resource, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("unable to do request for slurmrestd: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		sc.logger.Error("unexpected status code", "code", resp.StatusCode, "url", urlStr)
		metrics.UpstreamRequests.WithLabelValues("slurmrestd", resource, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("unexpected status code from slurmrestd %s: %d", resource, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		sc.logger.Error("unable to read slurmrestd response", "err", err.Error(), "url", urlStr)
		metrics.UpstreamRequests.WithLabelValues("slurmrestd", resource, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("unable to read slurmrestd response: %w", err)
	}
	metrics.UpstreamRequests.WithLabelValues("slurmrestd", resource, metrics.OutcomeOK).Inc()
	return body, nil
}
