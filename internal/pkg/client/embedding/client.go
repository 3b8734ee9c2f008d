// Package embedding 调用 OpenAI 兼容的 /embeddings 接口把文本转换为向量.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/metrics"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = string(openai.AdaEmbeddingV2)
)

var ErrEmptyEmbedding = errors.New("embedding response contains no vectors")

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	api     *openai.Client
	model   openai.EmbeddingModel
	timeout time.Duration
	logger  *slog.Logger
}

// New 创建客户端. baseURL 为空时使用 OpenAI 官方地址, model 为空时使用 text-embedding-ada-002.
func New(doer Doer, baseURL, apiKey, model string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if doer == nil {
		doer = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid embedding base url %q: %w", baseURL, err)
	}

	conf := openai.DefaultConfig(apiKey)
	conf.BaseURL = strings.TrimRight(baseURL, "/")
	conf.HTTPClient = doer
	return &Client{
		api:     openai.NewClientWithConfig(conf),
		model:   openai.EmbeddingModel(model),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Embed 返回 input 的向量.
func (c *Client) Embed(ctx context.Context, input string) ([]float32, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{input},
		Model: c.model,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.logger.Error("unexpected status code from embedding endpoint", "code", apiErr.HTTPStatusCode, "msg", apiErr.Message)
		} else {
			c.logger.Error("unable to create embedding", "err", err)
		}
		metrics.UpstreamRequests.WithLabelValues("embedding", "embeddings", metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("unable to create embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		metrics.UpstreamRequests.WithLabelValues("embedding", "embeddings", metrics.OutcomeEmpty).Inc()
		return nil, ErrEmptyEmbedding
	}
	metrics.UpstreamRequests.WithLabelValues("embedding", "embeddings", metrics.OutcomeOK).Inc()
	return resp.Data[0].Embedding, nil
}
