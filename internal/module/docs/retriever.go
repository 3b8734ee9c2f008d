// Package docs 文档检索: 把问题转换为向量后在 pgvector 中查找最相似的文档片段.
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/postgres"
)

const (
	DefaultThreshold = 0.5
	DefaultLimit     = 1
)

type Embedder interface {
	Embed(ctx context.Context, input string) ([]float32, error)
}

type Store interface {
	FindRelevantContent(ctx context.Context, embedding []float32, threshold float64, limit int) ([]postgres.Match, error)
}

type Retriever struct {
	embedder  Embedder
	store     Store
	threshold float64
	limit     int
	logger    *slog.Logger
}

func NewRetriever(embedder Embedder, store Store, threshold float64, limit int, logger *slog.Logger) *Retriever {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		embedder:  embedder,
		store:     store,
		threshold: threshold,
		limit:     limit,
		logger:    logger,
	}
}

// FindRelevantContent 返回与问题相似度最高的片段, 按相似度降序. 没有足够相似的片段时返回空切片.
func (r *Retriever) FindRelevantContent(ctx context.Context, question string) ([]postgres.Match, error) {
	// 前端传来的问题中换行可能是字面量 "\n"
	input := strings.ReplaceAll(question, `\n`, " ")
	vec, err := r.embedder.Embed(ctx, input)
	if err != nil {
		r.logger.Error("unable to embed question", "err", err)
		return nil, fmt.Errorf("embed question: %w", err)
	}
	matches, err := r.store.FindRelevantContent(ctx, vec, r.threshold, r.limit)
	if err != nil {
		r.logger.Error("unable to query relevant content", "err", err)
		return nil, fmt.Errorf("query relevant content: %w", err)
	}
	r.logger.Debug("found relevant content", "matches", len(matches))
	return matches, nil
}
