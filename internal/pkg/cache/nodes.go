// Package cache 提供节点列表的进程级缓存.
//
// 缓存只有一个条目, 刷新时整体替换, 不在原地修改. 默认情况下并发的过期读取
// 可能各自触发一次刷新(后写者生效); 开启 WithSingleFlight 后同一时刻只有一次刷新.
package cache

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/slurmrest/model"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/metrics"
)

// DefaultTTL 节点列表缓存的有效期.
const DefaultTTL = 2 * time.Minute

const refreshKey = "nodes"

// Fetcher 获取节点列表, 通常为 *slurmrest.Client.
type Fetcher interface {
	GetNodes(ctx context.Context) (model.Nodes, error)
}

// Snapshot 某一时刻的节点列表. 缓存返回的 Snapshot 为只读, 调用方需要修改时先 Clone.
type Snapshot struct {
	Nodes     model.Nodes
	Names     []string
	Timestamp time.Time
}

// NodeCache 缓存最近一次成功获取的节点列表.
type NodeCache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger

	entry atomic.Pointer[Snapshot]

	singleFlight bool
	group        singleflight.Group
}

type Option func(*NodeCache)

// WithClock 替换时间来源, 仅用于测试.
func WithClock(now func() time.Time) Option {
	return func(c *NodeCache) { c.now = now }
}

// WithSingleFlight 合并并发的刷新请求.
func WithSingleFlight(enabled bool) Option {
	return func(c *NodeCache) { c.singleFlight = enabled }
}

func New(fetcher Fetcher, ttl time.Duration, logger *slog.Logger, opts ...Option) *NodeCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &NodeCache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
	for _, o := range opts {
		o(c)
	}
	c.entry.Store(&Snapshot{})
	return c
}

// Fresh 返回仍在有效期内且非空的缓存条目.
func (c *NodeCache) Fresh() (Snapshot, bool) {
	s := c.entry.Load()
	if len(s.Nodes) > 0 && c.now().Sub(s.Timestamp) < c.ttl {
		return *s, true
	}
	return Snapshot{}, false
}

// GetOrRefresh 返回缓存的节点列表, 过期或为空时向 slurmrestd 重新获取.
// 获取失败时不返回错误: 记录日志并返回空列表与当前时间, 缓存保持不变.
func (c *NodeCache) GetOrRefresh(ctx context.Context) Snapshot {
	if s, ok := c.Fresh(); ok {
		c.logger.Debug("using cached cluster nodes list", "nodes", len(s.Nodes))
		metrics.NodeCacheLookups.WithLabelValues("hit").Inc()
		return s
	}

	if !c.singleFlight {
		return c.refresh(ctx)
	}

	// 共享的刷新不受发起者取消的影响, 超时由 slurmrestd 客户端控制
	v, _, shared := c.group.Do(refreshKey, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx)), nil
	})
	if shared {
		metrics.NodeCacheLookups.WithLabelValues("coalesced").Inc()
	}
	return v.(Snapshot)
}

// Invalidate 将缓存时间戳重置为 unix 纪元, 下一次 GetOrRefresh 必定刷新.
func (c *NodeCache) Invalidate() {
	old := c.entry.Load()
	c.entry.Store(&Snapshot{Nodes: old.Nodes, Names: old.Names, Timestamp: time.Unix(0, 0)})
	c.logger.Debug("cluster nodes cache invalidated")
}

func (c *NodeCache) refresh(ctx context.Context) Snapshot {
	now := c.now()
	nodes, err := c.fetcher.GetNodes(ctx)
	if err != nil {
		c.logger.Error("unable to fetch cluster nodes", "err", err)
		metrics.NodeCacheLookups.WithLabelValues("error").Inc()
		return Snapshot{Nodes: model.Nodes{}, Names: []string{}, Timestamp: now}
	}

	s := &Snapshot{
		Nodes:     nodes.Clone(),
		Names:     nodes.Names(),
		Timestamp: now,
	}
	c.entry.Store(s)
	metrics.NodeCacheLookups.WithLabelValues("refresh").Inc()
	c.logger.Info("refreshed cluster nodes list", "nodes", len(s.Names))
	return *s
}
