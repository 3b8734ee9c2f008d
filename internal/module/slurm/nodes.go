package slurm

import (
	"context"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/cache"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/slurmrest/model"
	ctime "github.com/FredHutch/slurm-node-dashboard/internal/pkg/common/time"
)

// NodeSource 节点缓存, 通常为 *cache.NodeCache.
type NodeSource interface {
	GetOrRefresh(ctx context.Context) cache.Snapshot
	Invalidate()
}

// NodeListing 节点列表接口的响应体.
type NodeListing struct {
	Nodes      model.Nodes       `json:"nodes"`
	LastUpdate ctime.EpochMillis `json:"last_update"`
}

type NodeAggregator struct {
	nodes NodeSource
}

func NewNodeAggregator(nodes NodeSource) *NodeAggregator {
	return &NodeAggregator{nodes: nodes}
}

// ListNodes 返回缓存中节点列表的深拷贝. 获取失败时返回空列表, 不返回错误.
func (a *NodeAggregator) ListNodes(ctx context.Context) NodeListing {
	snap := a.nodes.GetOrRefresh(ctx)
	return NodeListing{
		Nodes:      snap.Nodes.Clone(),
		LastUpdate: ctime.Millis(snap.Timestamp),
	}
}

// GetNode 按名称查找节点, 不存在时第二个返回值为 false.
func (a *NodeAggregator) GetNode(ctx context.Context, name string) (*model.Node, bool) {
	for _, n := range a.nodes.GetOrRefresh(ctx).Nodes {
		if n != nil && n.Name == name {
			return n.Clone(), true
		}
	}
	return nil, false
}

// Refresh 使缓存失效后重新获取.
func (a *NodeAggregator) Refresh(ctx context.Context) NodeListing {
	a.nodes.Invalidate()
	return a.ListNodes(ctx)
}
