package slurm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/slurmrest"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/slurmrest/model"
	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/common/slurm"
	ctime "github.com/FredHutch/slurm-node-dashboard/internal/pkg/common/time"
)

// UnknownCluster 无法归类的节点所在的集群.
const UnknownCluster = "Unknown"

// ClusterRule 主机名或分区名包含任一子串时, 节点归入 Name 集群.
type ClusterRule struct {
	Name       string
	Substrings []string
}

func (r ClusterRule) match(v string) bool {
	for _, s := range r.Substrings {
		if s != "" && strings.Contains(v, s) {
			return true
		}
	}
	return false
}

// DefaultRules 按顺序匹配, 先匹配者生效.
var DefaultRules = []ClusterRule{
	{Name: "Sol", Substrings: []string{"sol", "gpu"}},
	{Name: "Phoenix", Substrings: []string{"phx", "phoenix"}},
}

// ParseRule 解析 "Name=sub1,sub2" 形式的规则.
func ParseRule(s string) (ClusterRule, error) {
	name, subs, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return ClusterRule{}, fmt.Errorf("invalid cluster rule %q, want Name=sub1,sub2", s)
	}
	var r ClusterRule
	r.Name = name
	for _, sub := range strings.Split(subs, ",") {
		if sub = strings.TrimSpace(sub); sub != "" {
			r.Substrings = append(r.Substrings, sub)
		}
	}
	if len(r.Substrings) == 0 {
		return ClusterRule{}, fmt.Errorf("cluster rule %q has no substrings", s)
	}
	return r, nil
}

// Classify 先用主机名匹配全部规则, 再用分区名匹配, 都不匹配时归入 Unknown.
func Classify(n *model.Node, rules []ClusterRule) string {
	if n.Hostname != "" {
		for _, r := range rules {
			if r.match(n.Hostname) {
				return r.Name
			}
		}
	}
	for _, r := range rules {
		for _, p := range n.Partitions {
			if r.match(p) {
				return r.Name
			}
		}
	}
	return UnknownCluster
}

type Resources struct {
	TotalCPUs       int64 `json:"totalCpus"`
	AllocatedCPUs   int64 `json:"allocatedCpus"`
	TotalMemory     int64 `json:"totalMemory"`     // MB
	AllocatedMemory int64 `json:"allocatedMemory"` // MB
}

// ClusterStats 单个集群的汇总. Jobs 按节点数比例从全局作业数估算, 并非精确值.
type ClusterStats struct {
	Name        string           `json:"name"`
	TotalNodes  int              `json:"totalNodes"`
	Utilization int              `json:"utilization"` // 0-100
	NodeStates  slurm.NodeStates `json:"nodeStates"`
	Jobs        slurm.JobCounts  `json:"jobs"`
	Resources   Resources        `json:"resources"`
}

type ClusterSummary struct {
	TotalNodes         int `json:"totalNodes"`
	TotalJobs          int `json:"totalJobs"`
	AverageUtilization int `json:"averageUtilization"`
}

type ClusterStatus struct {
	Timestamp ctime.Time     `json:"timestamp" swaggertype:"string"`
	Clusters  []ClusterStats `json:"clusters"`
	Summary   ClusterSummary `json:"summary"`
}

// Utilization returns round(allocated/total*100), or 0 when total is 0.
func Utilization(total, allocated int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(allocated) / float64(total) * 100))
}

// BuildClusterStatus 按规则把节点分组并汇总, 结果按集群名排序.
func BuildClusterStatus(nodes model.Nodes, jobs model.Jobs, rules []ClusterRule, now time.Time) ClusterStatus {
	groups := make(map[string][]*model.Node)
	total := 0
	for _, n := range nodes {
		if n == nil {
			continue
		}
		name := Classify(n, rules)
		groups[name] = append(groups[name], n)
		total++
	}

	counts := slurm.CountJobs(jobs)
	status := ClusterStatus{
		Timestamp: ctime.Time(now),
		Clusters:  make([]ClusterStats, 0, len(groups)),
	}

	utilSum := 0
	for name, members := range groups {
		cs := ClusterStats{Name: name, TotalNodes: len(members)}
		for _, n := range members {
			cs.NodeStates.Add(n.State)
			cs.Resources.TotalCPUs += int64(n.CPUs)
			cs.Resources.AllocatedCPUs += int64(n.AllocCPUs)
			cs.Resources.TotalMemory += int64(n.RealMemory)
			cs.Resources.AllocatedMemory += int64(n.AllocMemory)
		}
		cs.Utilization = Utilization(cs.Resources.TotalCPUs, cs.Resources.AllocatedCPUs)

		share := float64(len(members)) / float64(total)
		cs.Jobs.Running = int(math.Round(float64(counts.Running) * share))
		cs.Jobs.Pending = int(math.Round(float64(counts.Pending) * share))

		status.Clusters = append(status.Clusters, cs)
		status.Summary.TotalNodes += cs.TotalNodes
		utilSum += cs.Utilization
	}
	sort.Slice(status.Clusters, func(i, j int) bool {
		return status.Clusters[i].Name < status.Clusters[j].Name
	})

	status.Summary.TotalJobs = counts.Running + counts.Pending
	if len(status.Clusters) > 0 {
		status.Summary.AverageUtilization = int(math.Round(float64(utilSum) / float64(len(status.Clusters))))
	}
	return status
}

// ClusterSource 获取节点与作业, 通常为 *slurmrest.Client.
type ClusterSource interface {
	GetNodes(ctx context.Context) (model.Nodes, error)
	GetJobs(ctx context.Context) (model.Jobs, error)
}

type ClusterAggregator struct {
	source ClusterSource
	rules  []ClusterRule
	now    func() time.Time
	logger *slog.Logger
}

func NewClusterAggregator(source ClusterSource, rules []ClusterRule, logger *slog.Logger) *ClusterAggregator {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ClusterAggregator{
		source: source,
		rules:  rules,
		now:    time.Now,
		logger: logger,
	}
}

// GetClusterStatus 并发获取节点和作业, 任意一个失败则整体失败, 不返回部分结果.
// 响应中缺少 nodes 或 jobs 数组时按空列表处理.
func (a *ClusterAggregator) GetClusterStatus(ctx context.Context) (ClusterStatus, error) {
	var (
		nodes model.Nodes
		jobs  model.Jobs
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nodes, err = a.source.GetNodes(gctx)
		if errors.Is(err, slurmrest.ErrMalformedPayload) {
			a.logger.Warn("nodes missing from slurmrestd response, using empty list")
			nodes, err = model.Nodes{}, nil
		}
		if err != nil {
			return fmt.Errorf("fetch nodes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		jobs, err = a.source.GetJobs(gctx)
		if errors.Is(err, slurmrest.ErrMalformedPayload) {
			a.logger.Warn("jobs missing from slurmrestd response, using empty list")
			jobs, err = model.Jobs{}, nil
		}
		if err != nil {
			return fmt.Errorf("fetch jobs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		a.logger.Error("unable to fetch cluster status", "err", err)
		return ClusterStatus{}, err
	}
	return BuildClusterStatus(nodes, jobs, a.rules, a.now()), nil
}
