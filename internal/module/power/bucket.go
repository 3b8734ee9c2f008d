package power

import (
	"math"
	"sort"
	"strings"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/prometheus"
)

// Point 某一时刻集群的总功率.
type Point struct {
	Time           int64 `json:"time"`           // unix 毫秒
	Watts          int64 `json:"watts"`          // 总功率, 四舍五入
	AverageWatts   int64 `json:"averageWatts"`   // 单节点平均功率, 四舍五入
	NodesReporting int   `json:"nodesReporting"` // 该时刻上报的序列数
}

type bucket struct {
	total float64
	count int
}

// Bucketize 按精确时间戳合并所有序列的采样点, 按时间升序返回最后 limit 个点.
// limit <= 0 时不截断. 不修改输入.
func Bucketize(series []prometheus.Series, limit int) []Point {
	buckets := make(map[int64]*bucket)
	for _, s := range series {
		for _, v := range s.Values {
			if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
				continue
			}
			b, ok := buckets[v.Time]
			if !ok {
				b = &bucket{}
				buckets[v.Time] = b
			}
			b.total += v.Value
			b.count++
		}
	}

	points := make([]Point, 0, len(buckets))
	for ts, b := range buckets {
		p := Point{Time: ts, Watts: int64(math.Round(b.total)), NodesReporting: b.count}
		if b.count > 0 {
			p.AverageWatts = int64(math.Round(b.total / float64(b.count)))
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time < points[j].Time })

	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}
	return points
}

// FilterByNodes 保留任一标签值包含某个集群节点名(子串匹配)的序列.
// 这是尽力而为的匹配, 例如 instance="n1.cluster:9290" 会匹配节点 n1.
func FilterByNodes(series []prometheus.Series, nodes []string) []prometheus.Series {
	out := make([]prometheus.Series, 0, len(series))
	for _, s := range series {
		if labelsContainAny(s.Labels, nodes) {
			out = append(out, s)
		}
	}
	return out
}

// MatchedIdentities 统计结果中 hostname/instance/node 标签的不同取值里, 有多少包含集群节点名.
func MatchedIdentities(series []prometheus.Series, nodes []string) int {
	seen := make(map[string]struct{})
	for _, s := range series {
		for _, l := range IdentityLabels {
			if v := s.Labels[l]; v != "" {
				seen[v] = struct{}{}
			}
		}
	}
	n := 0
	for v := range seen {
		if containsAny(v, nodes) {
			n++
		}
	}
	return n
}

func labelsContainAny(labels map[string]string, nodes []string) bool {
	for _, v := range labels {
		if containsAny(v, nodes) {
			return true
		}
	}
	return false
}

func containsAny(v string, nodes []string) bool {
	for _, n := range nodes {
		if n != "" && strings.Contains(v, n) {
			return true
		}
	}
	return false
}
