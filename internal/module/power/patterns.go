package power

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MetricIPMIPower IPMI exporter 的功率指标.
	MetricIPMIPower = "ipmi_power_watts"
	// MetricDCMIPower 部分厂商只通过 DCMI 上报功率.
	MetricDCMIPower = "ipmi_dcmi_power_consumption_watts"
	// SensorMatcher 只取整机功耗传感器.
	SensorMatcher = `name="Pwr Consumption"`
)

// QueryPattern 用某个标签匹配集群节点名的查询模板.
// 不同部署中 IPMI exporter 把主机名放在不同的标签里, 因此按顺序逐个尝试.
type QueryPattern struct {
	Label string
}

// Query 构造 avg_over_time(ipmi_power_watts{name="Pwr Consumption", <label>=~"n1|n2"}[window]).
func (p QueryPattern) Query(nodes []string, window time.Duration) string {
	return fmt.Sprintf(`avg_over_time(%s{%s, %s=~"%s"}[%s])`,
		MetricIPMIPower, SensorMatcher, p.Label, strings.Join(nodes, "|"), promDuration(window))
}

// DefaultPatterns 按优先级排列: hostname, instance, node. 新的标签约定追加到末尾即可.
var DefaultPatterns = []QueryPattern{
	{Label: "hostname"},
	{Label: "instance"},
	{Label: "node"},
}

// IdentityLabels 结果中可能携带节点名的标签.
var IdentityLabels = []string{"hostname", "instance", "node"}

// FallbackQuery 不按节点过滤的查询, 同时覆盖 IPMI 与 DCMI 两种指标.
// 对表达式求 avg_over_time 需要子查询语法 [window:].
func FallbackQuery(window time.Duration) string {
	return fmt.Sprintf(`avg_over_time((%s{%s} or %s)[%s:])`,
		MetricIPMIPower, SensorMatcher, MetricDCMIPower, promDuration(window))
}

// promDuration 以 Prometheus 的时长格式输出, 例如 15m, 1h, 90s.
func promDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "15m"
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	case d%time.Second == 0:
		return fmt.Sprintf("%ds", d/time.Second)
	default:
		return fmt.Sprintf("%dms", d/time.Millisecond)
	}
}
