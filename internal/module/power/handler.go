package power

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerGetPower 获取最近 24 小时集群功率.
// 该接口总是返回 200, 无数据时 summary.noPrometheusData 为 true; 未配置 Prometheus 时 status 字段为 404.
// @Summary 获取集群功率时间序列
// @Description 从 Prometheus 获取 IPMI 功率数据, 依次尝试 hostname/instance/node 标签匹配集群节点, 均无结果时退回不过滤查询.
// @Tags 监控, 功率
// @Produce json
// @Success 200 {object} Result
// @Router /api/slurm/power [get]
// @Router /api/prometheus/ipmi [get]
func (rt *Router) HandlerGetPower(c *gin.Context) {
	res := rt.agg.GetPowerSeries(c.Request.Context())
	c.JSON(http.StatusOK, res)
}
