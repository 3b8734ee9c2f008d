package slurm

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/response"
	"github.com/FredHutch/slurm-node-dashboard/pkg/errors"
)

// HandlerListNodes 获取节点列表.
// @Summary 获取节点列表
// @Description 返回缓存中的节点列表(缓存 2 分钟). slurmrestd 不可用时返回空列表.
// @Tags 资源管理, 节点
// @Produce json
// @Success 200 {object} NodeListing
// @Router /api/slurm/nodes [get]
func (rt *Router) HandlerListNodes(c *gin.Context) {
	c.JSON(http.StatusOK, rt.nodes.ListNodes(c.Request.Context()))
}

// HandlerGetNode 获取单个节点详情.
// @Summary 获取单个节点详情
// @Tags 资源管理, 节点
// @Produce json
// @Param name path string true "节点名称" example("n1")
// @Success 200 {object} model.Node
// @Failure 404 {object} response.Error
// @Router /api/slurm/nodes/{name} [get]
func (rt *Router) HandlerGetNode(c *gin.Context) {
	name := c.Param("name")
	n, ok := rt.nodes.GetNode(c.Request.Context(), name)
	if !ok {
		errors.ServeError(c, errors.NotFound("node %s not found", name))
		return
	}
	c.JSON(http.StatusOK, n)
}

// HandlerRefreshNodes 使节点缓存失效并重新获取.
// @Summary 刷新节点列表
// @Tags 资源管理, 节点
// @Produce json
// @Success 200 {object} NodeListing
// @Router /api/slurm/nodes/refresh [post]
func (rt *Router) HandlerRefreshNodes(c *gin.Context) {
	c.JSON(http.StatusOK, rt.nodes.Refresh(c.Request.Context()))
}

// HandlerClusterStatus 获取各集群的节点状态, 资源利用率与作业分布.
// 作业数按节点数比例估算.
// @Summary 获取集群状态
// @Tags 资源管理, 集群
// @Produce json
// @Success 200 {object} ClusterStatus
// @Failure 500 {object} response.Error
// @Router /api/cluster-status [get]
func (rt *Router) HandlerClusterStatus(c *gin.Context) {
	status, err := rt.cluster.GetClusterStatus(c.Request.Context())
	if err != nil {
		errors.ServeError(c, errors.Internal("Failed to fetch cluster status"))
		return
	}
	response.Cached(c, "30", status)
}

// HandlerGetReservations 透传 slurmrestd 预约信息.
// @Summary 获取预约列表
// @Tags 资源管理, 预约
// @Produce json
// @Success 200 {object} object
// @Failure 500 {object} response.Error
// @Router /api/slurm/reservations [get]
func (rt *Router) HandlerGetReservations(c *gin.Context) {
	body, err := rt.raw.Reservations(c.Request.Context())
	if err != nil {
		rt.logger.Error("unable to get reservations", "err", err)
		errors.ServeError(c, errors.Internal("Failed to fetch reservations"))
		return
	}
	response.RawJSON(c, body)
}

// HandlerGetUserJobs 透传 slurmdbd 中某用户正在运行的作业.
// @Summary 获取用户运行中的作业
// @Tags 作业管理
// @Produce json
// @Param id path string true "用户名" example("alice")
// @Success 200 {object} object
// @Failure 500 {object} response.Error
// @Router /api/slurm/jobs/user/{id} [get]
func (rt *Router) HandlerGetUserJobs(c *gin.Context) {
	user := c.Param("id")
	body, err := rt.raw.UserRunningJobs(c.Request.Context(), user)
	if err != nil {
		rt.logger.Error("unable to get user jobs", "err", err, "user", user)
		errors.ServeError(c, errors.Internal("Failed to fetch jobs for user %s", user))
		return
	}
	response.RawJSON(c, body)
}
