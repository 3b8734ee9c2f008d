package slurm

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

type Router struct {
	nodes   *NodeAggregator
	cluster *ClusterAggregator
	raw     *Passthrough
	logger  *slog.Logger
}

func NewRouter(nodes *NodeAggregator, cluster *ClusterAggregator, raw *Passthrough, logger *slog.Logger) *Router {
	return &Router{
		nodes:   nodes,
		cluster: cluster,
		raw:     raw,
		logger:  logger,
	}
}

func (rt *Router) Register(r *gin.Engine) {
	rt.logger.Debug("register slurm router")
	api := r.Group("/api")
	g := api.Group("/slurm")
	{
		g.GET("/nodes", rt.HandlerListNodes)              // GET /api/slurm/nodes
		g.GET("/nodes/:name", rt.HandlerGetNode)          // GET /api/slurm/nodes/{name}
		g.POST("/nodes/refresh", rt.HandlerRefreshNodes)  // POST /api/slurm/nodes/refresh
		g.GET("/reservations", rt.HandlerGetReservations) // GET /api/slurm/reservations
		g.GET("/jobs/user/:id", rt.HandlerGetUserJobs)    // GET /api/slurm/jobs/user/{id}
	}
	api.GET("/cluster-status", rt.HandlerClusterStatus) // GET /api/cluster-status
}
