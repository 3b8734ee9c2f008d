package power

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

type Router struct {
	agg    *Aggregator
	logger *slog.Logger
}

func NewRouter(agg *Aggregator, logger *slog.Logger) *Router {
	return &Router{
		agg:    agg,
		logger: logger,
	}
}

func (rt *Router) Register(r *gin.Engine) {
	rt.logger.Debug("register power router")
	api := r.Group("/api")
	{
		api.GET("/slurm/power", rt.HandlerGetPower)     // GET /api/slurm/power
		api.GET("/prometheus/ipmi", rt.HandlerGetPower) // GET /api/prometheus/ipmi
	}
}
