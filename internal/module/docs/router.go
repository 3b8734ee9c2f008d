package docs

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

type Router struct {
	retriever *Retriever
	logger    *slog.Logger
}

// NewRouter retriever 为 nil 时检索接口返回 503.
func NewRouter(retriever *Retriever, logger *slog.Logger) *Router {
	return &Router{
		retriever: retriever,
		logger:    logger,
	}
}

func (rt *Router) Register(r *gin.Engine) {
	rt.logger.Debug("register docs router")
	api := r.Group("/api")
	{
		api.GET("/docs/search", rt.HandlerSearch) // GET /api/docs/search?q=
	}
}
