package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// HealthCheck 检查一个依赖是否可用, 例如数据库连接.
type HealthCheck func(ctx context.Context) error

// New 创建 gin 引擎, 挂载 /healthz 与 /metrics. 任一 check 失败时 /healthz 返回 503.
func New(logger *slog.Logger, checks ...HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), accessLog(logger))
	r.GET("/healthz", healthz(logger, checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func healthz(logger *slog.Logger, checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				logger.Warn("health check failed", "err", err)
				c.String(http.StatusServiceUnavailable, "unhealthy")
				return
			}
		}
		c.String(http.StatusOK, "ok")
	}
}

// WithCORS 包装 handler 以允许浏览器跨域访问. origins 为空时允许任意来源.
func WithCORS(h http.Handler, origins []string) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}
	if len(origins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	} else {
		opts.AllowedOrigins = origins
	}
	return cors.New(opts).Handler(h)
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/healthz" || c.Request.URL.Path == "/metrics" {
			return
		}
		logger.Debug("request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}
