package response

import (
	"net/http"

	ctime "github.com/FredHutch/slurm-node-dashboard/internal/pkg/common/time"

	"github.com/gin-gonic/gin"
)

// Error 不可恢复错误时返回的响应体.
type Error struct {
	Error     string     `json:"error"`
	Timestamp ctime.Time `json:"timestamp" swaggertype:"string"`
}

// NewError builds an Error stamped with the current time.
func NewError(msg string) Error {
	return Error{Error: msg, Timestamp: ctime.Now()}
}

// Cached 写出 JSON 并设置共享缓存的 Cache-Control 头.
func Cached(c *gin.Context, maxAge string, v any) {
	c.Header("Cache-Control", "public, max-age="+maxAge+", s-maxage="+maxAge)
	c.JSON(http.StatusOK, v)
}

// RawJSON 原样写出上游返回的 JSON.
func RawJSON(c *gin.Context, body []byte) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
