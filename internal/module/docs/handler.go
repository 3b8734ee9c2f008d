package docs

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/errors"

	apierrors "github.com/FredHutch/slurm-node-dashboard/pkg/errors"
)

// HandlerSearch 检索与问题最相关的文档片段.
// @Summary 文档检索
// @Description 将问题转换为向量, 返回余弦相似度大于阈值的文档片段.
// @Tags 文档
// @Produce json
// @Param q query string true "问题" example("how do I request a gpu")
// @Success 200 {array} postgres.Match
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /api/docs/search [get]
func (rt *Router) HandlerSearch(c *gin.Context) {
	if rt.retriever == nil {
		apierrors.ServeError(c, apierrors.ServiceUnavailable("Document search is not configured"))
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		apierrors.ServeError(c, errors.New(http.StatusBadRequest, "missing query parameter q"))
		return
	}
	matches, err := rt.retriever.FindRelevantContent(c.Request.Context(), q)
	if err != nil {
		apierrors.ServeError(c, apierrors.Internal("Failed to search documents"))
		return
	}
	c.JSON(http.StatusOK, matches)
}
