package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, err error) (int, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	ServeError(c, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestServeError(t *testing.T) {
	code, body := serve(t, stderrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "boom", body["error"])
	assert.NotEmpty(t, body["timestamp"])

	code, body = serve(t, NotFound("node %s not found", "n9"))
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "node n9 not found", body["error"])

	code, _ = serve(t, errors.CompositeValidationError(errors.CompositeValidationError(ServiceUnavailable("off"))))
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, body = serve(t, nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Unknown error", body["error"])
}
