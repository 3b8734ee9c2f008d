package errors

import (
	"net/http"

	"github.com/go-openapi/errors"
)

// Internal 返回 500 错误, message 面向调用方, 不包含上游细节.
func Internal(message string, args ...interface{}) errors.Error {
	return errors.New(http.StatusInternalServerError, message, args...)
}

// NotFound 返回 404 错误.
func NotFound(message string, args ...interface{}) errors.Error {
	return errors.NotFound(message, args...)
}

// ServiceUnavailable 返回 503 错误, 用于未配置的可选功能.
func ServiceUnavailable(message string, args ...interface{}) errors.Error {
	return errors.New(http.StatusServiceUnavailable, message, args...)
}
