package errors

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/errors"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/response"
)

var DefaultHTTPCode = http.StatusInternalServerError

func flattenComposite(errs *errors.CompositeError) *errors.CompositeError {
	var res []error
	for _, er := range errs.Errors {
		switch e := er.(type) {
		case *errors.CompositeError:
			if e != nil && len(e.Errors) > 0 {
				flat := flattenComposite(e)
				if len(flat.Errors) > 0 {
					res = append(res, flat.Errors...)
				}
			}
		default:
			if e != nil {
				res = append(res, e)
			}
		}
	}
	return errors.CompositeValidationError(res...)
}

// ServeError 以 {error, timestamp} 形式写出错误并终止后续处理.
// 携带 HTTP 状态码的 go-openapi 错误使用其状态码, 其余一律返回 500.
func ServeError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *errors.CompositeError:
		er := flattenComposite(e)
		// strips composite errors to first element only
		if len(er.Errors) > 0 {
			ServeError(c, er.Errors[0])
		} else {
			ServeError(c, nil)
		}
	case errors.Error:
		value := reflect.ValueOf(e)
		if value.Kind() == reflect.Ptr && value.IsNil() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.NewError("Unknown error"))
			return
		}
		c.AbortWithStatusJSON(asHTTPCode(int(e.Code())), response.NewError(e.Error()))
	case nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.NewError("Unknown error"))
	default:
		c.AbortWithStatusJSON(DefaultHTTPCode, response.NewError(err.Error()))
	}
}

const maximumValidHTTPCode = 600

func asHTTPCode(input int) int {
	if input < 100 || input >= maximumValidHTTPCode {
		return DefaultHTTPCode
	}
	return input
}
