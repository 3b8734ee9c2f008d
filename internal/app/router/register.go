package router

import "github.com/gin-gonic/gin"

// Registrar 每个模块提供一个 Register 方法, 把自己的路由挂到引擎上.
type Registrar interface{ Register(r *gin.Engine) }

// 全局注册表, 按注册顺序挂载
var registrars []Registrar

// Register 向全局注册表中注册模块, nil 会被忽略.
func Register(rs ...Registrar) {
	for _, r := range rs {
		if r != nil {
			registrars = append(registrars, r)
		}
	}
}

// Mount 挂载所有已注册模块
func Mount(r *gin.Engine) {
	for _, rg := range registrars {
		rg.Register(r)
	}
}
