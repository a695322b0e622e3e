// Package router 组装Gin引擎：全局中间件、公开路由和/api/v1业务路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/retailpos/internal/interface/http/handler"
	"github.com/xiebiao/retailpos/internal/interface/http/middleware"
	"github.com/xiebiao/retailpos/pkg/response"
)

// Router 路由依赖
type Router struct {
	Log       *zap.Logger
	Auth      *middleware.AuthMiddleware
	Sales     *handler.SaleHandler
	Inventory *handler.InventoryHandler
	Session   *handler.SessionHandler
}

// New 创建Gin引擎并注册全部路由
//
//	GET  /ping
//	GET  /metrics
//	GET  /swagger/*any
//	POST /api/v1/sales
//	POST /api/v1/sales/:id/void
//	POST /api/v1/inventory/adjustments
//	GET  /api/v1/inventory/products/:id/movements
//	POST /api/v1/session/logout
func New(r Router) *gin.Engine {
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.Logger(r.Log),
		middleware.Tracing(),
		middleware.Metrics(),
	)

	engine.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := engine.Group("/api/v1")
	v1.Use(r.Auth.RequireAuth())
	{
		sales := v1.Group("/sales")
		{
			sales.POST("", r.Sales.CreateSale)
			sales.POST("/:id/void", r.Sales.VoidSale)
		}

		inventory := v1.Group("/inventory")
		{
			inventory.POST("/adjustments", r.Inventory.AdjustStock)
			inventory.GET("/products/:id/movements", r.Inventory.ListMovements)
		}

		v1.POST("/session/logout", r.Session.Logout)
	}
	return engine
}
