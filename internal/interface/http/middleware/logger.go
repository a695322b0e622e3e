package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/retailpos/pkg/logger"
)

// RequestIDHeader 请求ID头，客户端传入时沿用
const RequestIDHeader = "X-Request-ID"

// slowRequest 超过该耗时记录Warn
const slowRequest = 3 * time.Second

// Logger 请求日志中间件
// 生成请求ID并把带request_id的Logger放进请求Context，
// 用例内通过logger.FromContext取到同一个Logger
func Logger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		log := base.With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		// 认证中间件会替换请求Context里的Logger，这里用它带上user_id/store_id
		reqLog := logger.FromContext(c.Request.Context())
		if latency > slowRequest {
			reqLog.Warn("慢请求", fields...)
			return
		}
		reqLog.Info("请求完成", fields...)
	}
}
