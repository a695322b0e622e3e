// Package logger 基于zap的结构化日志
//
// 使用方式：
//
//	log, err := logger.New(cfg.Log)
//	ctx = logger.WithContext(ctx, log.With(zap.String("request_id", id)))
//	logger.FromContext(ctx).Info("销售单已结算", zap.String("sale_no", no))
package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志配置（与config.LogConfig字段对应）
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
	ServiceName  string
}

type contextKey struct{}

var global = zap.NewNop()

// New 根据配置创建Logger，并替换zap全局Logger
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Format == "json" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cfg.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))
	cfg.DisableCaller = !opts.EnableCaller
	if opts.Output != "" {
		cfg.OutputPaths = []string{opts.Output}
	}

	log, err := cfg.Build(zap.Fields(zap.String("service", opts.ServiceName)))
	if err != nil {
		return nil, err
	}

	global = log
	zap.ReplaceGlobals(log)
	return log, nil
}

// L 返回全局Logger（未初始化时为Nop）
func L() *zap.Logger {
	return global
}

// WithContext 将Logger写入Context
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext 从Context读取Logger，不存在时返回全局Logger
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(contextKey{}).(*zap.Logger); ok {
		return log
	}
	return global
}

// Sync 刷新缓冲区（程序退出前调用）
func Sync() {
	// stdout/stderr在部分平台Sync会返回EINVAL，忽略
	_ = global.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
