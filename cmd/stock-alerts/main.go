// stock-alerts 订阅stock.low事件，输出补货提醒
//
// 结算服务在提交后发布stock.low（库存不高于补货线），
// 本进程消费这些事件并以结构化日志输出，供告警系统采集。
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/retailpos/internal/domain/event"
	"github.com/xiebiao/retailpos/internal/infrastructure/config"
	"github.com/xiebiao/retailpos/pkg/logger"
	"github.com/xiebiao/retailpos/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zlog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
		ServiceName:  cfg.App.Name + "-stock-alerts",
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	if !cfg.MQ.Enabled {
		zlog.Fatal("未启用消息队列（mq.enabled=false）")
	}

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, cfg.MQ.AlertQueue, []string{event.StockLow})
	if err != nil {
		zlog.Fatal("创建消费者失败", zap.Error(err))
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	alerts := newAlertHandler(zlog)
	if err := consumer.Consume(logger.WithContext(ctx, zlog), alerts.Handle); err != nil {
		zlog.Fatal("消费失败", zap.Error(err))
	}
}
