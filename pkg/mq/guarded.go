package mq

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/retailpos/pkg/circuitbreaker"
	"github.com/xiebiao/retailpos/pkg/logger"
	"github.com/xiebiao/retailpos/pkg/metrics"
)

// Sender 底层发送者（*Publisher实现）
type Sender interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// GuardedPublisher 熔断器保护的发布者
//
// 代理连续失败后熔断，后续事件直接丢弃并计数，
// 调用方（结算用例）不会被不可用的代理拖慢。
type GuardedPublisher struct {
	sender  Sender
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedPublisher 创建熔断保护的发布者，并把熔断器状态导出为指标
func NewGuardedPublisher(sender Sender, breaker *circuitbreaker.CircuitBreaker) *GuardedPublisher {
	name := breaker.Name()
	metrics.InitMetrics()
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(breaker.State()))

	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		logger.L().Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	})

	return &GuardedPublisher{sender: sender, breaker: breaker}
}

// Publish 发布事件；熔断时返回circuitbreaker.ErrOpenState
func (g *GuardedPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	err := g.breaker.Execute(func() error {
		return g.sender.Publish(ctx, routingKey, message)
	})

	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": g.breaker.Name(), "result": result})
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{"routing_key": routingKey, "result": result})

	return err
}

// NopPublisher 未配置消息队列时使用，丢弃所有事件
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
