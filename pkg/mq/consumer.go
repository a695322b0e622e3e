package mq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xiebiao/retailpos/pkg/logger"
)

// Consumer RabbitMQ消息消费者
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewConsumer 声明持久化队列并按routing key绑定到Exchange
//
//	consumer, err := mq.NewConsumer(url, "retailpos.events", "topic", "stock.alerts", []string{"stock.low"})
func NewConsumer(url, exchange, exchangeType, queue string, routingKeys []string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	cleanup := func() {
		channel.Close()
		conn.Close()
	}

	if err := declareExchange(channel, exchange, exchangeType); err != nil {
		cleanup()
		return nil, err
	}

	q, err := channel.QueueDeclare(
		queue,
		true,  // Durable
		false, // AutoDelete
		false, // Exclusive
		false, // NoWait
		nil,
	)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}

	for _, key := range routingKeys {
		if err := channel.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			cleanup()
			return nil, fmt.Errorf("绑定Queue失败(%s): %w", key, err)
		}
	}

	logger.L().Info("消息消费者已创建",
		zap.String("queue", q.Name),
		zap.Strings("routing_keys", routingKeys),
	)

	return &Consumer{conn: conn, channel: channel, queue: q.Name}, nil
}

// Handler 处理单条消息，返回error时消息重新入队
type Handler func(ctx context.Context, routingKey string, body []byte) error

// Consume 阻塞消费直到ctx取消
// 手动确认，Prefetch=1保证同一消费者串行处理
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // Consumer标签（自动生成）
		false, // AutoAck
		false, // Exclusive
		false, // NoLocal
		false, // NoWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	log := logger.FromContext(ctx).With(zap.String("queue", c.queue))
	log.Info("开始消费消息")

	for {
		select {
		case <-ctx.Done():
			log.Info("消费者退出")
			return nil

		case msg, ok := <-msgs:
			if !ok {
				return errors.New("消息Channel已关闭")
			}

			if err := handler(ctx, msg.RoutingKey, msg.Body); err != nil {
				log.Warn("消息处理失败，重新入队",
					zap.String("routing_key", msg.RoutingKey),
					zap.Error(err),
				)
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}

// Close 关闭Channel和连接
func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
