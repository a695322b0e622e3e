// Package event 结算相关的领域事件
//
// 事件在事务提交之后发布，只用于通知（补货提醒、报表刷新等），
// 发布失败不会回滚已提交的结算。
package event

import (
	"context"
	"time"
)

// 路由键（RabbitMQ topic exchange）
const (
	SaleCreated   = "sale.created"
	SaleVoided    = "sale.voided"
	StockAdjusted = "stock.adjusted"
	StockLow      = "stock.low"
)

// Publisher 事件发布者（mq.GuardedPublisher / mq.NopPublisher实现）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// SaleEvent sale.created / sale.voided
type SaleEvent struct {
	SaleID        uint      `json:"sale_id"`
	StoreID       uint      `json:"store_id"`
	SaleNumber    string    `json:"sale_number"`
	CustomerID    *uint     `json:"customer_id,omitempty"`
	TotalAmount   string    `json:"total_amount"`
	CreditAmount  string    `json:"credit_amount"`
	PaymentMethod string    `json:"payment_method"`
	UserID        uint      `json:"user_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// StockAdjustedEvent stock.adjusted
type StockAdjustedEvent struct {
	StoreID      uint      `json:"store_id"`
	ProductID    uint      `json:"product_id"`
	MovementType string    `json:"movement_type"`
	Quantity     int       `json:"quantity"` // 带符号
	CurrentStock int       `json:"current_stock"`
	UserID       uint      `json:"user_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// StockLowEvent stock.low：提交后库存不高于补货线
type StockLowEvent struct {
	StoreID      uint      `json:"store_id"`
	ProductID    uint      `json:"product_id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	CurrentStock int       `json:"current_stock"`
	ReorderLevel int       `json:"reorder_level"`
	OccurredAt   time.Time `json:"occurred_at"`
}
