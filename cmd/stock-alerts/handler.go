package main

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/retailpos/internal/domain/event"
)

// alertHandler 把stock.low事件转换为补货提醒日志
type alertHandler struct {
	log *zap.Logger
}

func newAlertHandler(log *zap.Logger) *alertHandler {
	return &alertHandler{log: log}
}

// Handle 格式错误的消息直接确认丢弃，避免反复重新入队
func (h *alertHandler) Handle(_ context.Context, routingKey string, body []byte) error {
	if routingKey != event.StockLow {
		h.log.Debug("忽略非低库存事件", zap.String("routing_key", routingKey))
		return nil
	}

	var e event.StockLowEvent
	if err := json.Unmarshal(body, &e); err != nil {
		h.log.Warn("低库存事件格式错误", zap.Error(err), zap.ByteString("body", body))
		return nil
	}

	h.log.Warn("商品需要补货",
		zap.Uint("store_id", e.StoreID),
		zap.Uint("product_id", e.ProductID),
		zap.String("sku", e.SKU),
		zap.String("name", e.Name),
		zap.Int("current_stock", e.CurrentStock),
		zap.Int("reorder_level", e.ReorderLevel),
		zap.String("suggestion", suggestion(e)),
	)
	return nil
}

// suggestion 建议补到补货线的两倍
func suggestion(e event.StockLowEvent) string {
	target := e.ReorderLevel * 2
	if target <= e.CurrentStock {
		return "请检查补货线设置"
	}
	return fmt.Sprintf("建议补货%d件", target-e.CurrentStock)
}
