package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/retailpos/internal/domain/event"
	"github.com/xiebiao/retailpos/internal/domain/product"
	"github.com/xiebiao/retailpos/pkg/logger"
)

// Publish 提交后发布事件，失败只记录日志
// 此时事务已提交，事件丢失不影响账务正确性
func Publish(ctx context.Context, publisher event.Publisher, routingKey string, message interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, routingKey, message); err != nil {
		logger.FromContext(ctx).Warn("领域事件发布失败",
			zap.String("routing_key", routingKey),
			zap.Error(err))
	}
}

// NotifyLowStock 重新读取提交后的商品库存，达到补货线的发布stock.low
func NotifyLowStock(ctx context.Context, publisher event.Publisher, products product.Repository, productIDs []uint) {
	if publisher == nil {
		return
	}
	for _, id := range productIDs {
		p, err := products.FindByID(ctx, id)
		if err != nil {
			logger.FromContext(ctx).Warn("读取商品库存失败", zap.Uint("product_id", id), zap.Error(err))
			continue
		}
		if !p.IsLowStock() {
			continue
		}
		Publish(ctx, publisher, event.StockLow, event.StockLowEvent{
			StoreID:      p.StoreID,
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			CurrentStock: p.CurrentStock,
			ReorderLevel: p.ReorderLevel,
			OccurredAt:   time.Now(),
		})
	}
}
