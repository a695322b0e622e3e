package customer

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository 客户仓储
type Repository interface {
	// Create 创建客户（主数据维护和测试数据准备使用）
	Create(ctx context.Context, c *Customer) error

	// FindByID 不存在时返回ErrCustomerNotFound
	FindByID(ctx context.Context, id uint) (*Customer, error)

	// LockByID 行锁读取，必须在事务内调用
	LockByID(ctx context.Context, id uint) (*Customer, error)

	// UpdateBalance 保存欠款余额
	UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error
}
