package sale

import "context"

// Repository 销售单仓储
type Repository interface {
	// Create 保存销售单头（不含明细），回填ID
	// 明细在库存分配完成后通过AddItems写入
	Create(ctx context.Context, s *Sale) error

	// AddItems 写入明细并回填ID
	AddItems(ctx context.Context, saleID uint, items []Item) error

	// FindByID 读取销售单及明细，不存在时返回ErrSaleNotFound
	FindByID(ctx context.Context, id uint) (*Sale, error)

	// LockByID 行锁读取销售单及明细，必须在事务内调用
	LockByID(ctx context.Context, id uint) (*Sale, error)

	// Update 保存状态与作废信息
	Update(ctx context.Context, s *Sale) error

	// FindLastNumber 门店内以prefix开头的最大单号，没有时返回空串
	// "最大"按 (长度, 字典序) 比较，序号超过9999后仍然单调
	FindLastNumber(ctx context.Context, storeID uint, prefix string) (string, error)
}
