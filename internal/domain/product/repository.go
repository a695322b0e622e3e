package product

import "context"

// Repository 商品仓储
type Repository interface {
	// Create 创建商品（主数据维护和测试数据准备使用）
	Create(ctx context.Context, p *Product) error

	// FindByID 不存在时返回ErrProductNotFound
	FindByID(ctx context.Context, id uint) (*Product, error)

	// LockByID 行锁读取（SELECT ... FOR UPDATE），必须在事务内调用
	// 同一事务锁定多个商品时，调用方必须按ID升序加锁
	LockByID(ctx context.Context, id uint) (*Product, error)

	// UpdateStock 原子增减汇总库存（delta为负表示扣减）
	// 结果为负时返回ErrInsufficientStock，不做修改
	UpdateStock(ctx context.Context, id uint, delta int) error
}
