package store

import "context"

// Repository 门店仓储
type Repository interface {
	// Create 创建门店（主数据维护和测试数据准备使用）
	Create(ctx context.Context, s *Store) error

	// FindByID 不存在时返回ErrStoreNotFound
	FindByID(ctx context.Context, id uint) (*Store, error)

	// LockByID 行锁读取（SELECT ... FOR UPDATE），必须在事务内调用
	LockByID(ctx context.Context, id uint) (*Store, error)
}
