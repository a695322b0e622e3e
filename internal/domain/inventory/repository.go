package inventory

import "context"

// BatchRepository 库存批次仓储
type BatchRepository interface {
	Create(ctx context.Context, b *Batch) error

	// LockAvailable 锁定商品在门店内所有可分配批次（is_active且current_quantity>0）
	// 按purchase_date, created_at, id升序返回，加锁顺序与返回顺序一致
	LockAvailable(ctx context.Context, storeID, productID uint) ([]*Batch, error)

	// LockByID 行锁读取单个批次，不存在时返回ErrBatchNotFound
	LockByID(ctx context.Context, id uint) (*Batch, error)

	// Update 保存数量和有效状态
	Update(ctx context.Context, b *Batch) error

	// ListByProduct 商品的全部批次（含无效批次），FIFO顺序
	ListByProduct(ctx context.Context, storeID, productID uint) ([]*Batch, error)
}

// MovementRepository 库存流水仓储（只追加）
type MovementRepository interface {
	Create(ctx context.Context, m *Movement) error

	// ListByProduct 分页查询商品流水，按创建时间倒序
	ListByProduct(ctx context.Context, storeID, productID uint, page, pageSize int) ([]*Movement, int64, error)

	// ListByReference 查询某销售单产生的全部流水，按ID升序
	ListByReference(ctx context.Context, referenceID uint) ([]*Movement, error)
}
