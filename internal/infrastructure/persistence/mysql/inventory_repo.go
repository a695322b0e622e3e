package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/retailpos/internal/domain/inventory"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

// fifoOrder 批次分配顺序，也是加锁顺序
const fifoOrder = "purchase_date ASC, created_at ASC, id ASC"

type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository 创建库存批次仓储
func NewBatchRepository(db *gorm.DB) inventory.BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(ctx context.Context, b *inventory.Batch) error {
	model := toBatchModel(b)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建库存批次失败")
	}
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// LockAvailable 按FIFO顺序锁定可分配批次
// SELECT ... WHERE store_id = ? AND product_id = ? AND is_active AND current_quantity > 0
// ORDER BY purchase_date, created_at, id FOR UPDATE
func (r *batchRepository) LockAvailable(ctx context.Context, storeID, productID uint) ([]*inventory.Batch, error) {
	var models []BatchModel
	err := getDB(ctx, r.db).
		Clauses(forUpdate).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Where("is_active = ? AND current_quantity > 0", true).
		Order(fifoOrder).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "锁定库存批次失败")
	}
	return toBatchEntities(models), nil
}

func (r *batchRepository) LockByID(ctx context.Context, id uint) (*inventory.Batch, error) {
	var model BatchModel
	if err := getDB(ctx, r.db).Clauses(forUpdate).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, inventory.ErrBatchNotFound
		}
		return nil, apperrors.Wrap(err, "锁定库存批次失败")
	}
	return toBatchEntity(&model), nil
}

// Update 只更新数量和状态，入库信息不可修改
func (r *batchRepository) Update(ctx context.Context, b *inventory.Batch) error {
	result := getDB(ctx, r.db).Model(&BatchModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"current_quantity": b.CurrentQuantity,
			"is_active":        b.IsActive,
			"updated_at":       b.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存批次失败")
	}
	if result.RowsAffected == 0 {
		return inventory.ErrBatchNotFound
	}
	return nil
}

func (r *batchRepository) ListByProduct(ctx context.Context, storeID, productID uint) ([]*inventory.Batch, error) {
	var models []BatchModel
	err := getDB(ctx, r.db).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Order(fifoOrder).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询库存批次失败")
	}
	return toBatchEntities(models), nil
}

type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository 创建库存流水仓储
func NewMovementRepository(db *gorm.DB) inventory.MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) Create(ctx context.Context, m *inventory.Movement) error {
	model := &MovementModel{
		StoreID:     m.StoreID,
		ProductID:   m.ProductID,
		BatchID:     m.BatchID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		ReferenceID: m.ReferenceID,
		UserID:      m.UserID,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "记录库存流水失败")
	}
	m.ID = model.ID
	m.CreatedAt = model.CreatedAt
	return nil
}

func (r *movementRepository) ListByProduct(ctx context.Context, storeID, productID uint, page, pageSize int) ([]*inventory.Movement, int64, error) {
	var (
		models []MovementModel
		total  int64
	)

	query := getDB(ctx, r.db).Model(&MovementModel{}).
		Where("store_id = ? AND product_id = ?", storeID, productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存流水总数失败")
	}

	err := query.Order("created_at DESC, id DESC").
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询库存流水失败")
	}
	return toMovementEntities(models), total, nil
}

func (r *movementRepository) ListByReference(ctx context.Context, referenceID uint) ([]*inventory.Movement, error) {
	var models []MovementModel
	if err := getDB(ctx, r.db).Where("reference_id = ?", referenceID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询库存流水失败")
	}
	return toMovementEntities(models), nil
}

func toBatchModel(b *inventory.Batch) *BatchModel {
	return &BatchModel{
		ID:              b.ID,
		ProductID:       b.ProductID,
		StoreID:         b.StoreID,
		InitialQuantity: b.InitialQuantity,
		CurrentQuantity: b.CurrentQuantity,
		UnitCost:        b.UnitCost,
		PurchaseDate:    b.PurchaseDate,
		IsActive:        b.IsActive,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBatchEntity(m *BatchModel) *inventory.Batch {
	return &inventory.Batch{
		ID:              m.ID,
		ProductID:       m.ProductID,
		StoreID:         m.StoreID,
		InitialQuantity: m.InitialQuantity,
		CurrentQuantity: m.CurrentQuantity,
		UnitCost:        m.UnitCost,
		PurchaseDate:    m.PurchaseDate,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toBatchEntities(models []BatchModel) []*inventory.Batch {
	batches := make([]*inventory.Batch, len(models))
	for i := range models {
		batches[i] = toBatchEntity(&models[i])
	}
	return batches
}

func toMovementEntities(models []MovementModel) []*inventory.Movement {
	movements := make([]*inventory.Movement, len(models))
	for i, m := range models {
		movements[i] = &inventory.Movement{
			ID:          m.ID,
			StoreID:     m.StoreID,
			ProductID:   m.ProductID,
			BatchID:     m.BatchID,
			Type:        inventory.MovementType(m.Type),
			Quantity:    m.Quantity,
			ReferenceID: m.ReferenceID,
			UserID:      m.UserID,
			Notes:       m.Notes,
			CreatedAt:   m.CreatedAt,
		}
	}
	return movements
}
