package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/retailpos/internal/domain/product"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

// productRepository 商品仓储
// 只暴露库存相关的读写，商品主数据维护不在本服务
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := &ProductModel{
		StoreID:      p.StoreID,
		SKU:          p.SKU,
		Name:         p.Name,
		CurrentStock: p.CurrentStock,
		CostPrice:    p.CostPrice,
		RetailPrice:  p.RetailPrice,
		ReorderLevel: p.ReorderLevel,
		IsActive:     p.IsActive,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建商品失败")
	}
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.find(getDB(ctx, r.db), id)
}

// LockByID 悲观锁查询商品
// SELECT * FROM products WHERE id = ? FOR UPDATE
func (r *productRepository) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.find(getDB(ctx, r.db).Clauses(forUpdate), id)
}

// UpdateStock 原子更新汇总库存
// UPDATE products SET current_stock = current_stock + ? WHERE id = ? AND current_stock + ? >= 0
func (r *productRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&ProductModel{}).
		Where("id = ?", id).
		Where("current_stock + ? >= 0", delta).
		Update("current_stock", gorm.Expr("current_stock + ?", delta))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 商品不存在或库存不足，再查一次确定原因
		p, err := r.find(db, id)
		if err != nil {
			return err
		}
		return product.NewInsufficientStockError(p, -delta)
	}
	return nil
}

func (r *productRepository) find(db *gorm.DB, id uint) (*product.Product, error) {
	var model ProductModel
	if err := db.First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}
	return toProductEntity(&model), nil
}

func toProductEntity(m *ProductModel) *product.Product {
	return &product.Product{
		ID:           m.ID,
		StoreID:      m.StoreID,
		SKU:          m.SKU,
		Name:         m.Name,
		CurrentStock: m.CurrentStock,
		CostPrice:    m.CostPrice,
		RetailPrice:  m.RetailPrice,
		ReorderLevel: m.ReorderLevel,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
