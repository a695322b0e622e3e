package memory

import (
	"context"
	"time"

	"github.com/xiebiao/retailpos/internal/domain/product"
)

type productRepository struct {
	db *DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *DB) product.Repository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	return r.db.do(ctx, func(t *tables) error {
		now := time.Now()
		p.ID = t.nextID("products")
		p.CreatedAt, p.UpdatedAt = now, now
		t.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var found *product.Product
	err := r.db.do(ctx, func(t *tables) error {
		p, ok := t.products[id]
		if !ok {
			return product.ErrProductNotFound
		}
		found = copyProduct(p)
		return nil
	})
	return found, err
}

func (r *productRepository) LockByID(ctx context.Context, id uint) (*product.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *productRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	return r.db.do(ctx, func(t *tables) error {
		p, ok := t.products[id]
		if !ok {
			return product.ErrProductNotFound
		}
		if p.CurrentStock+delta < 0 {
			return product.NewInsufficientStockError(p, -delta)
		}
		p.CurrentStock += delta
		p.UpdatedAt = time.Now()
		return nil
	})
}
