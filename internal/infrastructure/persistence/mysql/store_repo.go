package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/retailpos/internal/domain/store"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建门店仓储
func NewStoreRepository(db *gorm.DB) store.Repository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(ctx context.Context, s *store.Store) error {
	model := &StoreModel{
		Name:       s.Name,
		TaxEnabled: s.TaxEnabled,
		TaxRate:    s.TaxRate,
		Timezone:   s.Timezone,
		IsActive:   s.IsActive,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建门店失败")
	}
	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	s.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *storeRepository) FindByID(ctx context.Context, id uint) (*store.Store, error) {
	return r.find(getDB(ctx, r.db), id)
}

// LockByID 锁门店行，串行化同店的单号生成
func (r *storeRepository) LockByID(ctx context.Context, id uint) (*store.Store, error) {
	return r.find(getDB(ctx, r.db).Clauses(forUpdate), id)
}

func (r *storeRepository) find(db *gorm.DB, id uint) (*store.Store, error) {
	var model StoreModel
	if err := db.First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, store.ErrStoreNotFound
		}
		return nil, apperrors.Wrap(err, "查询门店失败")
	}
	return &store.Store{
		ID:         model.ID,
		Name:       model.Name,
		TaxEnabled: model.TaxEnabled,
		TaxRate:    model.TaxRate,
		Timezone:   model.Timezone,
		IsActive:   model.IsActive,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}, nil
}
