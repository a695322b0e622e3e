package mysql

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/retailpos/internal/domain/customer"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) customer.Repository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	model := &CustomerModel{
		StoreID:        c.StoreID,
		Name:           c.Name,
		Phone:          c.Phone,
		CreditLimit:    c.CreditLimit,
		CurrentBalance: c.CurrentBalance,
		IsActive:       c.IsActive,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建客户失败")
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	return r.find(getDB(ctx, r.db), id)
}

func (r *customerRepository) LockByID(ctx context.Context, id uint) (*customer.Customer, error) {
	return r.find(getDB(ctx, r.db).Clauses(forUpdate), id)
}

func (r *customerRepository) UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	result := getDB(ctx, r.db).Model(&CustomerModel{}).
		Where("id = ?", id).
		Update("current_balance", balance)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新客户欠款失败")
	}
	if result.RowsAffected == 0 {
		return customer.ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepository) find(db *gorm.DB, id uint) (*customer.Customer, error) {
	var m CustomerModel
	if err := db.First(&m, id).Error; err != nil {
		if isNotFound(err) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "查询客户失败")
	}
	return &customer.Customer{
		ID:             m.ID,
		StoreID:        m.StoreID,
		Name:           m.Name,
		Phone:          m.Phone,
		CreditLimit:    m.CreditLimit,
		CurrentBalance: m.CurrentBalance,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}
