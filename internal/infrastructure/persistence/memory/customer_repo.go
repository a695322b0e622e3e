package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/retailpos/internal/domain/customer"
)

type customerRepository struct {
	db *DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *DB) customer.Repository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	return r.db.do(ctx, func(t *tables) error {
		now := time.Now()
		c.ID = t.nextID("customers")
		c.CreatedAt, c.UpdatedAt = now, now
		t.customers[c.ID] = copyCustomer(c)
		return nil
	})
}

func (r *customerRepository) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	var found *customer.Customer
	err := r.db.do(ctx, func(t *tables) error {
		c, ok := t.customers[id]
		if !ok {
			return customer.ErrCustomerNotFound
		}
		found = copyCustomer(c)
		return nil
	})
	return found, err
}

func (r *customerRepository) LockByID(ctx context.Context, id uint) (*customer.Customer, error) {
	return r.FindByID(ctx, id)
}

func (r *customerRepository) UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	return r.db.do(ctx, func(t *tables) error {
		c, ok := t.customers[id]
		if !ok {
			return customer.ErrCustomerNotFound
		}
		c.CurrentBalance = balance
		c.UpdatedAt = time.Now()
		return nil
	})
}
