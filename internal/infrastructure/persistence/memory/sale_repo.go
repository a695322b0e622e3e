package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/retailpos/internal/domain/sale"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

type saleRepository struct {
	db *DB
}

// NewSaleRepository 创建销售单仓储
func NewSaleRepository(db *DB) sale.Repository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	return r.db.do(ctx, func(t *tables) error {
		// uk_store_sale_number
		for _, existing := range t.sales {
			if existing.StoreID == s.StoreID && existing.SaleNumber == s.SaleNumber {
				return apperrors.ErrDuplicateEntry
			}
		}

		now := time.Now()
		s.ID = t.nextID("sales")
		s.CreatedAt, s.UpdatedAt = now, now
		t.sales[s.ID] = copySale(s)
		return nil
	})
}

func (r *saleRepository) AddItems(ctx context.Context, saleID uint, items []sale.Item) error {
	return r.db.do(ctx, func(t *tables) error {
		if _, ok := t.sales[saleID]; !ok {
			return sale.ErrSaleNotFound
		}
		now := time.Now()
		for i := range items {
			items[i].ID = t.nextID("sale_items")
			items[i].SaleID = saleID
			items[i].CreatedAt = now
			item := items[i]
			t.items[item.ID] = &item
		}
		return nil
	})
}

func (r *saleRepository) FindByID(ctx context.Context, id uint) (*sale.Sale, error) {
	var found *sale.Sale
	err := r.db.do(ctx, func(t *tables) error {
		s, ok := t.sales[id]
		if !ok {
			return sale.ErrSaleNotFound
		}
		found = copySale(s)
		found.Items = t.itemsOf(id)
		return nil
	})
	return found, err
}

func (r *saleRepository) LockByID(ctx context.Context, id uint) (*sale.Sale, error) {
	return r.FindByID(ctx, id)
}

func (r *saleRepository) Update(ctx context.Context, s *sale.Sale) error {
	return r.db.do(ctx, func(t *tables) error {
		existing, ok := t.sales[s.ID]
		if !ok {
			return sale.ErrSaleNotFound
		}
		updated := copySale(s)
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now()
		t.sales[s.ID] = updated
		return nil
	})
}

func (r *saleRepository) FindLastNumber(ctx context.Context, storeID uint, prefix string) (string, error) {
	last := ""
	err := r.db.do(ctx, func(t *tables) error {
		for _, s := range t.sales {
			if s.StoreID != storeID || !strings.HasPrefix(s.SaleNumber, prefix) {
				continue
			}
			n := s.SaleNumber
			if len(n) > len(last) || (len(n) == len(last) && n > last) {
				last = n
			}
		}
		return nil
	})
	return last, err
}

// itemsOf 销售单明细，按ID升序（调用方持锁）
func (t *tables) itemsOf(saleID uint) []sale.Item {
	var items []sale.Item
	for _, item := range t.items {
		if item.SaleID == saleID {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}
