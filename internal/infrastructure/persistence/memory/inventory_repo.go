package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/retailpos/internal/domain/inventory"
)

type batchRepository struct {
	db *DB
}

// NewBatchRepository 创建批次仓储
func NewBatchRepository(db *DB) inventory.BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(ctx context.Context, b *inventory.Batch) error {
	return r.db.do(ctx, func(t *tables) error {
		now := time.Now()
		b.ID = t.nextID("inventory_batches")
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		b.UpdatedAt = now
		t.batches[b.ID] = copyBatch(b)
		return nil
	})
}

func (r *batchRepository) LockAvailable(ctx context.Context, storeID, productID uint) ([]*inventory.Batch, error) {
	return r.list(ctx, storeID, productID, true)
}

func (r *batchRepository) ListByProduct(ctx context.Context, storeID, productID uint) ([]*inventory.Batch, error) {
	return r.list(ctx, storeID, productID, false)
}

func (r *batchRepository) list(ctx context.Context, storeID, productID uint, availableOnly bool) ([]*inventory.Batch, error) {
	var result []*inventory.Batch
	err := r.db.do(ctx, func(t *tables) error {
		for _, b := range t.batches {
			if b.StoreID != storeID || b.ProductID != productID {
				continue
			}
			if availableOnly && (!b.IsActive || b.CurrentQuantity <= 0) {
				continue
			}
			result = append(result, copyBatch(b))
		}
		return nil
	})
	sortFIFO(result)
	return result, err
}

func (r *batchRepository) LockByID(ctx context.Context, id uint) (*inventory.Batch, error) {
	var found *inventory.Batch
	err := r.db.do(ctx, func(t *tables) error {
		b, ok := t.batches[id]
		if !ok {
			return inventory.ErrBatchNotFound
		}
		found = copyBatch(b)
		return nil
	})
	return found, err
}

func (r *batchRepository) Update(ctx context.Context, b *inventory.Batch) error {
	return r.db.do(ctx, func(t *tables) error {
		existing, ok := t.batches[b.ID]
		if !ok {
			return inventory.ErrBatchNotFound
		}
		existing.CurrentQuantity = b.CurrentQuantity
		existing.IsActive = b.IsActive
		existing.UpdatedAt = time.Now()
		return nil
	})
}

// sortFIFO purchase_date, created_at, id 升序
func sortFIFO(batches []*inventory.Batch) {
	sort.Slice(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.PurchaseDate.Equal(b.PurchaseDate) {
			return a.PurchaseDate.Before(b.PurchaseDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

type movementRepository struct {
	db *DB
}

// NewMovementRepository 创建库存流水仓储
func NewMovementRepository(db *DB) inventory.MovementRepository {
	return &movementRepository{db: db}
}

func (r *movementRepository) Create(ctx context.Context, m *inventory.Movement) error {
	return r.db.do(ctx, func(t *tables) error {
		m.ID = t.nextID("stock_movements")
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		t.movements[m.ID] = copyMovement(m)
		return nil
	})
}

func (r *movementRepository) ListByProduct(ctx context.Context, storeID, productID uint, page, pageSize int) ([]*inventory.Movement, int64, error) {
	var all []*inventory.Movement
	err := r.db.do(ctx, func(t *tables) error {
		for _, m := range t.movements {
			if m.StoreID == storeID && m.ProductID == productID {
				all = append(all, copyMovement(m))
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := int64(len(all))
	offset := (page - 1) * pageSize
	if offset >= len(all) {
		return []*inventory.Movement{}, total, nil
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *movementRepository) ListByReference(ctx context.Context, referenceID uint) ([]*inventory.Movement, error) {
	var result []*inventory.Movement
	err := r.db.do(ctx, func(t *tables) error {
		for _, m := range t.movements {
			if m.ReferenceID != nil && *m.ReferenceID == referenceID {
				result = append(result, copyMovement(m))
			}
		}
		return nil
	})
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, err
}
