package memory

import (
	"context"
	"time"

	"github.com/xiebiao/retailpos/internal/domain/store"
)

type storeRepository struct {
	db *DB
}

// NewStoreRepository 创建门店仓储
func NewStoreRepository(db *DB) store.Repository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(ctx context.Context, s *store.Store) error {
	return r.db.do(ctx, func(t *tables) error {
		now := time.Now()
		s.ID = t.nextID("stores")
		s.CreatedAt, s.UpdatedAt = now, now
		t.stores[s.ID] = copyStore(s)
		return nil
	})
}

func (r *storeRepository) FindByID(ctx context.Context, id uint) (*store.Store, error) {
	var found *store.Store
	err := r.db.do(ctx, func(t *tables) error {
		s, ok := t.stores[id]
		if !ok {
			return store.ErrStoreNotFound
		}
		found = copyStore(s)
		return nil
	})
	return found, err
}

func (r *storeRepository) LockByID(ctx context.Context, id uint) (*store.Store, error) {
	return r.FindByID(ctx, id)
}
