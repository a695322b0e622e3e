package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/infrastructure/persistence/memory"
)

func TestRecorder_Record(t *testing.T) {
	recorder := inventory.NewRecorder(memory.NewMovementRepository(memory.NewDB()))
	ctx := context.Background()

	tests := []struct {
		name    string
		typ     inventory.MovementType
		qty     int
		wantErr error
	}{
		{"入库为正", inventory.MovementPurchase, 5, nil},
		{"回补为正", inventory.MovementReturn, 1, nil},
		{"销售为负", inventory.MovementSale, -2, nil},
		{"报损为负", inventory.MovementDamaged, -1, nil},
		{"调整可正可负", inventory.MovementAdjustment, 3, nil},
		{"销售不能为正", inventory.MovementSale, 2, inventory.ErrInvalidQuantity},
		{"入库不能为负", inventory.MovementPurchase, -1, inventory.ErrInvalidQuantity},
		{"调整不能为0", inventory.MovementAdjustment, 0, inventory.ErrInvalidQuantity},
		{"未知类型", inventory.MovementType("transfer"), 1, inventory.ErrInvalidMovementType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &inventory.Movement{StoreID: 1, ProductID: 1, BatchID: 1, Type: tt.typ, Quantity: tt.qty}
			err := recorder.Record(ctx, m)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, m.ID)
			assert.False(t, m.CreatedAt.IsZero())
		})
	}
}

func TestBatch_DeductAndRestock(t *testing.T) {
	b := inventory.NewBatch(1, 1, 3, decimal.NewFromInt(1), date(1))

	assert.ErrorIs(t, b.Deduct(4), inventory.ErrBatchOverdrawn)
	require.NoError(t, b.Deduct(3))
	assert.False(t, b.IsActive)

	assert.ErrorIs(t, b.Restock(0), inventory.ErrInvalidQuantity)
	require.NoError(t, b.Restock(1))
	assert.True(t, b.IsActive)
	assert.Equal(t, 1, b.CurrentQuantity)
	assert.Equal(t, 3, b.InitialQuantity)
}
