package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

func TestProduct_StockChecks(t *testing.T) {
	p := &Product{ID: 1, StoreID: 2, CurrentStock: 5, ReorderLevel: 5}

	assert.True(t, p.BelongsTo(2))
	assert.False(t, p.BelongsTo(3))
	assert.True(t, p.HasStock(5))
	assert.False(t, p.HasStock(6))
	assert.True(t, p.IsLowStock(), "库存等于补货线也算低库存")

	p.CurrentStock = 6
	assert.False(t, p.IsLowStock())
}

func TestNewInsufficientStockError(t *testing.T) {
	p := &Product{ID: 9, Name: "矿泉水", CurrentStock: 3}

	err := NewInsufficientStockError(p, 5)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, StockShortage{ProductID: 9, Requested: 5, Available: 3}, appErr.Details)
	assert.Contains(t, appErr.Message, "矿泉水")
	// 哨兵错误本身不被修改
	assert.Nil(t, ErrInsufficientStock.Details)
}
