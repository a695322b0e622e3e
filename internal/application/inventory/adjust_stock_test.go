package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/xiebiao/retailpos/internal/application/inventory"
	"github.com/xiebiao/retailpos/internal/domain/event"
	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/product"
	"github.com/xiebiao/retailpos/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

const (
	storeID uint = 1
	userID  uint = 9
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

type fixture struct {
	products  product.Repository
	batches   inventory.BatchRepository
	movements inventory.MovementRepository
	publisher *recordingPublisher

	adjust *appinventory.AdjustStockUseCase
	list   *appinventory.ListMovementsUseCase
}

func newFixture() *fixture {
	db := memory.NewDB()
	f := &fixture{
		products:  memory.NewProductRepository(db),
		batches:   memory.NewBatchRepository(db),
		movements: memory.NewMovementRepository(db),
		publisher: &recordingPublisher{},
	}
	allocator := inventory.NewAllocator(f.batches, f.products, inventory.NewRecorder(f.movements))
	f.adjust = appinventory.NewAdjustStockUseCase(memory.NewTxManager(db), f.products, allocator, f.publisher)
	f.list = appinventory.NewListMovementsUseCase(f.products, f.movements)
	return f
}

// seedProduct 商品库存与批次一致，批次按天递增
func (f *fixture) seedProduct(t *testing.T, reorderLevel int, batchQty ...int) (*product.Product, []*inventory.Batch) {
	t.Helper()
	ctx := context.Background()

	total := 0
	for _, q := range batchQty {
		total += q
	}
	p := &product.Product{StoreID: storeID, SKU: "MILK-1L", Name: "牛奶", CurrentStock: total,
		CostPrice: decimal.RequireFromString("3.20"), RetailPrice: decimal.RequireFromString("5.00"),
		ReorderLevel: reorderLevel, IsActive: true}
	require.NoError(t, f.products.Create(ctx, p))

	batches := make([]*inventory.Batch, len(batchQty))
	for i, q := range batchQty {
		b := inventory.NewBatch(storeID, p.ID, q, decimal.NewFromInt(3), time.Date(2026, 3, 1+i, 0, 0, 0, 0, time.UTC))
		require.NoError(t, f.batches.Create(ctx, b))
		batches[i] = b
	}
	return p, batches
}

func (f *fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.CurrentStock
}

func TestAdjustStock_StockInCreatesBatch(t *testing.T) {
	f := newFixture()
	p, _ := f.seedProduct(t, 0, 4)

	resp, err := f.adjust.Execute(context.Background(), appinventory.AdjustStockRequest{
		StoreID: storeID, UserID: userID, ProductID: p.ID,
		Type: inventory.AdjustStockIn, Quantity: 10, Notes: "到货",
	})
	require.NoError(t, err)

	assert.Equal(t, 14, resp.Product.CurrentStock)
	assert.Equal(t, string(inventory.MovementPurchase), resp.Movement.Type)
	assert.Equal(t, 10, resp.Movement.Quantity)
	require.Len(t, resp.Movements, 1)

	batches, err := f.batches.ListByProduct(context.Background(), storeID, p.ID)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, 10, batches[1].CurrentQuantity)
	assert.Equal(t, "3.20", batches[1].UnitCost.StringFixed(2), "未指定成本时使用商品成本价")
	assert.Equal(t, []string{event.StockAdjusted}, f.publisher.keys)
}

func TestAdjustStock_StockInWithUnitCost(t *testing.T) {
	f := newFixture()
	p, _ := f.seedProduct(t, 0)

	cost := decimal.RequireFromString("2.345")
	resp, err := f.adjust.Execute(context.Background(), appinventory.AdjustStockRequest{
		StoreID: storeID, UserID: userID, ProductID: p.ID,
		Type: inventory.AdjustStockIn, Quantity: 3, UnitCost: &cost,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Product.CurrentStock)

	batches, err := f.batches.ListByProduct(context.Background(), storeID, p.ID)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "2.35", batches[0].UnitCost.StringFixed(2))

	negative := decimal.RequireFromString("-1")
	_, err = f.adjust.Execute(context.Background(), appinventory.AdjustStockRequest{
		StoreID: storeID, UserID: userID, ProductID: p.ID,
		Type: inventory.AdjustStockIn, Quantity: 3, UnitCost: &negative,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParams)
	assert.Equal(t, 3, f.stock(t, p.ID))
}

func TestAdjustStock_StockOutFollowsFIFO(t *testing.T) {
	f := newFixture()
	p, batches := f.seedProduct(t, 5, 3, 6)

	resp, err := f.adjust.Execute(context.Background(), appinventory.AdjustStockRequest{
		StoreID: storeID, UserID: userID, ProductID: p.ID,
		Type: inventory.AdjustStockOut, Reason: inventory.ReasonDamaged, Quantity: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Product.CurrentStock)
	require.Len(t, resp.Movements, 2)
	assert.Equal(t, batches[0].ID, resp.Movements[0].BatchID)
	assert.Equal(t, -3, resp.Movements[0].Quantity)
	assert.Equal(t, batches[1].ID, resp.Movements[1].BatchID)
	assert.Equal(t, -2, resp.Movements[1].Quantity)
	assert.Equal(t, string(inventory.MovementDamaged), resp.Movement.Type)
	assert.Nil(t, resp.Movement.ReferenceID, "手工调整不关联销售单")

	// 库存4不高于补货线5
	assert.Equal(t, []string{event.StockAdjusted, event.StockLow}, f.publisher.keys)
}

func TestAdjustStock_StockOutRejected(t *testing.T) {
	tests := []struct {
		name    string
		stock   int   // 汇总库存
		batches []int // 批次数量
		qty     int
		wantErr error
	}{
		{"汇总库存不足", 4, []int{4}, 5, product.ErrInsufficientStock},
		{"批次覆盖不足", 6, []int{4}, 5, inventory.ErrInsufficientBatchCoverage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			p, batches := f.seedProduct(t, 0, tt.batches...)
			if tt.stock != p.CurrentStock {
				require.NoError(t, f.products.UpdateStock(context.Background(), p.ID, tt.stock-p.CurrentStock))
			}

			_, err := f.adjust.Execute(context.Background(), appinventory.AdjustStockRequest{
				StoreID: storeID, UserID: userID, ProductID: p.ID,
				Type: inventory.AdjustStockOut, Quantity: tt.qty,
			})
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, tt.stock, f.stock(t, p.ID))
			b, err := f.batches.LockByID(context.Background(), batches[0].ID)
			require.NoError(t, err)
			assert.Equal(t, tt.batches[0], b.CurrentQuantity)
			assert.Empty(t, f.publisher.keys)
		})
	}
}

func TestAdjustStock_InvalidRequests(t *testing.T) {
	f := newFixture()
	p, _ := f.seedProduct(t, 0, 5)

	inactive := &product.Product{StoreID: storeID, SKU: "OLD", Name: "停售", IsActive: false}
	require.NoError(t, f.products.Create(context.Background(), inactive))

	tests := []struct {
		name    string
		req     appinventory.AdjustStockRequest
		wantErr error
	}{
		{"未知类型", appinventory.AdjustStockRequest{StoreID: storeID, ProductID: p.ID, Type: "transfer", Quantity: 1}, inventory.ErrInvalidAdjustmentType},
		{"入库带原因", appinventory.AdjustStockRequest{StoreID: storeID, ProductID: p.ID, Type: inventory.AdjustStockIn, Reason: inventory.ReasonExpired, Quantity: 1}, inventory.ErrInvalidAdjustmentReason},
		{"数量为0", appinventory.AdjustStockRequest{StoreID: storeID, ProductID: p.ID, Type: inventory.AdjustStockOut, Quantity: 0}, inventory.ErrInvalidQuantity},
		{"商品不存在", appinventory.AdjustStockRequest{StoreID: storeID, ProductID: 999, Type: inventory.AdjustStockIn, Quantity: 1}, product.ErrProductNotFound},
		{"其他门店商品", appinventory.AdjustStockRequest{StoreID: 2, ProductID: p.ID, Type: inventory.AdjustStockIn, Quantity: 1}, product.ErrProductNotFound},
		{"商品已下架", appinventory.AdjustStockRequest{StoreID: storeID, ProductID: inactive.ID, Type: inventory.AdjustStockIn, Quantity: 1}, product.ErrProductInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.adjust.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, 5, f.stock(t, p.ID))
}
