package sale_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	appsale "github.com/xiebiao/retailpos/internal/application/sale"
	"github.com/xiebiao/retailpos/internal/domain/customer"
	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/product"
	"github.com/xiebiao/retailpos/internal/domain/sale"
	"github.com/xiebiao/retailpos/internal/domain/store"
	"github.com/xiebiao/retailpos/internal/infrastructure/persistence/memory"
)

const cashierID uint = 7

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// recordingPublisher 记录发布过的事件
type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []interface{}
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	p.events = append(p.events, message)
	return nil
}

type fixture struct {
	stores    store.Repository
	products  product.Repository
	batches   inventory.BatchRepository
	movements inventory.MovementRepository
	customers customer.Repository
	sales     sale.Repository
	publisher *recordingPublisher

	create *appsale.CreateSaleUseCase
	void   *appsale.VoidSaleUseCase

	store *store.Store
}

var fixedNow = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewDB()
	f := &fixture{
		stores:    memory.NewStoreRepository(db),
		products:  memory.NewProductRepository(db),
		batches:   memory.NewBatchRepository(db),
		movements: memory.NewMovementRepository(db),
		customers: memory.NewCustomerRepository(db),
		sales:     memory.NewSaleRepository(db),
		publisher: &recordingPublisher{},
	}

	tx := memory.NewTxManager(db)
	ledger := customer.NewCreditLedger(f.customers)
	allocator := inventory.NewAllocator(f.batches, f.products, inventory.NewRecorder(f.movements))
	settings := appsale.Settings{Location: time.UTC, Now: func() time.Time { return fixedNow }}

	f.create = appsale.NewCreateSaleUseCase(tx, f.stores, f.products, f.sales, ledger, allocator,
		sale.NewNumberGenerator(f.sales), f.publisher, settings)
	f.void = appsale.NewVoidSaleUseCase(tx, f.products, f.sales, ledger, allocator, f.publisher, settings)

	f.store = &store.Store{Name: "一号店", Timezone: "UTC", IsActive: true}
	require.NoError(t, f.stores.Create(context.Background(), f.store))
	return f
}

// seedProduct 创建商品和批次，stock为汇总库存
func (f *fixture) seedProduct(t *testing.T, price string, stock int, batchQty []int) (*product.Product, []*inventory.Batch) {
	t.Helper()
	ctx := context.Background()

	p := &product.Product{StoreID: f.store.ID, SKU: "SKU", Name: "商品", CurrentStock: stock,
		RetailPrice: d(price), CostPrice: d("1.00"), IsActive: true}
	require.NoError(t, f.products.Create(ctx, p))

	batches := make([]*inventory.Batch, len(batchQty))
	for i, q := range batchQty {
		b := inventory.NewBatch(f.store.ID, p.ID, q, decimal.NewFromInt(int64(i+1)),
			time.Date(2026, 1, 1+i*9, 0, 0, 0, 0, time.UTC))
		require.NoError(t, f.batches.Create(ctx, b))
		batches[i] = b
	}
	return p, batches
}

func (f *fixture) seedCustomer(t *testing.T, limit, balance string) *customer.Customer {
	t.Helper()
	c := &customer.Customer{StoreID: f.store.ID, Name: "李四", CreditLimit: d(limit), CurrentBalance: d(balance), IsActive: true}
	require.NoError(t, f.customers.Create(context.Background(), c))
	return c
}

func (f *fixture) stock(t *testing.T, productID uint) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	return p.CurrentStock
}

func (f *fixture) batchQty(t *testing.T, batchID uint) (int, bool) {
	t.Helper()
	b, err := f.batches.LockByID(context.Background(), batchID)
	require.NoError(t, err)
	return b.CurrentQuantity, b.IsActive
}

func (f *fixture) balance(t *testing.T, customerID uint) decimal.Decimal {
	t.Helper()
	c, err := f.customers.FindByID(context.Background(), customerID)
	require.NoError(t, err)
	return c.CurrentBalance
}

func (f *fixture) cashSale(items ...appsale.CreateSaleItem) appsale.CreateSaleRequest {
	return appsale.CreateSaleRequest{
		StoreID:    f.store.ID,
		CashierID:  cashierID,
		Items:      items,
		AmountPaid: d("100000"),
	}
}
