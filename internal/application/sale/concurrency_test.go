package sale_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsale "github.com/xiebiao/retailpos/internal/application/sale"
	"github.com/xiebiao/retailpos/internal/domain/customer"
	"github.com/xiebiao/retailpos/internal/domain/product"
)

// 库存10，20个并发结算各买1件：恰好10个成功，其余库存不足
func TestCreateSale_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	p, batches := f.seedProduct(t, "3.00", 10, []int{4, 6})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		rejected int
		numbers  = map[string]bool{}
	)

	concurrency := 20
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.create.Execute(context.Background(), f.cashSale(appsale.CreateSaleItem{ProductID: p.ID, Quantity: 1}))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, product.ErrInsufficientStock)
				rejected++
				return
			}
			success++
			numbers[resp.SaleNumber] = true
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, success, "成功数等于库存数")
	assert.Equal(t, 10, rejected)
	assert.Len(t, numbers, 10, "销售单号不重复")
	assert.Equal(t, 0, f.stock(t, p.ID))
	for _, b := range batches {
		qty, active := f.batchQty(t, b.ID)
		assert.Equal(t, 0, qty)
		assert.False(t, active)
	}
}

// 额度50，10个并发赊账各10元：恰好5个成功，余额不超过额度
func TestCreateSale_ConcurrentCreditNeverExceedsLimit(t *testing.T) {
	f := newFixture(t)
	p, _ := f.seedProduct(t, "10.00", 100, []int{100})
	c := f.seedCustomer(t, "50.00", "0")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.create.Execute(context.Background(), appsale.CreateSaleRequest{
				StoreID:    f.store.ID,
				CashierID:  cashierID,
				CustomerID: &c.ID,
				Items:      []appsale.CreateSaleItem{{ProductID: p.ID, Quantity: 1}},
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, customer.ErrCreditLimitExceeded)
				return
			}
			success++
		}()
	}
	wg.Wait()

	require.Equal(t, 5, success)
	assert.Equal(t, "50.00", f.balance(t, c.ID).StringFixed(2))
	assert.Equal(t, 95, f.stock(t, p.ID))
}
