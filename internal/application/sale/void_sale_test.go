package sale_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsale "github.com/xiebiao/retailpos/internal/application/sale"
	"github.com/xiebiao/retailpos/internal/domain/event"
	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/sale"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

func TestVoidSale_ExactInverse(t *testing.T) {
	f := newFixture(t)
	p1, b1 := f.seedProduct(t, "3.00", 9, []int{2, 7})
	p2, b2 := f.seedProduct(t, "4.00", 4, []int{4})
	c := f.seedCustomer(t, "100.00", "5.00")

	before := map[uint]int{}
	for _, b := range append(b1, b2...) {
		before[b.ID], _ = f.batchQty(t, b.ID)
	}

	req := f.cashSale(
		appsale.CreateSaleItem{ProductID: p1.ID, Quantity: 5},
		appsale.CreateSaleItem{ProductID: p2.ID, Quantity: 4},
	)
	req.AmountPaid = d("10")
	req.CustomerID = &c.ID
	created, err := f.create.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "21.00", created.CreditAmount)
	assert.True(t, f.balance(t, c.ID).Equal(d("26")))

	voided, err := f.void.Execute(context.Background(), appsale.VoidSaleRequest{SaleID: created.ID, StoreID: f.store.ID, UserID: 8})
	require.NoError(t, err)
	assert.Equal(t, string(sale.StatusVoid), voided.Status)
	require.NotNil(t, voided.VoidedBy)
	assert.Equal(t, uint(8), *voided.VoidedBy)
	assert.NotEmpty(t, voided.VoidedAt)

	for _, b := range append(b1, b2...) {
		qty, active := f.batchQty(t, b.ID)
		assert.Equal(t, before[b.ID], qty, "批次数量恢复到结算前")
		assert.True(t, active, "回补后重新激活")
	}
	assert.Equal(t, 9, f.stock(t, p1.ID))
	assert.Equal(t, 4, f.stock(t, p2.ID))
	assert.True(t, f.balance(t, c.ID).Equal(d("5")), "释放赊账金额")

	// 每条明细一条return流水，数量与明细一致
	movements, err := f.movements.ListByReference(context.Background(), created.ID)
	require.NoError(t, err)
	returned := 0
	for _, m := range movements {
		if m.Type == inventory.MovementReturn {
			returned += m.Quantity
			assert.Equal(t, uint(8), m.UserID)
		}
	}
	assert.Equal(t, 9, returned)

	// p2售罄触发补货提醒，作废不会撤回已发布的事件
	assert.Equal(t, []string{event.SaleCreated, event.StockLow, event.SaleVoided}, f.publisher.keys)
}

func TestVoidSale_AlreadyVoided(t *testing.T) {
	f := newFixture(t)
	p, _ := f.seedProduct(t, "3.00", 5, []int{5})

	created, err := f.create.Execute(context.Background(), f.cashSale(appsale.CreateSaleItem{ProductID: p.ID, Quantity: 2}))
	require.NoError(t, err)

	req := appsale.VoidSaleRequest{SaleID: created.ID, StoreID: f.store.ID, UserID: 1}
	_, err = f.void.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = f.void.Execute(context.Background(), req)
	require.ErrorIs(t, err, sale.ErrAlreadyVoided)
	assert.Equal(t, 5, f.stock(t, p.ID), "重复作废不会重复回补")
}

func TestVoidSale_ReturnedSaleCannotBeVoided(t *testing.T) {
	f := newFixture(t)
	p, _ := f.seedProduct(t, "3.00", 5, []int{5})

	created, err := f.create.Execute(context.Background(), f.cashSale(appsale.CreateSaleItem{ProductID: p.ID, Quantity: 2}))
	require.NoError(t, err)

	s, err := f.sales.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	s.Status = sale.StatusReturned
	require.NoError(t, f.sales.Update(context.Background(), s))

	_, err = f.void.Execute(context.Background(), appsale.VoidSaleRequest{SaleID: created.ID, StoreID: f.store.ID, UserID: 1})
	assert.ErrorIs(t, err, sale.ErrInvalidSaleStatus)
	assert.Equal(t, apperrors.ErrCodeInvalidParams, apperrors.GetAppError(err).Code)
	assert.Equal(t, 3, f.stock(t, p.ID))
}

func TestVoidSale_NotFound(t *testing.T) {
	f := newFixture(t)
	p, _ := f.seedProduct(t, "3.00", 5, []int{5})

	created, err := f.create.Execute(context.Background(), f.cashSale(appsale.CreateSaleItem{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	_, err = f.void.Execute(context.Background(), appsale.VoidSaleRequest{SaleID: 999, StoreID: f.store.ID})
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)

	_, err = f.void.Execute(context.Background(), appsale.VoidSaleRequest{SaleID: created.ID, StoreID: f.store.ID + 1})
	assert.ErrorIs(t, err, sale.ErrSaleNotFound, "其他门店的销售单视为不存在")
}

func TestSettleAndVoid_AggregateStaysConsistent(t *testing.T) {
	f := newFixture(t)
	p, batches := f.seedProduct(t, "1.00", 12, []int{3, 4, 5})

	var ids []uint
	for _, qty := range []int{2, 3, 4} {
		resp, err := f.create.Execute(context.Background(), f.cashSale(appsale.CreateSaleItem{ProductID: p.ID, Quantity: qty}))
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}
	_, err := f.void.Execute(context.Background(), appsale.VoidSaleRequest{SaleID: ids[1], StoreID: f.store.ID, UserID: 1})
	require.NoError(t, err)

	sum := 0
	for _, b := range batches {
		qty, active := f.batchQty(t, b.ID)
		if active {
			sum += qty
		}
	}
	assert.Equal(t, sum, f.stock(t, p.ID))
	assert.Equal(t, 6, f.stock(t, p.ID))
}
