package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/retailpos/internal/domain/sale"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestCreateSaleRequest_ToApplication(t *testing.T) {
	customerID := uint(3)
	r := &CreateSaleRequest{
		Items: []CreateSaleItem{
			{ProductID: 1, Quantity: 2, UnitPrice: strPtr("12.50"), Discount: "1.00"},
			{ProductID: 2, Quantity: 1},
		},
		DiscountAmount: "10",
		DiscountType:   "percentage",
		AmountPaid:     "30.00",
		CustomerID:     &customerID,
		CreditAmount:   strPtr("5.50"),
	}

	req, err := r.ToApplication(7, 9)
	require.NoError(t, err)

	assert.Equal(t, uint(7), req.StoreID)
	assert.Equal(t, uint(9), req.CashierID)
	assert.Equal(t, sale.DiscountPercentage, req.DiscountType)
	assert.Equal(t, "10.00", req.DiscountAmount.StringFixed(2))
	assert.Equal(t, "30.00", req.AmountPaid.StringFixed(2))
	require.NotNil(t, req.CreditAmount)
	assert.Equal(t, "5.50", req.CreditAmount.StringFixed(2))

	require.Len(t, req.Items, 2)
	require.NotNil(t, req.Items[0].UnitPrice)
	assert.Equal(t, "12.50", req.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "1.00", req.Items[0].Discount.StringFixed(2))
	assert.Nil(t, req.Items[1].UnitPrice, "未传单价时使用零售价")
	assert.True(t, req.Items[1].Discount.IsZero())
}

func TestCreateSaleRequest_ToApplication_BadMoney(t *testing.T) {
	tests := []struct {
		name string
		req  CreateSaleRequest
	}{
		{"实付金额", CreateSaleRequest{Items: []CreateSaleItem{{ProductID: 1, Quantity: 1}}, AmountPaid: "12,50"}},
		{"赊账金额", CreateSaleRequest{Items: []CreateSaleItem{{ProductID: 1, Quantity: 1}}, CreditAmount: strPtr("abc")}},
		{"明细单价", CreateSaleRequest{Items: []CreateSaleItem{{ProductID: 1, Quantity: 1, UnitPrice: strPtr("¥5")}}}},
		{"单价超过两位小数", CreateSaleRequest{Items: []CreateSaleItem{{ProductID: 1, Quantity: 10, UnitPrice: strPtr("0.125")}}}},
		{"行折扣超过两位小数", CreateSaleRequest{Items: []CreateSaleItem{{ProductID: 1, Quantity: 1, Discount: "0.005"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToApplication(1, 1)
			assert.ErrorIs(t, err, apperrors.ErrBindError)
		})
	}
}

func TestAdjustStockRequest_ToApplication(t *testing.T) {
	r := &AdjustStockRequest{ProductID: 4, Type: "stock_in", Quantity: 3, UnitCost: strPtr("8.20")}

	req, err := r.ToApplication(2, 5)
	require.NoError(t, err)
	assert.Equal(t, uint(2), req.StoreID)
	assert.Equal(t, uint(5), req.UserID)
	require.NotNil(t, req.UnitCost)
	assert.Equal(t, "8.20", req.UnitCost.StringFixed(2))

	r.UnitCost = strPtr("x")
	_, err = r.ToApplication(2, 5)
	assert.ErrorIs(t, err, apperrors.ErrBindError)
}
