package sale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totals(total, paid string) Totals {
	return Totals{TotalAmount: d(total), AmountPaid: d(paid)}
}

func ptr[T any](v T) *T { return &v }

func TestResolvePayment(t *testing.T) {
	customerID := ptr(uint(7))

	tests := []struct {
		name       string
		req        PaymentRequest
		totals     Totals
		wantMethod PaymentMethod
		wantCredit string
	}{
		{"推断现金", PaymentRequest{}, totals("100", "120"), PaymentCash, "0.00"},
		{"推断全额赊账", PaymentRequest{CustomerID: customerID}, totals("100", "0"), PaymentCredit, "100.00"},
		{"推断部分付款", PaymentRequest{CustomerID: customerID}, totals("100", "30"), PaymentPartial, "70.00"},
		{"显式partial按差额赊账", PaymentRequest{Method: PaymentPartial, CustomerID: customerID}, totals("100", "40"), PaymentPartial, "60.00"},
		{"显式赊账金额", PaymentRequest{Method: PaymentCredit, CustomerID: customerID, CreditAmount: ptr(d("100"))}, totals("100", "0"), PaymentCredit, "100.00"},
		{"付清的partial赊账为0", PaymentRequest{Method: PaymentPartial, CustomerID: customerID}, totals("100", "100"), PaymentPartial, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePayment(tt.req, tt.totals)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMethod, got.Method)
			assert.Equal(t, tt.wantCredit, got.CreditAmount.StringFixed(2))
		})
	}
}

func TestResolvePayment_Errors(t *testing.T) {
	customerID := ptr(uint(7))

	tests := []struct {
		name    string
		req     PaymentRequest
		totals  Totals
		wantErr error
	}{
		{"赊账缺少客户", PaymentRequest{Method: PaymentCredit}, totals("100", "0"), ErrCustomerRequired},
		{"部分付款缺少客户", PaymentRequest{Method: PaymentPartial}, totals("100", "50"), ErrCustomerRequired},
		{"现金付款不足", PaymentRequest{Method: PaymentCash}, totals("100", "99.99"), ErrInsufficientPayment},
		{"未指定方式且无客户未付清", PaymentRequest{}, totals("100", "10"), ErrInsufficientPayment},
		{"未知方式", PaymentRequest{Method: "gift_card"}, totals("100", "100"), ErrInvalidPaymentMethod},
		{"负赊账金额", PaymentRequest{Method: PaymentCredit, CustomerID: customerID, CreditAmount: ptr(d("-1"))}, totals("100", "0"), ErrInvalidAmount},
		{"赊账加实付不足", PaymentRequest{Method: PaymentPartial, CustomerID: customerID, CreditAmount: ptr(d("20"))}, totals("100", "50"), ErrInsufficientPayment},
		{"赊账超过应付", PaymentRequest{Method: PaymentCredit, CustomerID: customerID, CreditAmount: ptr(d("150"))}, totals("100", "0"), ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolvePayment(tt.req, tt.totals)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPaymentMethod_UsesCredit(t *testing.T) {
	assert.False(t, PaymentCash.UsesCredit())
	assert.True(t, PaymentCredit.UsesCredit())
	assert.True(t, PaymentPartial.UsesCredit())
	assert.True(t, PaymentMethod("").Valid())
	assert.False(t, PaymentMethod("points").Valid())
}
