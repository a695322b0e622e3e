package sale

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(productID uint, qty int, price, discount string) Line {
	l := Line{ProductID: productID, Quantity: qty, UnitPrice: d(price)}
	if discount != "" {
		l.Discount = d(discount)
	}
	return l
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), field)
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		discount Discount
		tax      TaxConfig
		paid     string
		want     [6]string // subtotal, discount, taxable, tax, total, change
	}{
		{
			name:  "无折扣无税",
			lines: []Line{line(1, 2, "10.00", ""), line(2, 1, "5.50", "")},
			paid:  "30",
			want:  [6]string{"25.50", "0.00", "25.50", "0.00", "25.50", "4.50"},
		},
		{
			name:     "行折扣+固定整单折扣+12%税",
			lines:    []Line{line(1, 3, "19.99", "2.00")},
			discount: Discount{Amount: d("5"), Type: DiscountFixed},
			tax:      TaxConfig{Enabled: true, Rate: d("12")},
			paid:     "60",
			// 59.97-2 = 57.97; -5 = 52.97; tax 6.3564 → 6.36
			want: [6]string{"57.97", "5.00", "52.97", "6.36", "59.33", "0.67"},
		},
		{
			name:     "百分比折扣",
			lines:    []Line{line(1, 1, "33.33", "")},
			discount: Discount{Amount: d("10"), Type: DiscountPercentage},
			tax:      TaxConfig{Enabled: true, Rate: d("12")},
			paid:     "0",
			// 3.333 → 3.33; taxable 30.00; tax 3.60
			want: [6]string{"33.33", "3.33", "30.00", "3.60", "33.60", "0.00"},
		},
		{
			name:  "税额恰好半分时远离零舍入",
			lines: []Line{line(1, 1, "0.25", "")},
			tax:   TaxConfig{Enabled: true, Rate: d("50")},
			paid:  "1",
			// tax 0.125 → 0.13
			want: [6]string{"0.25", "0.00", "0.25", "0.13", "0.38", "0.62"},
		},
		{
			name:  "门店未启用税",
			lines: []Line{line(1, 4, "2.50", "")},
			tax:   TaxConfig{Enabled: false, Rate: d("12")},
			paid:  "10",
			want:  [6]string{"10.00", "0.00", "10.00", "0.00", "10.00", "0.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compose(tt.lines, tt.discount, tt.tax, d(tt.paid))
			require.NoError(t, err)

			assertMoney(t, tt.want[0], got.Subtotal, "subtotal")
			assertMoney(t, tt.want[1], got.DiscountAmount, "discount")
			assertMoney(t, tt.want[2], got.TaxableAmount, "taxable")
			assertMoney(t, tt.want[3], got.TaxAmount, "tax")
			assertMoney(t, tt.want[4], got.TotalAmount, "total")
			assertMoney(t, tt.want[5], got.ChangeAmount, "change")

			// 各项之和精确等于总额
			assert.True(t, got.Subtotal.Sub(got.DiscountAmount).Add(got.TaxAmount).Equal(got.TotalAmount))
		})
	}
}

func TestCompose_Invalid(t *testing.T) {
	tax := TaxConfig{Enabled: true, Rate: d("12")}

	tests := []struct {
		name     string
		lines    []Line
		discount Discount
		paid     string
		wantErr  error
	}{
		{"空明细", nil, Discount{}, "0", ErrEmptySale},
		{"数量为0", []Line{line(1, 0, "1", "")}, Discount{}, "0", ErrInvalidQuantity},
		{"负单价", []Line{line(1, 1, "-1", "")}, Discount{}, "0", ErrInvalidPrice},
		{"单价超过两位小数", []Line{line(1, 10, "0.125", "")}, Discount{}, "0", ErrInvalidPrice},
		{"行折扣超过两位小数", []Line{line(1, 1, "5", "0.005")}, Discount{}, "0", ErrInvalidDiscount},
		{"行折扣超过行金额", []Line{line(1, 1, "5", "6")}, Discount{}, "0", ErrInvalidDiscount},
		{"整单折扣超过小计", []Line{line(1, 1, "5", "")}, Discount{Amount: d("6")}, "0", ErrInvalidDiscount},
		{"百分比超过100", []Line{line(1, 1, "5", "")}, Discount{Amount: d("101"), Type: DiscountPercentage}, "0", ErrInvalidDiscount},
		{"未知折扣类型", []Line{line(1, 1, "5", "")}, Discount{Amount: d("1"), Type: "coupon"}, "0", ErrInvalidDiscount},
		{"负付款", []Line{line(1, 1, "5", "")}, Discount{}, "-1", ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(tt.lines, tt.discount, tax, d(tt.paid))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLine_Split(t *testing.T) {
	l := line(1, 3, "10.00", "1.00")

	shares := l.Split([]int{2, 1})

	require.Len(t, shares, 2)
	assert.Equal(t, 2, shares[0].Quantity)
	assertMoney(t, "0.67", shares[0].Discount, "第一份折扣")
	assertMoney(t, "19.33", shares[0].Subtotal, "第一份小计")
	assertMoney(t, "0.33", shares[1].Discount, "最后一份承担舍入差额")
	assertMoney(t, "9.67", shares[1].Subtotal, "第二份小计")

	sum := shares[0].Subtotal.Add(shares[1].Subtotal)
	assertMoney(t, "29.00", sum, "拆分后小计之和等于整行小计")
}
