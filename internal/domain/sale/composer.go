package sale

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/retailpos/pkg/money"
)

// DiscountType 整单折扣类型
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"      // 固定金额
	DiscountPercentage DiscountType = "percentage" // 小计的百分比
)

// Line 请求明细行
type Line struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal // 整行折扣金额
}

// Gross 单价×数量（未舍入）
func (l Line) Gross() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Net 行小计（未舍入）
func (l Line) Net() decimal.Decimal {
	return l.Gross().Sub(l.Discount)
}

// Discount 整单折扣
type Discount struct {
	Amount decimal.Decimal
	Type   DiscountType // 为空时按fixed处理
}

// TaxConfig 门店税务配置
type TaxConfig struct {
	Enabled bool
	Rate    decimal.Decimal // 百分比
}

// Totals 结算金额（均已舍入到分）
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	AmountPaid     decimal.Decimal
	ChangeAmount   decimal.Decimal
}

// Compose 计算销售单金额
//
//	subtotal = Σ(单价×数量 − 行折扣)
//	discount = 固定金额 或 subtotal×百分比
//	tax      = (subtotal − discount)×税率（门店启用税时）
//	total    = subtotal − discount + tax
//	change   = max(0, paid − total)
//
// 累加保持全精度，每个输出项舍入一次；total由已舍入的各项推导，
// 保证 subtotal − discount + tax == total 精确到分。
func Compose(lines []Line, discount Discount, tax TaxConfig, amountPaid decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, ErrEmptySale
	}
	if amountPaid.IsNegative() {
		return Totals{}, ErrInvalidAmount
	}

	rawSubtotal := decimal.Zero
	for _, line := range lines {
		if err := validateLine(line); err != nil {
			return Totals{}, err
		}
		rawSubtotal = rawSubtotal.Add(line.Net())
	}
	subtotal := money.Round(rawSubtotal)

	discountAmount, err := wholeSaleDiscount(subtotal, discount)
	if err != nil {
		return Totals{}, err
	}

	taxable := subtotal.Sub(discountAmount)
	taxAmount := decimal.Zero
	if tax.Enabled {
		taxAmount = money.Round(money.Percent(taxable, tax.Rate))
	}

	total := taxable.Add(taxAmount)
	paid := money.Round(amountPaid)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxable,
		TaxAmount:      taxAmount,
		TotalAmount:    total,
		AmountPaid:     paid,
		ChangeAmount:   money.NonNegative(paid.Sub(total)),
	}, nil
}

func validateLine(line Line) error {
	if line.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if line.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if !money.IsCents(line.UnitPrice) {
		return ErrInvalidPrice.WithMessage("商品%d的单价最多两位小数", line.ProductID)
	}
	if !money.IsCents(line.Discount) {
		return ErrInvalidDiscount.WithMessage("商品%d的行折扣最多两位小数", line.ProductID)
	}
	if line.Discount.IsNegative() || line.Discount.GreaterThan(line.Gross()) {
		return ErrInvalidDiscount.WithMessage("商品%d的行折扣不能为负或超过行金额", line.ProductID)
	}
	return nil
}

// wholeSaleDiscount 折扣不能为负，也不能使应税金额为负
func wholeSaleDiscount(subtotal decimal.Decimal, d Discount) (decimal.Decimal, error) {
	if d.Amount.IsNegative() {
		return decimal.Zero, ErrInvalidDiscount
	}

	var amount decimal.Decimal
	switch d.Type {
	case "", DiscountFixed:
		amount = money.Round(d.Amount)
	case DiscountPercentage:
		if d.Amount.GreaterThan(decimal.NewFromInt(100)) {
			return decimal.Zero, ErrInvalidDiscount.WithMessage("折扣百分比不能超过100")
		}
		amount = money.Round(money.Percent(subtotal, d.Amount))
	default:
		return decimal.Zero, ErrInvalidDiscount.WithMessage("不支持的折扣类型: %s", d.Type)
	}

	if amount.GreaterThan(subtotal) {
		return decimal.Zero, ErrInvalidDiscount.WithMessage("折扣金额不能超过小计")
	}
	return amount, nil
}

// Share 明细行在某个批次上的分摊结果
type Share struct {
	Quantity int
	Discount decimal.Decimal
	Subtotal decimal.Decimal
}

// Split 按批次扣减数量拆分明细行
// 行折扣按数量比例分摊，舍入差额计入最后一份，保证各份小计之和等于整行小计
func (l Line) Split(quantities []int) []Share {
	shares := make([]Share, len(quantities))
	lineDiscount := money.Round(l.Discount)
	allocated := decimal.Zero

	for i, qty := range quantities {
		var discount decimal.Decimal
		if i == len(quantities)-1 {
			discount = lineDiscount.Sub(allocated)
		} else {
			discount = money.Round(lineDiscount.Mul(decimal.NewFromInt(int64(qty))).Div(decimal.NewFromInt(int64(l.Quantity))))
			allocated = allocated.Add(discount)
		}

		gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		shares[i] = Share{
			Quantity: qty,
			Discount: discount,
			Subtotal: money.Round(gross.Sub(discount)),
		}
	}
	return shares
}
