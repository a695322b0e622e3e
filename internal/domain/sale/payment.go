package sale

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/retailpos/pkg/money"
)

// PaymentRequest 付款信息
type PaymentRequest struct {
	Method       PaymentMethod    // 为空时按金额推断
	CustomerID   *uint            // 赊账客户
	CreditAmount *decimal.Decimal // 显式赊账金额，为空时取 max(0, total − paid)
}

// Payment 确定后的付款方式与赊账金额
type Payment struct {
	Method       PaymentMethod
	CreditAmount decimal.Decimal
}

// ResolvePayment 确定付款方式和赊账金额
//
// 未指定方式时：付清为cash；未付清且有客户时，未付款为credit，付了一部分为partial；
// 未付清又没有客户时视为付款不足。
// cash必须付清；credit/partial必须有客户，且 已付 + 赊账 ≥ 应付。
func ResolvePayment(req PaymentRequest, totals Totals) (Payment, error) {
	if !req.Method.Valid() {
		return Payment{}, ErrInvalidPaymentMethod
	}

	paid := totals.AmountPaid
	total := totals.TotalAmount
	method := req.Method

	if method == "" {
		switch {
		case paid.GreaterThanOrEqual(total):
			method = PaymentCash
		case req.CustomerID == nil:
			return Payment{}, insufficientPayment(paid, total)
		case paid.IsZero():
			method = PaymentCredit
		default:
			method = PaymentPartial
		}
	}

	if method == PaymentCash {
		if paid.LessThan(total) {
			return Payment{}, insufficientPayment(paid, total)
		}
		return Payment{Method: PaymentCash, CreditAmount: decimal.Zero}, nil
	}

	if req.CustomerID == nil {
		return Payment{}, ErrCustomerRequired
	}

	credit := money.NonNegative(total.Sub(paid))
	if req.CreditAmount != nil {
		if req.CreditAmount.IsNegative() {
			return Payment{}, ErrInvalidAmount
		}
		credit = money.Round(*req.CreditAmount)
		if credit.GreaterThan(total) {
			return Payment{}, ErrInvalidAmount.WithMessage("赊账金额不能超过应付金额")
		}
		if paid.Add(credit).LessThan(total) {
			return Payment{}, insufficientPayment(paid.Add(credit), total)
		}
	}

	return Payment{Method: method, CreditAmount: credit}, nil
}

func insufficientPayment(paid, total decimal.Decimal) error {
	return ErrInsufficientPayment.WithMessage("付款金额不足: 应付%s, 实付%s", money.Format(total), money.Format(paid))
}
