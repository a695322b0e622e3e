package customer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/retailpos/pkg/money"
)

// Customer 赊账客户
// CurrentBalance是当前欠款，只由结算（增加）和作废/还款（减少）修改
type Customer struct {
	ID             uint
	StoreID        uint
	Name           string
	Phone          string
	CreditLimit    decimal.Decimal
	CurrentBalance decimal.Decimal
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BelongsTo 是否属于指定门店
func (c *Customer) BelongsTo(storeID uint) bool {
	return c.StoreID == storeID
}

// AvailableCredit 剩余可用额度（不小于0）
func (c *Customer) AvailableCredit() decimal.Decimal {
	available := c.CreditLimit.Sub(c.CurrentBalance)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// Reserve 占用额度；超限时返回ErrCreditLimitExceeded且不修改余额
func (c *Customer) Reserve(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidCreditAmount
	}

	attempted := c.CurrentBalance.Add(amount)
	if attempted.GreaterThan(c.CreditLimit) {
		return ErrCreditLimitExceeded.
			WithMessage("超出信用额度: 额度%s, 当前欠款%s, 本次赊账%s",
				money.Format(c.CreditLimit), money.Format(c.CurrentBalance), money.Format(amount)).
			WithDetails(CreditShortfall{
				CustomerID:       c.ID,
				CreditLimit:      money.Format(c.CreditLimit),
				CurrentBalance:   money.Format(c.CurrentBalance),
				AttemptedBalance: money.Format(attempted),
			})
	}

	c.CurrentBalance = attempted
	c.UpdatedAt = time.Now()
	return nil
}

// Release 释放额度，余额最低为0
func (c *Customer) Release(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidCreditAmount
	}

	c.CurrentBalance = c.CurrentBalance.Sub(amount)
	if c.CurrentBalance.IsNegative() {
		c.CurrentBalance = decimal.Zero
	}
	c.UpdatedAt = time.Now()
	return nil
}

// CreditShortfall 超额明细（金额以两位小数字符串表示）
type CreditShortfall struct {
	CustomerID       uint   `json:"customer_id"`
	CreditLimit      string `json:"credit_limit"`
	CurrentBalance   string `json:"current_balance"`
	AttemptedBalance string `json:"attempted_balance"`
}
