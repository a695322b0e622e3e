package customer

import (
	"context"

	"github.com/shopspring/decimal"
)

// CreditLedger 客户信用账
// 所有方法必须在TxManager.Transaction内调用，先锁客户行再读写余额
type CreditLedger struct {
	repo Repository
}

// NewCreditLedger 创建信用账
func NewCreditLedger(repo Repository) *CreditLedger {
	return &CreditLedger{repo: repo}
}

// Lock 锁定并校验客户（存在、属于门店、有效）
func (l *CreditLedger) Lock(ctx context.Context, storeID, customerID uint) (*Customer, error) {
	c, err := l.repo.LockByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !c.BelongsTo(storeID) {
		return nil, ErrCustomerNotFound
	}
	if !c.IsActive {
		return nil, ErrCustomerInactive
	}
	return c, nil
}

// ReserveCredit 增加欠款，结果超过额度时整体失败
func (l *CreditLedger) ReserveCredit(ctx context.Context, storeID, customerID uint, amount decimal.Decimal) (*Customer, error) {
	c, err := l.Lock(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return c, nil
	}

	if err := c.Reserve(amount); err != nil {
		return nil, err
	}
	if err := l.repo.UpdateBalance(ctx, c.ID, c.CurrentBalance); err != nil {
		return nil, err
	}
	return c, nil
}

// ReleaseCredit 减少欠款（最低为0）
// 客户已停用时仍然允许释放，作废不能因为客户状态而失败
func (l *CreditLedger) ReleaseCredit(ctx context.Context, storeID, customerID uint, amount decimal.Decimal) (*Customer, error) {
	c, err := l.repo.LockByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !c.BelongsTo(storeID) {
		return nil, ErrCustomerNotFound
	}
	if amount.IsZero() {
		return c, nil
	}

	if err := c.Release(amount); err != nil {
		return nil, err
	}
	if err := l.repo.UpdateBalance(ctx, c.ID, c.CurrentBalance); err != nil {
		return nil, err
	}
	return c, nil
}
