package customer_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/retailpos/internal/domain/customer"
	"github.com/xiebiao/retailpos/internal/infrastructure/persistence/memory"
)

func setupLedger(t *testing.T, c *customer.Customer) (*customer.CreditLedger, customer.Repository, *memory.TxManager) {
	t.Helper()
	db := memory.NewDB()
	repo := memory.NewCustomerRepository(db)
	require.NoError(t, repo.Create(context.Background(), c))
	return customer.NewCreditLedger(repo), repo, memory.NewTxManager(db)
}

func balance(t *testing.T, repo customer.Repository, id uint) decimal.Decimal {
	t.Helper()
	c, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return c.CurrentBalance
}

func TestCreditLedger_ReserveCredit(t *testing.T) {
	c := &customer.Customer{StoreID: 1, Name: "张三", CreditLimit: decimal.NewFromInt(500), CurrentBalance: decimal.NewFromInt(450), IsActive: true}
	ledger, repo, tx := setupLedger(t, c)

	t.Run("超额时余额不变", func(t *testing.T) {
		err := tx.Transaction(context.Background(), func(ctx context.Context) error {
			_, err := ledger.ReserveCredit(ctx, 1, c.ID, decimal.RequireFromString("50.01"))
			return err
		})
		assert.ErrorIs(t, err, customer.ErrCreditLimitExceeded)
		assert.True(t, balance(t, repo, c.ID).Equal(decimal.NewFromInt(450)))
	})

	t.Run("额度内持久化新余额", func(t *testing.T) {
		err := tx.Transaction(context.Background(), func(ctx context.Context) error {
			_, err := ledger.ReserveCredit(ctx, 1, c.ID, decimal.NewFromInt(50))
			return err
		})
		require.NoError(t, err)
		assert.True(t, balance(t, repo, c.ID).Equal(decimal.NewFromInt(500)))
	})

	t.Run("其他门店的客户", func(t *testing.T) {
		_, err := ledger.ReserveCredit(context.Background(), 2, c.ID, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
	})
}

func TestCreditLedger_ReserveRejectsInactiveCustomer(t *testing.T) {
	c := &customer.Customer{StoreID: 1, CreditLimit: decimal.NewFromInt(500), IsActive: false}
	ledger, _, _ := setupLedger(t, c)

	_, err := ledger.ReserveCredit(context.Background(), 1, c.ID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, customer.ErrCustomerInactive)
}

func TestCreditLedger_ReleaseCredit(t *testing.T) {
	c := &customer.Customer{StoreID: 1, CreditLimit: decimal.NewFromInt(500), CurrentBalance: decimal.NewFromInt(30), IsActive: false}
	ledger, repo, _ := setupLedger(t, c)

	// 停用客户仍可释放，余额最低为0
	_, err := ledger.ReleaseCredit(context.Background(), 1, c.ID, decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, balance(t, repo, c.ID).IsZero())

	_, err = ledger.ReleaseCredit(context.Background(), 1, 999, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, customer.ErrCustomerNotFound)
}
