package sale

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

func TestSale_Void(t *testing.T) {
	at := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)

	t.Run("已结算可以作废", func(t *testing.T) {
		s := &Sale{Status: StatusCompleted}
		require.NoError(t, s.Void(3, at))
		assert.Equal(t, StatusVoid, s.Status)
		require.NotNil(t, s.VoidedBy)
		assert.Equal(t, uint(3), *s.VoidedBy)
		assert.Equal(t, at, *s.VoidedAt)
	})

	t.Run("重复作废", func(t *testing.T) {
		s := &Sale{Status: StatusVoid}
		assert.ErrorIs(t, s.Void(3, at), ErrAlreadyVoided)
	})

	t.Run("已退货不能作废", func(t *testing.T) {
		s := &Sale{Status: StatusReturned}
		err := s.Void(3, at)
		assert.ErrorIs(t, err, ErrInvalidSaleStatus)
		assert.ErrorIs(t, err, apperrors.ErrInvalidParams, "按参数错误返回")
		assert.Equal(t, StatusReturned, s.Status)
		assert.Nil(t, s.VoidedBy)
	})
}

func TestSale_QuantitiesByProduct(t *testing.T) {
	s := &Sale{Items: []Item{
		{ProductID: 1, BatchID: 10, Quantity: 5},
		{ProductID: 1, BatchID: 11, Quantity: 1},
		{ProductID: 2, BatchID: 20, Quantity: 2},
	}}
	assert.Equal(t, map[uint]int{1: 6, 2: 2}, s.QuantitiesByProduct())
}

// numberRepo 只实现FindLastNumber的仓储桩
type numberRepo struct {
	Repository
	numbers map[uint][]string
}

func (r *numberRepo) FindLastNumber(_ context.Context, storeID uint, prefix string) (string, error) {
	last := ""
	for _, n := range r.numbers[storeID] {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		if len(n) > len(last) || (len(n) == len(last) && n > last) {
			last = n
		}
	}
	return last, nil
}

func TestNumberGenerator_NextNumber(t *testing.T) {
	day := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	repo := &numberRepo{numbers: map[uint][]string{
		1: {"SALE-20260110-0001", "SALE-20260110-0007", "SALE-20260110-0003", "SALE-20260109-0042"},
		2: {"SALE-20260110-9999", "SALE-20260110-10000"},
		3: {"SALE-20260110-ABCD"},
	}}
	gen := NewNumberGenerator(repo)
	ctx := context.Background()

	t.Run("当日最大序号加一", func(t *testing.T) {
		n, err := gen.NextNumber(ctx, 1, day)
		require.NoError(t, err)
		assert.Equal(t, "SALE-20260110-0008", n)
	})

	t.Run("新的一天从0001开始", func(t *testing.T) {
		n, err := gen.NextNumber(ctx, 1, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Equal(t, "SALE-20260111-0001", n)
	})

	t.Run("门店之间互不影响", func(t *testing.T) {
		n, err := gen.NextNumber(ctx, 9, day)
		require.NoError(t, err)
		assert.Equal(t, "SALE-20260110-0001", n)
	})

	t.Run("超过9999后继续递增", func(t *testing.T) {
		n, err := gen.NextNumber(ctx, 2, day)
		require.NoError(t, err)
		assert.Equal(t, "SALE-20260110-10001", n)
	})

	t.Run("无法解析的单号", func(t *testing.T) {
		_, err := gen.NextNumber(ctx, 3, day)
		assert.ErrorIs(t, err, ErrMalformedSaleNumber)
	})
}
