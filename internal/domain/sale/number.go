package sale

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const numberPrefix = "SALE-"

// NumberGenerator 销售单号生成器
//
// 格式 SALE-YYYYMMDD-NNNN，按门店按日递增，从0001开始。
// 读取当日最大单号后加一，必须与插入在同一事务内执行，
// 且调用方已锁定门店行（同店结算串行），否则并发时会生成重复单号。
type NumberGenerator struct {
	repo Repository
}

// NewNumberGenerator 创建单号生成器
func NewNumberGenerator(repo Repository) *NumberGenerator {
	return &NumberGenerator{repo: repo}
}

// DayPrefix 某日的单号前缀，如 SALE-20260110-
func DayPrefix(date time.Time) string {
	return numberPrefix + date.Format("20060102") + "-"
}

// NextNumber 生成下一个单号；date应已转换为门店时区
func (g *NumberGenerator) NextNumber(ctx context.Context, storeID uint, date time.Time) (string, error) {
	prefix := DayPrefix(date)

	last, err := g.repo.FindLastNumber(ctx, storeID, prefix)
	if err != nil {
		return "", err
	}

	next := 1
	if last != "" {
		seq, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil || !strings.HasPrefix(last, prefix) {
			return "", ErrMalformedSaleNumber.WithMessage("销售单号格式错误: %s", last)
		}
		next = seq + 1
	}

	return fmt.Sprintf("%s%04d", prefix, next), nil
}
