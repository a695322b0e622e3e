package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate 门店未配置税率时使用的默认增值税率（百分比）
var DefaultTaxRate = decimal.NewFromInt(12)

// Store 门店（租户）
// 结算只读取税务配置和时区；门店行同时作为同店结算的串行化锁
type Store struct {
	ID         uint
	Name       string
	TaxEnabled bool
	TaxRate    decimal.Decimal // 百分比，如12表示12%
	Timezone   string          // IANA时区名，决定销售单号中的日期
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EffectiveTaxRate 未配置（<=0）时返回默认税率
func (s *Store) EffectiveTaxRate() decimal.Decimal {
	if s.TaxRate.IsPositive() {
		return s.TaxRate
	}
	return DefaultTaxRate
}

// Location 门店时区，无法解析时使用fallback
func (s *Store) Location(fallback *time.Location) *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	if fallback == nil {
		return time.UTC
	}
	return fallback
}
