// Package money 金额计算的统一入口
//
// 所有金额使用shopspring/decimal表示，持久化为decimal(12,2)。
// 舍入只允许发生在本包的Round中（四舍五入，远离零），
// 中间累加过程保持全精度，避免多次舍入造成误差累积。
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Places 金额保留的小数位数
const Places = 2

// ErrTooManyPlaces 金额精度超过分
var ErrTooManyPlaces = errors.New("金额最多两位小数")

// hundred 百分比换算基数
var hundred = decimal.NewFromInt(100)

// Round 四舍五入到分（half away from zero）
//
//	Round(2.345)  → 2.35
//	Round(-2.345) → -2.35
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Format 格式化为固定两位小数的字符串（接口层统一输出格式）
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Parse 解析金额字符串，空字符串视为0
// 超过两位小数的输入直接拒绝，不做隐式舍入
func Parse(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !IsCents(d) {
		return decimal.Zero, ErrTooManyPlaces
	}
	return d, nil
}

// IsCents 金额能否精确表示到分（"1.250"视为两位）
func IsCents(d decimal.Decimal) bool {
	return d.Equal(Round(d))
}

// Percent 计算base的pct%（不舍入）
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

// NonNegative 负数截断为0
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
