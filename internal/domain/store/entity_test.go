package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStore_EffectiveTaxRate(t *testing.T) {
	assert.True(t, DefaultTaxRate.Equal((&Store{}).EffectiveTaxRate()))

	s := &Store{TaxRate: decimal.RequireFromString("7.5")}
	assert.Equal(t, "7.5", s.EffectiveTaxRate().String())
}

func TestStore_Location(t *testing.T) {
	if _, err := time.LoadLocation("Asia/Shanghai"); err != nil {
		t.Skip("系统缺少时区数据库")
	}

	assert.Equal(t, "Asia/Shanghai", (&Store{Timezone: "Asia/Shanghai"}).Location(time.UTC).String())
	assert.Equal(t, time.UTC, (&Store{Timezone: "Mars/Olympus"}).Location(time.UTC))
	assert.Equal(t, time.UTC, (&Store{}).Location(nil))
}
