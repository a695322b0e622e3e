package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product 商品
//
// CurrentStock是该商品所有有效批次CurrentQuantity之和的冗余汇总，
// 只能由库存分配器（扣减/回补/入库）在同一事务内维护，主数据接口不得直接修改。
type Product struct {
	ID           uint
	StoreID      uint
	SKU          string
	Name         string
	CurrentStock int
	CostPrice    decimal.Decimal // 默认进货成本，入库未指定单位成本时使用
	RetailPrice  decimal.Decimal
	ReorderLevel int // 库存低于或等于该值时发出补货提醒
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelongsTo 是否属于指定门店（租户隔离）
func (p *Product) BelongsTo(storeID uint) bool {
	return p.StoreID == storeID
}

// IsLowStock 是否达到补货线
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.ReorderLevel
}

// HasStock 汇总库存是否足够
func (p *Product) HasStock(quantity int) bool {
	return p.CurrentStock >= quantity
}

// StockShortage 库存不足明细（随错误返回给调用方）
type StockShortage struct {
	ProductID uint `json:"product_id"`
	Requested int  `json:"requested"`
	Available int  `json:"available"`
}
