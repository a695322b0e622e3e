package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType 库存流水类型
type MovementType string

const (
	MovementPurchase   MovementType = "purchase"   // 入库（新批次）
	MovementSale       MovementType = "sale"       // 销售出库
	MovementAdjustment MovementType = "adjustment" // 手工调整出库
	MovementReturn     MovementType = "return"     // 作废/退货回补
	MovementExpired    MovementType = "expired"    // 过期报损
	MovementDamaged    MovementType = "damaged"    // 破损报损
)

// Valid 是否为已知类型
func (t MovementType) Valid() bool {
	switch t {
	case MovementPurchase, MovementSale, MovementAdjustment, MovementReturn, MovementExpired, MovementDamaged:
		return true
	}
	return false
}

// IsOutbound 是否为出库类型（分配器只接受这些类型）
func (t MovementType) IsOutbound() bool {
	switch t {
	case MovementSale, MovementAdjustment, MovementExpired, MovementDamaged:
		return true
	}
	return false
}

// Batch 库存批次（进货批次）
//
// 批次从不删除：数量扣到0时置为无效，回补时重新激活。
// FIFO顺序键：PurchaseDate升序，相同时按CreatedAt、ID升序。
type Batch struct {
	ID              uint
	ProductID       uint
	StoreID         uint
	InitialQuantity int
	CurrentQuantity int
	UnitCost        decimal.Decimal
	PurchaseDate    time.Time
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBatch 入库创建新批次
func NewBatch(storeID, productID uint, quantity int, unitCost decimal.Decimal, purchaseDate time.Time) *Batch {
	now := time.Now()
	return &Batch{
		ProductID:       productID,
		StoreID:         storeID,
		InitialQuantity: quantity,
		CurrentQuantity: quantity,
		UnitCost:        unitCost,
		PurchaseDate:    purchaseDate,
		IsActive:        quantity > 0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Deduct 扣减数量，扣到0时置为无效
func (b *Batch) Deduct(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > b.CurrentQuantity {
		return ErrBatchOverdrawn
	}
	b.CurrentQuantity -= quantity
	if b.CurrentQuantity == 0 {
		b.IsActive = false
	}
	b.UpdatedAt = time.Now()
	return nil
}

// Restock 回补数量并重新激活
func (b *Batch) Restock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	b.CurrentQuantity += quantity
	b.IsActive = true
	b.UpdatedAt = time.Now()
	return nil
}

// Movement 库存流水（不可变审计记录）
// Quantity带符号：入库/回补为正，出库为负
type Movement struct {
	ID          uint
	StoreID     uint
	ProductID   uint
	BatchID     uint
	Type        MovementType
	Quantity    int
	ReferenceID *uint // 关联销售单ID，手工调整时为nil
	UserID      uint
	Notes       string
	CreatedAt   time.Time
}

// CoverageShortage 批次覆盖不足明细
type CoverageShortage struct {
	ProductID uint `json:"product_id"`
	Requested int  `json:"requested"`
	Covered   int  `json:"covered"`
}
