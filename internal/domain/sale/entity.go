package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status 销售单状态
type Status string

const (
	StatusCompleted Status = "completed" // 已结算
	StatusVoid      Status = "void"      // 已作废
	StatusReturned  Status = "returned"  // 已退货（退货流程不在本服务）
)

// PaymentMethod 付款方式
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"    // 现金全额
	PaymentCredit  PaymentMethod = "credit"  // 全额赊账
	PaymentPartial PaymentMethod = "partial" // 部分现金+部分赊账
)

// Valid 是否为已知付款方式（空值表示由金额推断）
func (m PaymentMethod) Valid() bool {
	switch m {
	case "", PaymentCash, PaymentCredit, PaymentPartial:
		return true
	}
	return false
}

// UsesCredit 是否涉及赊账
func (m PaymentMethod) UsesCredit() bool {
	return m == PaymentCredit || m == PaymentPartial
}

// Sale 销售单（聚合根）
// 金额字段在持久化前已经过money.Round，满足 Subtotal-DiscountAmount+TaxAmount == TotalAmount
type Sale struct {
	ID             uint
	StoreID        uint
	CashierID      uint
	CustomerID     *uint
	SaleNumber     string // SALE-YYYYMMDD-NNNN，门店内唯一
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	DiscountType   DiscountType
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	AmountPaid     decimal.Decimal
	ChangeAmount   decimal.Decimal
	CreditAmount   decimal.Decimal
	PaymentMethod  PaymentMethod
	Status         Status
	Notes          string
	VoidedBy       *uint
	VoidedAt       *time.Time
	Items          []Item
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Item 销售明细
// 每个(销售单, 批次)一行：一条请求明细跨两个批次时生成两行
type Item struct {
	ID        uint
	SaleID    uint
	ProductID uint
	BatchID   uint
	Quantity  int
	UnitPrice decimal.Decimal // 成交单价快照
	Discount  decimal.Decimal // 分摊到本行的明细折扣
	Subtotal  decimal.Decimal // UnitPrice*Quantity - Discount
	UnitCost  decimal.Decimal // 批次成本快照（毛利报表使用）
	CreatedAt time.Time
}

// Void 作废：只有completed可以作废
func (s *Sale) Void(userID uint, at time.Time) error {
	switch s.Status {
	case StatusCompleted:
	case StatusVoid:
		return ErrAlreadyVoided
	default:
		return ErrInvalidSaleStatus.WithMessage("销售单状态为%s，不能作废", s.Status)
	}

	s.Status = StatusVoid
	s.VoidedBy = &userID
	s.VoidedAt = &at
	s.UpdatedAt = at
	return nil
}

// QuantitiesByProduct 按商品汇总明细数量
func (s *Sale) QuantitiesByProduct() map[uint]int {
	result := make(map[uint]int, len(s.Items))
	for _, item := range s.Items {
		result[item.ProductID] += item.Quantity
	}
	return result
}
