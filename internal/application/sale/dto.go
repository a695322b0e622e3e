package sale

import (
	"time"

	"github.com/xiebiao/retailpos/internal/domain/sale"
	"github.com/xiebiao/retailpos/pkg/money"
)

// SaleResponse 销售单响应DTO
// 金额一律为两位小数字符串，避免JSON浮点精度问题
type SaleResponse struct {
	ID             uint               `json:"id"`
	StoreID        uint               `json:"store_id"`
	SaleNumber     string             `json:"sale_number"`
	CashierID      uint               `json:"cashier_id"`
	CustomerID     *uint              `json:"customer_id,omitempty"`
	Subtotal       string             `json:"subtotal"`
	DiscountAmount string             `json:"discount_amount"`
	DiscountType   string             `json:"discount_type,omitempty"`
	TaxAmount      string             `json:"tax_amount"`
	TotalAmount    string             `json:"total_amount"`
	AmountPaid     string             `json:"amount_paid"`
	ChangeAmount   string             `json:"change_amount"`
	CreditAmount   string             `json:"credit_amount"`
	PaymentMethod  string             `json:"payment_method"`
	Status         string             `json:"status"`
	Notes          string             `json:"notes,omitempty"`
	VoidedBy       *uint              `json:"voided_by,omitempty"`
	VoidedAt       string             `json:"voided_at,omitempty"`
	CreatedAt      string             `json:"created_at"`
	Items          []SaleItemResponse `json:"items"`
}

// SaleItemResponse 销售明细（每个批次一行）
type SaleItemResponse struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	BatchID   uint   `json:"batch_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Discount  string `json:"discount"`
	Subtotal  string `json:"subtotal"`
	UnitCost  string `json:"unit_cost"`
}

const timeLayout = "2006-01-02 15:04:05"

// toSaleResponse 实体 → 响应DTO
func toSaleResponse(s *sale.Sale) *SaleResponse {
	resp := &SaleResponse{
		ID:             s.ID,
		StoreID:        s.StoreID,
		SaleNumber:     s.SaleNumber,
		CashierID:      s.CashierID,
		CustomerID:     s.CustomerID,
		Subtotal:       money.Format(s.Subtotal),
		DiscountAmount: money.Format(s.DiscountAmount),
		DiscountType:   string(s.DiscountType),
		TaxAmount:      money.Format(s.TaxAmount),
		TotalAmount:    money.Format(s.TotalAmount),
		AmountPaid:     money.Format(s.AmountPaid),
		ChangeAmount:   money.Format(s.ChangeAmount),
		CreditAmount:   money.Format(s.CreditAmount),
		PaymentMethod:  string(s.PaymentMethod),
		Status:         string(s.Status),
		Notes:          s.Notes,
		VoidedBy:       s.VoidedBy,
		CreatedAt:      s.CreatedAt.Format(timeLayout),
		Items:          make([]SaleItemResponse, len(s.Items)),
	}
	if s.VoidedAt != nil {
		resp.VoidedAt = s.VoidedAt.Format(timeLayout)
	}
	for i, item := range s.Items {
		resp.Items[i] = SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			BatchID:   item.BatchID,
			Quantity:  item.Quantity,
			UnitPrice: money.Format(item.UnitPrice),
			Discount:  money.Format(item.Discount),
			Subtotal:  money.Format(item.Subtotal),
			UnitCost:  money.Format(item.UnitCost),
		}
	}
	return resp
}

// Settings 结算的运行参数
type Settings struct {
	// Location 门店未配置时区时用于生成单号日期
	Location *time.Location
	// Now 当前时间，测试可替换
	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
