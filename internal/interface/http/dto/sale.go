package dto

import (
	"github.com/shopspring/decimal"

	appsale "github.com/xiebiao/retailpos/internal/application/sale"
	"github.com/xiebiao/retailpos/internal/domain/sale"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
	"github.com/xiebiao/retailpos/pkg/money"
)

// CreateSaleRequest HTTP结算请求
// 金额一律使用字符串传输（如"12.50"），服务端用decimal解析
type CreateSaleRequest struct {
	Items          []CreateSaleItem `json:"items" binding:"required,min=1,dive"`
	DiscountAmount string           `json:"discount_amount" example:"5.00"`
	DiscountType   string           `json:"discount_type" binding:"omitempty,oneof=fixed percentage" example:"fixed"`
	AmountPaid     string           `json:"amount_paid" example:"100.00"`
	CustomerID     *uint            `json:"customer_id" example:"3"`
	PaymentMethod  string           `json:"payment_method" binding:"omitempty,oneof=cash credit partial" example:"cash"`
	CreditAmount   *string          `json:"credit_amount" example:"20.00"` // 为空时按实付金额推断
	Notes          string           `json:"notes" binding:"max=500"`
}

// CreateSaleItem HTTP结算明细
type CreateSaleItem struct {
	ProductID uint    `json:"product_id" binding:"required" example:"1"`
	Quantity  int     `json:"quantity" binding:"required,min=1,max=9999" example:"2"`
	UnitPrice *string `json:"unit_price" example:"12.50"` // 为空时使用商品零售价
	Discount  string  `json:"discount" example:"1.00"`    // 行折扣金额
}

// ToApplication 转换为应用层请求
// 门店和收银员来自Token，不接受客户端传入
func (r *CreateSaleRequest) ToApplication(storeID, cashierID uint) (appsale.CreateSaleRequest, error) {
	req := appsale.CreateSaleRequest{
		StoreID:       storeID,
		CashierID:     cashierID,
		Items:         make([]appsale.CreateSaleItem, len(r.Items)),
		DiscountType:  sale.DiscountType(r.DiscountType),
		CustomerID:    r.CustomerID,
		PaymentMethod: sale.PaymentMethod(r.PaymentMethod),
		Notes:         r.Notes,
	}

	var err error
	if req.DiscountAmount, err = parseMoney("discount_amount", r.DiscountAmount); err != nil {
		return req, err
	}
	if req.AmountPaid, err = parseMoney("amount_paid", r.AmountPaid); err != nil {
		return req, err
	}
	if req.CreditAmount, err = parseOptionalMoney("credit_amount", r.CreditAmount); err != nil {
		return req, err
	}

	for i, item := range r.Items {
		converted := appsale.CreateSaleItem{ProductID: item.ProductID, Quantity: item.Quantity}
		if converted.UnitPrice, err = parseOptionalMoney("unit_price", item.UnitPrice); err != nil {
			return req, err
		}
		if converted.Discount, err = parseMoney("discount", item.Discount); err != nil {
			return req, err
		}
		req.Items[i] = converted
	}
	return req, nil
}

func parseMoney(field, s string) (decimal.Decimal, error) {
	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, apperrors.ErrBindError.WithMessage("%s金额格式错误: %s", field, s)
	}
	return d, nil
}

func parseOptionalMoney(field string, s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := parseMoney(field, *s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
