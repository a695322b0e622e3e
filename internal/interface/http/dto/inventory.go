package dto

import (
	appinventory "github.com/xiebiao/retailpos/internal/application/inventory"
	"github.com/xiebiao/retailpos/internal/domain/inventory"
)

// AdjustStockRequest HTTP库存调整请求
type AdjustStockRequest struct {
	ProductID uint    `json:"product_id" binding:"required" example:"1"`
	Type      string  `json:"type" binding:"required,oneof=stock_in stock_out" example:"stock_out"`
	Reason    string  `json:"reason" binding:"omitempty,oneof=expired damaged" example:"damaged"` // 仅stock_out
	Quantity  int     `json:"quantity" binding:"required,min=1" example:"3"`
	UnitCost  *string `json:"unit_cost" example:"8.20"` // 仅stock_in，为空时使用商品成本价
	Notes     string  `json:"notes" binding:"max=500"`
}

// ToApplication 转换为应用层请求
func (r *AdjustStockRequest) ToApplication(storeID, userID uint) (appinventory.AdjustStockRequest, error) {
	unitCost, err := parseOptionalMoney("unit_cost", r.UnitCost)
	if err != nil {
		return appinventory.AdjustStockRequest{}, err
	}
	return appinventory.AdjustStockRequest{
		StoreID:   storeID,
		UserID:    userID,
		ProductID: r.ProductID,
		Type:      inventory.AdjustmentType(r.Type),
		Reason:    inventory.AdjustmentReason(r.Reason),
		Quantity:  r.Quantity,
		UnitCost:  unitCost,
		Notes:     r.Notes,
	}, nil
}

// ListMovementsQuery 流水分页查询参数
type ListMovementsQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}
