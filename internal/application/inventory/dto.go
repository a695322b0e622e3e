package inventory

import (
	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/product"
	"github.com/xiebiao/retailpos/pkg/money"
)

const timeLayout = "2006-01-02 15:04:05"

// ProductStockResponse 调整后的商品库存
type ProductStockResponse struct {
	ID           uint   `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int    `json:"current_stock"`
	CostPrice    string `json:"cost_price"`
	RetailPrice  string `json:"retail_price"`
	ReorderLevel int    `json:"reorder_level"`
}

// MovementResponse 库存流水
type MovementResponse struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"product_id"`
	BatchID     uint   `json:"batch_id"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	ReferenceID *uint  `json:"reference_id,omitempty"`
	UserID      uint   `json:"user_id"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toProductStockResponse(p *product.Product) ProductStockResponse {
	return ProductStockResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		CurrentStock: p.CurrentStock,
		CostPrice:    money.Format(p.CostPrice),
		RetailPrice:  money.Format(p.RetailPrice),
		ReorderLevel: p.ReorderLevel,
	}
}

func toMovementResponse(m *inventory.Movement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		BatchID:     m.BatchID,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		ReferenceID: m.ReferenceID,
		UserID:      m.UserID,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt.Format(timeLayout),
	}
}
