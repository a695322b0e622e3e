package product

import (
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

var (
	// ErrProductNotFound 商品不存在（或不属于当前门店）
	ErrProductNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品不存在")

	// ErrProductInactive 商品已下架
	ErrProductInactive = apperrors.New(apperrors.ErrCodeBusinessError, "商品已下架")

	// ErrInsufficientStock 汇总库存不足（任何写入之前快速失败）
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")
)

// NewInsufficientStockError 带请求数量与可用数量的库存不足错误
func NewInsufficientStockError(p *Product, requested int) error {
	return ErrInsufficientStock.
		WithMessage("商品[%s]库存不足: 需要%d, 可用%d", p.Name, requested, p.CurrentStock).
		WithDetails(StockShortage{
			ProductID: p.ID,
			Requested: requested,
			Available: p.CurrentStock,
		})
}
