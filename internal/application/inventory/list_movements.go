package inventory

import (
	"context"

	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/product"
)

// ListMovementsUseCase 商品库存流水查询（审计）
type ListMovementsUseCase struct {
	products  product.Repository
	movements inventory.MovementRepository
}

// NewListMovementsUseCase 创建流水查询用例
func NewListMovementsUseCase(products product.Repository, movements inventory.MovementRepository) *ListMovementsUseCase {
	return &ListMovementsUseCase{products: products, movements: movements}
}

// ListMovementsRequest 流水查询请求
type ListMovementsRequest struct {
	StoreID   uint
	ProductID uint
	Page      int // 页码(从1开始)
	PageSize  int // 每页数量
}

// ListMovementsResponse 流水分页结果
type ListMovementsResponse struct {
	List     []MovementResponse
	Total    int64
	Page     int
	PageSize int
}

// Execute 查询流水，按时间倒序
// page默认1，pageSize默认20、最大100
func (uc *ListMovementsUseCase) Execute(ctx context.Context, req ListMovementsRequest) (*ListMovementsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	p, err := uc.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.BelongsTo(req.StoreID) {
		return nil, product.ErrProductNotFound
	}

	movements, total, err := uc.movements.ListByProduct(ctx, req.StoreID, req.ProductID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]MovementResponse, len(movements))
	for i, m := range movements {
		list[i] = toMovementResponse(m)
	}
	return &ListMovementsResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
