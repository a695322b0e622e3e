package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/retailpos/internal/application/inventory"
	"github.com/xiebiao/retailpos/internal/interface/http/dto"
	"github.com/xiebiao/retailpos/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
	"github.com/xiebiao/retailpos/pkg/response"
)

// InventoryHandler 库存HTTP处理器
type InventoryHandler struct {
	adjustStock   *appinventory.AdjustStockUseCase
	listMovements *appinventory.ListMovementsUseCase
}

// NewInventoryHandler 创建库存处理器
func NewInventoryHandler(adjustStock *appinventory.AdjustStockUseCase, listMovements *appinventory.ListMovementsUseCase) *InventoryHandler {
	return &InventoryHandler{
		adjustStock:   adjustStock,
		listMovements: listMovements,
	}
}

// AdjustStock 手工库存调整
// @Summary      库存调整
// @Description  stock_in创建新批次；stock_out按FIFO扣减批次，可指定expired/damaged原因
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AdjustStockRequest true "调整信息"
// @Success      200 {object} response.Response{data=appinventory.AdjustStockResponse} "调整成功"
// @Failure      200 {object} response.Response "40001库存不足 / 40006批次覆盖不足 / 40404商品不存在"
// @Router       /inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var body dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperrors.ErrInvalidParams.WithMessage("参数错误: %s", err.Error()))
		return
	}

	userID, storeID := middleware.MustGetIdentity(c)
	req, err := body.ToApplication(storeID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.adjustStock.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// ListMovements 商品库存流水
// @Summary      库存流水
// @Description  按时间倒序分页查询商品的库存流水（审计）
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        id        path  int true  "商品ID"
// @Param        page      query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData{list=[]appinventory.MovementResponse}} "查询成功"
// @Router       /inventory/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	productID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var query dto.ListMovementsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperrors.ErrInvalidParams.WithMessage("参数错误: %s", err.Error()))
		return
	}

	storeID := middleware.GetStoreID(c)
	result, err := h.listMovements.Execute(c.Request.Context(), appinventory.ListMovementsRequest{
		StoreID:   storeID,
		ProductID: productID,
		Page:      query.Page,
		PageSize:  query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}
