package handler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsale "github.com/xiebiao/retailpos/internal/application/sale"
	"github.com/xiebiao/retailpos/internal/interface/http/dto"
	"github.com/xiebiao/retailpos/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
	"github.com/xiebiao/retailpos/pkg/logger"
	"github.com/xiebiao/retailpos/pkg/response"
)

// IdempotencyKeyHeader 结算请求的幂等键
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLen 幂等键最大长度
const maxIdempotencyKeyLen = 128

// IdempotencyStore 幂等键存储（redis.IdempotencyStore实现）
// 键按门店和收银员隔离，fingerprint用于识别同一个键被用在不同请求上
type IdempotencyStore interface {
	Claim(ctx context.Context, storeID, cashierID uint, key, fingerprint string) ([]byte, error)
	Save(ctx context.Context, storeID, cashierID uint, key, fingerprint string, body []byte) error
	Release(ctx context.Context, storeID, cashierID uint, key string) error
}

// SaleHandler 销售单HTTP处理器
type SaleHandler struct {
	createSale  *appsale.CreateSaleUseCase
	voidSale    *appsale.VoidSaleUseCase
	idempotency IdempotencyStore
}

// NewSaleHandler 创建销售单处理器
// idempotency为nil时忽略Idempotency-Key（未启用Redis）
func NewSaleHandler(createSale *appsale.CreateSaleUseCase, voidSale *appsale.VoidSaleUseCase, idempotency IdempotencyStore) *SaleHandler {
	return &SaleHandler{
		createSale:  createSale,
		voidSale:    voidSale,
		idempotency: idempotency,
	}
}

// CreateSale 结算
// @Summary      创建销售单
// @Description  锁定商品和客户，计算金额，预占信用额度，按FIFO扣减批次库存。任何一步失败整单回滚
// @Tags         销售
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key header string false "幂等键，重复提交返回首次的结算结果"
// @Param        request body dto.CreateSaleRequest true "结算信息"
// @Success      200 {object} response.Response{data=appsale.SaleResponse} "结算成功"
// @Failure      200 {object} response.Response "40001库存不足 / 40006批次覆盖不足 / 40007超出信用额度"
// @Router       /sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var body dto.CreateSaleRequest
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

	key := c.GetHeader(IdempotencyKeyHeader)
	if key == "" || h.idempotency == nil {
		h.create(c, req)
		return
	}
	if len(key) > maxIdempotencyKeyLen {
		response.Error(c, apperrors.ErrInvalidParams.WithMessage("Idempotency-Key过长"))
		return
	}
	h.createOnce(c, req, storeID, userID, key, requestFingerprint(body))
}

func (h *SaleHandler) create(c *gin.Context, req appsale.CreateSaleRequest) {
	resp, err := h.createSale.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// requestFingerprint 绑定后的请求体摘要
func requestFingerprint(body dto.CreateSaleRequest) string {
	encoded, _ := json.Marshal(body)
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}

// createOnce 同一收银员同一幂等键只结算一次
// 成功结果缓存后原样返回；失败时释放键，客户端可以用同一个键重试
func (h *SaleHandler) createOnce(c *gin.Context, req appsale.CreateSaleRequest, storeID, cashierID uint, key, fingerprint string) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx).With(zap.String("idempotency_key", key))

	cached, err := h.idempotency.Claim(ctx, storeID, cashierID, key, fingerprint)
	if err != nil {
		response.Error(c, err)
		return
	}
	if cached != nil {
		log.Info("重复结算请求，返回缓存结果")
		response.Success(c, json.RawMessage(cached))
		return
	}

	resp, err := h.createSale.Execute(ctx, req)
	if err != nil {
		if releaseErr := h.idempotency.Release(ctx, storeID, cashierID, key); releaseErr != nil {
			log.Warn("释放幂等键失败", zap.Error(releaseErr))
		}
		response.Error(c, err)
		return
	}

	// 已提交的销售单不能因为缓存失败而报错
	if encoded, err := json.Marshal(resp); err != nil {
		log.Warn("序列化结算结果失败", zap.Error(err))
	} else if err := h.idempotency.Save(ctx, storeID, cashierID, key, fingerprint, encoded); err != nil {
		log.Warn("保存幂等缓存失败", zap.Error(err))
	}
	response.Success(c, resp)
}

// VoidSale 作废
// @Summary      作废销售单
// @Description  按销售明细回补原批次、释放信用额度，销售单状态改为void
// @Tags         销售
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "销售单ID"
// @Success      200 {object} response.Response{data=appsale.SaleResponse} "作废成功"
// @Failure      200 {object} response.Response "40406销售单不存在 / 40008已作废 / 40900状态不允许作废"
// @Router       /sales/{id}/void [post]
func (h *SaleHandler) VoidSale(c *gin.Context) {
	saleID, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	userID, storeID := middleware.MustGetIdentity(c)
	resp, err := h.voidSale.Execute(c.Request.Context(), appsale.VoidSaleRequest{
		SaleID:  saleID,
		StoreID: storeID,
		UserID:  userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// parseID 解析路径中的正整数ID
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidParams.WithMessage("非法的%s: %s", name, c.Param(name))
	}
	return uint(id), nil
}
