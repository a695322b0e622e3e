package inventory

import (
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

var (
	// ErrBatchNotFound 批次不存在（或不属于当前门店）
	ErrBatchNotFound = apperrors.New(apperrors.ErrCodeBatchNotFound, "库存批次不存在")

	// ErrInsufficientBatchCoverage 有效批次总量不足以覆盖请求数量
	// 汇总库存校验通过但批次不够，说明汇总与批次账不一致，整笔操作拒绝
	ErrInsufficientBatchCoverage = apperrors.New(apperrors.ErrCodeInsufficientBatchCoverage, "批次库存不足")

	// ErrInvalidQuantity 数量必须大于0
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrInvalidMovementType 流水类型与操作不匹配
	ErrInvalidMovementType = apperrors.New(apperrors.ErrCodeInvalidParams, "库存流水类型不合法")

	// ErrBatchOverdrawn 单批次扣减超过剩余数量（分配器内部不变量被破坏）
	ErrBatchOverdrawn = apperrors.New(apperrors.ErrCodeInternal, "批次扣减超出剩余数量")
)

func newCoverageError(productID uint, requested, covered int) error {
	return ErrInsufficientBatchCoverage.
		WithMessage("批次库存不足: 需要%d, 有效批次合计%d", requested, covered).
		WithDetails(CoverageShortage{
			ProductID: productID,
			Requested: requested,
			Covered:   covered,
		})
}
