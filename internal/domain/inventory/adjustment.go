package inventory

import apperrors "github.com/xiebiao/retailpos/pkg/errors"

// AdjustmentType 手工库存调整方向
type AdjustmentType string

const (
	AdjustStockIn  AdjustmentType = "stock_in"  // 入库，创建新批次
	AdjustStockOut AdjustmentType = "stock_out" // 出库，FIFO扣减
)

// AdjustmentReason 出库原因，决定流水类型
type AdjustmentReason string

const (
	ReasonNone    AdjustmentReason = ""
	ReasonExpired AdjustmentReason = "expired"
	ReasonDamaged AdjustmentReason = "damaged"
)

var (
	// ErrInvalidAdjustmentType 调整类型不合法
	ErrInvalidAdjustmentType = apperrors.New(apperrors.ErrCodeInvalidParams, "调整类型必须为stock_in或stock_out")

	// ErrInvalidAdjustmentReason 原因不合法（只有出库可以指定原因）
	ErrInvalidAdjustmentReason = apperrors.New(apperrors.ErrCodeInvalidParams, "调整原因不合法")
)

// MovementTypeFor 调整对应的流水类型
// 入库为purchase；出库默认adjustment，报损原因分别对应expired/damaged
func MovementTypeFor(t AdjustmentType, reason AdjustmentReason) (MovementType, error) {
	switch t {
	case AdjustStockIn:
		if reason != ReasonNone {
			return "", ErrInvalidAdjustmentReason
		}
		return MovementPurchase, nil
	case AdjustStockOut:
		switch reason {
		case ReasonNone:
			return MovementAdjustment, nil
		case ReasonExpired:
			return MovementExpired, nil
		case ReasonDamaged:
			return MovementDamaged, nil
		}
		return "", ErrInvalidAdjustmentReason
	}
	return "", ErrInvalidAdjustmentType
}
