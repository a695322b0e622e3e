package inventory

import (
	"context"
	"time"
)

// Recorder 库存流水记录器
// 只做格式校验和追加，不包含业务判断
type Recorder struct {
	repo MovementRepository
}

// NewRecorder 创建流水记录器
func NewRecorder(repo MovementRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record 追加一条流水
// 数量符号必须与类型一致：purchase/return为正，sale/expired/damaged为负，adjustment不为0
func (r *Recorder) Record(ctx context.Context, m *Movement) error {
	if !m.Type.Valid() {
		return ErrInvalidMovementType
	}

	switch m.Type {
	case MovementPurchase, MovementReturn:
		if m.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	case MovementSale, MovementExpired, MovementDamaged:
		if m.Quantity >= 0 {
			return ErrInvalidQuantity
		}
	default:
		if m.Quantity == 0 {
			return ErrInvalidQuantity
		}
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return r.repo.Create(ctx, m)
}
