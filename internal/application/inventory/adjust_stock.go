package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/retailpos/internal/application/workflow"
	"github.com/xiebiao/retailpos/internal/domain/event"
	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/product"
	"github.com/xiebiao/retailpos/internal/domain/shared"
	"github.com/xiebiao/retailpos/pkg/logger"
	"github.com/xiebiao/retailpos/pkg/metrics"
	"github.com/xiebiao/retailpos/pkg/money"
	"github.com/xiebiao/retailpos/pkg/tracing"
)

const tracerName = "retailpos/application/inventory"

// AdjustStockUseCase 手工库存调整
// stock_in创建新批次；stock_out不生成销售单，直接FIFO扣减
type AdjustStockUseCase struct {
	txManager shared.TxManager
	products  product.Repository
	allocator *inventory.Allocator
	publisher event.Publisher
}

// NewAdjustStockUseCase 创建库存调整用例
func NewAdjustStockUseCase(
	txManager shared.TxManager,
	products product.Repository,
	allocator *inventory.Allocator,
	publisher event.Publisher,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		txManager: txManager,
		products:  products,
		allocator: allocator,
		publisher: publisher,
	}
}

// AdjustStockRequest 库存调整请求
type AdjustStockRequest struct {
	StoreID   uint
	UserID    uint
	ProductID uint
	Type      inventory.AdjustmentType
	Reason    inventory.AdjustmentReason // 仅stock_out：expired | damaged
	Quantity  int
	UnitCost  *decimal.Decimal // 仅stock_in，为空时使用商品成本价
	Notes     string
}

// AdjustStockResponse 调整结果
// Movement是第一条流水；出库跨多个批次时Movements包含全部流水
type AdjustStockResponse struct {
	Product   ProductStockResponse `json:"product"`
	Movement  MovementResponse     `json:"movement"`
	Movements []MovementResponse   `json:"movements"`
}

// Execute 执行库存调整
func (uc *AdjustStockUseCase) Execute(ctx context.Context, req AdjustStockRequest) (resp *AdjustStockResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "AdjustStock")
	defer func() { tracing.EndSpan(span, err) }()

	log := logger.FromContext(ctx).With(
		zap.Uint("store_id", req.StoreID),
		zap.Uint("product_id", req.ProductID),
		zap.String("type", string(req.Type)),
		zap.Int("quantity", req.Quantity),
	)
	tracker := workflow.NewTracker(log, workflow.OpAdjustStock)

	movementType, err := inventory.MovementTypeFor(req.Type, req.Reason)
	if err != nil {
		tracker.Finish(err)
		return nil, err
	}

	var (
		adjusted  *product.Product
		movements []*inventory.Movement
	)
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		p, err := uc.lockProduct(txCtx, req)
		if err != nil {
			return err
		}

		tracker.Enter(workflow.PhaseAllocating)
		if req.Type == inventory.AdjustStockIn {
			movements, err = uc.receive(txCtx, req, p)
		} else {
			movements, err = uc.deduct(txCtx, req, movementType)
		}
		if err != nil {
			return err
		}

		tracker.Enter(workflow.PhaseSettling)
		adjusted, err = uc.products.FindByID(txCtx, req.ProductID)
		return err
	})
	if tracker.Finish(err) == workflow.PhaseAborted {
		return nil, err
	}

	metrics.IncCounterVec(metrics.StockAdjustmentsTotal, map[string]string{"type": string(movementType)})
	log.Info("库存已调整", zap.Int("current_stock", adjusted.CurrentStock), zap.Int("movements", len(movements)))

	uc.afterCommit(ctx, req, adjusted, movementType)
	return toAdjustStockResponse(adjusted, movements), nil
}

func (uc *AdjustStockUseCase) lockProduct(ctx context.Context, req AdjustStockRequest) (*product.Product, error) {
	if req.Quantity <= 0 {
		return nil, inventory.ErrInvalidQuantity
	}

	p, err := uc.products.LockByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.BelongsTo(req.StoreID) {
		return nil, product.ErrProductNotFound
	}
	if !p.IsActive {
		return nil, product.ErrProductInactive
	}
	if req.Type == inventory.AdjustStockOut && !p.HasStock(req.Quantity) {
		return nil, product.NewInsufficientStockError(p, req.Quantity)
	}
	return p, nil
}

func (uc *AdjustStockUseCase) receive(ctx context.Context, req AdjustStockRequest, p *product.Product) ([]*inventory.Movement, error) {
	unitCost := p.CostPrice
	if req.UnitCost != nil {
		if req.UnitCost.IsNegative() {
			return nil, inventory.ErrInvalidQuantity.WithMessage("单位成本不能为负")
		}
		unitCost = *req.UnitCost
	}

	_, movement, err := uc.allocator.Receive(ctx, inventory.ReceiveRequest{
		StoreID:   req.StoreID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitCost:  money.Round(unitCost),
		UserID:    req.UserID,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return []*inventory.Movement{movement}, nil
}

func (uc *AdjustStockUseCase) deduct(ctx context.Context, req AdjustStockRequest, movementType inventory.MovementType) ([]*inventory.Movement, error) {
	allocations, err := uc.allocator.Allocate(ctx, inventory.AllocateRequest{
		StoreID:      req.StoreID,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		MovementType: movementType,
		UserID:       req.UserID,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}

	movements := make([]*inventory.Movement, len(allocations))
	for i, a := range allocations {
		movements[i] = a.Movement
	}
	return movements, nil
}

func (uc *AdjustStockUseCase) afterCommit(ctx context.Context, req AdjustStockRequest, p *product.Product, movementType inventory.MovementType) {
	quantity := req.Quantity
	if req.Type == inventory.AdjustStockOut {
		quantity = -quantity
	}
	workflow.Publish(ctx, uc.publisher, event.StockAdjusted, event.StockAdjustedEvent{
		StoreID:      req.StoreID,
		ProductID:    p.ID,
		MovementType: string(movementType),
		Quantity:     quantity,
		CurrentStock: p.CurrentStock,
		UserID:       req.UserID,
		OccurredAt:   time.Now(),
	})
	if req.Type == inventory.AdjustStockOut {
		workflow.NotifyLowStock(ctx, uc.publisher, uc.products, []uint{p.ID})
	}
}

func toAdjustStockResponse(p *product.Product, movements []*inventory.Movement) *AdjustStockResponse {
	resp := &AdjustStockResponse{
		Product:   toProductStockResponse(p),
		Movements: make([]MovementResponse, len(movements)),
	}
	for i, m := range movements {
		resp.Movements[i] = toMovementResponse(m)
	}
	if len(resp.Movements) > 0 {
		resp.Movement = resp.Movements[0]
	}
	return resp
}
