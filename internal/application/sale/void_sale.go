package sale

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/retailpos/internal/application/workflow"
	"github.com/xiebiao/retailpos/internal/domain/customer"
	"github.com/xiebiao/retailpos/internal/domain/event"
	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/product"
	"github.com/xiebiao/retailpos/internal/domain/sale"
	"github.com/xiebiao/retailpos/internal/domain/shared"
	"github.com/xiebiao/retailpos/pkg/logger"
	"github.com/xiebiao/retailpos/pkg/metrics"
	"github.com/xiebiao/retailpos/pkg/tracing"
)

// VoidSaleUseCase 作废用例，结算的精确逆操作
type VoidSaleUseCase struct {
	txManager shared.TxManager
	products  product.Repository
	sales     sale.Repository
	ledger    *customer.CreditLedger
	allocator *inventory.Allocator
	publisher event.Publisher
	settings  Settings
}

// NewVoidSaleUseCase 创建作废用例
func NewVoidSaleUseCase(
	txManager shared.TxManager,
	products product.Repository,
	sales sale.Repository,
	ledger *customer.CreditLedger,
	allocator *inventory.Allocator,
	publisher event.Publisher,
	settings Settings,
) *VoidSaleUseCase {
	return &VoidSaleUseCase{
		txManager: txManager,
		products:  products,
		sales:     sales,
		ledger:    ledger,
		allocator: allocator,
		publisher: publisher,
		settings:  settings,
	}
}

// VoidSaleRequest 作废请求
type VoidSaleRequest struct {
	SaleID  uint
	StoreID uint
	UserID  uint
}

// Execute 执行作废
//
// 每条明细回补到原批次并记录return流水，商品汇总库存按明细数量加回，
// 赊账金额从客户欠款中释放（最低为0）。
// 加锁顺序：销售单 → 商品（ID升序）→ 客户 → 批次。
func (uc *VoidSaleUseCase) Execute(ctx context.Context, req VoidSaleRequest) (resp *SaleResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "VoidSale")
	defer func() { tracing.EndSpan(span, err) }()

	log := logger.FromContext(ctx).With(
		zap.Uint("store_id", req.StoreID),
		zap.Uint("sale_id", req.SaleID),
		zap.Uint("user_id", req.UserID),
	)
	tracker := workflow.NewTracker(log, workflow.OpVoidSale)

	var voided *sale.Sale
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		s, err := uc.void(txCtx, tracker, req)
		if err != nil {
			return err
		}
		voided = s
		return nil
	})
	if tracker.Finish(err) == workflow.PhaseAborted {
		return nil, err
	}

	metrics.IncCounter(metrics.SalesVoidedTotal)
	log.Info("销售单已作废", zap.String("sale_number", voided.SaleNumber))

	workflow.Publish(ctx, uc.publisher, event.SaleVoided, saleEvent(voided, req.UserID, time.Now()))
	return toSaleResponse(voided), nil
}

func (uc *VoidSaleUseCase) void(ctx context.Context, tracker *workflow.Tracker, req VoidSaleRequest) (*sale.Sale, error) {
	s, err := uc.sales.LockByID(ctx, req.SaleID)
	if err != nil {
		return nil, err
	}
	if s.StoreID != req.StoreID {
		return nil, sale.ErrSaleNotFound
	}
	if err := s.Void(req.UserID, uc.settings.now()); err != nil {
		return nil, err
	}

	quantities := s.QuantitiesByProduct()
	ids := make([]uint, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if _, err := uc.products.LockByID(ctx, id); err != nil {
			return nil, err
		}
	}

	// 客户行在批次之前加锁，所以先释放额度再回补批次
	if s.CustomerID != nil && s.CreditAmount.IsPositive() {
		if _, err := uc.ledger.ReleaseCredit(ctx, s.StoreID, *s.CustomerID, s.CreditAmount); err != nil {
			return nil, err
		}
	}

	tracker.Enter(workflow.PhaseAllocating)
	for _, item := range s.Items {
		_, _, err := uc.allocator.Restock(ctx, inventory.RestockRequest{
			StoreID:     s.StoreID,
			BatchID:     item.BatchID,
			Quantity:    item.Quantity,
			ReferenceID: &s.ID,
			UserID:      req.UserID,
			Notes:       "作废 " + s.SaleNumber,
		})
		if err != nil {
			return nil, err
		}
	}

	tracker.Enter(workflow.PhaseSettling)
	if err := uc.sales.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
