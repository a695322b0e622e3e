package sale

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/retailpos/internal/application/workflow"
	"github.com/xiebiao/retailpos/internal/domain/customer"
	"github.com/xiebiao/retailpos/internal/domain/event"
	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/product"
	"github.com/xiebiao/retailpos/internal/domain/sale"
	"github.com/xiebiao/retailpos/internal/domain/shared"
	"github.com/xiebiao/retailpos/internal/domain/store"
	"github.com/xiebiao/retailpos/pkg/logger"
	"github.com/xiebiao/retailpos/pkg/metrics"
	"github.com/xiebiao/retailpos/pkg/money"
	"github.com/xiebiao/retailpos/pkg/tracing"
)

const tracerName = "retailpos/application/sale"

// CreateSaleUseCase 结算用例
// 在一个事务内完成：校验 → 计算金额 → 占用信用额度 → 生成单号 → 写单头 → FIFO扣减批次 → 写明细
type CreateSaleUseCase struct {
	txManager shared.TxManager
	stores    store.Repository
	products  product.Repository
	sales     sale.Repository
	ledger    *customer.CreditLedger
	allocator *inventory.Allocator
	numbers   *sale.NumberGenerator
	publisher event.Publisher
	settings  Settings
}

// NewCreateSaleUseCase 创建结算用例
func NewCreateSaleUseCase(
	txManager shared.TxManager,
	stores store.Repository,
	products product.Repository,
	sales sale.Repository,
	ledger *customer.CreditLedger,
	allocator *inventory.Allocator,
	numbers *sale.NumberGenerator,
	publisher event.Publisher,
	settings Settings,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txManager: txManager,
		stores:    stores,
		products:  products,
		sales:     sales,
		ledger:    ledger,
		allocator: allocator,
		numbers:   numbers,
		publisher: publisher,
		settings:  settings,
	}
}

// CreateSaleRequest 结算请求
type CreateSaleRequest struct {
	StoreID        uint // 从JWT中提取
	CashierID      uint // 从JWT中提取
	Items          []CreateSaleItem
	DiscountAmount decimal.Decimal
	DiscountType   sale.DiscountType
	AmountPaid     decimal.Decimal
	CustomerID     *uint
	PaymentMethod  sale.PaymentMethod
	CreditAmount   *decimal.Decimal
	Notes          string
}

// CreateSaleItem 请求明细
type CreateSaleItem struct {
	ProductID uint
	Quantity  int
	UnitPrice *decimal.Decimal // 为空时使用商品零售价
	Discount  decimal.Decimal
}

// Execute 执行结算
//
// 加锁顺序固定：门店 → 商品（ID升序）→ 客户 → 批次（FIFO顺序），
// 两个结算争用同一组商品时不会出现环形等待。
// 任何一步失败整个事务回滚，调用方拿到带明细的业务错误。
func (uc *CreateSaleUseCase) Execute(ctx context.Context, req CreateSaleRequest) (resp *SaleResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateSale")
	defer func() { tracing.EndSpan(span, err) }()

	log := logger.FromContext(ctx).With(
		zap.Uint("store_id", req.StoreID),
		zap.Uint("cashier_id", req.CashierID),
	)
	tracker := workflow.NewTracker(log, workflow.OpCreateSale)

	var created *sale.Sale
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		s, err := uc.settle(txCtx, tracker, req)
		if err != nil {
			return err
		}
		created = s
		return nil
	})
	if tracker.Finish(err) == workflow.PhaseAborted {
		return nil, err
	}

	metrics.IncCounter(metrics.SalesSettledTotal)
	log.Info("销售单已结算",
		zap.Uint("sale_id", created.ID),
		zap.String("sale_number", created.SaleNumber),
		zap.String("total_amount", money.Format(created.TotalAmount)),
		zap.String("payment_method", string(created.PaymentMethod)))

	uc.afterCommit(ctx, created)
	return toSaleResponse(created), nil
}

func (uc *CreateSaleUseCase) settle(ctx context.Context, tracker *workflow.Tracker, req CreateSaleRequest) (*sale.Sale, error) {
	if len(req.Items) == 0 {
		return nil, sale.ErrEmptySale
	}

	// ========================================
	// validating：锁门店、锁商品、校验客户
	// ========================================
	st, err := uc.stores.LockByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, store.ErrStoreInactive
	}

	products, err := uc.lockProducts(ctx, req.StoreID, req.Items)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		if _, err := uc.ledger.Lock(ctx, req.StoreID, *req.CustomerID); err != nil {
			return nil, err
		}
	}

	lines := buildLines(req.Items, products)
	totals, err := sale.Compose(lines,
		sale.Discount{Amount: req.DiscountAmount, Type: req.DiscountType},
		sale.TaxConfig{Enabled: st.TaxEnabled, Rate: st.EffectiveTaxRate()},
		req.AmountPaid)
	if err != nil {
		return nil, err
	}

	payment, err := sale.ResolvePayment(sale.PaymentRequest{
		Method:       req.PaymentMethod,
		CustomerID:   req.CustomerID,
		CreditAmount: req.CreditAmount,
	}, totals)
	if err != nil {
		return nil, err
	}

	// 占用额度在任何库存变动之前，超额时直接中止
	if payment.Method.UsesCredit() && payment.CreditAmount.IsPositive() {
		if _, err := uc.ledger.ReserveCredit(ctx, req.StoreID, *req.CustomerID, payment.CreditAmount); err != nil {
			return nil, err
		}
	}

	// ========================================
	// allocating：生成单号、写单头、FIFO扣减
	// ========================================
	tracker.Enter(workflow.PhaseAllocating)

	now := uc.settings.now()
	number, err := uc.numbers.NextNumber(ctx, st.ID, now.In(st.Location(uc.settings.Location)))
	if err != nil {
		return nil, err
	}

	s := &sale.Sale{
		StoreID:        req.StoreID,
		CashierID:      req.CashierID,
		CustomerID:     req.CustomerID,
		SaleNumber:     number,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		DiscountType:   discountTypeOf(req),
		TaxAmount:      totals.TaxAmount,
		TotalAmount:    totals.TotalAmount,
		AmountPaid:     totals.AmountPaid,
		ChangeAmount:   totals.ChangeAmount,
		CreditAmount:   payment.CreditAmount,
		PaymentMethod:  payment.Method,
		Status:         sale.StatusCompleted,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.sales.Create(ctx, s); err != nil {
		return nil, err
	}

	var items []sale.Item
	for _, line := range lines {
		allocations, err := uc.allocator.Allocate(ctx, inventory.AllocateRequest{
			StoreID:      req.StoreID,
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			MovementType: inventory.MovementSale,
			ReferenceID:  &s.ID,
			UserID:       req.CashierID,
			Notes:        s.SaleNumber,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, splitLine(line, allocations)...)
	}

	// ========================================
	// settling：写明细
	// ========================================
	tracker.Enter(workflow.PhaseSettling)

	if err := uc.sales.AddItems(ctx, s.ID, items); err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

// lockProducts 按ID升序锁定商品并校验汇总库存
// 同一商品出现在多行时按合计数量校验
func (uc *CreateSaleUseCase) lockProducts(ctx context.Context, storeID uint, items []CreateSaleItem) (map[uint]*product.Product, error) {
	requested := make(map[uint]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, sale.ErrInvalidQuantity
		}
		requested[item.ProductID] += item.Quantity
	}

	ids := make([]uint, 0, len(requested))
	for id := range requested {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products := make(map[uint]*product.Product, len(ids))
	for _, id := range ids {
		p, err := uc.products.LockByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !p.BelongsTo(storeID) {
			return nil, product.ErrProductNotFound
		}
		if !p.IsActive {
			return nil, product.ErrProductInactive.WithMessage("商品[%s]已下架", p.Name)
		}
		if !p.HasStock(requested[id]) {
			return nil, product.NewInsufficientStockError(p, requested[id])
		}
		products[id] = p
	}
	return products, nil
}

// buildLines 未指定单价时取零售价；精度由Compose校验
func buildLines(items []CreateSaleItem, products map[uint]*product.Product) []sale.Line {
	lines := make([]sale.Line, len(items))
	for i, item := range items {
		price := products[item.ProductID].RetailPrice
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		lines[i] = sale.Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: price,
			Discount:  item.Discount,
		}
	}
	return lines
}

// splitLine 每个批次一条明细
func splitLine(line sale.Line, allocations []inventory.Allocation) []sale.Item {
	quantities := make([]int, len(allocations))
	for i, a := range allocations {
		quantities[i] = a.Quantity
	}

	shares := line.Split(quantities)
	items := make([]sale.Item, len(allocations))
	for i, a := range allocations {
		items[i] = sale.Item{
			ProductID: line.ProductID,
			BatchID:   a.BatchID,
			Quantity:  a.Quantity,
			UnitPrice: line.UnitPrice,
			Discount:  shares[i].Discount,
			Subtotal:  shares[i].Subtotal,
			UnitCost:  a.UnitCost,
		}
	}
	return items
}

func discountTypeOf(req CreateSaleRequest) sale.DiscountType {
	if req.DiscountAmount.IsZero() {
		return ""
	}
	if req.DiscountType == "" {
		return sale.DiscountFixed
	}
	return req.DiscountType
}

func (uc *CreateSaleUseCase) afterCommit(ctx context.Context, s *sale.Sale) {
	workflow.Publish(ctx, uc.publisher, event.SaleCreated, saleEvent(s, s.CashierID, time.Now()))
	workflow.NotifyLowStock(ctx, uc.publisher, uc.products, productIDs(s))
}

func saleEvent(s *sale.Sale, userID uint, at time.Time) event.SaleEvent {
	return event.SaleEvent{
		SaleID:        s.ID,
		StoreID:       s.StoreID,
		SaleNumber:    s.SaleNumber,
		CustomerID:    s.CustomerID,
		TotalAmount:   money.Format(s.TotalAmount),
		CreditAmount:  money.Format(s.CreditAmount),
		PaymentMethod: string(s.PaymentMethod),
		UserID:        userID,
		OccurredAt:    at,
	}
}

// productIDs 明细涉及的商品，升序去重
func productIDs(s *sale.Sale) []uint {
	quantities := s.QuantitiesByProduct()
	ids := make([]uint, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
