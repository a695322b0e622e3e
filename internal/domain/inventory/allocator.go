package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/retailpos/internal/domain/product"
)

// AllocateRequest 出库分配请求
type AllocateRequest struct {
	StoreID      uint
	ProductID    uint
	Quantity     int
	MovementType MovementType // sale | adjustment | expired | damaged
	ReferenceID  *uint        // 销售单ID
	UserID       uint
	Notes        string
}

// Allocation 单个批次的扣减结果
// 一条销售明细行跨多个批次时产生多个Allocation，对应多条SaleItem
type Allocation struct {
	BatchID  uint
	Quantity int
	UnitCost decimal.Decimal // 批次成本快照
	Movement *Movement
}

// RestockRequest 批次回补请求
type RestockRequest struct {
	StoreID     uint
	BatchID     uint
	Quantity    int
	ReferenceID *uint
	UserID      uint
	Notes       string
}

// ReceiveRequest 入库请求（创建新批次）
type ReceiveRequest struct {
	StoreID      uint
	ProductID    uint
	Quantity     int
	UnitCost     decimal.Decimal
	PurchaseDate time.Time
	UserID       uint
	Notes        string
}

// Allocator FIFO库存分配器
//
// 所有方法都必须在TxManager.Transaction内调用。
// 调用方负责先锁定商品行（product.Repository.LockByID），
// 分配器随后按FIFO顺序锁定批次，保证加锁顺序为 商品 → 批次。
type Allocator struct {
	batches  BatchRepository
	products product.Repository
	recorder *Recorder
}

// NewAllocator 创建分配器
func NewAllocator(batches BatchRepository, products product.Repository, recorder *Recorder) *Allocator {
	return &Allocator{
		batches:  batches,
		products: products,
		recorder: recorder,
	}
}

// Allocate 按最早进货优先扣减批次
//
// 先在锁定的批次上计算完整的扣减计划，覆盖不足时在任何写入之前返回
// ErrInsufficientBatchCoverage；计划可行时逐批次扣减、记录流水，
// 最后按请求总量扣减商品汇总库存。
func (a *Allocator) Allocate(ctx context.Context, req AllocateRequest) ([]Allocation, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !req.MovementType.IsOutbound() {
		return nil, ErrInvalidMovementType
	}

	batches, err := a.batches.LockAvailable(ctx, req.StoreID, req.ProductID)
	if err != nil {
		return nil, err
	}

	plan, covered := planFIFO(batches, req.Quantity)
	if covered < req.Quantity {
		return nil, newCoverageError(req.ProductID, req.Quantity, covered)
	}

	allocations := make([]Allocation, 0, len(plan))
	for _, step := range plan {
		if err := step.batch.Deduct(step.quantity); err != nil {
			return nil, err
		}
		if err := a.batches.Update(ctx, step.batch); err != nil {
			return nil, err
		}

		movement := &Movement{
			StoreID:     req.StoreID,
			ProductID:   req.ProductID,
			BatchID:     step.batch.ID,
			Type:        req.MovementType,
			Quantity:    -step.quantity,
			ReferenceID: req.ReferenceID,
			UserID:      req.UserID,
			Notes:       req.Notes,
		}
		if err := a.recorder.Record(ctx, movement); err != nil {
			return nil, err
		}

		allocations = append(allocations, Allocation{
			BatchID:  step.batch.ID,
			Quantity: step.quantity,
			UnitCost: step.batch.UnitCost,
			Movement: movement,
		})
	}

	if err := a.products.UpdateStock(ctx, req.ProductID, -req.Quantity); err != nil {
		return nil, err
	}
	return allocations, nil
}

// Restock 回补单个批次（作废销售的逆操作），同时增加商品汇总库存
func (a *Allocator) Restock(ctx context.Context, req RestockRequest) (*Batch, *Movement, error) {
	if req.Quantity <= 0 {
		return nil, nil, ErrInvalidQuantity
	}

	batch, err := a.batches.LockByID(ctx, req.BatchID)
	if err != nil {
		return nil, nil, err
	}
	if batch.StoreID != req.StoreID {
		return nil, nil, ErrBatchNotFound
	}

	if err := batch.Restock(req.Quantity); err != nil {
		return nil, nil, err
	}
	if err := a.batches.Update(ctx, batch); err != nil {
		return nil, nil, err
	}

	movement := &Movement{
		StoreID:     req.StoreID,
		ProductID:   batch.ProductID,
		BatchID:     batch.ID,
		Type:        MovementReturn,
		Quantity:    req.Quantity,
		ReferenceID: req.ReferenceID,
		UserID:      req.UserID,
		Notes:       req.Notes,
	}
	if err := a.recorder.Record(ctx, movement); err != nil {
		return nil, nil, err
	}

	if err := a.products.UpdateStock(ctx, batch.ProductID, req.Quantity); err != nil {
		return nil, nil, err
	}
	return batch, movement, nil
}

// Receive 入库：创建新批次并记录purchase流水，增加商品汇总库存
func (a *Allocator) Receive(ctx context.Context, req ReceiveRequest) (*Batch, *Movement, error) {
	if req.Quantity <= 0 {
		return nil, nil, ErrInvalidQuantity
	}

	purchaseDate := req.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = time.Now()
	}

	batch := NewBatch(req.StoreID, req.ProductID, req.Quantity, req.UnitCost, purchaseDate)
	if err := a.batches.Create(ctx, batch); err != nil {
		return nil, nil, err
	}

	movement := &Movement{
		StoreID:   req.StoreID,
		ProductID: req.ProductID,
		BatchID:   batch.ID,
		Type:      MovementPurchase,
		Quantity:  req.Quantity,
		UserID:    req.UserID,
		Notes:     req.Notes,
	}
	if err := a.recorder.Record(ctx, movement); err != nil {
		return nil, nil, err
	}

	if err := a.products.UpdateStock(ctx, req.ProductID, req.Quantity); err != nil {
		return nil, nil, err
	}
	return batch, movement, nil
}

type planStep struct {
	batch    *Batch
	quantity int
}

// planFIFO 在已排序的批次上计算扣减计划，返回计划与可覆盖数量
// batches必须已按FIFO顺序排列
func planFIFO(batches []*Batch, requested int) ([]planStep, int) {
	remaining := requested
	plan := make([]planStep, 0, len(batches))

	for _, b := range batches {
		if remaining == 0 {
			break
		}
		if !b.IsActive || b.CurrentQuantity <= 0 {
			continue
		}
		take := b.CurrentQuantity
		if take > remaining {
			take = remaining
		}
		plan = append(plan, planStep{batch: b, quantity: take})
		remaining -= take
	}
	return plan, requested - remaining
}
