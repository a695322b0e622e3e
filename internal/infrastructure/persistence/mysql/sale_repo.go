package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/retailpos/internal/domain/sale"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

// saleRepository 销售单仓储
// 必须在事务中调用(通过getDB从context获取事务DB)
type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository 创建销售单仓储
func NewSaleRepository(db *gorm.DB) sale.Repository {
	return &saleRepository{db: db}
}

// Create 只插入单头，明细由AddItems在库存分配后写入
func (r *saleRepository) Create(ctx context.Context, s *sale.Sale) error {
	model := toSaleModel(s)
	if err := getDB(ctx, r.db).Omit("Items").Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrDuplicateEntry.WithMessage("销售单号%s已存在", s.SaleNumber)
		}
		return apperrors.Wrap(err, "创建销售单失败")
	}
	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	s.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *saleRepository) AddItems(ctx context.Context, saleID uint, items []sale.Item) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]SaleItemModel, len(items))
	for i, item := range items {
		models[i] = SaleItemModel{
			SaleID:    saleID,
			ProductID: item.ProductID,
			BatchID:   item.BatchID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Subtotal:  item.Subtotal,
			UnitCost:  item.UnitCost,
		}
	}
	if err := getDB(ctx, r.db).Create(&models).Error; err != nil {
		return apperrors.Wrap(err, "创建销售明细失败")
	}

	for i := range items {
		items[i].ID = models[i].ID
		items[i].SaleID = saleID
		items[i].CreatedAt = models[i].CreatedAt
	}
	return nil
}

// FindByID 使用Preload预加载明细，避免N+1查询
func (r *saleRepository) FindByID(ctx context.Context, id uint) (*sale.Sale, error) {
	return r.find(getDB(ctx, r.db), id)
}

// LockByID 锁销售单头行，明细随后普通读取
func (r *saleRepository) LockByID(ctx context.Context, id uint) (*sale.Sale, error) {
	return r.find(getDB(ctx, r.db).Clauses(forUpdate), id)
}

func (r *saleRepository) Update(ctx context.Context, s *sale.Sale) error {
	result := getDB(ctx, r.db).Model(&SaleModel{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"status":    string(s.Status),
			"voided_by": s.VoidedBy,
			"voided_at": s.VoidedAt,
			"notes":     s.Notes,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新销售单失败")
	}
	if result.RowsAffected == 0 {
		return sale.ErrSaleNotFound
	}
	return nil
}

// FindLastNumber 当天最大单号
// 先按长度再按字典序排序，序号进位到5位时仍然取到最大值
func (r *saleRepository) FindLastNumber(ctx context.Context, storeID uint, prefix string) (string, error) {
	var numbers []string
	err := getDB(ctx, r.db).Model(&SaleModel{}).
		Where("store_id = ? AND sale_number LIKE ?", storeID, prefix+"%").
		Order("LENGTH(sale_number) DESC, sale_number DESC").
		Limit(1).
		Pluck("sale_number", &numbers).Error
	if err != nil {
		return "", apperrors.Wrap(err, "查询销售单号失败")
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

func (r *saleRepository) find(db *gorm.DB, id uint) (*sale.Sale, error) {
	var model SaleModel
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&model, id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, sale.ErrSaleNotFound
		}
		return nil, apperrors.Wrap(err, "查询销售单失败")
	}
	return toSaleEntity(&model), nil
}

func toSaleModel(s *sale.Sale) *SaleModel {
	return &SaleModel{
		ID:             s.ID,
		StoreID:        s.StoreID,
		SaleNumber:     s.SaleNumber,
		CashierID:      s.CashierID,
		CustomerID:     s.CustomerID,
		Subtotal:       s.Subtotal,
		DiscountAmount: s.DiscountAmount,
		DiscountType:   string(s.DiscountType),
		TaxAmount:      s.TaxAmount,
		TotalAmount:    s.TotalAmount,
		AmountPaid:     s.AmountPaid,
		ChangeAmount:   s.ChangeAmount,
		CreditAmount:   s.CreditAmount,
		PaymentMethod:  string(s.PaymentMethod),
		Status:         string(s.Status),
		Notes:          s.Notes,
		VoidedBy:       s.VoidedBy,
		VoidedAt:       s.VoidedAt,
	}
}

func toSaleEntity(m *SaleModel) *sale.Sale {
	s := &sale.Sale{
		ID:             m.ID,
		StoreID:        m.StoreID,
		CashierID:      m.CashierID,
		CustomerID:     m.CustomerID,
		SaleNumber:     m.SaleNumber,
		Subtotal:       m.Subtotal,
		DiscountAmount: m.DiscountAmount,
		DiscountType:   sale.DiscountType(m.DiscountType),
		TaxAmount:      m.TaxAmount,
		TotalAmount:    m.TotalAmount,
		AmountPaid:     m.AmountPaid,
		ChangeAmount:   m.ChangeAmount,
		CreditAmount:   m.CreditAmount,
		PaymentMethod:  sale.PaymentMethod(m.PaymentMethod),
		Status:         sale.Status(m.Status),
		Notes:          m.Notes,
		VoidedBy:       m.VoidedBy,
		VoidedAt:       m.VoidedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		Items:          make([]sale.Item, len(m.Items)),
	}
	for i, item := range m.Items {
		s.Items[i] = sale.Item{
			ID:        item.ID,
			SaleID:    item.SaleID,
			ProductID: item.ProductID,
			BatchID:   item.BatchID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Subtotal:  item.Subtotal,
			UnitCost:  item.UnitCost,
			CreatedAt: item.CreatedAt,
		}
	}
	return s
}
