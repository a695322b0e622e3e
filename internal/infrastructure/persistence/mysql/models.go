package mysql

import (
	"time"

	"github.com/shopspring/decimal"
)

// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain层实体不依赖GORM，Repository负责两者之间的转换
// 3. 金额统一decimal(12,2)，shopspring/decimal实现了Scanner/Valuer

// StoreModel 门店
type StoreModel struct {
	ID         uint            `gorm:"primaryKey"`
	Name       string          `gorm:"size:100;not null;comment:门店名称"`
	TaxEnabled bool            `gorm:"not null;default:false;comment:是否计税"`
	TaxRate    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:12;comment:税率(百分比)"`
	Timezone   string          `gorm:"size:64;comment:IANA时区"`
	IsActive   bool            `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (StoreModel) TableName() string { return "stores" }

// ProductModel 商品
// current_stock是有效批次数量的汇总，只由库存分配器维护
type ProductModel struct {
	ID           uint            `gorm:"primaryKey"`
	StoreID      uint            `gorm:"index;not null;comment:门店ID"`
	SKU          string          `gorm:"size:64;not null;comment:SKU"`
	Name         string          `gorm:"size:200;not null;comment:商品名称"`
	CurrentStock int             `gorm:"not null;default:0;comment:汇总库存"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;comment:默认成本价"`
	RetailPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;comment:零售价"`
	ReorderLevel int             `gorm:"not null;default:0;comment:补货提醒阈值"`
	IsActive     bool            `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ProductModel) TableName() string { return "products" }

// BatchModel 库存批次
// idx_batch_fifo覆盖分配查询的过滤与排序
type BatchModel struct {
	ID              uint            `gorm:"primaryKey"`
	ProductID       uint            `gorm:"index:idx_batch_fifo,priority:2;not null;comment:商品ID"`
	StoreID         uint            `gorm:"index:idx_batch_fifo,priority:1;not null;comment:门店ID"`
	InitialQuantity int             `gorm:"not null;comment:入库数量"`
	CurrentQuantity int             `gorm:"not null;comment:剩余数量"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:单位成本"`
	PurchaseDate    time.Time       `gorm:"index:idx_batch_fifo,priority:4;not null;comment:进货日期(FIFO排序键)"`
	IsActive        bool            `gorm:"index:idx_batch_fifo,priority:3;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (BatchModel) TableName() string { return "inventory_batches" }

// MovementModel 库存流水（只插入，不更新）
type MovementModel struct {
	ID          uint   `gorm:"primaryKey"`
	StoreID     uint   `gorm:"index:idx_movement_product,priority:1;not null"`
	ProductID   uint   `gorm:"index:idx_movement_product,priority:2;not null"`
	BatchID     uint   `gorm:"index;not null"`
	Type        string `gorm:"size:20;not null;comment:purchase|sale|adjustment|return|expired|damaged"`
	Quantity    int    `gorm:"not null;comment:带符号数量"`
	ReferenceID *uint  `gorm:"index;comment:关联销售单ID"`
	UserID      uint   `gorm:"not null;comment:操作人"`
	Notes       string `gorm:"size:500"`
	CreatedAt   time.Time
}

func (MovementModel) TableName() string { return "stock_movements" }

// CustomerModel 赊账客户
type CustomerModel struct {
	ID             uint            `gorm:"primaryKey"`
	StoreID        uint            `gorm:"index;not null"`
	Name           string          `gorm:"size:100;not null"`
	Phone          string          `gorm:"size:32"`
	CreditLimit    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;comment:信用额度"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;comment:当前欠款"`
	IsActive       bool            `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CustomerModel) TableName() string { return "customers" }

// SaleModel 销售单
// (store_id, sale_number)唯一，作为单号生成并发失误的最后防线
type SaleModel struct {
	ID             uint            `gorm:"primaryKey"`
	StoreID        uint            `gorm:"uniqueIndex:uk_store_sale_number,priority:1;not null"`
	SaleNumber     string          `gorm:"uniqueIndex:uk_store_sale_number,priority:2;size:32;not null;comment:SALE-YYYYMMDD-NNNN"`
	CashierID      uint            `gorm:"index;not null"`
	CustomerID     *uint           `gorm:"index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountType   string          `gorm:"size:20"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ChangeAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreditAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod  string          `gorm:"size:20;not null"`
	Status         string          `gorm:"index;size:20;not null;comment:completed|void|returned"`
	Notes          string          `gorm:"size:500"`
	VoidedBy       *uint
	VoidedAt       *time.Time
	Items          []SaleItemModel `gorm:"foreignKey:SaleID"`
	CreatedAt      time.Time       `gorm:"index"`
	UpdatedAt      time.Time
}

func (SaleModel) TableName() string { return "sales" }

// SaleItemModel 销售明细（每个批次一行）
type SaleItemModel struct {
	ID        uint            `gorm:"primaryKey"`
	SaleID    uint            `gorm:"index;not null"`
	ProductID uint            `gorm:"index;not null"`
	BatchID   uint            `gorm:"index;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:成本快照"`
	CreatedAt time.Time
}

func (SaleItemModel) TableName() string { return "sale_items" }
