// Package memory 内存持久化实现
//
// 实现全部领域仓储接口和TxManager，用于本地演示（database.driver=memory）和测试。
// 隔离级别为串行化：一个事务在整个执行期间独占数据库，
// 事务外的单次读写也要先拿到同一把锁，因此未提交的数据对外不可见。
// 事务失败时恢复到开始前的快照。
package memory

import (
	"context"
	"sync"

	"github.com/xiebiao/retailpos/internal/domain/customer"
	"github.com/xiebiao/retailpos/internal/domain/inventory"
	"github.com/xiebiao/retailpos/internal/domain/product"
	"github.com/xiebiao/retailpos/internal/domain/sale"
	"github.com/xiebiao/retailpos/internal/domain/store"
)

type txKey struct{}

// DB 内存数据库
type DB struct {
	mu sync.Mutex
	tables
}

type tables struct {
	stores    map[uint]*store.Store
	products  map[uint]*product.Product
	batches   map[uint]*inventory.Batch
	movements map[uint]*inventory.Movement
	sales     map[uint]*sale.Sale // 只存销售单头，明细在items
	items     map[uint]*sale.Item
	customers map[uint]*customer.Customer
	seq       map[string]uint // 各表自增ID
}

// NewDB 创建空的内存数据库
func NewDB() *DB {
	return &DB{tables: tables{
		stores:    make(map[uint]*store.Store),
		products:  make(map[uint]*product.Product),
		batches:   make(map[uint]*inventory.Batch),
		movements: make(map[uint]*inventory.Movement),
		sales:     make(map[uint]*sale.Sale),
		items:     make(map[uint]*sale.Item),
		customers: make(map[uint]*customer.Customer),
		seq:       make(map[string]uint),
	}}
}

// nextID 分配自增ID（调用方持锁）
func (t *tables) nextID(table string) uint {
	t.seq[table]++
	return t.seq[table]
}

// do 在锁内执行单次仓储操作；已处于事务中时直接执行
func (db *DB) do(ctx context.Context, fn func(t *tables) error) error {
	if inTx(ctx) {
		return fn(&db.tables)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(&db.tables)
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// snapshot 深拷贝所有表（调用方持锁）
func (t *tables) snapshot() tables {
	cp := tables{
		stores:    make(map[uint]*store.Store, len(t.stores)),
		products:  make(map[uint]*product.Product, len(t.products)),
		batches:   make(map[uint]*inventory.Batch, len(t.batches)),
		movements: make(map[uint]*inventory.Movement, len(t.movements)),
		sales:     make(map[uint]*sale.Sale, len(t.sales)),
		items:     make(map[uint]*sale.Item, len(t.items)),
		customers: make(map[uint]*customer.Customer, len(t.customers)),
		seq:       make(map[string]uint, len(t.seq)),
	}
	for id, v := range t.stores {
		cp.stores[id] = copyStore(v)
	}
	for id, v := range t.products {
		cp.products[id] = copyProduct(v)
	}
	for id, v := range t.batches {
		cp.batches[id] = copyBatch(v)
	}
	for id, v := range t.movements {
		cp.movements[id] = copyMovement(v)
	}
	for id, v := range t.sales {
		cp.sales[id] = copySale(v)
	}
	for id, v := range t.items {
		item := *v
		cp.items[id] = &item
	}
	for id, v := range t.customers {
		cp.customers[id] = copyCustomer(v)
	}
	for k, v := range t.seq {
		cp.seq[k] = v
	}
	return cp
}

// TxManager 内存事务管理器
type TxManager struct {
	db *DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 独占执行fn，fn返回错误或panic时恢复快照
// 嵌套调用复用外层事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	saved := m.db.tables.snapshot()
	defer func() {
		if r := recover(); r != nil {
			m.db.tables = saved
			panic(r)
		}
		if err != nil {
			m.db.tables = saved
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}

func copyUintPtr(p *uint) *uint {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStore(s *store.Store) *store.Store {
	cp := *s
	return &cp
}

func copyProduct(p *product.Product) *product.Product {
	cp := *p
	return &cp
}

func copyBatch(b *inventory.Batch) *inventory.Batch {
	cp := *b
	return &cp
}

func copyMovement(m *inventory.Movement) *inventory.Movement {
	cp := *m
	cp.ReferenceID = copyUintPtr(m.ReferenceID)
	return &cp
}

func copyCustomer(c *customer.Customer) *customer.Customer {
	cp := *c
	return &cp
}

func copySale(s *sale.Sale) *sale.Sale {
	cp := *s
	cp.CustomerID = copyUintPtr(s.CustomerID)
	cp.VoidedBy = copyUintPtr(s.VoidedBy)
	if s.VoidedAt != nil {
		at := *s.VoidedAt
		cp.VoidedAt = &at
	}
	cp.Items = nil
	return &cp
}
