// Package shared 领域层公共抽象
package shared

import "context"

// TxManager 工作单元
//
// fn内的所有仓储调用共享同一个事务（通过ctx传递），
// fn返回error时整体回滚，返回nil时提交。
// 关系型实现见persistence/mysql，内存实现见persistence/memory。
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
