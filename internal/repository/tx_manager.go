package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager 事务管理：fn 内的仓储共享同一事务，fn 返回错误时回滚
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos *Repository) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func (m *gormTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos *Repository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, newScoped(tx))
	})
}
