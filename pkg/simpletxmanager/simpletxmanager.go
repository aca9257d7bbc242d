// Package simpletxmanager менеджер транзакций поверх чистого *sql.DB,
// без обёртки метрик. Используется, когда метрики выключены в конфиге.
// Контракт идентичен pkg/txmanager.
package simpletxmanager

import (
	"context"
	"database/sql"

	"github.com/avlasov/TMS-InventoryService/pkg/dbmetrics"
	"github.com/avlasov/TMS-InventoryService/pkg/txmanager"
)

// beginnerAdapter приводит *sql.DB к dbmetrics.TxBeginner
type beginnerAdapter struct {
	db *sql.DB
}

func (a beginnerAdapter) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx, err := a.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// NewTransactionManager создает менеджер транзакций без метрик
func NewTransactionManager(db *sql.DB) *txmanager.TransactionManager {
	return txmanager.NewTransactionManager(beginnerAdapter{db: db})
}
