// Package txmanager управление транзакциями PostgreSQL.
//
// Usecase-слой не работает с *sql.Tx напрямую: он вызывает Do* с
// функцией, а менеджер кладет транзакцию в context. Репозитории
// достают её через dbmetrics.GetExecutor.
//
// Вложенные вызовы Do* переиспользуют уже открытую транзакцию из
// context — это позволяет сервисам (capacity, holds) составлять
// атомарные операции друг из друга без вложенных транзакций.
//
// Побочные эффекты (метрики, логи успеха) откладываются через OnCommit
// и выполняются только после коммита внешней транзакции.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/avlasov/TMS-InventoryService/pkg/dbmetrics"
)

const (
	// Код ошибки PostgreSQL serialization_failure
	pqSerializationFailure = "40001"
	// Код ошибки PostgreSQL deadlock_detected
	pqDeadlockDetected = "40P01"

	maxRetries     = 3
	retryBaseDelay = 10 * time.Millisecond
)

var ErrTransaction = errors.New("txmanager: transaction error")

// commitHooks побочные эффекты, отложенные до коммита внешней транзакции
type commitHooks struct {
	mu  sync.Mutex
	fns []func()
}

func (h *commitHooks) add(fn func()) {
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

func (h *commitHooks) run() {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type commitHooksKey struct{}

// OnCommit откладывает fn до коммита внешней транзакции. Метрики и
// уведомления, повешенные через OnCommit внутри вложенного Do*, не
// сработают, если объемлющая транзакция откатится. Вне транзакции fn
// выполняется сразу.
func OnCommit(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(commitHooksKey{}).(*commitHooks); ok {
		hooks.add(fn)
		return
	}
	fn()
}

// TransactionManager открывает транзакции над dbmetrics.TxBeginner
type TransactionManager struct {
	db dbmetrics.TxBeginner
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db dbmetrics.TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (Read Committed)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn, false)
}

// DoSerializable выполняет fn в Serializable транзакции.
// При serialization_failure или deadlock транзакция автоматически
// повторяется до maxRetries раз с экспоненциальной задержкой.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn, true)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn, false)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error, retry bool) error {
	// Уже внутри транзакции — просто выполняем fn в том же context
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var lastErr error
	attempts := 1
	if retry {
		attempts = maxRetries
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << attempt
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = m.runOnce(ctx, opts, fn)
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("%w: retries exhausted: %v", ErrTransaction, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	hooks := &commitHooks{}
	txCtx := context.WithValue(dbmetrics.WithExecutor(ctx, tx), commitHooksKey{}, hooks)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}
	hooks.run()
	return nil
}

func isRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqSerializationFailure || string(pqErr.Code) == pqDeadlockDetected
	}
	return false
}
