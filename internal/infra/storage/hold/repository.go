package hold

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/pkg/dbmetrics"
	"github.com/avlasov/TMS-InventoryService/pkg/psqlbuilder"
)

// Repository репозиторий инвентарных холдов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория холдов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый холд
func (r *Repository) Create(ctx context.Context, h *domain.InventoryHold) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("inventory_holds").
		Columns("id", "token_id", "session_id", "booking_id", "quantity", "status", "expires_at").
		Values(h.ID, h.TokenID, h.SessionID, h.BookingID, h.Quantity, h.Status, h.ExpiresAt).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time
	return nil
}

// GetByID получает холд по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.InventoryHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectHolds().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	h, err := r.scanHold(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan hold: %v", ErrScanRow, err)
	}
	return h, nil
}

// ConfirmTransition атомарно переводит холд held -> committed, но только
// если дедлайн ещё не наступил. Возвращает false, если холд уже не в
// состоянии held либо истёк: подтверждение и истечение взаимоисключающие,
// проигравший переход не изменяет ни одной строки.
func (r *Repository) ConfirmTransition(ctx context.Context, id string, now time.Time) (bool, error) {
	return r.guardedTransition(ctx, "ConfirmTransition", squirrel.And{
		squirrel.Eq{"id": id, "status": domain.HoldHeld},
		squirrel.Gt{"expires_at": now},
	}, domain.HoldCommitted)
}

// ExpireTransition атомарно переводит холд held -> expired, но только
// если дедлайн наступил. Холд, успевший подтвердиться, не трогается.
func (r *Repository) ExpireTransition(ctx context.Context, id string, now time.Time) (bool, error) {
	return r.guardedTransition(ctx, "ExpireTransition", squirrel.And{
		squirrel.Eq{"id": id, "status": domain.HoldHeld},
		squirrel.LtOrEq{"expires_at": now},
	}, domain.HoldExpired)
}

// ReleaseTransition атомарно переводит холд held -> released
// (явный отказ от холда до истечения)
func (r *Repository) ReleaseTransition(ctx context.Context, id string) (bool, error) {
	return r.guardedTransition(ctx, "ReleaseTransition", squirrel.Eq{
		"id":     id,
		"status": domain.HoldHeld,
	}, domain.HoldReleased)
}

func (r *Repository) guardedTransition(ctx context.Context, op string, pred interface{}, to domain.HoldStatus) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("inventory_holds").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(pred).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	return rowsAffected == 1, nil
}

// AttachBooking связывает холд с созданным бронированием
func (r *Repository) AttachBooking(ctx context.Context, holdID string, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("inventory_holds").
		Set("booking_id", bookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": holdID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrHoldNotFound
	}
	return nil
}

// ListDueIDs возвращает ID холдов, которым пора истечь (status=held,
// expires_at <= now), не больше limit за раз. Используется sweep'ом.
func (r *Repository) ListDueIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("inventory_holds").
		Where(squirrel.Eq{"status": domain.HoldHeld}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		OrderBy("expires_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListDueIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDueIDs - rows error: %v", ErrScanRow, err)
	}
	return ids, nil
}

// ListByBooking возвращает все холды бронирования
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.InventoryHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectHolds().
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holds := make([]*domain.InventoryHold, 0)
	for rows.Next() {
		h, err := r.scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan hold: %v", ErrScanRow, err)
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %v", ErrScanRow, err)
	}
	return holds, nil
}

func (r *Repository) selectHolds() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"token_id",
		"session_id",
		"booking_id",
		"quantity",
		"status",
		"expires_at",
		"created_at",
		"updated_at",
	).From("inventory_holds")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanHold(row rowScanner) (*domain.InventoryHold, error) {
	var h domain.InventoryHold
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(
		&h.ID,
		&h.TokenID,
		&h.SessionID,
		&h.BookingID,
		&h.Quantity,
		&h.Status,
		&h.ExpiresAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time
	return &h, nil
}
