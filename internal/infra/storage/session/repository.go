package session

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

// sessionColumns колонки tour_sessions в порядке сканирования.
// Список обязан совпадать со схемой миграций.
var sessionColumns = []string{
	"id",
	"variant_id",
	"session_date",
	"start_time",
	"end_time",
	"capacity_override",
	"held_quantity",
	"committed_quantity",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий сессий тура и их счётчиков вместимости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает сессию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TourSession, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate получает сессию по ID с блокировкой строки (FOR UPDATE).
// Обязан вызываться внутри транзакции: блокировка строки сессии —
// единственная точка сериализации конкурентных изменений счётчиков.
func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*domain.TourSession, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, fmt.Errorf("%w: GetForUpdate - called outside transaction", ErrExecQuery)
	}
	return r.get(ctx, id, true)
}

func (r *Repository) get(ctx context.Context, id int64, forUpdate bool) (*domain.TourSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From("tour_sessions").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.TourSession
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.VariantID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.CapacityOverride,
		&s.HeldQuantity,
		&s.CommittedQuantity,
		&s.Status,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get - scan session: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time
	return &s, nil
}

// UpdateCounters устанавливает счётчики held/committed сессии.
// Вызывается только под блокировкой строки (после GetForUpdate).
func (r *Repository) UpdateCounters(ctx context.Context, id int64, held, committed int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tour_sessions").
		Set("held_quantity", held).
		Set("committed_quantity", committed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateCounters - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateCounters - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateCounters - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// UpdateStatus обновляет статус сессии
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.SessionStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("tour_sessions").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListOpenByVariant возвращает открытые сессии варианта в диапазоне дат,
// отсортированные по дате и времени начала
func (r *Repository) ListOpenByVariant(ctx context.Context, variantID int64, from, to time.Time) ([]*domain.TourSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From("tour_sessions").
		Where(squirrel.Eq{"variant_id": variantID, "status": domain.SessionOpen}).
		Where(squirrel.GtOrEq{"session_date": from}).
		Where(squirrel.LtOrEq{"session_date": to}).
		OrderBy("session_date ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenByVariant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenByVariant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions := make([]*domain.TourSession, 0)
	for rows.Next() {
		var s domain.TourSession
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(
			&s.ID,
			&s.VariantID,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.CapacityOverride,
			&s.HeldQuantity,
			&s.CommittedQuantity,
			&s.Status,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListOpenByVariant - scan session: %v", ErrScanRow, err)
		}
		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOpenByVariant - rows error: %v", ErrScanRow, err)
	}

	return sessions, nil
}
