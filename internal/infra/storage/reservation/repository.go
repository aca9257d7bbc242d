package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/pkg/dbmetrics"
	"github.com/avlasov/TMS-InventoryService/pkg/psqlbuilder"
)

// Repository репозиторий токенов резерва вместимости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория токенов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый токен резерва
func (r *Repository) Create(ctx context.Context, token *domain.ReservationToken) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("session_reservations").
		Columns("id", "session_id", "quantity", "state").
		Values(token.ID, token.SessionID, token.Quantity, token.State).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&token.CreatedAt); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// GetByID получает токен по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.ReservationToken, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "session_id", "quantity", "state", "created_at").
		From("session_reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.ReservationToken
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.SessionID,
		&t.Quantity,
		&t.State,
		&t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan token: %v", ErrScanRow, err)
	}
	return &t, nil
}

// TransitionState атомарно переводит токен из состояния from в to.
// Возвращает false, если токен уже не в состоянии from — проигравшая
// сторона гонки узнаёт об этом по нулевому числу изменённых строк.
func (r *Repository) TransitionState(ctx context.Context, id string, from, to domain.TokenState) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("session_reservations").
		Set("state", to).
		Where(squirrel.Eq{"id": id, "state": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: TransitionState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: TransitionState - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: TransitionState - get rows affected: %v", ErrExecQuery, err)
	}
	return rowsAffected == 1, nil
}
