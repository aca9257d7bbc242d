package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/pkg/dbmetrics"
	"github.com/avlasov/TMS-InventoryService/pkg/psqlbuilder"
)

// Repository репозиторий бронирований и их строк
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование вместе со строками и пассажирами.
// Вызывается внутри транзакции usecase'а создания бронирования —
// частично созданное бронирование не должно быть видно читателям.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"contact_name",
			"contact_email",
			"contact_phone",
			"status",
			"payment_status",
			"total_amount",
			"currency",
		).
		Values(
			b.ContactName,
			b.ContactEmail,
			b.ContactPhone,
			b.Status,
			b.PaymentStatus,
			b.TotalAmount,
			b.Currency,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	for _, item := range b.Items {
		item.BookingID = b.ID
		if err := r.createItem(ctx, executor, item); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (r *Repository) createItem(ctx context.Context, executor DBExecutor, item *domain.BookingItem) error {
	query, args, err := psqlbuilder.Insert("booking_items").
		Columns("booking_id", "variant_id", "session_id", "pax_type", "quantity", "unit_price", "total_amount").
		Values(item.BookingID, item.VariantID, item.SessionID, item.PaxType, item.Quantity, item.UnitPrice, item.TotalAmount).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: createItem - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&item.ID, &item.CreatedAt); err != nil {
		return fmt.Errorf("%w: createItem - execute insert: %v", ErrExecQuery, err)
	}

	for _, p := range item.Passengers {
		p.ItemID = item.ID
		passengerQuery, passengerArgs, err := psqlbuilder.Insert("booking_passengers").
			Columns("item_id", "full_name").
			Values(p.ItemID, p.FullName).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: createItem - build passenger insert: %v", ErrBuildQuery, err)
		}
		if err := executor.QueryRowContext(ctx, passengerQuery, passengerArgs...).Scan(&p.ID); err != nil {
			return fmt.Errorf("%w: createItem - insert passenger: %v", ErrExecQuery, err)
		}
	}
	return nil
}

// GetByID получает бронирование по ID без строк
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"contact_name",
		"contact_email",
		"contact_phone",
		"status",
		"payment_status",
		"total_amount",
		"currency",
		"cancellation_reason",
		"cancelled_at",
		"created_at",
		"updated_at",
	).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку бронирования: переходы статуса
	// (confirm/cancel/expire) не должны гоняться друг с другом
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Booking
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.ContactName,
		&b.ContactEmail,
		&b.ContactPhone,
		&b.Status,
		&b.PaymentStatus,
		&b.TotalAmount,
		&b.Currency,
		&b.CancellationReason,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time
	return &b, nil
}

// GetWithItems получает бронирование вместе со строками
func (r *Repository) GetWithItems(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"variant_id",
		"session_id",
		"pax_type",
		"quantity",
		"unit_price",
		"total_amount",
		"created_at",
	).
		From("booking_items").
		Where(squirrel.Eq{"booking_id": id}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.BookingItem, 0)
	for rows.Next() {
		var item domain.BookingItem
		if err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.VariantID,
			&item.SessionID,
			&item.PaxType,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalAmount,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetWithItems - scan item: %v", ErrScanRow, err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWithItems - rows error: %v", ErrScanRow, err)
	}

	b.Items = items
	return b, nil
}

// TransitionStatus атомарно переводит бронирование из статуса from в to.
// Возвращает false, если бронирование уже не в статусе from.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: TransitionStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: TransitionStatus - get rows affected: %v", ErrExecQuery, err)
	}
	return rowsAffected == 1, nil
}

// SetPaymentStatus обновляет статус оплаты бронирования
func (r *Repository) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetPaymentStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// SetCancelled помечает бронирование отменённым с причиной и статусом оплаты
func (r *Repository) SetCancelled(ctx context.Context, id int64, reason string, paymentStatus domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.BookingCancelled).
		Set("payment_status", paymentStatus).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetCancelled - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetCancelled - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetCancelled - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ExpirePendingWithoutActiveHolds переводит pending бронирования из списка
// в expired, если у них не осталось ни одного живого холда.
// Возвращает ID фактически истёкших бронирований.
func (r *Repository) ExpirePendingWithoutActiveHolds(ctx context.Context, bookingIDs []int64) ([]int64, error) {
	if len(bookingIDs) == 0 {
		return nil, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	const query = `
UPDATE bookings
SET status = $1, updated_at = NOW()
WHERE id = ANY($2)
  AND status = $3
  AND NOT EXISTS (
      SELECT 1 FROM inventory_holds h
      WHERE h.booking_id = bookings.id AND h.status = $4
  )
RETURNING id`

	rows, err := executor.QueryContext(ctx, query,
		domain.BookingExpired,
		pq.Array(bookingIDs),
		domain.BookingPending,
		domain.HoldHeld,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: ExpirePendingWithoutActiveHolds - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	expired := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ExpirePendingWithoutActiveHolds - scan id: %v", ErrScanRow, err)
		}
		expired = append(expired, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ExpirePendingWithoutActiveHolds - rows error: %v", ErrScanRow, err)
	}
	return expired, nil
}
