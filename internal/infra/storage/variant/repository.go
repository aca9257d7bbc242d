package variant

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

// Repository репозиторий вариантов тура и базовых цен
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория вариантов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает вариант по ID. Мягко удалённые варианты считаются
// отсутствующими: на них нельзя ни котировать, ни бронировать.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TourVariant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tour_id",
		"name",
		"capacity_per_slot",
		"cutoff_hours",
		"currency",
		"tax_rate_pct",
		"tax_included",
		"deleted_at",
		"created_at",
		"updated_at",
	).
		From("tour_variants").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var v domain.TourVariant
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&v.ID,
		&v.TourID,
		&v.Name,
		&v.CapacityPerSlot,
		&v.CutoffHours,
		&v.Currency,
		&v.TaxRatePct,
		&v.TaxIncluded,
		&v.DeletedAt,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan variant: %v", ErrScanRow, err)
	}
	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time
	return &v, nil
}

// GetBasePrices возвращает базовые цены варианта по pax type
func (r *Repository) GetBasePrices(ctx context.Context, variantID int64) ([]domain.VariantPaxPrice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "variant_id", "pax_type", "price").
		From("variant_pax_prices").
		Where(squirrel.Eq{"variant_id": variantID}).
		OrderBy("pax_type ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBasePrices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBasePrices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	prices := make([]domain.VariantPaxPrice, 0)
	for rows.Next() {
		var p domain.VariantPaxPrice
		if err := rows.Scan(&p.ID, &p.VariantID, &p.PaxType, &p.Price); err != nil {
			return nil, fmt.Errorf("%w: GetBasePrices - scan price: %v", ErrScanRow, err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBasePrices - rows error: %v", ErrScanRow, err)
	}
	return prices, nil
}
