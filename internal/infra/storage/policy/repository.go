package policy

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

// Repository репозиторий политик отмены
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByVariant возвращает политику отмены варианта вместе с правилами
func (r *Repository) GetByVariant(ctx context.Context, variantID int64) (*domain.CancellationPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "variant_id", "name", "created_at", "updated_at").
		From("cancellation_policies").
		Where(squirrel.Eq{"variant_id": variantID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVariant - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.CancellationPolicy
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.VariantID,
		&p.Name,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVariant - scan policy: %v", ErrScanRow, err)
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	rulesQuery, rulesArgs, err := psqlbuilder.Select("id", "policy_id", "before_hours", "fee_pct").
		From("cancellation_policy_rules").
		Where(squirrel.Eq{"policy_id": p.ID}).
		OrderBy("before_hours DESC, id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVariant - build rules query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, rulesQuery, rulesArgs...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVariant - execute rules query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rule domain.PolicyRule
		if err := rows.Scan(&rule.ID, &rule.PolicyID, &rule.BeforeHours, &rule.FeePct); err != nil {
			return nil, fmt.Errorf("%w: GetByVariant - scan rule: %v", ErrScanRow, err)
		}
		p.Rules = append(p.Rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByVariant - rows error: %v", ErrScanRow, err)
	}

	return &p, nil
}
