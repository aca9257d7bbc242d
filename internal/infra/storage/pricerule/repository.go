package pricerule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/pkg/dbmetrics"
	"github.com/avlasov/TMS-InventoryService/pkg/psqlbuilder"
)

// Repository репозиторий ценовых правил
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ценовых правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByVariant возвращает все ценовые правила варианта вместе с суммами
// по pax type. Фильтрация по дате и дню недели — забота ценового движка,
// правил у варианта немного.
func (r *Repository) ListByVariant(ctx context.Context, variantID int64) ([]*domain.PriceRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"variant_id",
		"name",
		"start_date",
		"end_date",
		"weekday_mask",
		"priority",
		"price_type",
		"created_at",
		"updated_at",
	).
		From("price_rules").
		Where(squirrel.Eq{"variant_id": variantID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByVariant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByVariant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.PriceRule, 0)
	byID := make(map[int64]*domain.PriceRule)
	for rows.Next() {
		var rule domain.PriceRule
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(
			&rule.ID,
			&rule.VariantID,
			&rule.Name,
			&rule.StartDate,
			&rule.EndDate,
			&rule.WeekdayMask,
			&rule.Priority,
			&rule.PriceType,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByVariant - scan rule: %v", ErrScanRow, err)
		}
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		rule.Amounts = make(map[domain.PaxType]decimal.Decimal)
		rules = append(rules, &rule)
		byID[rule.ID] = &rule
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByVariant - rows error: %v", ErrScanRow, err)
	}

	if len(rules) == 0 {
		return rules, nil
	}

	if err := r.loadAmounts(ctx, variantID, byID); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *Repository) loadAmounts(ctx context.Context, variantID int64, byID map[int64]*domain.PriceRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("a.rule_id", "a.pax_type", "a.amount").
		From("price_rule_amounts a").
		Join("price_rules r ON r.id = a.rule_id").
		Where(squirrel.Eq{"r.variant_id": variantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadAmounts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadAmounts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ruleID int64
		var paxType domain.PaxType
		var amount decimal.Decimal
		if err := rows.Scan(&ruleID, &paxType, &amount); err != nil {
			return fmt.Errorf("%w: loadAmounts - scan amount: %v", ErrScanRow, err)
		}
		if rule, ok := byID[ruleID]; ok {
			rule.Amounts[paxType] = amount
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadAmounts - rows error: %v", ErrScanRow, err)
	}
	return nil
}
