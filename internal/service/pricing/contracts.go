package pricing

import (
	"context"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
)

// VariantRepository интерфейс репозитория вариантов
type VariantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TourVariant, error)
	GetBasePrices(ctx context.Context, variantID int64) ([]domain.VariantPaxPrice, error)
}

// PriceRuleRepository интерфейс репозитория ценовых правил
type PriceRuleRepository interface {
	ListByVariant(ctx context.Context, variantID int64) ([]*domain.PriceRule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
