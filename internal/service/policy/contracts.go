package policy

import (
	"context"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
)

// PolicyRepository интерфейс репозитория политик отмены
type PolicyRepository interface {
	GetByVariant(ctx context.Context, variantID int64) (*domain.CancellationPolicy, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
