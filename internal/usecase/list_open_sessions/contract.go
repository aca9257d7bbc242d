package list_open_sessions

import (
	"context"
	"time"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	ListOpenByVariant(ctx context.Context, variantID int64, from, to time.Time) ([]*domain.TourSession, error)
}

// VariantRepository интерфейс репозитория вариантов
type VariantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TourVariant, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
