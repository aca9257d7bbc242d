package capacity

import (
	"context"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TourSession, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.TourSession, error)
	UpdateCounters(ctx context.Context, id int64, held, committed int) error
	UpdateStatus(ctx context.Context, id int64, status domain.SessionStatus) error
}

// ReservationRepository интерфейс репозитория токенов резерва
type ReservationRepository interface {
	Create(ctx context.Context, token *domain.ReservationToken) error
	GetByID(ctx context.Context, id string) (*domain.ReservationToken, error)
	TransitionState(ctx context.Context, id string, from, to domain.TokenState) (bool, error)
}

// VariantRepository интерфейс репозитория вариантов (нужна вместимость)
type VariantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TourVariant, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
