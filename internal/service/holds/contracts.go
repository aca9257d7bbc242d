package holds

import (
	"context"
	"time"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/events"
)

// HoldRepository интерфейс репозитория холдов
type HoldRepository interface {
	Create(ctx context.Context, h *domain.InventoryHold) error
	GetByID(ctx context.Context, id string) (*domain.InventoryHold, error)
	ConfirmTransition(ctx context.Context, id string, now time.Time) (bool, error)
	ExpireTransition(ctx context.Context, id string, now time.Time) (bool, error)
	ReleaseTransition(ctx context.Context, id string) (bool, error)
	AttachBooking(ctx context.Context, holdID string, bookingID int64) error
	ListDueIDs(ctx context.Context, now time.Time, limit int) ([]string, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.InventoryHold, error)
}

// CapacityService интерфейс capacity-сервиса: холд владеет токеном резерва
// и транслирует свой жизненный цикл в переходы токена
type CapacityService interface {
	Reserve(ctx context.Context, sessionID int64, quantity int) (*domain.ReservationToken, error)
	Release(ctx context.Context, tokenID string) error
	Commit(ctx context.Context, tokenID string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// MetricsCollector интерфейс для метрик жизненного цикла холдов
type MetricsCollector interface {
	IncHoldCreated()
	IncHoldConfirmed()
	IncHoldExpired()
	IncHoldReleased()
}

// TimeProvider интерфейс источника времени (подменяется в тестах)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
