package cancel_booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetWithItems(ctx context.Context, id int64) (*domain.Booking, error)
	SetCancelled(ctx context.Context, id int64, reason string, paymentStatus domain.PaymentStatus) error
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TourSession, error)
}

// PolicyService интерфейс движка политик отмены
type PolicyService interface {
	FeeFor(ctx context.Context, variantID int64, departureAt, now time.Time) (decimal.Decimal, error)
}

// CapacityService интерфейс capacity-сервиса: отмена подтверждённого
// бронирования возвращает закоммиченные места в продажу
type CapacityService interface {
	ReleaseCommitted(ctx context.Context, sessionID int64, quantity int) error
}

// HoldService интерфейс менеджера холдов: отмена pending бронирования
// отпускает его активные холды
type HoldService interface {
	ReleaseByBooking(ctx context.Context, bookingID int64) error
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// MetricsCollector интерфейс для метрик бронирований
type MetricsCollector interface {
	IncBookingCancelled()
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
