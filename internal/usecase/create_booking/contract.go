package create_booking

import (
	"context"
	"time"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/service/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TourSession, error)
}

// VariantRepository интерфейс репозитория вариантов
type VariantRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TourVariant, error)
}

// PricingService интерфейс движка цен
type PricingService interface {
	Quote(ctx context.Context, variantID int64, date time.Time, paxType domain.PaxType, quantity int) (*pricing.Quote, error)
}

// HoldService интерфейс менеджера холдов
type HoldService interface {
	Create(ctx context.Context, sessionID int64, quantity int, ttl time.Duration) (*domain.InventoryHold, error)
	Release(ctx context.Context, holdID string) error
	AttachBooking(ctx context.Context, holdID string, bookingID int64) error
}

// MetricsCollector интерфейс для метрик бронирований
type MetricsCollector interface {
	IncBookingCreated()
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
