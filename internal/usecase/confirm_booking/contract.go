package confirm_booking

import (
	"context"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/events"
	"github.com/avlasov/TMS-InventoryService/internal/integrations/paymentservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error)
	SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// HoldService интерфейс менеджера холдов
type HoldService interface {
	Confirm(ctx context.Context, holdID string) error
	ListByBooking(ctx context.Context, bookingID int64) ([]*domain.InventoryHold, error)
}

// PaymentServiceClient интерфейс клиента платёжного сервиса
type PaymentServiceClient interface {
	GetPaymentStatus(ctx context.Context, bookingID int64) (*paymentservice.Payment, error)
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// MetricsCollector интерфейс для метрик бронирований
type MetricsCollector interface {
	IncBookingConfirmed()
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
