package confirm_booking

import (
	"context"

	confirmBooking "github.com/avlasov/TMS-InventoryService/internal/usecase/confirm_booking"
)

// ConfirmBookingUseCase интерфейс use case подтверждения бронирования
type ConfirmBookingUseCase interface {
	Execute(ctx context.Context, req *confirmBooking.Request) (*confirmBooking.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
