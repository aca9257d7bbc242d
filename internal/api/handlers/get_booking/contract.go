package get_booking

import (
	"context"

	getBooking "github.com/avlasov/TMS-InventoryService/internal/usecase/get_booking"
)

// GetBookingUseCase интерфейс use case получения бронирования
type GetBookingUseCase interface {
	Execute(ctx context.Context, req *getBooking.Request) (*getBooking.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
