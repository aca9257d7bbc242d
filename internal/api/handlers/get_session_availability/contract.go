package get_session_availability

import (
	"context"

	getAvailability "github.com/avlasov/TMS-InventoryService/internal/usecase/get_session_availability"
)

// GetSessionAvailabilityUseCase интерфейс use case доступности сессии
type GetSessionAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
