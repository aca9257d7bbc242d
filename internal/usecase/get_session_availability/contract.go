package get_session_availability

import (
	"context"

	"github.com/avlasov/TMS-InventoryService/internal/service/capacity"
)

// CapacityService интерфейс capacity-сервиса
type CapacityService interface {
	Availability(ctx context.Context, sessionID int64) (*capacity.AvailabilityInfo, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
