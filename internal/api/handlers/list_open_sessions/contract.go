package list_open_sessions

import (
	"context"

	listOpenSessions "github.com/avlasov/TMS-InventoryService/internal/usecase/list_open_sessions"
)

// ListOpenSessionsUseCase интерфейс use case списка открытых сессий
type ListOpenSessionsUseCase interface {
	Execute(ctx context.Context, req *listOpenSessions.Request) (*listOpenSessions.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
