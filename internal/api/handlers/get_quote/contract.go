package get_quote

import (
	"context"

	getQuote "github.com/avlasov/TMS-InventoryService/internal/usecase/get_quote"
)

// GetQuoteUseCase интерфейс use case расчёта цены
type GetQuoteUseCase interface {
	Execute(ctx context.Context, req *getQuote.Request) (*getQuote.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
