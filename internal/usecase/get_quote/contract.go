package get_quote

import (
	"context"
	"time"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/service/pricing"
)

// PricingService интерфейс движка цен
type PricingService interface {
	Quote(ctx context.Context, variantID int64, date time.Time, paxType domain.PaxType, quantity int) (*pricing.Quote, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
