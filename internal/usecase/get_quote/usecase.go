package get_quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/service/pricing"
)

// UseCase use case расчёта цены без бронирования
type UseCase struct {
	pricing PricingService
	logger  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(pricingService PricingService, logger Logger) *UseCase {
	return &UseCase{
		pricing: pricingService,
		logger:  logger,
	}
}

// Execute выполняет use case расчёта цены
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetQuote: validation failed: %v", err)
		return nil, err
	}

	quote, err := uc.pricing.Quote(ctx, req.VariantID, req.Date, domain.PaxType(req.PaxType), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrVariantNotFound):
			uc.logger.Warn("GetQuote: variant id=%d not found", req.VariantID)
			return nil, ErrVariantNotFound
		case errors.Is(err, pricing.ErrNoApplicablePriceRule):
			uc.logger.Warn("GetQuote: no price for variant=%d pax=%s", req.VariantID, req.PaxType)
			return nil, ErrNoPrice
		case errors.Is(err, pricing.ErrInvalidQuantity), errors.Is(err, pricing.ErrInvalidPaxType):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("GetQuote: quote failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return &Response{
		VariantID:     quote.VariantID,
		Date:          quote.Date,
		PaxType:       string(quote.PaxType),
		Quantity:      quote.Quantity,
		UnitPrice:     quote.UnitPrice.Amount,
		TaxAmount:     quote.TaxAmount.Amount,
		Total:         quote.Total.Amount,
		Currency:      quote.Total.Currency,
		AppliedRuleID: quote.AppliedRuleID,
	}, nil
}
