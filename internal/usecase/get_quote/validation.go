package get_quote

import (
	"fmt"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.VariantID <= 0 {
		return fmt.Errorf("%w: variant id is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !domain.PaxType(req.PaxType).IsValid() {
		return fmt.Errorf("%w: unknown pax type %q", ErrInvalidInput, req.PaxType)
	}
	if req.Quantity < domain.MinHoldQuantity || req.Quantity > domain.MaxHoldQuantity {
		return fmt.Errorf("%w: quantity must be between %d and %d",
			ErrInvalidInput, domain.MinHoldQuantity, domain.MaxHoldQuantity)
	}
	return nil
}
