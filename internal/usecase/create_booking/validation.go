package create_booking

import (
	"fmt"
	"strings"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	name := strings.TrimSpace(req.ContactName)
	if name == "" || len(name) > domain.MaxContactNameLength {
		return fmt.Errorf("%w: contact name is required", ErrInvalidInput)
	}

	email := strings.TrimSpace(req.ContactEmail)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: contact email is invalid", ErrInvalidInput)
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}
	if len(req.Items) > domain.MaxBookingItems {
		return fmt.Errorf("%w: too many items (max %d)", ErrInvalidInput, domain.MaxBookingItems)
	}

	for i, item := range req.Items {
		if item.VariantID <= 0 || item.SessionID <= 0 {
			return fmt.Errorf("%w: item %d: variant and session are required", ErrInvalidInput, i)
		}
		if item.Quantity < domain.MinHoldQuantity || item.Quantity > domain.MaxHoldQuantity {
			return fmt.Errorf("%w: item %d: quantity must be between %d and %d",
				ErrInvalidInput, i, domain.MinHoldQuantity, domain.MaxHoldQuantity)
		}
		if !domain.PaxType(item.PaxType).IsValid() {
			return fmt.Errorf("%w: item %d: unknown pax type %q", ErrInvalidInput, i, item.PaxType)
		}
		if len(item.Passengers) > item.Quantity {
			return fmt.Errorf("%w: item %d: more passengers than seats", ErrInvalidInput, i)
		}
		for _, p := range item.Passengers {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("%w: item %d: empty passenger name", ErrInvalidInput, i)
			}
		}
	}
	return nil
}
