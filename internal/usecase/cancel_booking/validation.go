package cancel_booking

import (
	"fmt"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxCancelReasonLength {
		return fmt.Errorf("%w: reason is too long (max %d)", ErrInvalidInput, domain.MaxCancelReasonLength)
	}
	return nil
}
