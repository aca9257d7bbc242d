package list_open_sessions

import "fmt"

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.VariantID <= 0 {
		return fmt.Errorf("%w: variant id is required", ErrInvalidInput)
	}
	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: date range is required", ErrInvalidInput)
	}
	if req.To.Before(req.From) {
		return fmt.Errorf("%w: to date is before from date", ErrInvalidInput)
	}
	return nil
}
