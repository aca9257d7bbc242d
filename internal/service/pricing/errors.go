package pricing

import "errors"

var (
	// ErrVariantNotFound возвращается, когда вариант не найден или удалён
	ErrVariantNotFound = errors.New("pricing: variant not found")

	// ErrNoApplicablePriceRule возвращается, когда ни правило, ни базовая
	// цена не задают цену для pax type
	ErrNoApplicablePriceRule = errors.New("pricing: no applicable price rule")

	// ErrInvalidQuantity возвращается при неположительном количестве
	ErrInvalidQuantity = errors.New("pricing: invalid quantity")

	// ErrInvalidPaxType возвращается при неизвестном pax type
	ErrInvalidPaxType = errors.New("pricing: invalid pax type")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("pricing: internal error")
)
