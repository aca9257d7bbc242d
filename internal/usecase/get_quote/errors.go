package get_quote

import "errors"

var (
	// ErrVariantNotFound возвращается, когда вариант не найден
	ErrVariantNotFound = errors.New("get_quote: variant not found")

	// ErrNoPrice возвращается, когда для pax type нет ни правила, ни базовой цены
	ErrNoPrice = errors.New("get_quote: no price for pax type")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_quote: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_quote: internal error")
)
