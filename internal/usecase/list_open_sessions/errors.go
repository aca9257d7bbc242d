package list_open_sessions

import "errors"

var (
	// ErrVariantNotFound возвращается, когда вариант не найден
	ErrVariantNotFound = errors.New("list_open_sessions: variant not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("list_open_sessions: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("list_open_sessions: internal error")
)
