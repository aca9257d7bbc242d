package holds

import "errors"

var (
	// ErrHoldNotFound возвращается, когда холд не найден
	ErrHoldNotFound = errors.New("holds: hold not found")

	// ErrHoldNotActive возвращается при попытке подтвердить холд,
	// который уже истёк, отпущен или подтверждён ранее
	ErrHoldNotActive = errors.New("holds: hold is not active")

	// ErrInvalidQuantity возвращается при неположительном количестве
	ErrInvalidQuantity = errors.New("holds: invalid quantity")

	// ErrInvalidTTL возвращается при неположительном времени жизни холда
	ErrInvalidTTL = errors.New("holds: invalid ttl")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("holds: internal error")
)
