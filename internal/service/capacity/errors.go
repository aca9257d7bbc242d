package capacity

import "errors"

var (
	// ErrInsufficientCapacity возвращается, когда свободной вместимости
	// сессии не хватает на запрошенное количество
	ErrInsufficientCapacity = errors.New("capacity: insufficient capacity")

	// ErrInvalidQuantity возвращается при неположительном количестве
	ErrInvalidQuantity = errors.New("capacity: invalid quantity")

	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("capacity: session not found")

	// ErrSessionNotBookable возвращается, когда сессия закрыта или отменена
	ErrSessionNotBookable = errors.New("capacity: session is not bookable")

	// ErrTokenInvalid возвращается при попытке закоммитить токен,
	// который уже отпущен или уже закоммичен
	ErrTokenInvalid = errors.New("capacity: token expired or invalid")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("capacity: internal error")
)
