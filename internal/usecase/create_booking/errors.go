package create_booking

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("create_booking: session not found")

	// ErrVariantNotFound возвращается, когда вариант не найден или удалён
	ErrVariantNotFound = errors.New("create_booking: variant not found")

	// ErrSessionNotBookable возвращается, когда сессия закрыта, отменена
	// или не принадлежит указанному варианту
	ErrSessionNotBookable = errors.New("create_booking: session is not bookable")

	// ErrCutoffPassed возвращается, когда до отправления осталось меньше
	// cutoff_hours варианта
	ErrCutoffPassed = errors.New("create_booking: booking cutoff has passed")

	// ErrPartialAvailability возвращается, когда хотя бы одну позицию
	// не удалось зарезервировать; все созданные холды при этом отпущены
	ErrPartialAvailability = errors.New("create_booking: not all items are available")

	// ErrNoPrice возвращается, когда для позиции нет ни правила, ни базовой цены
	ErrNoPrice = errors.New("create_booking: no price for item")

	// ErrCurrencyMismatch возвращается, когда позиции бронирования
	// оказываются в разных валютах
	ErrCurrencyMismatch = errors.New("create_booking: items have different currencies")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
