package confirm_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("confirm_booking: booking not found")

	// ErrBookingNotPending возвращается, когда бронирование уже
	// подтверждено, отменено или истекло
	ErrBookingNotPending = errors.New("confirm_booking: booking is not pending")

	// ErrNotPaid возвращается, когда платёж по бронированию не в статусе paid
	ErrNotPaid = errors.New("confirm_booking: booking is not paid")

	// ErrHoldExpired возвращается, когда хотя бы один холд бронирования
	// истёк до подтверждения; бронирование остаётся pending и будет
	// переведено в expired sweep'ом
	ErrHoldExpired = errors.New("confirm_booking: hold has expired")

	// ErrPaymentServiceUnavailable возвращается, когда платёжный сервис
	// недоступен; подтверждение отклоняется без изменения бронирования
	ErrPaymentServiceUnavailable = errors.New("confirm_booking: payment service unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_booking: internal error")
)
