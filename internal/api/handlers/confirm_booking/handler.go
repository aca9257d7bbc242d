package confirm_booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avlasov/TMS-InventoryService/internal/api/handlers"
	confirmBooking "github.com/avlasov/TMS-InventoryService/internal/usecase/confirm_booking"
)

const (
	msgInvalidBookingID     = "некорректный идентификатор бронирования"
	msgBookingNotFound      = "бронирование не найдено"
	msgBookingNotPending    = "бронирование нельзя подтвердить в текущем статусе"
	msgNotPaid              = "бронирование не оплачено"
	msgHoldExpired          = "резерв мест истёк, подтверждение невозможно"
	msgPaymentServiceIsDown = "платёжный сервис временно недоступен, попробуйте позже"
)

// ConfirmBookingResponse модель HTTP ответа с подтверждённым бронированием
type ConfirmBookingResponse struct {
	ID            int64     `json:"id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	TotalAmount   string    `json:"totalAmount"`
	Currency      string    `json:"currency"`
	ConfirmedAt   time.Time `json:"confirmedAt"`
}

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{id}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/confirm - Invalid booking id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmBooking.Request{BookingID: bookingID})
	if err != nil {
		switch {
		case errors.Is(err, confirmBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		case errors.Is(err, confirmBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/%d/confirm - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, confirmBooking.ErrBookingNotPending):
			h.logger.Warn("POST /bookings/%d/confirm - Booking not pending", bookingID)
			handlers.RespondConflict(w, msgBookingNotPending)

		case errors.Is(err, confirmBooking.ErrNotPaid):
			h.logger.Warn("POST /bookings/%d/confirm - Booking not paid", bookingID)
			handlers.RespondConflict(w, msgNotPaid)

		case errors.Is(err, confirmBooking.ErrHoldExpired):
			h.logger.Warn("POST /bookings/%d/confirm - Hold expired", bookingID)
			handlers.RespondConflict(w, msgHoldExpired)

		case errors.Is(err, confirmBooking.ErrPaymentServiceUnavailable):
			h.logger.Error("POST /bookings/%d/confirm - Payment service unavailable", bookingID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgPaymentServiceIsDown)

		default:
			h.logger.Error("POST /bookings/%d/confirm - Failed to confirm booking: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/%d/confirm - Booking confirmed", bookingID)
	handlers.RespondJSON(w, http.StatusOK, &ConfirmBookingResponse{
		ID:            result.ID,
		Status:        result.Status,
		PaymentStatus: result.PaymentStatus,
		TotalAmount:   result.TotalAmount.StringFixed(2),
		Currency:      result.Currency,
		ConfirmedAt:   result.ConfirmedAt,
	})
}
