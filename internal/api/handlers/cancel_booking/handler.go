package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avlasov/TMS-InventoryService/internal/api/handlers"
	cancelBooking "github.com/avlasov/TMS-InventoryService/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID  = "некорректный идентификатор бронирования"
	msgInvalidRequest    = "некорректное тело запроса"
	msgBookingNotFound   = "бронирование не найдено"
	msgNotCancellable    = "бронирование нельзя отменить в текущем статусе"
)

// CancelBookingRequest модель HTTP запроса на отмену
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ItemFeeResponse расчёт штрафа по позиции
type ItemFeeResponse struct {
	ItemID       int64  `json:"itemId"`
	SessionID    int64  `json:"sessionId"`
	FeePct       string `json:"feePct"`
	ItemTotal    string `json:"itemTotal"`
	RefundAmount string `json:"refundAmount"`
}

// CancelBookingResponse модель HTTP ответа с результатом отмены
type CancelBookingResponse struct {
	ID            int64             `json:"id"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"paymentStatus"`
	RefundAmount  string            `json:"refundAmount"`
	Currency      string            `json:"currency"`
	Items         []ItemFeeResponse `json:"items"`
}

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid booking id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CancelBookingRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /bookings/%d/cancel - Invalid request body: %v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		BookingID: bookingID,
		Reason:    req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/%d/cancel - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, cancelBooking.ErrBookingNotCancellable):
			h.logger.Warn("POST /bookings/%d/cancel - Booking not cancellable", bookingID)
			handlers.RespondConflict(w, msgNotCancellable)

		default:
			h.logger.Error("POST /bookings/%d/cancel - Failed to cancel booking: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp := &CancelBookingResponse{
		ID:            result.ID,
		Status:        result.Status,
		PaymentStatus: result.PaymentStatus,
		RefundAmount:  result.RefundAmount.StringFixed(2),
		Currency:      result.Currency,
	}
	for _, item := range result.Items {
		resp.Items = append(resp.Items, ItemFeeResponse{
			ItemID:       item.ItemID,
			SessionID:    item.SessionID,
			FeePct:       item.FeePct.StringFixed(2),
			ItemTotal:    item.ItemTotal.StringFixed(2),
			RefundAmount: item.RefundAmount.StringFixed(2),
		})
	}

	h.logger.Info("POST /bookings/%d/cancel - Booking cancelled, refund=%s %s",
		bookingID, resp.RefundAmount, resp.Currency)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
