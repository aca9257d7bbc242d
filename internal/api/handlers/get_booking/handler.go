package get_booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avlasov/TMS-InventoryService/internal/api/handlers"
	getBooking "github.com/avlasov/TMS-InventoryService/internal/usecase/get_booking"
)

const (
	msgInvalidBookingID = "некорректный идентификатор бронирования"
	msgBookingNotFound  = "бронирование не найдено"
)

// ItemResponse позиция бронирования в HTTP ответе
type ItemResponse struct {
	ID          int64    `json:"id"`
	VariantID   int64    `json:"variantId"`
	SessionID   int64    `json:"sessionId"`
	PaxType     string   `json:"paxType"`
	Quantity    int      `json:"quantity"`
	UnitPrice   string   `json:"unitPrice"`
	TotalAmount string   `json:"totalAmount"`
	Passengers  []string `json:"passengers,omitempty"`
}

// BookingResponse модель HTTP ответа с бронированием
type BookingResponse struct {
	ID                 int64          `json:"id"`
	Status             string         `json:"status"`
	PaymentStatus      string         `json:"paymentStatus"`
	ContactName        string         `json:"contactName"`
	ContactEmail       string         `json:"contactEmail"`
	ContactPhone       *string        `json:"contactPhone,omitempty"`
	TotalAmount        string         `json:"totalAmount"`
	Currency           string         `json:"currency"`
	CancellationReason *string        `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time     `json:"cancelledAt,omitempty"`
	Items              []ItemResponse `json:"items"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

type Handler struct {
	useCase GetBookingUseCase
	logger  Logger
}

func NewHandler(useCase GetBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getBooking.Request{BookingID: bookingID})
	if err != nil {
		switch {
		case errors.Is(err, getBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		case errors.Is(err, getBooking.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/%d - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		default:
			h.logger.Error("GET /bookings/%d - Failed to get booking: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp := &BookingResponse{
		ID:                 result.ID,
		Status:             result.Status,
		PaymentStatus:      result.PaymentStatus,
		ContactName:        result.ContactName,
		ContactEmail:       result.ContactEmail,
		ContactPhone:       result.ContactPhone,
		TotalAmount:        result.TotalAmount.StringFixed(2),
		Currency:           result.Currency,
		CancellationReason: result.CancellationReason,
		CancelledAt:        result.CancelledAt,
		CreatedAt:          result.CreatedAt,
		UpdatedAt:          result.UpdatedAt,
	}
	for _, item := range result.Items {
		resp.Items = append(resp.Items, ItemResponse{
			ID:          item.ID,
			VariantID:   item.VariantID,
			SessionID:   item.SessionID,
			PaxType:     item.PaxType,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			TotalAmount: item.TotalAmount.StringFixed(2),
			Passengers:  item.Passengers,
		})
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}
