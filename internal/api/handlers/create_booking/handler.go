package create_booking

import (
	"errors"
	"net/http"

	"github.com/avlasov/TMS-InventoryService/internal/api/handlers"
	createBooking "github.com/avlasov/TMS-InventoryService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "некорректные входные данные"
	msgSessionNotFound      = "сессия не найдена"
	msgVariantNotFound      = "вариант тура не найден"
	msgSessionNotBookable   = "сессия недоступна для бронирования"
	msgCutoffPassed         = "бронирование на эту сессию уже закрыто"
	msgPartialAvailability  = "недостаточно мест по одной из позиций"
	msgNoPrice              = "для одной из позиций не задана цена"
	msgCurrencyMismatch     = "позиции бронирования в разных валютах"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrSessionNotFound):
			h.logger.Warn("POST /bookings - Session not found")
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, createBooking.ErrVariantNotFound):
			h.logger.Warn("POST /bookings - Variant not found")
			handlers.RespondNotFound(w, msgVariantNotFound)

		case errors.Is(err, createBooking.ErrSessionNotBookable):
			h.logger.Warn("POST /bookings - Session not bookable")
			handlers.RespondConflict(w, msgSessionNotBookable)

		case errors.Is(err, createBooking.ErrCutoffPassed):
			h.logger.Warn("POST /bookings - Cutoff passed")
			handlers.RespondConflict(w, msgCutoffPassed)

		case errors.Is(err, createBooking.ErrPartialAvailability):
			h.logger.Warn("POST /bookings - Partial availability: %v", err)
			handlers.RespondConflict(w, msgPartialAvailability)

		case errors.Is(err, createBooking.ErrNoPrice):
			h.logger.Warn("POST /bookings - No price: %v", err)
			handlers.RespondBadRequest(w, msgNoPrice)

		case errors.Is(err, createBooking.ErrCurrencyMismatch):
			h.logger.Warn("POST /bookings - Currency mismatch")
			handlers.RespondBadRequest(w, msgCurrencyMismatch)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
