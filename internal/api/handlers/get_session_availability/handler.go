package get_session_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avlasov/TMS-InventoryService/internal/api/handlers"
	getAvailability "github.com/avlasov/TMS-InventoryService/internal/usecase/get_session_availability"
)

const (
	msgInvalidSessionID = "некорректный идентификатор сессии"
	msgSessionNotFound  = "сессия не найдена"
)

// AvailabilityResponse модель HTTP ответа с доступностью сессии
type AvailabilityResponse struct {
	SessionID         int64  `json:"sessionId"`
	Status            string `json:"status"`
	EffectiveCapacity int    `json:"effectiveCapacity"`
	HeldQuantity      int    `json:"heldQuantity"`
	CommittedQuantity int    `json:"committedQuantity"`
	Available         int    `json:"available"`
}

type Handler struct {
	useCase GetSessionAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetSessionAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions/{id}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{SessionID: sessionID})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSessionID)

		case errors.Is(err, getAvailability.ErrSessionNotFound):
			h.logger.Warn("GET /sessions/%d/availability - Session not found", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		default:
			h.logger.Error("GET /sessions/%d/availability - Failed: %v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &AvailabilityResponse{
		SessionID:         result.SessionID,
		Status:            result.Status,
		EffectiveCapacity: result.EffectiveCapacity,
		HeldQuantity:      result.HeldQuantity,
		CommittedQuantity: result.CommittedQuantity,
		Available:         result.Available,
	})
}
