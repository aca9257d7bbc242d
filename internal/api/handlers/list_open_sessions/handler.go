package list_open_sessions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avlasov/TMS-InventoryService/internal/api/handlers"
	"github.com/avlasov/TMS-InventoryService/internal/domain"
	listOpenSessions "github.com/avlasov/TMS-InventoryService/internal/usecase/list_open_sessions"
)

const (
	msgInvalidQuery    = "некорректные параметры запроса"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgVariantNotFound = "вариант тура не найден"
)

// SessionResponse открытая сессия в HTTP ответе
type SessionResponse struct {
	ID                int64  `json:"id"`
	Date              string `json:"date"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Status            string `json:"status"`
	EffectiveCapacity int    `json:"effectiveCapacity"`
	Available         int    `json:"available"`
}

// ListSessionsResponse модель HTTP ответа со списком сессий
type ListSessionsResponse struct {
	VariantID int64             `json:"variantId"`
	Sessions  []SessionResponse `json:"sessions"`
}

type Handler struct {
	useCase ListOpenSessionsUseCase
	logger  Logger
}

func NewHandler(useCase ListOpenSessionsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/variants/{id}/sessions?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	variantID, err := strconv.ParseInt(r.URL.Query().Get("variantId"), 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	from, err := time.Parse(domain.DateFormat, r.URL.Query().Get("from"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := time.Parse(domain.DateFormat, r.URL.Query().Get("to"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &listOpenSessions.Request{
		VariantID: variantID,
		From:      from,
		To:        to,
	})
	if err != nil {
		switch {
		case errors.Is(err, listOpenSessions.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, listOpenSessions.ErrVariantNotFound):
			h.logger.Warn("GET /sessions - Variant not found: variant_id=%d", variantID)
			handlers.RespondNotFound(w, msgVariantNotFound)

		default:
			h.logger.Error("GET /sessions - Failed to list sessions: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	resp := &ListSessionsResponse{VariantID: result.VariantID, Sessions: make([]SessionResponse, 0, len(result.Sessions))}
	for _, s := range result.Sessions {
		resp.Sessions = append(resp.Sessions, SessionResponse{
			ID:                s.ID,
			Date:              s.Date.Format(domain.DateFormat),
			StartTime:         s.StartTime,
			EndTime:           s.EndTime,
			Status:            s.Status,
			EffectiveCapacity: s.EffectiveCapacity,
			Available:         s.Available,
		})
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}
