package get_quote

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avlasov/TMS-InventoryService/internal/api/handlers"
	"github.com/avlasov/TMS-InventoryService/internal/domain"
	getQuote "github.com/avlasov/TMS-InventoryService/internal/usecase/get_quote"
)

const (
	msgInvalidQuery    = "некорректные параметры запроса"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgVariantNotFound = "вариант тура не найден"
	msgNoPrice         = "цена для указанного типа пассажира не задана"
)

// QuoteResponse модель HTTP ответа с рассчитанной ценой
type QuoteResponse struct {
	VariantID     int64  `json:"variantId"`
	Date          string `json:"date"`
	PaxType       string `json:"paxType"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unitPrice"`
	TaxAmount     string `json:"taxAmount"`
	Total         string `json:"total"`
	Currency      string `json:"currency"`
	AppliedRuleID *int64 `json:"appliedRuleId,omitempty"`
}

type Handler struct {
	useCase GetQuoteUseCase
	logger  Logger
}

func NewHandler(useCase GetQuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/quotes?variantId=&date=&paxType=&quantity=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	variantID, err := strconv.ParseInt(query.Get("variantId"), 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	quantity, err := strconv.Atoi(query.Get("quantity"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getQuote.Request{
		VariantID: variantID,
		Date:      date,
		PaxType:   query.Get("paxType"),
		Quantity:  quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, getQuote.ErrInvalidInput):
			h.logger.Warn("GET /quotes - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, getQuote.ErrVariantNotFound):
			h.logger.Warn("GET /quotes - Variant not found: variant_id=%d", variantID)
			handlers.RespondNotFound(w, msgVariantNotFound)

		case errors.Is(err, getQuote.ErrNoPrice):
			h.logger.Warn("GET /quotes - No price: variant_id=%d pax=%s", variantID, query.Get("paxType"))
			handlers.RespondBadRequest(w, msgNoPrice)

		default:
			h.logger.Error("GET /quotes - Failed to get quote: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &QuoteResponse{
		VariantID:     result.VariantID,
		Date:          result.Date.Format(domain.DateFormat),
		PaxType:       result.PaxType,
		Quantity:      result.Quantity,
		UnitPrice:     result.UnitPrice.StringFixed(2),
		TaxAmount:     result.TaxAmount.StringFixed(2),
		Total:         result.Total.StringFixed(2),
		Currency:      result.Currency,
		AppliedRuleID: result.AppliedRuleID,
	})
}
