package create_booking

import (
	"time"

	createBooking "github.com/avlasov/TMS-InventoryService/internal/usecase/create_booking"
)

// ItemRequest позиция бронирования в HTTP запросе
type ItemRequest struct {
	VariantID  int64    `json:"variantId"`
	SessionID  int64    `json:"sessionId"`
	PaxType    string   `json:"paxType"`
	Quantity   int      `json:"quantity"`
	Passengers []string `json:"passengers,omitempty"`
}

// CreateBookingRequest модель HTTP запроса на создание бронирования
type CreateBookingRequest struct {
	ContactName  string        `json:"contactName"`
	ContactEmail string        `json:"contactEmail"`
	ContactPhone *string       `json:"contactPhone,omitempty"`
	Items        []ItemRequest `json:"items"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	req := &createBooking.Request{
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
	}
	for _, item := range r.Items {
		req.Items = append(req.Items, createBooking.ItemRequest{
			VariantID:  item.VariantID,
			SessionID:  item.SessionID,
			PaxType:    item.PaxType,
			Quantity:   item.Quantity,
			Passengers: item.Passengers,
		})
	}
	return req
}

// ItemResponse позиция бронирования в HTTP ответе
type ItemResponse struct {
	ID          int64  `json:"id"`
	VariantID   int64  `json:"variantId"`
	SessionID   int64  `json:"sessionId"`
	PaxType     string `json:"paxType"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	TotalAmount string `json:"totalAmount"`
	HoldID      string `json:"holdId"`
}

// CreateBookingResponse модель HTTP ответа с созданным бронированием
type CreateBookingResponse struct {
	ID            int64          `json:"id"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"paymentStatus"`
	ContactName   string         `json:"contactName"`
	ContactEmail  string         `json:"contactEmail"`
	ContactPhone  *string        `json:"contactPhone,omitempty"`
	TotalAmount   string         `json:"totalAmount"`
	Currency      string         `json:"currency"`
	HoldExpiresAt time.Time      `json:"holdExpiresAt"`
	Items         []ItemResponse `json:"items"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	out := &CreateBookingResponse{
		ID:            resp.ID,
		Status:        resp.Status,
		PaymentStatus: resp.PaymentStatus,
		ContactName:   resp.ContactName,
		ContactEmail:  resp.ContactEmail,
		ContactPhone:  resp.ContactPhone,
		TotalAmount:   resp.TotalAmount.StringFixed(2),
		Currency:      resp.Currency,
		HoldExpiresAt: resp.HoldExpiresAt,
		CreatedAt:     resp.CreatedAt,
	}
	for _, item := range resp.Items {
		out.Items = append(out.Items, ItemResponse{
			ID:          item.ID,
			VariantID:   item.VariantID,
			SessionID:   item.SessionID,
			PaxType:     item.PaxType,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			TotalAmount: item.TotalAmount.StringFixed(2),
			HoldID:      item.HoldID,
		})
	}
	return out
}
