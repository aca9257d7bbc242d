package create_booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRequest одна позиция бронирования
type ItemRequest struct {
	VariantID  int64    // ID варианта тура
	SessionID  int64    // ID сессии (должна принадлежать варианту)
	PaxType    string   // Тип пассажира (adult/child/infant/senior)
	Quantity   int      // Количество мест
	Passengers []string // Имена пассажиров (опционально)
}

// Request модель запроса на создание бронирования
type Request struct {
	ContactName  string        // Имя контактного лица
	ContactEmail string        // Email контактного лица
	ContactPhone *string       // Телефон (опционально)
	Items        []ItemRequest // Позиции бронирования
}

// ItemResponse позиция созданного бронирования
type ItemResponse struct {
	ID          int64
	VariantID   int64
	SessionID   int64
	PaxType     string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	HoldID      string // ID холда, удерживающего места позиции
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64
	Status        string
	PaymentStatus string
	ContactName   string
	ContactEmail  string
	ContactPhone  *string
	TotalAmount   decimal.Decimal
	Currency      string

	// HoldExpiresAt дедлайн подтверждения: после него холды истекают
	// и бронирование будет переведено в expired
	HoldExpiresAt time.Time

	Items []ItemResponse

	CreatedAt time.Time
}
