package get_quote

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса расчёта цены
type Request struct {
	VariantID int64
	Date      time.Time
	PaxType   string
	Quantity  int
}

// Response модель ответа с рассчитанной ценой
type Response struct {
	VariantID int64
	Date      time.Time
	PaxType   string
	Quantity  int

	UnitPrice decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
	Currency  string

	// AppliedRuleID ID применённого правила, nil если применена базовая цена
	AppliedRuleID *int64
}
