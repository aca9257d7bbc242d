package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money денежная сумма с фиксированной точностью.
// Все расчёты цен и возвратов в сервисе идут через decimal,
// float64 для денег не используется нигде.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// New создает Money из decimal суммы и валюты
func New(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// NewFromMinorUnits создает Money из минорных единиц (копейки, центы)
func NewFromMinorUnits(units int64, currency string) Money {
	return Money{Amount: decimal.New(units, -2), Currency: currency}
}

// MustParse создает Money из строкового представления суммы.
// Паникует при некорректной строке — использовать только в тестах и константах.
func MustParse(amount, currency string) Money {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		panic(fmt.Sprintf("money: invalid amount %q: %v", amount, err))
	}
	return Money{Amount: d, Currency: currency}
}

// Zero возвращает нулевую сумму в той же валюте
func (m Money) Zero() Money {
	return Money{Amount: decimal.Zero, Currency: m.Currency}
}

// Add складывает две суммы. Валюты должны совпадать.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("money: currency mismatch: %s != %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// MulInt умножает сумму на целое количество
func (m Money) MulInt(qty int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(qty))), Currency: m.Currency}
}

// Mul умножает сумму на decimal коэффициент
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

// ApplyPct возвращает pct процентов от суммы (pct в диапазоне 0-100)
func (m Money) ApplyPct(pct decimal.Decimal) Money {
	return Money{
		Amount:   m.Amount.Mul(pct).Div(decimal.NewFromInt(100)),
		Currency: m.Currency,
	}
}

// Round округляет сумму до двух знаков после запятой
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(2), Currency: m.Currency}
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// String возвращает строковое представление вида "90.00 USD"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
