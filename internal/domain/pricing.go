package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceType determines how a rule amount combines with the base price
type PriceType string

const (
	// PriceAbsolute заменяет базовую цену ценой правила
	PriceAbsolute PriceType = "absolute"
	// PriceDelta прибавляет сумму правила к базовой цене (может быть отрицательной)
	PriceDelta PriceType = "delta"
)

// Weekday bit flags для WeekdayMask (бит = 1 << time.Weekday, Sunday = бит 0)
const (
	WeekdaySunday    uint8 = 1 << time.Sunday
	WeekdayMonday    uint8 = 1 << time.Monday
	WeekdayTuesday   uint8 = 1 << time.Tuesday
	WeekdayWednesday uint8 = 1 << time.Wednesday
	WeekdayThursday  uint8 = 1 << time.Thursday
	WeekdayFriday    uint8 = 1 << time.Friday
	WeekdaySaturday  uint8 = 1 << time.Saturday

	WeekdayAll uint8 = 0x7F
)

// PriceRule переопределение цен pax type'ов варианта, ограниченное
// диапазоном дат и маской дней недели.
//
// Разрешение конфликтов детерминировано: среди подошедших правил
// побеждает БОЛЬШИЙ Priority, при равенстве — меньший ID.
type PriceRule struct {
	ID        int64
	VariantID int64
	Name      string
	StartDate time.Time
	EndDate   time.Time

	WeekdayMask uint8
	Priority    int
	PriceType   PriceType

	// Amounts суммы по pax type. Правило применимо к pax type только
	// если сумма для него задана.
	Amounts map[PaxType]decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchesDate проверяет попадание даты в диапазон правила и маску дней недели
func (r *PriceRule) MatchesDate(date time.Time) bool {
	day := truncateToDay(date)
	if day.Before(truncateToDay(r.StartDate)) || day.After(truncateToDay(r.EndDate)) {
		return false
	}
	return r.WeekdayMask&(1<<uint8(date.Weekday())) != 0
}

// AmountFor возвращает сумму правила для pax type, если она задана
func (r *PriceRule) AmountFor(paxType PaxType) (decimal.Decimal, bool) {
	amount, ok := r.Amounts[paxType]
	return amount, ok
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
