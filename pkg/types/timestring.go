package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const timeLayout = "15:04"

// TimeString время в формате "HH:MM" без даты и таймзоны.
// Используется для времени начала и окончания сессий тура.
type TimeString string

var ErrInvalidTimeString = errors.New("types: invalid time string format")

// NewTimeStringFromString парсит строку "HH:MM" и валидирует её
func NewTimeStringFromString(s string) (TimeString, error) {
	if _, err := time.Parse(timeLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString(s), nil
}

// String возвращает строковое представление "HH:MM"
func (t TimeString) String() string {
	return string(t)
}

// ToTime накладывает время на дату date (в таймзоне date)
func (t TimeString) ToTime(date time.Time) (time.Time, error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0,
		date.Location(),
	), nil
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД.
// PostgreSQL отдаёт колонку time как "HH:MM:SS" — секунды отбрасываем.
func (t *TimeString) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		s = v.Format(timeLayout)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}
	if len(s) >= 5 {
		s = s[:5]
	}
	if _, err := time.Parse(timeLayout, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	*t = TimeString(s)
	return nil
}
