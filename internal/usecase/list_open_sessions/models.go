package list_open_sessions

import "time"

// Request модель запроса списка открытых сессий варианта
type Request struct {
	VariantID int64
	From      time.Time
	To        time.Time
}

// SessionInfo открытая сессия с доступной вместимостью
type SessionInfo struct {
	ID                int64
	Date              time.Time
	StartTime         string
	EndTime           string
	Status            string
	EffectiveCapacity int
	Available         int
}

// Response модель ответа со списком сессий
type Response struct {
	VariantID int64
	Sessions  []SessionInfo
}
