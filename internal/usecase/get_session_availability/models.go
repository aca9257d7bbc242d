package get_session_availability

// Request модель запроса доступности сессии
type Request struct {
	SessionID int64
}

// Response модель ответа с доступностью сессии
type Response struct {
	SessionID         int64
	Status            string
	EffectiveCapacity int
	HeldQuantity      int
	CommittedQuantity int
	Available         int
}
