// Package events исходящие доменные события ядра бронирования.
//
// Ядро только публикует события; слой уведомлений и админ-дашборд
// (вне этого сервиса) подписываются на них самостоятельно. Ошибка
// публикации никогда не роняет бизнес-операцию — событие логируется
// и теряется, консистентность инвентаря важнее доставки.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Name имя доменного события
type Name string

const (
	HoldCreated      Name = "hold.created"
	HoldExpired      Name = "hold.expired"
	BookingConfirmed Name = "booking.confirmed"
	BookingCancelled Name = "booking.cancelled"
	BookingExpired   Name = "booking.expired"
)

// Event доменное событие с произвольным payload
type Event struct {
	ID         string                 `json:"id"`
	Name       Name                   `json:"name"`
	OccurredAt time.Time              `json:"occurredAt"`
	Payload    map[string]interface{} `json:"payload"`
}

// New создает событие с уникальным ID и текущим временем
func New(name Name, payload map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
