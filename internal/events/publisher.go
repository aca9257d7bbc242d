package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher интерфейс публикации доменных событий
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher публикует события в redis pub/sub каналы вида
// "<prefix>.<event name>" с JSON-телом события
type RedisPublisher struct {
	client redis.Cmdable
	prefix string
}

// NewRedisPublisher создает publisher поверх redis клиента
func NewRedisPublisher(client redis.Cmdable, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = "tms"
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

// Publish сериализует событие и отправляет его в канал
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", event.Name, err)
	}

	channel := fmt.Sprintf("%s.%s", p.prefix, event.Name)
	if err := p.client.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("events: publish %s: %w", channel, err)
	}
	return nil
}

// NopPublisher заглушка для конфигураций без redis и для тестов
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(context.Context, Event) error { return nil }
