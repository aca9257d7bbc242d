// Package sweeper фоновая зачистка просроченных холдов.
//
// Истечение холдов не полагается на внешние таймеры: sweep периодически
// находит просроченные холды, истекает их пачками и переводит в expired
// pending-бронирования, оставшиеся без единого активного холда.
package sweeper

import (
	"context"
	"time"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/events"
	"github.com/avlasov/TMS-InventoryService/internal/service/holds"
)

const (
	defaultMaxRetries = 3
	retryBaseDelay    = 200 * time.Millisecond
)

// HoldService интерфейс менеджера холдов
type HoldService interface {
	ExpireDue(ctx context.Context, limit int) (holds.ExpireDueResult, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ExpirePendingWithoutActiveHolds(ctx context.Context, bookingIDs []int64) ([]int64, error)
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// MetricsCollector интерфейс для метрик sweep'а
type MetricsCollector interface {
	IncSweepRun()
	IncSweepError()
	IncBookingExpired()
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sweeper периодически истекает просроченные холды и pending-бронирования
type Sweeper struct {
	holds       HoldService
	bookingRepo BookingRepository
	publisher   EventPublisher
	metrics     MetricsCollector
	logger      Logger

	interval  time.Duration
	batchSize int
}

// New создает новый sweeper
func New(
	holdService HoldService,
	bookingRepo BookingRepository,
	publisher EventPublisher,
	metrics MetricsCollector,
	interval time.Duration,
	batchSize int,
	logger Logger,
) *Sweeper {
	if interval <= 0 {
		interval = domain.DefaultSweepIntervalSeconds * time.Second
	}
	if batchSize <= 0 {
		batchSize = domain.DefaultSweepBatchSize
	}
	return &Sweeper{
		holds:       holdService,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
		interval:    interval,
		batchSize:   batchSize,
	}
}

// Run запускает цикл зачистки; блокируется до отмены ctx
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("sweeper: started, interval=%s batch=%d", s.interval, s.batchSize)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep одна итерация: истекаем холды (с ретраями на транзиентных
// ошибках хранилища), затем истекаем осиротевшие pending-бронирования
func (s *Sweeper) sweep(ctx context.Context) {
	s.metrics.IncSweepRun()

	result, err := s.expireWithRetry(ctx)
	if err != nil {
		s.metrics.IncSweepError()
		s.logger.Error("sweeper: expire holds failed: %v", err)
		return
	}
	if result.Expired > 0 {
		s.logger.Info("sweeper: expired %d holds", result.Expired)
	}

	if len(result.BookingIDs) == 0 {
		return
	}

	expiredBookings, err := s.bookingRepo.ExpirePendingWithoutActiveHolds(ctx, result.BookingIDs)
	if err != nil {
		s.metrics.IncSweepError()
		s.logger.Error("sweeper: expire pending bookings failed: %v", err)
		return
	}

	for _, id := range expiredBookings {
		s.metrics.IncBookingExpired()
		if err := s.publisher.Publish(ctx, events.New(events.BookingExpired, map[string]interface{}{
			"bookingId": id,
		})); err != nil {
			s.logger.Warn("sweeper: publish booking.expired for %d: %v", id, err)
		}
		s.logger.Info("sweeper: booking=%d expired", id)
	}
}

func (s *Sweeper) expireWithRetry(ctx context.Context) (holds.ExpireDueResult, error) {
	var result holds.ExpireDueResult
	var err error

	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << uint(attempt-1)
			s.logger.Warn("sweeper: retry %d after %s: %v", attempt, delay, err)
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err = s.holds.ExpireDue(ctx, s.batchSize)
		if err == nil {
			return result, nil
		}
	}
	return result, err
}
