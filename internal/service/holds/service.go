package holds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/events"
	holdRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/hold"
	"github.com/avlasov/TMS-InventoryService/pkg/txmanager"
)

// Service управляет жизненным циклом инвентарных холдов.
//
// Холд — это TTL-обёртка над токеном capacity-сервиса: создание холда
// резервирует места, подтверждение коммитит резерв, истечение или явный
// отказ его отпускают. Гонка confirm vs expire решается условным UPDATE
// статуса в репозитории: побеждает ровно одна сторона, проигравшая не
// трогает вместимость.
type Service struct {
	holds     HoldRepository
	capacity  CapacityService
	txManager TransactionManager
	publisher EventPublisher
	metrics   MetricsCollector
	clock     TimeProvider
	logger    Logger
}

// NewService создает новый сервис холдов
func NewService(
	holds HoldRepository,
	capacity CapacityService,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics MetricsCollector,
	clock TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		holds:     holds,
		capacity:  capacity,
		txManager: txManager,
		publisher: publisher,
		metrics:   metrics,
		clock:     clock,
		logger:    logger,
	}
}

// Create резервирует quantity мест сессии и оборачивает резерв в холд
// со сроком жизни ttl. Резерв и запись холда атомарны: если запись не
// удалась, резерв откатывается той же транзакцией.
func (s *Service) Create(ctx context.Context, sessionID int64, quantity int, ttl time.Duration) (*domain.InventoryHold, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	var hold *domain.InventoryHold

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		token, err := s.capacity.Reserve(txCtx, sessionID, quantity)
		if err != nil {
			return err
		}

		hold = &domain.InventoryHold{
			ID:        uuid.NewString(),
			TokenID:   token.ID,
			SessionID: sessionID,
			Quantity:  quantity,
			Status:    domain.HoldHeld,
			ExpiresAt: s.clock.Now().Add(ttl),
		}
		if err := s.holds.Create(txCtx, hold); err != nil {
			return fmt.Errorf("%w: Create - persist hold: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncHoldCreated()
	s.publish(ctx, events.New(events.HoldCreated, map[string]interface{}{
		"holdId":    hold.ID,
		"sessionId": hold.SessionID,
		"quantity":  hold.Quantity,
		"expiresAt": hold.ExpiresAt,
	}))

	s.logger.Info("Create: hold=%s session=%d quantity=%d expires_at=%s",
		hold.ID, sessionID, quantity, hold.ExpiresAt.Format(time.RFC3339))
	return hold, nil
}

// Confirm переводит холд в committed и коммитит резерв вместимости.
// Для истёкшего, отпущенного или уже подтверждённого холда — ErrHoldNotActive.
func (s *Service) Confirm(ctx context.Context, holdID string) error {
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		transitioned, err := s.holds.ConfirmTransition(txCtx, holdID, s.clock.Now())
		if err != nil {
			return fmt.Errorf("%w: Confirm - transition hold: %v", ErrInternal, err)
		}
		if !transitioned {
			if _, err := s.getHold(txCtx, holdID); err != nil {
				return err
			}
			return ErrHoldNotActive
		}

		h, err := s.getHold(txCtx, holdID)
		if err != nil {
			return err
		}

		if err := s.capacity.Commit(txCtx, h.TokenID); err != nil {
			return fmt.Errorf("%w: Confirm - commit reservation: %v", ErrInternal, err)
		}

		// Confirm может выполняться внутри объемлющей транзакции
		// (подтверждение бронирования): метрика и лог не должны
		// сработать, если та откатится
		txmanager.OnCommit(txCtx, func() {
			s.metrics.IncHoldConfirmed()
			s.logger.Info("Confirm: hold=%s confirmed", holdID)
		})
		return nil
	})
	return err
}

// Expire переводит просроченный холд в expired и отпускает резерв.
// Холд, успевший подтвердиться, не трогается (возврат без ошибки).
func (s *Service) Expire(ctx context.Context, holdID string) (bool, error) {
	expired, _, err := s.expireOne(ctx, holdID)
	return expired, err
}

func (s *Service) expireOne(ctx context.Context, holdID string) (bool, *int64, error) {
	var expired bool
	var sessionID int64
	var bookingID *int64

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		transitioned, err := s.holds.ExpireTransition(txCtx, holdID, s.clock.Now())
		if err != nil {
			return fmt.Errorf("%w: Expire - transition hold: %v", ErrInternal, err)
		}
		if !transitioned {
			// Холд подтвердили, отпустили или уже истёк — проигравшая
			// сторона гонки ничего не меняет
			expired = false
			return nil
		}

		h, err := s.getHold(txCtx, holdID)
		if err != nil {
			return err
		}
		sessionID = h.SessionID
		bookingID = h.BookingID

		if err := s.capacity.Release(txCtx, h.TokenID); err != nil {
			return fmt.Errorf("%w: Expire - release reservation: %v", ErrInternal, err)
		}
		expired = true
		return nil
	})
	if err != nil {
		return false, nil, err
	}

	if expired {
		s.metrics.IncHoldExpired()
		s.publish(ctx, events.New(events.HoldExpired, map[string]interface{}{
			"holdId":    holdID,
			"sessionId": sessionID,
		}))
		s.logger.Info("Expire: hold=%s expired", holdID)
	}
	return expired, bookingID, nil
}

// ExpireDueResult итог одной пачки истечений
type ExpireDueResult struct {
	// Expired число реально истёкших холдов
	Expired int
	// BookingIDs бронирования, чьи холды истекли в этой пачке
	BookingIDs []int64
}

// ExpireDue находит и истекает просроченные холды, не больше limit за
// вызов. Ошибка одного холда не прерывает обработку остальных.
func (s *Service) ExpireDue(ctx context.Context, limit int) (ExpireDueResult, error) {
	var result ExpireDueResult

	ids, err := s.holds.ListDueIDs(ctx, s.clock.Now(), limit)
	if err != nil {
		return result, fmt.Errorf("%w: ExpireDue - list due holds: %v", ErrInternal, err)
	}
	if len(ids) == 0 {
		return result, nil
	}

	seen := make(map[int64]struct{})
	var lastErr error
	for _, id := range ids {
		ok, bookingID, err := s.expireOne(ctx, id)
		if err != nil {
			s.logger.Error("ExpireDue: hold=%s failed to expire: %v", id, err)
			lastErr = err
			continue
		}
		if !ok {
			continue
		}
		result.Expired++
		if bookingID != nil {
			if _, dup := seen[*bookingID]; !dup {
				seen[*bookingID] = struct{}{}
				result.BookingIDs = append(result.BookingIDs, *bookingID)
			}
		}
	}
	return result, lastErr
}

// Release явно отпускает активный холд до истечения (отмена
// неподтверждённого бронирования). Идемпотентна для неактивных холдов.
func (s *Service) Release(ctx context.Context, holdID string) error {
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		transitioned, err := s.holds.ReleaseTransition(txCtx, holdID)
		if err != nil {
			return fmt.Errorf("%w: Release - transition hold: %v", ErrInternal, err)
		}
		if !transitioned {
			// Уже не held — no-op
			return nil
		}

		h, err := s.getHold(txCtx, holdID)
		if err != nil {
			return err
		}
		if err := s.capacity.Release(txCtx, h.TokenID); err != nil {
			return fmt.Errorf("%w: Release - release reservation: %v", ErrInternal, err)
		}

		txmanager.OnCommit(txCtx, func() {
			s.metrics.IncHoldReleased()
			s.logger.Info("Release: hold=%s released", holdID)
		})
		return nil
	})
	return err
}

// AttachBooking связывает холд с созданной записью бронирования
func (s *Service) AttachBooking(ctx context.Context, holdID string, bookingID int64) error {
	if err := s.holds.AttachBooking(ctx, holdID, bookingID); err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			return ErrHoldNotFound
		}
		return fmt.Errorf("%w: AttachBooking: %v", ErrInternal, err)
	}
	return nil
}

// GetByID возвращает холд по ID
func (s *Service) GetByID(ctx context.Context, holdID string) (*domain.InventoryHold, error) {
	return s.getHold(ctx, holdID)
}

// ListByBooking возвращает все холды бронирования
func (s *Service) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.InventoryHold, error) {
	hs, err := s.holds.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking: %v", ErrInternal, err)
	}
	return hs, nil
}

// ReleaseByBooking отпускает все ещё активные холды бронирования
func (s *Service) ReleaseByBooking(ctx context.Context, bookingID int64) error {
	hs, err := s.holds.ListByBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("%w: ReleaseByBooking - list holds: %v", ErrInternal, err)
	}

	for _, h := range hs {
		if h.Status != domain.HoldHeld {
			continue
		}
		if err := s.Release(ctx, h.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) getHold(ctx context.Context, holdID string) (*domain.InventoryHold, error) {
	h, err := s.holds.GetByID(ctx, holdID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			return nil, ErrHoldNotFound
		}
		return nil, fmt.Errorf("%w: get hold: %v", ErrInternal, err)
	}
	return h, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish %s: %v", event.Name, err)
	}
}
