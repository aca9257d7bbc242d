package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	sessionRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/session"
	"github.com/avlasov/TMS-InventoryService/pkg/txmanager"
)

// Service единственный владелец счётчиков вместимости сессий.
//
// Каждая мутация выполняется в serializable транзакции под блокировкой
// строки сессии (SELECT ... FOR UPDATE) — это точка сериализации на
// сессию. Глобальной блокировки нет: конкурентные операции над разными
// сессиями друг другу не мешают.
//
// Инвариант, который обязан пережить любую последовательность операций:
// held_quantity + committed_quantity <= effective_capacity.
type Service struct {
	sessions     SessionRepository
	reservations ReservationRepository
	variants     VariantRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый capacity-сервис
func NewService(
	sessions SessionRepository,
	reservations ReservationRepository,
	variants VariantRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		sessions:     sessions,
		reservations: reservations,
		variants:     variants,
		txManager:    txManager,
		logger:       logger,
	}
}

// AvailabilityInfo снимок доступности сессии
type AvailabilityInfo struct {
	SessionID         int64
	Status            domain.SessionStatus
	EffectiveCapacity int
	HeldQuantity      int
	CommittedQuantity int
	Available         int
}

// Reserve атомарно резервирует quantity мест сессии.
// Возвращает токен, которым резерв можно отпустить или закоммитить.
func (s *Service) Reserve(ctx context.Context, sessionID int64, quantity int) (*domain.ReservationToken, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var token *domain.ReservationToken

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		session, variant, err := s.lockSession(txCtx, sessionID)
		if err != nil {
			return err
		}

		if session.Status == domain.SessionClosed || session.Status == domain.SessionCancelled {
			return ErrSessionNotBookable
		}

		available := session.AvailableQuantity(variant.CapacityPerSlot)
		if quantity > available {
			s.logger.Warn("Reserve: session=%d insufficient capacity: requested=%d available=%d",
				sessionID, quantity, available)
			return ErrInsufficientCapacity
		}

		token = &domain.ReservationToken{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Quantity:  quantity,
			State:     domain.TokenHeld,
		}
		if err := s.reservations.Create(txCtx, token); err != nil {
			return fmt.Errorf("%w: Reserve - create token: %v", ErrInternal, err)
		}

		if err := s.sessions.UpdateCounters(txCtx, sessionID,
			session.HeldQuantity+quantity, session.CommittedQuantity); err != nil {
			return fmt.Errorf("%w: Reserve - update counters: %v", ErrInternal, err)
		}

		txmanager.OnCommit(txCtx, func() {
			s.logger.Info("Reserve: session=%d quantity=%d token=%s", sessionID, quantity, token.ID)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Release отпускает удержанный резерв. Идемпотентна: повторный вызов
// для уже отпущенного (или закоммиченного) токена ничего не меняет.
func (s *Service) Release(ctx context.Context, tokenID string) error {
	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		transitioned, err := s.reservations.TransitionState(txCtx, tokenID, domain.TokenHeld, domain.TokenReleased)
		if err != nil {
			return fmt.Errorf("%w: Release - transition token: %v", ErrInternal, err)
		}
		if !transitioned {
			// Токен уже released или committed — no-op
			return nil
		}

		token, err := s.reservations.GetByID(txCtx, tokenID)
		if err != nil {
			return fmt.Errorf("%w: Release - get token: %v", ErrInternal, err)
		}

		session, variant, err := s.lockSession(txCtx, token.SessionID)
		if err != nil {
			return err
		}

		held := session.HeldQuantity - token.Quantity
		if held < 0 {
			held = 0
		}
		if err := s.sessions.UpdateCounters(txCtx, session.ID, held, session.CommittedQuantity); err != nil {
			return fmt.Errorf("%w: Release - update counters: %v", ErrInternal, err)
		}

		return s.reopenIfFull(txCtx, session, variant, held, session.CommittedQuantity)
	})
}

// Commit переводит резерв из held в committed (продажа состоялась).
// Для уже отпущенного или уже закоммиченного токена — ErrTokenInvalid.
func (s *Service) Commit(ctx context.Context, tokenID string) error {
	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		transitioned, err := s.reservations.TransitionState(txCtx, tokenID, domain.TokenHeld, domain.TokenCommitted)
		if err != nil {
			return fmt.Errorf("%w: Commit - transition token: %v", ErrInternal, err)
		}
		if !transitioned {
			return ErrTokenInvalid
		}

		token, err := s.reservations.GetByID(txCtx, tokenID)
		if err != nil {
			return fmt.Errorf("%w: Commit - get token: %v", ErrInternal, err)
		}

		session, variant, err := s.lockSession(txCtx, token.SessionID)
		if err != nil {
			return err
		}

		held := session.HeldQuantity - token.Quantity
		if held < 0 {
			held = 0
		}
		committed := session.CommittedQuantity + token.Quantity

		if err := s.sessions.UpdateCounters(txCtx, session.ID, held, committed); err != nil {
			return fmt.Errorf("%w: Commit - update counters: %v", ErrInternal, err)
		}

		// Распродано — закрываем сессию для новых резервов
		if committed >= session.EffectiveCapacity(variant.CapacityPerSlot) && session.Status == domain.SessionOpen {
			if err := s.sessions.UpdateStatus(txCtx, session.ID, domain.SessionFull); err != nil {
				return fmt.Errorf("%w: Commit - update status: %v", ErrInternal, err)
			}
		}
		return nil
	})
}

// ReleaseCommitted возвращает в продажу ранее закоммиченное количество
// (отмена подтверждённого бронирования)
func (s *Service) ReleaseCommitted(ctx context.Context, sessionID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		session, variant, err := s.lockSession(txCtx, sessionID)
		if err != nil {
			return err
		}

		committed := session.CommittedQuantity - quantity
		if committed < 0 {
			committed = 0
		}
		if err := s.sessions.UpdateCounters(txCtx, sessionID, session.HeldQuantity, committed); err != nil {
			return fmt.Errorf("%w: ReleaseCommitted - update counters: %v", ErrInternal, err)
		}

		return s.reopenIfFull(txCtx, session, variant, session.HeldQuantity, committed)
	})
}

// Availability возвращает снимок доступности сессии (read-only)
func (s *Service) Availability(ctx context.Context, sessionID int64) (*AvailabilityInfo, error) {
	var info *AvailabilityInfo

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.GetByID(txCtx, sessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("%w: Availability - get session: %v", ErrInternal, err)
		}

		variant, err := s.variants.GetByID(txCtx, session.VariantID)
		if err != nil {
			return fmt.Errorf("%w: Availability - get variant: %v", ErrInternal, err)
		}

		effective := session.EffectiveCapacity(variant.CapacityPerSlot)
		info = &AvailabilityInfo{
			SessionID:         session.ID,
			Status:            session.Status,
			EffectiveCapacity: effective,
			HeldQuantity:      session.HeldQuantity,
			CommittedQuantity: session.CommittedQuantity,
			Available:         effective - session.HeldQuantity - session.CommittedQuantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// lockSession берет блокировку строки сессии и возвращает её вместе с вариантом
func (s *Service) lockSession(ctx context.Context, sessionID int64) (*domain.TourSession, *domain.TourVariant, error) {
	session, err := s.sessions.GetForUpdate(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("%w: lock session: %v", ErrInternal, err)
	}

	variant, err := s.variants.GetByID(ctx, session.VariantID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: get variant for session %d: %v", ErrInternal, sessionID, err)
	}
	return session, variant, nil
}

func (s *Service) reopenIfFull(ctx context.Context, session *domain.TourSession, variant *domain.TourVariant, held, committed int) error {
	if session.Status != domain.SessionFull {
		return nil
	}
	if held+committed < session.EffectiveCapacity(variant.CapacityPerSlot) {
		if err := s.sessions.UpdateStatus(ctx, session.ID, domain.SessionOpen); err != nil {
			return fmt.Errorf("%w: reopen session %d: %v", ErrInternal, session.ID, err)
		}
	}
	return nil
}
