package list_open_sessions

import (
	"context"
	"errors"
	"fmt"

	variantRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/variant"
)

// UseCase use case списка открытых сессий варианта в диапазоне дат
type UseCase struct {
	sessionRepo SessionRepository
	variantRepo VariantRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(sessionRepo SessionRepository, variantRepo VariantRepository, logger Logger) *UseCase {
	return &UseCase{
		sessionRepo: sessionRepo,
		variantRepo: variantRepo,
		logger:      logger,
	}
}

// Execute выполняет use case списка открытых сессий
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ListOpenSessions: validation failed: %v", err)
		return nil, err
	}

	variant, err := uc.variantRepo.GetByID(ctx, req.VariantID)
	if err != nil {
		if errors.Is(err, variantRepo.ErrVariantNotFound) {
			uc.logger.Warn("ListOpenSessions: variant id=%d not found", req.VariantID)
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("%w: get variant: %v", ErrInternal, err)
	}

	sessions, err := uc.sessionRepo.ListOpenByVariant(ctx, req.VariantID, req.From, req.To)
	if err != nil {
		uc.logger.Error("ListOpenSessions: variant id=%d: %v", req.VariantID, err)
		return nil, fmt.Errorf("%w: list sessions: %v", ErrInternal, err)
	}

	resp := &Response{VariantID: req.VariantID, Sessions: make([]SessionInfo, 0, len(sessions))}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, SessionInfo{
			ID:                s.ID,
			Date:              s.Date,
			StartTime:         s.StartTime.String(),
			EndTime:           s.EndTime.String(),
			Status:            string(s.Status),
			EffectiveCapacity: s.EffectiveCapacity(variant.CapacityPerSlot),
			Available:         s.AvailableQuantity(variant.CapacityPerSlot),
		})
	}
	return resp, nil
}
