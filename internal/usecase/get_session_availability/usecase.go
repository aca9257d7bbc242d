package get_session_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/avlasov/TMS-InventoryService/internal/service/capacity"
)

// UseCase use case получения доступности сессии
type UseCase struct {
	capacity CapacityService
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(capacityService CapacityService, logger Logger) *UseCase {
	return &UseCase{
		capacity: capacityService,
		logger:   logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.SessionID <= 0 {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	info, err := uc.capacity.Availability(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, capacity.ErrSessionNotFound) {
			uc.logger.Warn("GetSessionAvailability: session id=%d not found", req.SessionID)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("GetSessionAvailability: session id=%d: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return &Response{
		SessionID:         info.SessionID,
		Status:            string(info.Status),
		EffectiveCapacity: info.EffectiveCapacity,
		HeldQuantity:      info.HeldQuantity,
		CommittedQuantity: info.CommittedQuantity,
		Available:         info.Available,
	}, nil
}
