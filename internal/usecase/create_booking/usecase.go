package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	sessionRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/session"
	variantRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/variant"
	"github.com/avlasov/TMS-InventoryService/internal/service/capacity"
	"github.com/avlasov/TMS-InventoryService/internal/service/pricing"
)

// UseCase use case для создания бронирования.
//
// Холды создаются по одному; частичный успех невозможен: если хотя бы
// одну позицию зарезервировать не удалось, все уже созданные холды
// отпускаются и возвращается ErrPartialAvailability.
type UseCase struct {
	bookingRepo  BookingRepository
	sessionRepo  SessionRepository
	variantRepo  VariantRepository
	pricing      PricingService
	holds        HoldService
	metrics      MetricsCollector
	txManager    TransactionManager
	holdTTL      time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	sessionRepo SessionRepository,
	variantRepo VariantRepository,
	pricingService PricingService,
	holdService HoldService,
	metrics MetricsCollector,
	txManager TransactionManager,
	holdTTL time.Duration,
	logger Logger,
) *UseCase {
	if holdTTL <= 0 {
		holdTTL = domain.DefaultHoldTTLMinutes * time.Minute
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		sessionRepo:  sessionRepo,
		variantRepo:  variantRepo,
		pricing:      pricingService,
		holds:        holdService,
		metrics:      metrics,
		txManager:    txManager,
		holdTTL:      holdTTL,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// pricedItem позиция после котировки, до резервирования
type pricedItem struct {
	req     ItemRequest
	session *domain.TourSession
	quote   *pricing.Quote
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: contact=%s items=%d", req.ContactEmail, len(req.Items))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Котируем каждую позицию и проверяем сессии (cutoff, статус)
	priced := make([]*pricedItem, 0, len(req.Items))
	for i, item := range req.Items {
		p, err := uc.priceItem(ctx, i, item, now)
		if err != nil {
			return nil, err
		}
		priced = append(priced, p)
	}

	// 3. Все позиции должны быть в одной валюте
	total := priced[0].quote.Total.Zero()
	for _, p := range priced {
		sum, err := total.Add(p.quote.Total)
		if err != nil {
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, ErrCurrencyMismatch
		}
		total = sum
	}

	// 4. Создаем холды по одному; при любой неудаче откатываем созданные
	createdHolds := make([]*domain.InventoryHold, 0, len(priced))
	for i, p := range priced {
		h, err := uc.holds.Create(ctx, p.req.SessionID, p.req.Quantity, uc.holdTTL)
		if err != nil {
			uc.rollbackHolds(ctx, createdHolds)
			uc.logger.Warn("CreateBooking: item %d session=%d reserve failed: %v", i, p.req.SessionID, err)
			return nil, fmt.Errorf("%w: %v", ErrPartialAvailability, err)
		}
		createdHolds = append(createdHolds, h)
	}

	// 5. Сохраняем бронирование и привязываем холды в одной транзакции
	var result *domain.Booking
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking := &domain.Booking{
			ContactName:   req.ContactName,
			ContactEmail:  req.ContactEmail,
			ContactPhone:  req.ContactPhone,
			Status:        domain.BookingPending,
			PaymentStatus: domain.PaymentUnpaid,
			TotalAmount:   total.Amount,
			Currency:      total.Currency,
		}
		for _, p := range priced {
			bi := &domain.BookingItem{
				VariantID:   p.req.VariantID,
				SessionID:   p.req.SessionID,
				PaxType:     domain.PaxType(p.req.PaxType),
				Quantity:    p.req.Quantity,
				UnitPrice:   p.quote.UnitPrice.Amount,
				TotalAmount: p.quote.Total.Amount,
			}
			for _, name := range p.req.Passengers {
				bi.Passengers = append(bi.Passengers, &domain.BookingPassenger{FullName: name})
			}
			booking.Items = append(booking.Items, bi)
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: create booking: %v", ErrInternal, err)
		}

		for _, h := range createdHolds {
			if err := uc.holds.AttachBooking(txCtx, h.ID, created.ID); err != nil {
				return fmt.Errorf("%w: attach hold %s: %v", ErrInternal, h.ID, err)
			}
		}

		result = created
		return nil
	})
	if err != nil {
		uc.rollbackHolds(ctx, createdHolds)
		uc.logger.Error("CreateBooking: persist failed: %v", err)
		return nil, err
	}

	uc.metrics.IncBookingCreated()
	uc.logger.Info("CreateBooking: successfully created booking id=%d total=%s", result.ID, total)

	return uc.buildResponse(result, createdHolds), nil
}

// priceItem проверяет сессию позиции и рассчитывает её стоимость
func (uc *UseCase) priceItem(ctx context.Context, idx int, item ItemRequest, now time.Time) (*pricedItem, error) {
	session, err := uc.sessionRepo.GetByID(ctx, item.SessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Warn("CreateBooking: item %d: session id=%d not found", idx, item.SessionID)
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: get session: %v", ErrInternal, err)
	}

	if session.VariantID != item.VariantID {
		uc.logger.Warn("CreateBooking: item %d: session id=%d does not belong to variant id=%d",
			idx, item.SessionID, item.VariantID)
		return nil, ErrSessionNotBookable
	}
	if !session.IsBookable() {
		uc.logger.Warn("CreateBooking: item %d: session id=%d status=%s", idx, item.SessionID, session.Status)
		return nil, ErrSessionNotBookable
	}

	variant, err := uc.variantRepo.GetByID(ctx, item.VariantID)
	if err != nil {
		if errors.Is(err, variantRepo.ErrVariantNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("%w: get variant: %v", ErrInternal, err)
	}

	departureAt, err := session.DepartureAt()
	if err != nil {
		return nil, fmt.Errorf("%w: session departure time: %v", ErrInternal, err)
	}
	if now.After(departureAt.Add(-time.Duration(variant.CutoffHours) * time.Hour)) {
		uc.logger.Warn("CreateBooking: item %d: cutoff passed for session id=%d departure=%s",
			idx, item.SessionID, departureAt.Format(time.RFC3339))
		return nil, ErrCutoffPassed
	}

	quote, err := uc.pricing.Quote(ctx, item.VariantID, session.Date, domain.PaxType(item.PaxType), item.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrNoApplicablePriceRule):
			return nil, ErrNoPrice
		case errors.Is(err, pricing.ErrVariantNotFound):
			return nil, ErrVariantNotFound
		case errors.Is(err, pricing.ErrInvalidQuantity), errors.Is(err, pricing.ErrInvalidPaxType):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: quote item: %v", ErrInternal, err)
	}

	return &pricedItem{req: item, session: session, quote: quote}, nil
}

// rollbackHolds отпускает созданные холды; ошибки только логируются,
// оставшиеся холды добьёт sweep по TTL
func (uc *UseCase) rollbackHolds(ctx context.Context, holds []*domain.InventoryHold) {
	for _, h := range holds {
		if err := uc.holds.Release(ctx, h.ID); err != nil && !errors.Is(err, capacity.ErrTokenInvalid) {
			uc.logger.Error("CreateBooking: rollback hold %s: %v", h.ID, err)
		}
	}
}

func (uc *UseCase) buildResponse(b *domain.Booking, holds []*domain.InventoryHold) *Response {
	resp := &Response{
		ID:            b.ID,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		ContactName:   b.ContactName,
		ContactEmail:  b.ContactEmail,
		ContactPhone:  b.ContactPhone,
		TotalAmount:   b.TotalAmount,
		Currency:      b.Currency,
		CreatedAt:     b.CreatedAt,
	}

	for i, item := range b.Items {
		ir := ItemResponse{
			ID:          item.ID,
			VariantID:   item.VariantID,
			SessionID:   item.SessionID,
			PaxType:     string(item.PaxType),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalAmount: item.TotalAmount,
		}
		if i < len(holds) {
			ir.HoldID = holds[i].ID
			if resp.HoldExpiresAt.IsZero() || holds[i].ExpiresAt.Before(resp.HoldExpiresAt) {
				resp.HoldExpiresAt = holds[i].ExpiresAt
			}
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
