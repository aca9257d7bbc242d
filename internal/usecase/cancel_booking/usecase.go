package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/events"
	bookingRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/booking"
	"github.com/avlasov/TMS-InventoryService/pkg/money"
)

var hundred = decimal.NewFromInt(100)

// UseCase use case для отмены бронирования.
//
// Возврат считается попозиционно: для каждой позиции движок политик
// даёт процент штрафа от времени до отправления её сессии, возврат
// позиции = total × (100 − fee) / 100. Вместимость возвращается в
// продажу: закоммиченные места — через ReleaseCommitted, активные
// холды pending-бронирования — явным release.
type UseCase struct {
	bookingRepo  BookingRepository
	sessionRepo  SessionRepository
	policy       PolicyService
	capacity     CapacityService
	holds        HoldService
	publisher    EventPublisher
	metrics      MetricsCollector
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	sessionRepo SessionRepository,
	policyService PolicyService,
	capacityService CapacityService,
	holdService HoldService,
	publisher EventPublisher,
	metrics MetricsCollector,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		sessionRepo:  sessionRepo,
		policy:       policyService,
		capacity:     capacityService,
		holds:        holdService,
		publisher:    publisher,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case отмены бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CancelBooking: booking=%d", req.BookingID)

	now := uc.timeProvider.Now()

	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetWithItems(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: get booking: %v", ErrInternal, err)
		}

		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking=%d status=%s cannot be cancelled", booking.ID, booking.Status)
			return ErrBookingNotCancellable
		}

		wasConfirmed := booking.Status == domain.BookingConfirmed

		// 1. Считаем штраф и возврат по каждой позиции
		itemFees, totalRefund, err := uc.calculateFees(txCtx, booking, now)
		if err != nil {
			return err
		}

		// 2. Возвращаем вместимость
		if wasConfirmed {
			for _, item := range booking.Items {
				if err := uc.capacity.ReleaseCommitted(txCtx, item.SessionID, item.Quantity); err != nil {
					return fmt.Errorf("%w: release committed session=%d: %v", ErrInternal, item.SessionID, err)
				}
			}
		} else {
			if err := uc.holds.ReleaseByBooking(txCtx, booking.ID); err != nil {
				return fmt.Errorf("%w: release holds: %v", ErrInternal, err)
			}
		}

		// 3. Помечаем бронирование отменённым
		paymentStatus := refundPaymentStatus(booking, totalRefund)
		reason := ""
		if req.Reason != nil {
			reason = *req.Reason
		}
		if err := uc.bookingRepo.SetCancelled(txCtx, booking.ID, reason, paymentStatus); err != nil {
			return fmt.Errorf("%w: set cancelled: %v", ErrInternal, err)
		}

		resp = &Response{
			ID:            booking.ID,
			Status:        string(domain.BookingCancelled),
			PaymentStatus: string(paymentStatus),
			RefundAmount:  totalRefund.Amount,
			Currency:      booking.Currency,
			Items:         itemFees,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.IncBookingCancelled()
	uc.publish(ctx, events.New(events.BookingCancelled, map[string]interface{}{
		"bookingId":    resp.ID,
		"refundAmount": resp.RefundAmount.String(),
		"currency":     resp.Currency,
	}))

	uc.logger.Info("CancelBooking: booking=%d cancelled, refund=%s %s",
		resp.ID, resp.RefundAmount.StringFixed(2), resp.Currency)
	return resp, nil
}

// calculateFees считает штраф каждой позиции по политике её варианта
// и суммирует возврат
func (uc *UseCase) calculateFees(ctx context.Context, booking *domain.Booking, now time.Time) ([]ItemFee, money.Money, error) {
	totalRefund := money.New(decimal.Zero, booking.Currency)
	itemFees := make([]ItemFee, 0, len(booking.Items))

	for _, item := range booking.Items {
		session, err := uc.sessionRepo.GetByID(ctx, item.SessionID)
		if err != nil {
			return nil, totalRefund, fmt.Errorf("%w: get session %d: %v", ErrInternal, item.SessionID, err)
		}
		departureAt, err := session.DepartureAt()
		if err != nil {
			return nil, totalRefund, fmt.Errorf("%w: session %d departure time: %v", ErrInternal, item.SessionID, err)
		}

		feePct, err := uc.policy.FeeFor(ctx, item.VariantID, departureAt, now)
		if err != nil {
			return nil, totalRefund, fmt.Errorf("%w: fee for variant %d: %v", ErrInternal, item.VariantID, err)
		}

		refund := money.New(item.TotalAmount, booking.Currency).
			ApplyPct(hundred.Sub(feePct)).
			Round()

		itemFees = append(itemFees, ItemFee{
			ItemID:       item.ID,
			SessionID:    item.SessionID,
			FeePct:       feePct,
			ItemTotal:    item.TotalAmount,
			RefundAmount: refund.Amount,
		})

		totalRefund, err = totalRefund.Add(refund)
		if err != nil {
			return nil, totalRefund, fmt.Errorf("%w: sum refund: %v", ErrInternal, err)
		}
	}
	return itemFees, totalRefund, nil
}

func refundPaymentStatus(booking *domain.Booking, refund money.Money) domain.PaymentStatus {
	if booking.PaymentStatus != domain.PaymentPaid {
		return booking.PaymentStatus
	}
	switch {
	case refund.IsZero():
		return domain.PaymentPaid
	case refund.Amount.Equal(booking.TotalAmount):
		return domain.PaymentRefunded
	default:
		return domain.PaymentPartial
	}
}

func (uc *UseCase) publish(ctx context.Context, event events.Event) {
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("publish %s: %v", event.Name, err)
	}
}
