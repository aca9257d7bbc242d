package confirm_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/events"
	bookingRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/booking"
	"github.com/avlasov/TMS-InventoryService/internal/integrations/paymentservice"
	"github.com/avlasov/TMS-InventoryService/internal/service/holds"
)

// UseCase use case для подтверждения бронирования.
//
// Подтверждение требует оплаченного платежа и живых холдов. Если хотя
// бы один холд истёк, транзакция откатывается целиком: бронирование
// остаётся pending и будет переведено в expired sweep'ом.
type UseCase struct {
	bookingRepo   BookingRepository
	holds         HoldService
	paymentClient PaymentServiceClient
	publisher     EventPublisher
	metrics       MetricsCollector
	txManager     TransactionManager
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	holdService HoldService,
	paymentClient PaymentServiceClient,
	publisher EventPublisher,
	metrics MetricsCollector,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		holds:         holdService,
		paymentClient: paymentClient,
		publisher:     publisher,
		metrics:       metrics,
		txManager:     txManager,
		logger:        logger,
	}
}

// Execute выполняет use case подтверждения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	uc.logger.Info("ConfirmBooking: booking=%d", req.BookingID)

	// 1. Получаем бронирование и проверяем статус
	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !booking.CanBeConfirmed() {
		uc.logger.Warn("ConfirmBooking: booking=%d status=%s cannot be confirmed", booking.ID, booking.Status)
		return nil, ErrBookingNotPending
	}

	// 2. Проверяем оплату через платёжный сервис
	payment, err := uc.paymentClient.GetPaymentStatus(ctx, req.BookingID)
	if err != nil {
		switch {
		case errors.Is(err, paymentservice.ErrPaymentNotFound):
			uc.logger.Warn("ConfirmBooking: booking=%d has no payment", req.BookingID)
			return nil, ErrNotPaid
		case errors.Is(err, paymentservice.ErrServiceDegraded):
			uc.logger.Error("ConfirmBooking: booking=%d payment service degraded: %v", req.BookingID, err)
			return nil, ErrPaymentServiceUnavailable
		}
		return nil, fmt.Errorf("%w: get payment status: %v", ErrInternal, err)
	}
	if payment.Status != paymentservice.StatusPaid {
		uc.logger.Warn("ConfirmBooking: booking=%d payment status=%s", req.BookingID, payment.Status)
		return nil, ErrNotPaid
	}

	// 3. Подтверждаем холды и бронирование в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		transitioned, err := uc.bookingRepo.TransitionStatus(txCtx, booking.ID,
			domain.BookingPending, domain.BookingConfirmed)
		if err != nil {
			return fmt.Errorf("%w: transition booking status: %v", ErrInternal, err)
		}
		if !transitioned {
			return ErrBookingNotPending
		}

		bookingHolds, err := uc.holds.ListByBooking(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: list holds: %v", ErrInternal, err)
		}

		for _, h := range bookingHolds {
			if err := uc.holds.Confirm(txCtx, h.ID); err != nil {
				if errors.Is(err, holds.ErrHoldNotActive) {
					uc.logger.Warn("ConfirmBooking: booking=%d hold=%s expired", booking.ID, h.ID)
					return ErrHoldExpired
				}
				return fmt.Errorf("%w: confirm hold %s: %v", ErrInternal, h.ID, err)
			}
		}

		if err := uc.bookingRepo.SetPaymentStatus(txCtx, booking.ID, domain.PaymentPaid); err != nil {
			return fmt.Errorf("%w: set payment status: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.IncBookingConfirmed()
	uc.publish(ctx, events.New(events.BookingConfirmed, map[string]interface{}{
		"bookingId":   booking.ID,
		"totalAmount": booking.TotalAmount.String(),
		"currency":    booking.Currency,
	}))

	uc.logger.Info("ConfirmBooking: booking=%d confirmed", booking.ID)

	return &Response{
		ID:            booking.ID,
		Status:        string(domain.BookingConfirmed),
		PaymentStatus: string(domain.PaymentPaid),
		TotalAmount:   booking.TotalAmount,
		Currency:      booking.Currency,
		ConfirmedAt:   time.Now().UTC(),
	}, nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: get booking: %v", ErrInternal, err)
	}
	return b, nil
}

func (uc *UseCase) publish(ctx context.Context, event events.Event) {
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("publish %s: %v", event.Name, err)
	}
}
