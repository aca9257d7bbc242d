package get_booking

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/booking"
)

// UseCase use case получения бронирования с позициями
type UseCase struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepository BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepository,
		logger:      logger,
	}
}

// Execute выполняет use case получения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	booking, err := uc.bookingRepo.GetWithItems(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("GetBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("GetBooking: booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	resp := &Response{
		ID:                 booking.ID,
		Status:             string(booking.Status),
		PaymentStatus:      string(booking.PaymentStatus),
		ContactName:        booking.ContactName,
		ContactEmail:       booking.ContactEmail,
		ContactPhone:       booking.ContactPhone,
		TotalAmount:        booking.TotalAmount,
		Currency:           booking.Currency,
		CancellationReason: booking.CancellationReason,
		CancelledAt:        booking.CancelledAt,
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
	}

	for _, item := range booking.Items {
		ir := ItemResponse{
			ID:          item.ID,
			VariantID:   item.VariantID,
			SessionID:   item.SessionID,
			PaxType:     string(item.PaxType),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalAmount: item.TotalAmount,
		}
		for _, p := range item.Passengers {
			ir.Passengers = append(ir.Passengers, p.FullName)
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp, nil
}
