package confirm_booking_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/events"
	bookingRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/booking"
	"github.com/avlasov/TMS-InventoryService/internal/integrations/paymentservice"
	"github.com/avlasov/TMS-InventoryService/internal/service/holds"
	"github.com/avlasov/TMS-InventoryService/internal/usecase/confirm_booking"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) TransitionStatus(_ context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (r *fakeBookingRepo) SetPaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	r.bookings[id].PaymentStatus = status
	return nil
}

type fakeHoldService struct {
	holds     map[int64][]*domain.InventoryHold
	expired   map[string]bool
	confirmed []string
}

func (s *fakeHoldService) ListByBooking(_ context.Context, bookingID int64) ([]*domain.InventoryHold, error) {
	return s.holds[bookingID], nil
}

func (s *fakeHoldService) Confirm(_ context.Context, holdID string) error {
	if s.expired[holdID] {
		return holds.ErrHoldNotActive
	}
	s.confirmed = append(s.confirmed, holdID)
	return nil
}

type fakePaymentClient struct {
	status   paymentservice.PaymentStatus
	err      error
	notFound bool
}

func (c *fakePaymentClient) GetPaymentStatus(_ context.Context, bookingID int64) (*paymentservice.Payment, error) {
	if c.notFound {
		return nil, paymentservice.ErrPaymentNotFound
	}
	if c.err != nil {
		return nil, c.err
	}
	return &paymentservice.Payment{BookingID: bookingID, Status: c.status}, nil
}

type fakePublisher struct {
	published []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct{ confirmed int }

func (m *fakeMetrics) IncBookingConfirmed() { m.confirmed++ }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc        *confirm_booking.UseCase
	bookings  *fakeBookingRepo
	holds     *fakeHoldService
	payment   *fakePaymentClient
	publisher *fakePublisher
	metrics   *fakeMetrics
}

func newFixture() *fixture {
	bookings := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: {
			ID:            1,
			Status:        domain.BookingPending,
			PaymentStatus: domain.PaymentUnpaid,
			TotalAmount:   decimal.NewFromInt(300),
			Currency:      "USD",
		},
	}}
	holdSvc := &fakeHoldService{
		holds: map[int64][]*domain.InventoryHold{
			1: {
				{ID: "hold-1", Status: domain.HoldHeld},
				{ID: "hold-2", Status: domain.HoldHeld},
			},
		},
		expired: map[string]bool{},
	}
	payment := &fakePaymentClient{status: paymentservice.StatusPaid}
	publisher := &fakePublisher{}
	metrics := &fakeMetrics{}

	uc := confirm_booking.NewUseCase(
		bookings, holdSvc, payment, publisher, metrics, fakeTxManager{}, nopLogger{},
	)
	return &fixture{uc: uc, bookings: bookings, holds: holdSvc, payment: payment, publisher: publisher, metrics: metrics}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &confirm_booking.Request{BookingID: 1})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.False(t, resp.ConfirmedAt.IsZero())

	assert.Equal(t, domain.BookingConfirmed, f.bookings.bookings[1].Status)
	assert.Equal(t, domain.PaymentPaid, f.bookings.bookings[1].PaymentStatus)
	assert.ElementsMatch(t, []string{"hold-1", "hold-2"}, f.holds.confirmed)
	assert.Equal(t, 1, f.metrics.confirmed)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.BookingConfirmed, f.publisher.published[0].Name)
}

func TestExecute_NotPaid(t *testing.T) {
	f := newFixture()
	f.payment.status = paymentservice.StatusPending

	_, err := f.uc.Execute(context.Background(), &confirm_booking.Request{BookingID: 1})
	assert.ErrorIs(t, err, confirm_booking.ErrNotPaid)
	assert.Equal(t, domain.BookingPending, f.bookings.bookings[1].Status)
}

func TestExecute_PaymentMissing(t *testing.T) {
	f := newFixture()
	f.payment.notFound = true

	_, err := f.uc.Execute(context.Background(), &confirm_booking.Request{BookingID: 1})
	assert.ErrorIs(t, err, confirm_booking.ErrNotPaid)
}

func TestExecute_PaymentServiceDegraded(t *testing.T) {
	f := newFixture()
	f.payment.err = paymentservice.ErrServiceDegraded

	_, err := f.uc.Execute(context.Background(), &confirm_booking.Request{BookingID: 1})
	assert.ErrorIs(t, err, confirm_booking.ErrPaymentServiceUnavailable)
	assert.Equal(t, domain.BookingPending, f.bookings.bookings[1].Status)
}

func TestExecute_ExpiredHoldAborts(t *testing.T) {
	f := newFixture()
	f.holds.expired["hold-2"] = true

	_, err := f.uc.Execute(context.Background(), &confirm_booking.Request{BookingID: 1})
	assert.ErrorIs(t, err, confirm_booking.ErrHoldExpired)

	// Транзакция откатывается: payment status не тронут, события нет
	assert.Equal(t, domain.PaymentUnpaid, f.bookings.bookings[1].PaymentStatus)
	assert.Empty(t, f.publisher.published)
	assert.Equal(t, 0, f.metrics.confirmed)
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &confirm_booking.Request{BookingID: 42})
	assert.ErrorIs(t, err, confirm_booking.ErrBookingNotFound)
}

func TestExecute_BookingNotPending(t *testing.T) {
	f := newFixture()
	f.bookings.bookings[1].Status = domain.BookingCancelled

	_, err := f.uc.Execute(context.Background(), &confirm_booking.Request{BookingID: 1})
	assert.ErrorIs(t, err, confirm_booking.ErrBookingNotPending)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &confirm_booking.Request{BookingID: 0})
	assert.ErrorIs(t, err, confirm_booking.ErrInvalidInput)
}
