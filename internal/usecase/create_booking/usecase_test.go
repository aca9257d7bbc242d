package create_booking_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	sessionRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/session"
	variantRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/variant"
	"github.com/avlasov/TMS-InventoryService/internal/service/pricing"
	"github.com/avlasov/TMS-InventoryService/internal/usecase/create_booking"
	"github.com/avlasov/TMS-InventoryService/pkg/money"
	"github.com/avlasov/TMS-InventoryService/pkg/types"
)

type fakeBookingRepo struct {
	created *domain.Booking
	fail    bool
}

func (r *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if r.fail {
		return nil, errors.New("db down")
	}
	b.ID = 100
	b.CreatedAt = time.Now()
	r.created = b
	return b, nil
}

type fakeSessionRepo struct {
	sessions map[int64]*domain.TourSession
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id int64) (*domain.TourSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

type fakeVariantRepo struct {
	variants map[int64]*domain.TourVariant
}

func (r *fakeVariantRepo) GetByID(_ context.Context, id int64) (*domain.TourVariant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, variantRepo.ErrVariantNotFound
	}
	copied := *v
	return &copied, nil
}

// fakePricing котирует по фиксированной цене 100 за место
// в валюте варианта
type fakePricing struct {
	currencies map[int64]string
	noPrice    bool
}

func (p *fakePricing) Quote(_ context.Context, variantID int64, date time.Time, paxType domain.PaxType, quantity int) (*pricing.Quote, error) {
	if p.noPrice {
		return nil, pricing.ErrNoApplicablePriceRule
	}
	currency := p.currencies[variantID]
	unit := money.New(decimal.NewFromInt(100), currency)
	return &pricing.Quote{
		VariantID: variantID,
		Date:      date,
		PaxType:   paxType,
		Quantity:  quantity,
		UnitPrice: unit,
		TaxAmount: unit.Zero(),
		Total:     unit.MulInt(quantity).Round(),
	}, nil
}

type fakeHoldService struct {
	seq       int
	failAfter int // падать начиная с N-го создания (0 = не падать)
	created   []*domain.InventoryHold
	released  []string
	attached  map[string]int64
}

func newFakeHoldService() *fakeHoldService {
	return &fakeHoldService{attached: map[string]int64{}}
}

func (s *fakeHoldService) Create(_ context.Context, sessionID int64, quantity int, ttl time.Duration) (*domain.InventoryHold, error) {
	s.seq++
	if s.failAfter > 0 && s.seq >= s.failAfter {
		return nil, errors.New("insufficient capacity")
	}
	h := &domain.InventoryHold{
		ID:        fmt.Sprintf("hold-%d", s.seq),
		TokenID:   fmt.Sprintf("token-%d", s.seq),
		SessionID: sessionID,
		Quantity:  quantity,
		Status:    domain.HoldHeld,
		ExpiresAt: time.Now().Add(ttl),
	}
	s.created = append(s.created, h)
	return h, nil
}

func (s *fakeHoldService) Release(_ context.Context, holdID string) error {
	s.released = append(s.released, holdID)
	return nil
}

func (s *fakeHoldService) AttachBooking(_ context.Context, holdID string, bookingID int64) error {
	s.attached[holdID] = bookingID
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct{ created int }

func (m *fakeMetrics) IncBookingCreated() { m.created++ }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc       *create_booking.UseCase
	bookings *fakeBookingRepo
	holds    *fakeHoldService
	pricing  *fakePricing
	metrics  *fakeMetrics
}

// Сессии с отправлением через месяц: cutoff в 24 часа заведомо не задет
func newFixture() *fixture {
	future := time.Now().AddDate(0, 1, 0)

	bookings := &fakeBookingRepo{}
	sessions := &fakeSessionRepo{sessions: map[int64]*domain.TourSession{
		1: {ID: 1, VariantID: 10, Date: future, StartTime: types.TimeString("09:00"), Status: domain.SessionOpen},
		2: {ID: 2, VariantID: 20, Date: future, StartTime: types.TimeString("14:00"), Status: domain.SessionOpen},
	}}
	variants := &fakeVariantRepo{variants: map[int64]*domain.TourVariant{
		10: {ID: 10, CutoffHours: 24, Currency: "USD"},
		20: {ID: 20, CutoffHours: 24, Currency: "USD"},
	}}
	priceSvc := &fakePricing{currencies: map[int64]string{10: "USD", 20: "USD"}}
	holds := newFakeHoldService()
	metrics := &fakeMetrics{}

	uc := create_booking.NewUseCase(
		bookings, sessions, variants, priceSvc, holds,
		metrics, fakeTxManager{}, 15*time.Minute, nopLogger{},
	)
	return &fixture{uc: uc, bookings: bookings, holds: holds, pricing: priceSvc, metrics: metrics}
}

func validRequest() *create_booking.Request {
	return &create_booking.Request{
		ContactName:  "Иван Петров",
		ContactEmail: "ivan@example.com",
		Items: []create_booking.ItemRequest{
			{VariantID: 10, SessionID: 1, PaxType: "adult", Quantity: 2, Passengers: []string{"Иван Петров"}},
			{VariantID: 20, SessionID: 2, PaxType: "child", Quantity: 1},
		},
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "unpaid", resp.PaymentStatus)
	// 2 * 100 + 1 * 100
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(300)), "got %s", resp.TotalAmount)
	assert.Equal(t, "USD", resp.Currency)
	assert.False(t, resp.HoldExpiresAt.IsZero())

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "hold-1", resp.Items[0].HoldID)
	assert.Equal(t, "hold-2", resp.Items[1].HoldID)

	// Оба холда привязаны к созданному бронированию
	assert.Equal(t, int64(100), f.holds.attached["hold-1"])
	assert.Equal(t, int64(100), f.holds.attached["hold-2"])
	assert.Empty(t, f.holds.released)
	assert.Equal(t, 1, f.metrics.created)
}

func TestExecute_PartialAvailabilityRollsBackHolds(t *testing.T) {
	f := newFixture()
	f.holds.failAfter = 2

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, create_booking.ErrPartialAvailability)

	// Первый холд успел создаться и был отпущен
	assert.Equal(t, []string{"hold-1"}, f.holds.released)
	assert.Nil(t, f.bookings.created)
	assert.Equal(t, 0, f.metrics.created)
}

func TestExecute_PersistFailureRollsBackHolds(t *testing.T) {
	f := newFixture()
	f.bookings.fail = true

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, create_booking.ErrInternal)

	assert.ElementsMatch(t, []string{"hold-1", "hold-2"}, f.holds.released)
	assert.Equal(t, 0, f.metrics.created)
}

func TestExecute_CutoffPassed(t *testing.T) {
	f := newFixture()
	req := validRequest()

	// Отправление сегодня: до него меньше cutoff_hours
	req.Items = req.Items[:1]
	fSessions := &fakeSessionRepo{sessions: map[int64]*domain.TourSession{
		1: {ID: 1, VariantID: 10, Date: time.Now(), StartTime: types.TimeString("23:59"), Status: domain.SessionOpen},
	}}
	uc := create_booking.NewUseCase(
		f.bookings, fSessions,
		&fakeVariantRepo{variants: map[int64]*domain.TourVariant{10: {ID: 10, CutoffHours: 48, Currency: "USD"}}},
		f.pricing, f.holds, f.metrics, fakeTxManager{}, 15*time.Minute, nopLogger{},
	)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, create_booking.ErrCutoffPassed)
	assert.Empty(t, f.holds.created)
}

func TestExecute_SessionDoesNotBelongToVariant(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Items = []create_booking.ItemRequest{
		{VariantID: 20, SessionID: 1, PaxType: "adult", Quantity: 1},
	}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, create_booking.ErrSessionNotBookable)
}

func TestExecute_SessionNotFound(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Items = []create_booking.ItemRequest{
		{VariantID: 10, SessionID: 99, PaxType: "adult", Quantity: 1},
	}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, create_booking.ErrSessionNotFound)
}

func TestExecute_NoPrice(t *testing.T) {
	f := newFixture()
	f.pricing.noPrice = true

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, create_booking.ErrNoPrice)
	assert.Empty(t, f.holds.created)
}

func TestExecute_CurrencyMismatch(t *testing.T) {
	f := newFixture()
	f.pricing.currencies[20] = "EUR"

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, create_booking.ErrCurrencyMismatch)
	assert.Empty(t, f.holds.created)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name   string
		mutate func(*create_booking.Request)
	}{
		{"пустое имя", func(r *create_booking.Request) { r.ContactName = "  " }},
		{"кривой email", func(r *create_booking.Request) { r.ContactEmail = "not-an-email" }},
		{"без позиций", func(r *create_booking.Request) { r.Items = nil }},
		{"нулевое количество", func(r *create_booking.Request) { r.Items[0].Quantity = 0 }},
		{"неизвестный pax type", func(r *create_booking.Request) { r.Items[0].PaxType = "pet" }},
		{"пассажиров больше мест", func(r *create_booking.Request) {
			r.Items[0].Quantity = 1
			r.Items[0].Passengers = []string{"a", "b"}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, create_booking.ErrInvalidInput)
		})
	}
}
