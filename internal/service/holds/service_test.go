package holds_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	"github.com/avlasov/TMS-InventoryService/internal/events"
	holdRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/hold"
	"github.com/avlasov/TMS-InventoryService/internal/service/holds"
	"github.com/avlasov/TMS-InventoryService/pkg/dbmetrics"
	"github.com/avlasov/TMS-InventoryService/pkg/txmanager"
)

type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

type fakeHoldRepo struct {
	mu    sync.Mutex
	holds map[string]*domain.InventoryHold
}

func newFakeHoldRepo() *fakeHoldRepo {
	return &fakeHoldRepo{holds: map[string]*domain.InventoryHold{}}
}

func (r *fakeHoldRepo) Create(_ context.Context, h *domain.InventoryHold) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *h
	r.holds[h.ID] = &copied
	return nil
}

func (r *fakeHoldRepo) GetByID(_ context.Context, id string) (*domain.InventoryHold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[id]
	if !ok {
		return nil, holdRepo.ErrHoldNotFound
	}
	copied := *h
	return &copied, nil
}

func (r *fakeHoldRepo) ConfirmTransition(_ context.Context, id string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[id]
	if !ok || h.Status != domain.HoldHeld || !h.ExpiresAt.After(now) {
		return false, nil
	}
	h.Status = domain.HoldCommitted
	return true, nil
}

func (r *fakeHoldRepo) ExpireTransition(_ context.Context, id string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[id]
	if !ok || h.Status != domain.HoldHeld || h.ExpiresAt.After(now) {
		return false, nil
	}
	h.Status = domain.HoldExpired
	return true, nil
}

func (r *fakeHoldRepo) ReleaseTransition(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[id]
	if !ok || h.Status != domain.HoldHeld {
		return false, nil
	}
	h.Status = domain.HoldReleased
	return true, nil
}

func (r *fakeHoldRepo) AttachBooking(_ context.Context, holdID string, bookingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.holds[holdID]
	if !ok {
		return holdRepo.ErrHoldNotFound
	}
	h.BookingID = &bookingID
	return nil
}

func (r *fakeHoldRepo) ListDueIDs(_ context.Context, now time.Time, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0)
	for id, h := range r.holds {
		if h.Status == domain.HoldHeld && !h.ExpiresAt.After(now) {
			ids = append(ids, id)
			if len(ids) == limit {
				break
			}
		}
	}
	return ids, nil
}

func (r *fakeHoldRepo) ListByBooking(_ context.Context, bookingID int64) ([]*domain.InventoryHold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.InventoryHold, 0)
	for _, h := range r.holds {
		if h.BookingID != nil && *h.BookingID == bookingID {
			copied := *h
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeCapacity struct {
	mu        sync.Mutex
	reserved  int
	released  []string
	committed []string
}

func (c *fakeCapacity) Reserve(_ context.Context, sessionID int64, quantity int) (*domain.ReservationToken, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reserved++
	return &domain.ReservationToken{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Quantity:  quantity,
		State:     domain.TokenHeld,
	}, nil
}

func (c *fakeCapacity) Release(_ context.Context, tokenID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = append(c.released, tokenID)
	return nil
}

func (c *fakeCapacity) Commit(_ context.Context, tokenID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.committed = append(c.committed, tokenID)
	return nil
}

type fakeMetrics struct {
	mu        sync.Mutex
	created   int
	confirmed int
	expired   int
	released  int
}

func (m *fakeMetrics) IncHoldCreated()   { m.mu.Lock(); m.created++; m.mu.Unlock() }
func (m *fakeMetrics) IncHoldConfirmed() { m.mu.Lock(); m.confirmed++; m.mu.Unlock() }
func (m *fakeMetrics) IncHoldExpired()   { m.mu.Lock(); m.expired++; m.mu.Unlock() }
func (m *fakeMetrics) IncHoldReleased()  { m.mu.Lock(); m.released++; m.mu.Unlock() }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newFixture() (*holds.Service, *fakeHoldRepo, *fakeCapacity, *fakeMetrics, *fakeClock) {
	repo := newFakeHoldRepo()
	capSvc := &fakeCapacity{}
	metrics := &fakeMetrics{}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := holds.NewService(repo, capSvc, &fakeTxManager{}, events.NopPublisher{}, metrics, clock, nopLogger{})
	return svc, repo, capSvc, metrics, clock
}

func TestCreate_ReservesCapacityAndSetsDeadline(t *testing.T) {
	svc, repo, capSvc, metrics, clock := newFixture()
	ctx := context.Background()

	h, err := svc.Create(ctx, 1, 3, 15*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, domain.HoldHeld, h.Status)
	assert.Equal(t, clock.Now().Add(15*time.Minute), h.ExpiresAt)
	assert.Equal(t, 1, capSvc.reserved)
	assert.Equal(t, 1, metrics.created)

	stored, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.TokenID, stored.TokenID)
}

func TestCreate_InvalidInput(t *testing.T) {
	svc, _, _, _, _ := newFixture()

	_, err := svc.Create(context.Background(), 1, 0, time.Minute)
	assert.ErrorIs(t, err, holds.ErrInvalidQuantity)

	_, err = svc.Create(context.Background(), 1, 1, 0)
	assert.ErrorIs(t, err, holds.ErrInvalidTTL)
}

func TestConfirm_BeforeDeadline(t *testing.T) {
	svc, _, capSvc, metrics, _ := newFixture()
	ctx := context.Background()

	h, err := svc.Create(ctx, 1, 2, 15*time.Minute)
	require.NoError(t, err)

	require.NoError(t, svc.Confirm(ctx, h.ID))
	assert.Equal(t, []string{h.TokenID}, capSvc.committed)
	assert.Equal(t, 1, metrics.confirmed)
}

func TestConfirm_AfterDeadline(t *testing.T) {
	svc, _, capSvc, _, clock := newFixture()
	ctx := context.Background()

	h, err := svc.Create(ctx, 1, 2, 15*time.Minute)
	require.NoError(t, err)

	clock.Advance(16 * time.Minute)

	assert.ErrorIs(t, svc.Confirm(ctx, h.ID), holds.ErrHoldNotActive)
	assert.Empty(t, capSvc.committed)
}

func TestConfirmVsExpire_ExactlyOneWins(t *testing.T) {
	svc, repo, capSvc, _, clock := newFixture()
	ctx := context.Background()

	h, err := svc.Create(ctx, 1, 2, 15*time.Minute)
	require.NoError(t, err)

	// Ровно на границе: подтверждение требует expires_at > now,
	// истечение — expires_at <= now
	clock.Advance(15 * time.Minute)

	confirmErr := svc.Confirm(ctx, h.ID)
	expired, expireErr := svc.Expire(ctx, h.ID)
	require.NoError(t, expireErr)

	assert.ErrorIs(t, confirmErr, holds.ErrHoldNotActive)
	assert.True(t, expired)

	stored, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HoldExpired, stored.Status)
	assert.Equal(t, []string{h.TokenID}, capSvc.released)
	assert.Empty(t, capSvc.committed)
}

func TestExpire_DoesNotTouchConfirmedHold(t *testing.T) {
	svc, repo, capSvc, _, clock := newFixture()
	ctx := context.Background()

	h, err := svc.Create(ctx, 1, 2, 15*time.Minute)
	require.NoError(t, err)
	require.NoError(t, svc.Confirm(ctx, h.ID))

	clock.Advance(time.Hour)

	expired, err := svc.Expire(ctx, h.ID)
	require.NoError(t, err)
	assert.False(t, expired)

	stored, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HoldCommitted, stored.Status)
	assert.Empty(t, capSvc.released)
}

func TestExpireDue_ReportsAffectedBookings(t *testing.T) {
	svc, _, capSvc, metrics, clock := newFixture()
	ctx := context.Background()

	h1, err := svc.Create(ctx, 1, 1, 10*time.Minute)
	require.NoError(t, err)
	h2, err := svc.Create(ctx, 2, 1, 10*time.Minute)
	require.NoError(t, err)
	_, err = svc.Create(ctx, 3, 1, time.Hour) // ещё не истёк
	require.NoError(t, err)

	require.NoError(t, svc.AttachBooking(ctx, h1.ID, 77))
	require.NoError(t, svc.AttachBooking(ctx, h2.ID, 77))

	clock.Advance(30 * time.Minute)

	result, err := svc.ExpireDue(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Expired)
	assert.Equal(t, []int64{77}, result.BookingIDs)
	assert.Equal(t, 2, metrics.expired)
	// Резервы истёкших холдов отпущены, вместимость вернулась в продажу
	assert.ElementsMatch(t, []string{h1.TokenID, h2.TokenID}, capSvc.released)
}

func TestRelease_IdempotentForInactiveHold(t *testing.T) {
	svc, repo, capSvc, _, _ := newFixture()
	ctx := context.Background()

	h, err := svc.Create(ctx, 1, 2, 15*time.Minute)
	require.NoError(t, err)

	require.NoError(t, svc.Release(ctx, h.ID))
	require.NoError(t, svc.Release(ctx, h.ID))

	stored, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HoldReleased, stored.Status)
	assert.Len(t, capSvc.released, 1)
}

// fakeTx и fakeTxBeginner — минимальная подмена БД для настоящего
// менеджера транзакций (репозитории здесь фейковые и executor не трогают)
type fakeTx struct{}

func (fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }

func (fakeTx) Commit() error { return nil }

func (fakeTx) Rollback() error { return nil }

type fakeTxBeginner struct{}

func (fakeTxBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	return fakeTx{}, nil
}

func TestConfirm_MetricsWaitForEnclosingCommit(t *testing.T) {
	repo := newFakeHoldRepo()
	capSvc := &fakeCapacity{}
	metrics := &fakeMetrics{}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	manager := txmanager.NewTransactionManager(fakeTxBeginner{})
	svc := holds.NewService(repo, capSvc, manager, events.NopPublisher{}, metrics, clock, nopLogger{})
	ctx := context.Background()

	h1, err := svc.Create(ctx, 1, 2, 15*time.Minute)
	require.NoError(t, err)
	h2, err := svc.Create(ctx, 2, 2, 15*time.Minute)
	require.NoError(t, err)

	// Подтверждение внутри объемлющей транзакции, которая откатывается:
	// счётчик подтверждений не растёт
	err = manager.Do(ctx, func(txCtx context.Context) error {
		require.NoError(t, svc.Confirm(txCtx, h1.ID))
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 0, metrics.confirmed)

	// Коммит объемлющей транзакции доводит эффект до конца
	err = manager.Do(ctx, func(txCtx context.Context) error {
		return svc.Confirm(txCtx, h2.ID)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.confirmed)
}

func TestReleaseByBooking_SkipsInactive(t *testing.T) {
	svc, _, capSvc, _, _ := newFixture()
	ctx := context.Background()

	h1, err := svc.Create(ctx, 1, 1, 15*time.Minute)
	require.NoError(t, err)
	h2, err := svc.Create(ctx, 2, 1, 15*time.Minute)
	require.NoError(t, err)

	require.NoError(t, svc.AttachBooking(ctx, h1.ID, 5))
	require.NoError(t, svc.AttachBooking(ctx, h2.ID, 5))
	require.NoError(t, svc.Confirm(ctx, h1.ID))

	require.NoError(t, svc.ReleaseByBooking(ctx, 5))

	assert.Equal(t, []string{h2.TokenID}, capSvc.released)
}
