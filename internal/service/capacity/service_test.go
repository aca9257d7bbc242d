package capacity_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
	sessionRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/session"
	"github.com/avlasov/TMS-InventoryService/internal/service/capacity"
	"github.com/avlasov/TMS-InventoryService/pkg/ptr"
)

// fakeTxManager сериализует все транзакции одним мьютексом: грубее
// настоящей БД, но даёт те же гарантии взаимного исключения на сессии
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

func (m *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
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

func (r *fakeSessionRepo) GetForUpdate(ctx context.Context, id int64) (*domain.TourSession, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeSessionRepo) UpdateCounters(_ context.Context, id int64, held, committed int) error {
	s, ok := r.sessions[id]
	if !ok {
		return sessionRepo.ErrSessionNotFound
	}
	s.HeldQuantity = held
	s.CommittedQuantity = committed
	return nil
}

func (r *fakeSessionRepo) UpdateStatus(_ context.Context, id int64, status domain.SessionStatus) error {
	s, ok := r.sessions[id]
	if !ok {
		return sessionRepo.ErrSessionNotFound
	}
	s.Status = status
	return nil
}

type fakeReservationRepo struct {
	tokens map[string]*domain.ReservationToken
}

func (r *fakeReservationRepo) Create(_ context.Context, token *domain.ReservationToken) error {
	copied := *token
	r.tokens[token.ID] = &copied
	return nil
}

func (r *fakeReservationRepo) GetByID(_ context.Context, id string) (*domain.ReservationToken, error) {
	t, ok := r.tokens[id]
	if !ok {
		return nil, errors.New("token not found")
	}
	copied := *t
	return &copied, nil
}

func (r *fakeReservationRepo) TransitionState(_ context.Context, id string, from, to domain.TokenState) (bool, error) {
	t, ok := r.tokens[id]
	if !ok || t.State != from {
		return false, nil
	}
	t.State = to
	return true, nil
}

type fakeVariantRepo struct {
	variants map[int64]*domain.TourVariant
}

func (r *fakeVariantRepo) GetByID(_ context.Context, id int64) (*domain.TourVariant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, errors.New("variant not found")
	}
	copied := *v
	return &copied, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newFixture(sessionCapacity int) (*capacity.Service, *fakeSessionRepo, *fakeReservationRepo) {
	sessions := &fakeSessionRepo{sessions: map[int64]*domain.TourSession{
		1: {ID: 1, VariantID: 10, Status: domain.SessionOpen},
	}}
	reservations := &fakeReservationRepo{tokens: map[string]*domain.ReservationToken{}}
	variants := &fakeVariantRepo{variants: map[int64]*domain.TourVariant{
		10: {ID: 10, CapacityPerSlot: sessionCapacity},
	}}
	svc := capacity.NewService(sessions, reservations, variants, &fakeTxManager{}, nopLogger{})
	return svc, sessions, reservations
}

func TestReserve_InsufficientCapacity(t *testing.T) {
	svc, sessions, _ := newFixture(10)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, 1, 4)
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, 1, 7)
	assert.ErrorIs(t, err, capacity.ErrInsufficientCapacity)

	_, err = svc.Reserve(ctx, 1, 6)
	require.NoError(t, err)

	assert.Equal(t, 10, sessions.sessions[1].HeldQuantity)
	assert.Equal(t, 0, sessions.sessions[1].CommittedQuantity)
}

func TestReserve_ConcurrentNeverOversells(t *testing.T) {
	svc, sessions, _ := newFixture(10)
	ctx := context.Background()

	var wg sync.WaitGroup
	var succeeded, failed int32
	var mu sync.Mutex

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(ctx, 1, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, capacity.ErrInsufficientCapacity) {
				failed++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), succeeded)
	assert.Equal(t, int32(10), failed)
	assert.Equal(t, 10, sessions.sessions[1].HeldQuantity)
}

func TestReserve_ConcurrentCompetingForSameSeats(t *testing.T) {
	svc, sessions, _ := newFixture(10)
	ctx := context.Background()

	// Два конкурентных резерва по 6 мест при вместимости 10:
	// успевает ровно один
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(ctx, 1, 6)
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, capacity.ErrInsufficientCapacity):
			insufficient++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 6, sessions.sessions[1].HeldQuantity)
}

func TestReserve_InvalidQuantity(t *testing.T) {
	svc, _, _ := newFixture(10)

	_, err := svc.Reserve(context.Background(), 1, 0)
	assert.ErrorIs(t, err, capacity.ErrInvalidQuantity)

	_, err = svc.Reserve(context.Background(), 1, -3)
	assert.ErrorIs(t, err, capacity.ErrInvalidQuantity)
}

func TestReserve_SessionNotBookable(t *testing.T) {
	svc, sessions, _ := newFixture(10)
	sessions.sessions[1].Status = domain.SessionClosed

	_, err := svc.Reserve(context.Background(), 1, 1)
	assert.ErrorIs(t, err, capacity.ErrSessionNotBookable)
}

func TestReserve_SessionNotFound(t *testing.T) {
	svc, _, _ := newFixture(10)

	_, err := svc.Reserve(context.Background(), 99, 1)
	assert.ErrorIs(t, err, capacity.ErrSessionNotFound)
}

func TestRelease_Idempotent(t *testing.T) {
	svc, sessions, _ := newFixture(10)
	ctx := context.Background()

	token, err := svc.Reserve(ctx, 1, 3)
	require.NoError(t, err)
	require.Equal(t, 3, sessions.sessions[1].HeldQuantity)

	require.NoError(t, svc.Release(ctx, token.ID))
	assert.Equal(t, 0, sessions.sessions[1].HeldQuantity)

	// Повторный release ничего не меняет
	require.NoError(t, svc.Release(ctx, token.ID))
	assert.Equal(t, 0, sessions.sessions[1].HeldQuantity)

	// Отпущенный токен закоммитить нельзя
	assert.ErrorIs(t, svc.Commit(ctx, token.ID), capacity.ErrTokenInvalid)
}

func TestCommit_MovesHeldToCommitted(t *testing.T) {
	svc, sessions, _ := newFixture(10)
	ctx := context.Background()

	token, err := svc.Reserve(ctx, 1, 4)
	require.NoError(t, err)

	require.NoError(t, svc.Commit(ctx, token.ID))
	assert.Equal(t, 0, sessions.sessions[1].HeldQuantity)
	assert.Equal(t, 4, sessions.sessions[1].CommittedQuantity)

	// Повторный commit того же токена невозможен
	assert.ErrorIs(t, svc.Commit(ctx, token.ID), capacity.ErrTokenInvalid)
}

func TestCommit_MarksSessionFull(t *testing.T) {
	svc, sessions, _ := newFixture(2)
	ctx := context.Background()

	token, err := svc.Reserve(ctx, 1, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Commit(ctx, token.ID))

	assert.Equal(t, domain.SessionFull, sessions.sessions[1].Status)

	// Отмена возвращает места и открывает сессию
	require.NoError(t, svc.ReleaseCommitted(ctx, 1, 1))
	assert.Equal(t, domain.SessionOpen, sessions.sessions[1].Status)
	assert.Equal(t, 1, sessions.sessions[1].CommittedQuantity)
}

func TestReleaseCommitted_ClampsAtZero(t *testing.T) {
	svc, sessions, _ := newFixture(10)
	ctx := context.Background()

	token, err := svc.Reserve(ctx, 1, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Commit(ctx, token.ID))

	require.NoError(t, svc.ReleaseCommitted(ctx, 1, 5))
	assert.Equal(t, 0, sessions.sessions[1].CommittedQuantity)
}

func TestAvailability_UsesCapacityOverride(t *testing.T) {
	svc, sessions, _ := newFixture(10)
	sessions.sessions[1].CapacityOverride = ptr.Ptr(3)

	ctx := context.Background()
	_, err := svc.Reserve(ctx, 1, 2)
	require.NoError(t, err)

	info, err := svc.Availability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, info.EffectiveCapacity)
	assert.Equal(t, 2, info.HeldQuantity)
	assert.Equal(t, 1, info.Available)
}
