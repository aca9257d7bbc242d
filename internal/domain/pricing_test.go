package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avlasov/TMS-InventoryService/internal/domain"
)

func TestMatchesDate_Range(t *testing.T) {
	rule := &domain.PriceRule{
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		WeekdayMask: domain.WeekdayAll,
	}

	assert.True(t, rule.MatchesDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)), "start boundary")
	assert.True(t, rule.MatchesDate(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)), "end boundary")
	assert.True(t, rule.MatchesDate(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rule.MatchesDate(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rule.MatchesDate(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMatchesDate_EndBoundaryIgnoresTimeOfDay(t *testing.T) {
	rule := &domain.PriceRule{
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		WeekdayMask: domain.WeekdayAll,
	}

	// Дата сравнивается по дням: вечер последнего дня всё ещё в диапазоне
	assert.True(t, rule.MatchesDate(time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)))
}

func TestMatchesDate_WeekdayMask(t *testing.T) {
	rule := &domain.PriceRule{
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		WeekdayMask: domain.WeekdaySaturday | domain.WeekdaySunday,
	}

	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	assert.True(t, rule.MatchesDate(saturday))
	assert.True(t, rule.MatchesDate(sunday))
	assert.False(t, rule.MatchesDate(monday))
}

func TestHoldActivityWindows(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	active := &domain.InventoryHold{Status: domain.HoldHeld, ExpiresAt: now.Add(time.Minute)}
	assert.True(t, active.IsActive(now))
	assert.False(t, active.IsDue(now))

	due := &domain.InventoryHold{Status: domain.HoldHeld, ExpiresAt: now}
	assert.False(t, due.IsActive(now))
	assert.True(t, due.IsDue(now))

	committed := &domain.InventoryHold{Status: domain.HoldCommitted, ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, committed.IsActive(now))
	assert.False(t, committed.IsDue(now))
}

func TestBookingTransitions(t *testing.T) {
	cases := []struct {
		status     domain.BookingStatus
		confirm    bool
		cancel     bool
		finalState bool
	}{
		{domain.BookingPending, true, true, false},
		{domain.BookingConfirmed, false, true, false},
		{domain.BookingCancelled, false, false, true},
		{domain.BookingExpired, false, false, true},
	}

	for _, tc := range cases {
		b := &domain.Booking{Status: tc.status}
		assert.Equal(t, tc.confirm, b.CanBeConfirmed(), "confirm %s", tc.status)
		assert.Equal(t, tc.cancel, b.CanBeCancelled(), "cancel %s", tc.status)
		assert.Equal(t, tc.finalState, b.IsFinal(), "final %s", tc.status)
	}
}
