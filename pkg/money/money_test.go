package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avlasov/TMS-InventoryService/pkg/money"
)

func TestAdd(t *testing.T) {
	a := money.MustParse("90.50", "USD")
	b := money.MustParse("9.50", "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "100.00 USD", sum.String())
}

func TestAdd_CurrencyMismatch(t *testing.T) {
	a := money.MustParse("90.50", "USD")
	b := money.MustParse("9.50", "EUR")

	_, err := a.Add(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currency mismatch")
}

func TestMulInt(t *testing.T) {
	m := money.MustParse("33.33", "USD").MulInt(3)
	assert.Equal(t, "99.99 USD", m.String())
}

func TestApplyPct(t *testing.T) {
	m := money.MustParse("200", "USD")

	half := m.ApplyPct(decimal.NewFromInt(50))
	assert.Equal(t, "100.00 USD", half.String())

	nothing := m.ApplyPct(decimal.Zero)
	assert.True(t, nothing.IsZero())

	all := m.ApplyPct(decimal.NewFromInt(100))
	assert.Equal(t, "200.00 USD", all.String())
}

func TestRound(t *testing.T) {
	m := money.MustParse("10.005", "USD").Round()
	assert.True(t, m.Amount.Equal(decimal.RequireFromString("10.01")), "got %s", m.Amount)
}

func TestZero(t *testing.T) {
	z := money.MustParse("15", "EUR").Zero()
	assert.True(t, z.IsZero())
	assert.Equal(t, "EUR", z.Currency)
}

func TestIsNegative(t *testing.T) {
	assert.True(t, money.MustParse("-0.01", "USD").IsNegative())
	assert.False(t, money.MustParse("0.01", "USD").IsNegative())
}

func TestNewFromMinorUnits(t *testing.T) {
	m := money.NewFromMinorUnits(12345, "USD")
	assert.Equal(t, "123.45 USD", m.String())
}
