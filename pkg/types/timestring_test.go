package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avlasov/TMS-InventoryService/pkg/types"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := types.NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	_, err = types.NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, types.ErrInvalidTimeString)

	_, err = types.NewTimeStringFromString("morning")
	assert.ErrorIs(t, err, types.ErrInvalidTimeString)
}

func TestToTime(t *testing.T) {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	got, err := types.TimeString("14:45").ToTime(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 14, 45, 0, 0, time.UTC), got)
}

func TestScan_DropsSeconds(t *testing.T) {
	var ts types.TimeString
	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, "09:30", ts.String())
}
