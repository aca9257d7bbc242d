package domain

// Default configuration values
const (
	DefaultHoldTTLMinutes       = 15
	DefaultSweepIntervalSeconds = 30
	DefaultSweepBatchSize       = 100
)

// Business validation constants
const (
	MinHoldQuantity       = 1
	MaxHoldQuantity       = 100
	MaxBookingItems       = 20
	MaxContactNameLength  = 200
	MaxCancelReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
