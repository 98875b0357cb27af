package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+966 55 555-5555"))
	assert.True(t, ValidatePhone("966555555555"))
	assert.False(t, ValidatePhone("phone"))
	assert.False(t, ValidatePhone("+0123"))
}

func TestValidateTime(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		assert.True(t, ValidateTime(ok), ok)
	}
	for _, bad := range []string{"24:00", "9:30", "10:60", "10:00 AM", ""} {
		assert.False(t, ValidateTime(bad), bad)
	}
}

func TestParseBookingDate(t *testing.T) {
	d, err := ParseBookingDate("2026-05-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseBookingDate("2026-05-10T14:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 14, d.Hour())

	_, err = ParseBookingDate("10/05/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestTomorrow(t *testing.T) {
	now := time.Date(2026, 12, 31, 18, 45, 0, 0, time.UTC)
	start, end := Tomorrow(now)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC), end)
}
