package overtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "2024-W10", PeriodKey(time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)))
	// ISO year differs from calendar year at the boundary
	assert.Equal(t, "2025-W01", PeriodKey(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2020-W53", PeriodKey(time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC)))
}

func TestPeriodStart(t *testing.T) {
	start, err := PeriodStart("2024-W10", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), start)

	start, err = PeriodStart("2025-W01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), start)

	_, err = PeriodStart("2024-W53", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = PeriodStart("2024-10", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestWeekBounds(t *testing.T) {
	start, end := WeekBounds(time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), end)
}
