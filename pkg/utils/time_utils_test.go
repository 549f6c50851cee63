package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddMonths(t *testing.T) {
	t.Run("plain month arithmetic", func(t *testing.T) {
		start := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC), AddMonths(start, 6))
	})

	t.Run("year rollover", func(t *testing.T) {
		start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2027, 11, 1, 0, 0, 0, 0, time.UTC), AddMonths(start, 12))
	})

	t.Run("Jan 31 normalizes past February", func(t *testing.T) {
		start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), AddMonths(start, 1))
	})

	t.Run("Jan 31 in a leap year", func(t *testing.T) {
		start := time.Date(2028, 1, 31, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2028, 3, 2, 0, 0, 0, 0, time.UTC), AddMonths(start, 1))
	})
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("whole days", func(t *testing.T) {
		assert.Equal(t, 3, DaysRemaining(now, now.AddDate(0, 0, 3)))
	})

	t.Run("partial days round up", func(t *testing.T) {
		assert.Equal(t, 3, DaysRemaining(now, now.Add(49*time.Hour)))
	})

	t.Run("past is zero", func(t *testing.T) {
		assert.Equal(t, 0, DaysRemaining(now, now.Add(-time.Hour)))
	})

	t.Run("exact moment is zero", func(t *testing.T) {
		assert.Equal(t, 0, DaysRemaining(now, now))
	})
}
