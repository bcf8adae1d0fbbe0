package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyLimiter_CountsCallsWithinOneDay(t *testing.T) {
	l := NewDailyLimiter(10)

	for i := 1; i <= 5; i++ {
		l.IncrementDailyUsage()
		assert.Equal(t, i, l.UsageToday())
	}
}

func TestDailyLimiter_NoLimitAlwaysPermits(t *testing.T) {
	for _, limit := range []int{0, -1} {
		l := NewDailyLimiter(limit)
		assert.True(t, l.CheckDailyLimit())

		for i := 0; i < 100; i++ {
			l.IncrementDailyUsage()
		}
		assert.True(t, l.CheckDailyLimit())
	}
}

func TestDailyLimiter_DeniesAtLimit(t *testing.T) {
	l := NewDailyLimiter(3)

	require.True(t, l.CheckDailyLimit())
	l.IncrementDailyUsage()
	l.IncrementDailyUsage()
	require.True(t, l.CheckDailyLimit())

	l.IncrementDailyUsage()
	assert.False(t, l.CheckDailyLimit())

	// over the limit stays denied
	l.IncrementDailyUsage()
	assert.False(t, l.CheckDailyLimit())
}

func TestDailyLimiter_PrunesStaleDays(t *testing.T) {
	l := NewDailyLimiter(10)

	old := l.now().UTC().AddDate(0, 0, -10).Format("2006-01-02")
	recent := l.now().UTC().AddDate(0, 0, -2).Format("2006-01-02")
	l.usage[old] = 5
	l.usage[recent] = 2

	l.IncrementDailyUsage()

	_, exists := l.usage[old]
	assert.False(t, exists, "stale key should be pruned")
	assert.Equal(t, 2, l.usage[recent], "recent key survives")
	assert.Equal(t, 1, l.UsageToday())
}

func TestDailyLimiter_DayRollover(t *testing.T) {
	l := NewDailyLimiter(1)

	current := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	l.IncrementDailyUsage()
	require.False(t, l.CheckDailyLimit())

	current = current.Add(2 * time.Hour) // next day
	assert.True(t, l.CheckDailyLimit())
	assert.Equal(t, 0, l.UsageToday())
}
