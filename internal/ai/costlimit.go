package ai

import (
	"sync"
	"time"
)

// retentionDays bounds the limiter's memory: date keys older than this are
// pruned on every increment
const retentionDays = 7

// DailyLimiter caps the number of paid image-analysis calls per calendar day.
// State is in-memory and process-scoped; it resets on restart. This is a soft
// spend cap, not an accounting system.
type DailyLimiter struct {
	mu    sync.Mutex
	limit int
	usage map[string]int // ISO date -> call count
	now   func() time.Time
}

// NewDailyLimiter creates a limiter. A limit of zero or less disables capping.
func NewDailyLimiter(limit int) *DailyLimiter {
	return &DailyLimiter{
		limit: limit,
		usage: make(map[string]int),
		now:   time.Now,
	}
}

func (l *DailyLimiter) today() string {
	return l.now().UTC().Format("2006-01-02")
}

// CheckDailyLimit reports whether another analysis call may run today
func (l *DailyLimiter) CheckDailyLimit() bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.usage[l.today()] < l.limit
}

// IncrementDailyUsage records one analysis call and prunes stale date keys
func (l *DailyLimiter) IncrementDailyUsage() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.usage[l.today()]++

	cutoff := l.now().UTC().AddDate(0, 0, -retentionDays).Format("2006-01-02")
	for day := range l.usage {
		if day < cutoff {
			delete(l.usage, day)
		}
	}
}

// UsageToday returns today's recorded call count
func (l *DailyLimiter) UsageToday() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.usage[l.today()]
}
