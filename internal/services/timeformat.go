package services

import "time"

// FormatTimestampLocal renders a UTC timestamp in the configured display
// timezone for human-readable use in prompts and fallback narratives.
// Unknown timezone names fall back to UTC.
func FormatTimestampLocal(ts time.Time, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return ts.UTC().Format("2006-01-02 15:04 MST")
	}
	return ts.In(loc).Format("2006-01-02 15:04 MST")
}
