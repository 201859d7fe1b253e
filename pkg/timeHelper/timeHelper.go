package timehelper

import "time"

// LogTimeLayout is the timestamp layout of audit rows (ISO 8601, microseconds, no zone).
const LogTimeLayout = "2006-01-02T15:04:05.000000"

// FormatLogTime formats t in local time for audit rows.
func FormatLogTime(t time.Time) string {
	return t.Local().Format(LogTimeLayout)
}

// FromUnixSeconds converts fractional unix seconds as sent by the live feed.
func FromUnixSeconds(seconds float64) time.Time {
	whole := int64(seconds)
	frac := seconds - float64(whole)
	return time.Unix(whole, int64(frac*float64(time.Second)))
}
