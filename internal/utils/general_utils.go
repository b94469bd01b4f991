package utils

import "time"

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t as RFC 3339 with millisecond precision in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
