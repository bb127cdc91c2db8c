package utils

import "time"

// NowMillis returns the current wall-clock time as epoch milliseconds, the
// timestamp unit used for created_at/updated_at and the sync cursor.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
