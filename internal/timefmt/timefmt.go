// Package timefmt turns millisecond durations into the short strings the
// presence widget shows next to an activity.
package timefmt

import (
	"fmt"
	"time"
)

// Elapsed renders a coarse "how long" label using the two largest units:
// "1d 1h", "1h 1m", "1m 30s" or "42s". Negative input renders as "0s".
func Elapsed(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Clock renders a playback position as M:SS, or H:MM:SS once it reaches an
// hour. Negative input renders as "0:00".
func Clock(ms int64) string {
	if ms < 0 {
		return "0:00"
	}
	totalSeconds := ms / 1000
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// EpochMillis returns t as Unix epoch milliseconds, the unit activity
// timestamps arrive in.
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}
