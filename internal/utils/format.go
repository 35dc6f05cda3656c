package utils

import "fmt"

// FormatDuration renders a millisecond duration as "3m 21s" or "42s"
func FormatDuration(ms int64) string {
	seconds := ms / 1000
	m := seconds / 60
	s := seconds % 60
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
