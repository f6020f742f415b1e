package shared

import "fmt"

// SummaryLockKey builds the redis key guarding a daily summary sync.
func SummaryLockKey(day string) string {
	return fmt.Sprintf("summary:sync:%s:lock", day)
}
