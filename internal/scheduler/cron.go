package scheduler

import (
	"fmt"
	"time"
)

// CronExpression renders t as a one-shot cron expression: minute, hour, day,
// month and year are pinned, seconds are truncated. Scheduling granularity
// is one minute; with the year pinned the expression can match at most one
// wall-clock minute.
func CronExpression(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%d %d %d %d ? %d", t.Minute(), t.Hour(), t.Day(), int(t.Month()), t.Year())
}

// ScheduleExpression wraps CronExpression in the trigger service's cron()
// syntax.
func ScheduleExpression(t time.Time) string {
	return fmt.Sprintf("cron(%s)", CronExpression(t))
}
