// Package overdue finds tasks whose end date has passed while they are
// still open.
package overdue

import (
	"time"

	"github.com/harrisonrobin/taskgate/pkg/model"
)

// Is reports whether t is past its end date and not completed. The end
// date is a calendar day, so a task is still on time for the whole of
// that day as seen in now's location.
func Is(t model.Task, now time.Time) bool {
	if t.Status == model.StatusCompleted || !t.EndDate.IsSet() {
		return false
	}
	return model.CalendarDay(now).After(t.EndDate.CalendarDay())
}

// Sweep returns the overdue tasks in their original order. The input
// slice is not modified.
func Sweep(tasks []model.Task, now time.Time) []model.Task {
	var swept []model.Task
	for _, t := range tasks {
		if Is(t, now) {
			swept = append(swept, t)
		}
	}
	return swept
}
