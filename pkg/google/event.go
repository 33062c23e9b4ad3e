package google

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/taskgate/pkg/model"
	"github.com/harrisonrobin/taskgate/pkg/overdue"
	"google.golang.org/api/calendar/v3"
)

// TaskIDProperty is the private extended property linking an event to
// its task.
const TaskIDProperty = "taskgate_id"

const (
	prefixCompleted = "✓"
	prefixActive    = "‣"
	prefixOverdue   = "!"
)

// ToEvent converts a task into an all-day event on its end date.
func ToEvent(task model.Task, now time.Time, colorID string) (*calendar.Event, error) {
	if task.ID == "" {
		return nil, fmt.Errorf("could not convert task without id")
	}
	if !task.EndDate.IsSet() {
		return nil, fmt.Errorf("task %s has no end date", task.ID)
	}

	prefix := ""
	switch {
	case task.Status == model.StatusCompleted:
		prefix = prefixCompleted
	case overdue.Is(task, now):
		prefix = prefixOverdue
	case task.Status == model.StatusInProgress:
		prefix = prefixActive
	}
	summary := task.Title
	if prefix != "" {
		summary = prefix + " " + task.Title
	}

	start := task.EndDate.CalendarDay()

	return &calendar.Event{
		Summary:     summary,
		Description: describe(task),
		ColorId:     colorID,
		Start:       &calendar.EventDateTime{Date: start.Format(time.DateOnly)},
		End:         &calendar.EventDateTime{Date: start.AddDate(0, 0, 1).Format(time.DateOnly)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: task.ID},
		},
	}, nil
}

func describe(task model.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", task.Status)
	fmt.Fprintf(&b, "Priority: %s\n", task.Priority)
	if name := task.AssigneeName(); name != "" {
		fmt.Fprintf(&b, "Assignee: %s\n", name)
	}
	if task.StartDate.IsSet() {
		fmt.Fprintf(&b, "Started: %s\n", task.StartDate.Day())
	}
	fmt.Fprintf(&b, "ID: %s\n", task.ID)
	if desc := strings.TrimSpace(task.Description); desc != "" {
		b.WriteString("\nNotes:\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}
	return b.String()
}

// EventNeedsUpdate returns a patch holding the fields of target that
// differ from existing, or nil when they already match.
func EventNeedsUpdate(existing, target *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}
	if !sameTime(existing.Start, target.Start) || !sameTime(existing.End, target.End) {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}

func sameTime(a, b *calendar.EventDateTime) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Date != b.Date {
		return false
	}
	if a.DateTime == b.DateTime {
		return true
	}
	at, errA := time.Parse(time.RFC3339, a.DateTime)
	bt, errB := time.Parse(time.RFC3339, b.DateTime)
	return errA == nil && errB == nil && at.Equal(bt)
}
