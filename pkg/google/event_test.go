package google

import (
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/taskgate/pkg/model"
	"google.golang.org/api/calendar/v3"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func dated(id string, status model.Status, end time.Time) model.Task {
	return model.Task{
		ID:          id,
		Title:       "Write report",
		Description: "Quarterly numbers",
		Status:      status,
		Priority:    model.PriorityHigh,
		AssignedTo:  &model.Employee{ID: "e1", Username: "alice", Role: model.RoleEmployee},
		StartDate:   model.NewDate(now.Add(-72 * time.Hour)),
		EndDate:     model.NewDate(end),
	}
}

func TestToEvent(t *testing.T) {
	task := dated("t1", model.StatusPending, time.Date(2025, 6, 20, 17, 30, 0, 0, time.UTC))
	event, err := ToEvent(task, now, "3")
	if err != nil {
		t.Fatalf("ToEvent failed: %v", err)
	}

	if event.ExtendedProperties == nil || event.ExtendedProperties.Private[TaskIDProperty] != "t1" {
		t.Errorf("Expected %s=t1, got %+v", TaskIDProperty, event.ExtendedProperties)
	}
	if event.Summary != "Write report" {
		t.Errorf("Expected plain summary, got %q", event.Summary)
	}
	if event.Start.Date != "2025-06-20" || event.End.Date != "2025-06-21" {
		t.Errorf("Expected all-day event on 2025-06-20, got %s..%s", event.Start.Date, event.End.Date)
	}
	if event.ColorId != "3" {
		t.Errorf("Expected color 3, got %s", event.ColorId)
	}
	for _, want := range []string{"Status: Pending", "Priority: High", "Assignee: alice", "ID: t1", "Quarterly numbers"} {
		if !strings.Contains(event.Description, want) {
			t.Errorf("Expected description to contain %q, got:\n%s", want, event.Description)
		}
	}
}

func TestToEventPrefixes(t *testing.T) {
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)
	tests := []struct {
		name string
		task model.Task
		want string
	}{
		{"completed", dated("a", model.StatusCompleted, past), "✓ Write report"},
		{"overdue", dated("b", model.StatusPending, past), "! Write report"},
		{"overdue wins over active", dated("c", model.StatusInProgress, past), "! Write report"},
		{"active", dated("d", model.StatusInProgress, future), "‣ Write report"},
		{"pending", dated("e", model.StatusPending, future), "Write report"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ToEvent(tt.task, now, "1")
			if err != nil {
				t.Fatalf("ToEvent failed: %v", err)
			}
			if event.Summary != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, event.Summary)
			}
		})
	}
}

func TestToEventRequiresEndDate(t *testing.T) {
	task := model.Task{ID: "t1", Title: "x", Status: model.StatusPending}
	if _, err := ToEvent(task, now, "1"); err == nil {
		t.Error("Expected error for task without end date")
	}
}

func TestEventNeedsUpdate(t *testing.T) {
	task := dated("t1", model.StatusPending, now.Add(48*time.Hour))
	existing, _ := ToEvent(task, now, "1")

	if patch := EventNeedsUpdate(existing, existing); patch != nil {
		t.Errorf("Expected no patch for identical events, got %+v", patch)
	}

	task.Status = model.StatusCompleted
	target, _ := ToEvent(task, now, "1")
	patch := EventNeedsUpdate(existing, target)
	if patch == nil {
		t.Fatal("Expected a patch after status change")
	}
	if patch.Summary != "✓ Write report" || patch.Description == "" {
		t.Errorf("Expected summary and description in patch, got %+v", patch)
	}
	if patch.Start != nil || patch.ColorId != "" {
		t.Errorf("Expected only changed fields, got %+v", patch)
	}
}

func TestEventNeedsUpdateComparesInstants(t *testing.T) {
	a := &calendar.Event{Start: &calendar.EventDateTime{DateTime: "2025-06-15T12:00:00Z"}, End: &calendar.EventDateTime{DateTime: "2025-06-15T13:00:00Z"}}
	b := &calendar.Event{Start: &calendar.EventDateTime{DateTime: "2025-06-15T14:00:00+02:00"}, End: &calendar.EventDateTime{DateTime: "2025-06-15T15:00:00+02:00"}}
	if patch := EventNeedsUpdate(a, b); patch != nil {
		t.Errorf("Expected equal instants not to patch, got %+v", patch)
	}
}
