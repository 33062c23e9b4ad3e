package filter

import (
	"slices"
	"testing"

	"github.com/harrisonrobin/taskgate/pkg/model"
)

func sampleTasks() []model.Task {
	dana := &model.Employee{ID: "9", Username: "dana"}
	eli := &model.Employee{ID: "8", Username: "eli"}
	return []model.Task{
		{ID: "1", Title: "Write report", Description: "Quarterly numbers", Status: model.StatusPending, Priority: model.PriorityHigh, AssignedTo: dana},
		{ID: "2", Title: "Fix login", Description: "Session expires early", Status: model.StatusInProgress, Priority: model.PriorityMedium, AssignedTo: eli},
		{ID: "3", Title: "Plan offsite", Description: "Book REPORT venue", Status: model.StatusCompleted, Priority: model.PriorityLow},
		{ID: "4", Title: "Review PR", Description: "", Status: model.StatusPending, Priority: model.PriorityMedium, AssignedTo: dana},
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{"zero spec keeps everything in order", Spec{}, []string{"1", "2", "3", "4"}},
		{"explicit All assignee", Spec{AssigneeID: All}, []string{"1", "2", "3", "4"}},
		{"search title case-insensitive", Spec{SearchText: "FIX"}, []string{"2"}},
		{"search hits title or description", Spec{SearchText: "report"}, []string{"1", "3"}},
		{"status", Spec{Status: model.StatusPending}, []string{"1", "4"}},
		{"priority", Spec{Priority: model.PriorityMedium}, []string{"2", "4"}},
		{"assignee", Spec{AssigneeID: "9"}, []string{"1", "4"}},
		{"conjunction", Spec{AssigneeID: "9", Priority: model.PriorityHigh}, []string{"1"}},
		{"no match", Spec{SearchText: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Visible(sampleTasks(), tt.spec))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Visible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnassignedNeverMatchesSpecificAssignee(t *testing.T) {
	task := model.Task{ID: "x", Status: model.StatusPending, Priority: model.PriorityLow}
	for _, assignee := range []string{"9", "8", "unknown"} {
		if (Spec{AssigneeID: assignee}).Matches(task) {
			t.Errorf("Unassigned task matched assignee %q", assignee)
		}
	}
	if !(Spec{AssigneeID: All}).Matches(task) {
		t.Error("Unassigned task should match All")
	}
}

func TestVisibleIsIdempotent(t *testing.T) {
	specs := []Spec{
		{},
		{SearchText: "re"},
		{Status: model.StatusPending, AssigneeID: "9"},
		{Priority: model.PriorityLow},
	}
	for _, s := range specs {
		once := Visible(sampleTasks(), s)
		twice := Visible(once, s)
		if !slices.Equal(ids(once), ids(twice)) {
			t.Errorf("spec %+v: %v != %v", s, ids(once), ids(twice))
		}
	}
}

func TestVisibleDoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := ids(tasks)
	_ = Visible(tasks, Spec{Status: model.StatusCompleted})
	if !slices.Equal(before, ids(tasks)) {
		t.Errorf("input reordered: %v -> %v", before, ids(tasks))
	}
}

func TestCompletedStatusFilter(t *testing.T) {
	tasks := []model.Task{{ID: "a", Status: model.StatusPending}, {ID: "b", Status: model.StatusCompleted}}
	status, err := ParseStatus("Completed")
	if err != nil {
		t.Fatalf("ParseStatus failed: %v", err)
	}
	priority, err := ParsePriority(All)
	if err != nil {
		t.Fatalf("ParsePriority failed: %v", err)
	}
	spec := Spec{Status: status, Priority: priority, AssigneeID: All, SearchText: ""}

	got := Visible(tasks, spec)
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("Expected only the completed task, got %v", ids(got))
	}
}

func TestClear(t *testing.T) {
	s := Spec{SearchText: "q", Status: model.StatusPending, Priority: model.PriorityHigh, AssigneeID: "9"}
	cleared := s.Clear()
	if cleared.SearchText != "q" {
		t.Errorf("Expected search text to survive Clear, got %q", cleared.SearchText)
	}
	if cleared.Status != 0 || cleared.Priority != 0 || cleared.AssigneeID != "" {
		t.Errorf("Expected filters reset, got %+v", cleared)
	}
	if !(Spec{}).IsZero() || s.IsZero() {
		t.Error("IsZero mismatch")
	}
}
