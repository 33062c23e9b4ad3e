package cache

import (
	"testing"

	"github.com/harrisonrobin/taskgate/pkg/model"
)

func TestReplaceAllCopiesInput(t *testing.T) {
	c := New()
	in := []model.Task{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}}
	c.ReplaceAll(in)
	in[0].Title = "mutated"

	got := c.Get()
	if len(got) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(got))
	}
	if got[0].Title != "a" {
		t.Errorf("Expected cache to be isolated from caller slice, got %q", got[0].Title)
	}
	if c.Version() != 1 {
		t.Errorf("Expected version 1, got %d", c.Version())
	}
}

func TestSnapshotSurvivesReplace(t *testing.T) {
	c := New()
	c.ReplaceAll([]model.Task{{ID: "1"}})
	before := c.Get()

	c.ReplaceAll([]model.Task{{ID: "2"}, {ID: "3"}})

	if len(before) != 1 || before[0].ID != "1" {
		t.Errorf("Expected old snapshot to be untouched, got %+v", before)
	}
	if after := c.Get(); len(after) != 2 || after[0].ID != "2" {
		t.Errorf("Expected new snapshot, got %+v", after)
	}
}

func TestReplaceEmployeesKeepsEmployeesOnly(t *testing.T) {
	c := New()
	c.ReplaceEmployees([]model.Employee{
		{ID: "1", Username: "ann", Role: model.RoleAdministrator},
		{ID: "2", Username: "bob", Role: model.RoleEmployee},
		{ID: "3", Username: "max", Role: model.RoleManager},
		{ID: "4", Username: "eve", Role: model.RoleEmployee},
	})

	got := c.Employees()
	if len(got) != 2 {
		t.Fatalf("Expected 2 employees, got %d", len(got))
	}
	if got[0].Username != "bob" || got[1].Username != "eve" {
		t.Errorf("Unexpected directory order %+v", got)
	}
	if _, ok := c.Employee("1"); ok {
		t.Error("Administrator must not be assignable")
	}
	if e, ok := c.Employee("4"); !ok || e.Username != "eve" {
		t.Errorf("Employee(4) = %+v, %v", e, ok)
	}
}

func TestLookup(t *testing.T) {
	c := New()
	if _, ok := c.Lookup("1"); ok {
		t.Error("Expected empty cache lookup to miss")
	}
	c.ReplaceAll([]model.Task{{ID: "1", Title: "a"}})
	task, ok := c.Lookup("1")
	if !ok || task.Title != "a" {
		t.Errorf("Lookup(1) = %+v, %v", task, ok)
	}
}
