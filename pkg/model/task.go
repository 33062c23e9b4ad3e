package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Task is a single unit of work as returned by the task store.
type Task struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	AssignedTo  *Employee `json:"assignedTo"`
	StartDate   *Date     `json:"startDate,omitempty"`
	EndDate     *Date     `json:"endDate,omitempty"`
}

// AssigneeID returns the assignee's id, or "" for unassigned tasks.
func (t Task) AssigneeID() string {
	if t.AssignedTo == nil {
		return ""
	}
	return t.AssignedTo.ID
}

// AssigneeName returns the assignee's username, or "" for unassigned tasks.
func (t Task) AssigneeName() string {
	if t.AssignedTo == nil {
		return ""
	}
	return t.AssignedTo.Username
}

// Normalize fills the defaults the store applies to documents that
// predate a field: Pending status and Medium priority.
func (t *Task) Normalize() {
	if t.Status == 0 {
		t.Status = StatusPending
	}
	if t.Priority == 0 {
		t.Priority = PriorityMedium
	}
}

// Employee is an entry of the assignable directory, or the populated
// assignee of a task.
type Employee struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// UnmarshalJSON accepts either a populated employee object or a bare id
// string, which the store returns when the reference was not populated.
func (e *Employee) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return fmt.Errorf("failed to decode employee id: %w", err)
		}
		*e = Employee{ID: id}
		return nil
	}
	type plain Employee
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("failed to decode employee: %w", err)
	}
	*e = Employee(p)
	return nil
}
