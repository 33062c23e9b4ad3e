// Package filter derives the visible subset of a task collection from a
// user-chosen filter specification. It never mutates its input.
package filter

import (
	"strings"

	"github.com/harrisonrobin/taskgate/pkg/model"
)

// All is the sentinel meaning "no constraint" for status, priority and
// assignee.
const All = "All"

// Spec is the conjunctive set of view constraints. The zero value
// matches every task.
type Spec struct {
	SearchText string
	// Status and Priority match everything when zero.
	Status   model.Status
	Priority model.Priority
	// AssigneeID matches everything when empty or All.
	AssigneeID string
}

// Clear resets status, priority and assignee to All. The search text is
// kept.
func (s Spec) Clear() Spec {
	return Spec{SearchText: s.SearchText}
}

// IsZero reports whether s places no constraint on the collection.
func (s Spec) IsZero() bool {
	return s.SearchText == "" && s.Status == 0 && s.Priority == 0 && (s.AssigneeID == "" || s.AssigneeID == All)
}

// ParseStatus maps "All" or "" to the zero status.
func ParseStatus(v string) (model.Status, error) {
	if v == "" || strings.EqualFold(v, All) {
		return 0, nil
	}
	return model.ParseStatus(v)
}

// ParsePriority maps "All" or "" to the zero priority.
func ParsePriority(v string) (model.Priority, error) {
	if v == "" || strings.EqualFold(v, All) {
		return 0, nil
	}
	return model.ParsePriority(v)
}

// Matches reports whether t satisfies every predicate of s.
func (s Spec) Matches(t model.Task) bool {
	return s.matchesSearch(t) && s.matchesStatus(t) && s.matchesPriority(t) && s.matchesAssignee(t)
}

func (s Spec) matchesSearch(t model.Task) bool {
	if s.SearchText == "" {
		return true
	}
	q := strings.ToLower(s.SearchText)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

func (s Spec) matchesStatus(t model.Task) bool {
	return s.Status == 0 || s.Status == t.Status
}

func (s Spec) matchesPriority(t model.Task) bool {
	return s.Priority == 0 || s.Priority == t.Priority
}

// Unassigned tasks never match a specific assignee.
func (s Spec) matchesAssignee(t model.Task) bool {
	if s.AssigneeID == "" || s.AssigneeID == All {
		return true
	}
	return t.AssignedTo != nil && t.AssignedTo.ID == s.AssigneeID
}

// Visible returns the tasks matching spec in their original order. The
// result is a fresh slice; tasks is never written to.
func Visible(tasks []model.Task, spec Spec) []model.Task {
	visible := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if spec.Matches(t) {
			visible = append(visible, t)
		}
	}
	return visible
}
