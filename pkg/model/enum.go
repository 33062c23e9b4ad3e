package model

import (
	"fmt"
	"strings"
)

// EnumError reports a value outside one of the closed enums.
type EnumError struct {
	Kind  string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Value)
}

// Status is the lifecycle state of a task.
type Status int

const (
	StatusPending Status = iota + 1
	StatusInProgress
	StatusCompleted
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// ParseStatus accepts the wire form ("In Progress") as well as the
// compact "InProgress", case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch normalize(s) {
	case "pending":
		return StatusPending, nil
	case "inprogress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	}
	return 0, &EnumError{Kind: "status", Value: s}
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return ""
	}
}

func (s Status) Valid() bool { return s >= StatusPending && s <= StatusCompleted }

func (s *Status) Set(v string) error {
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s *Status) Type() string { return "status" }

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	return s.Set(string(b))
}

// Priority is the urgency of a task.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// Priorities lists every priority from highest to lowest.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func ParsePriority(s string) (Priority, error) {
	switch normalize(s) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return 0, &EnumError{Kind: "priority", Value: s}
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return ""
	}
}

func (p Priority) Valid() bool { return p >= PriorityLow && p <= PriorityHigh }

func (p *Priority) Set(v string) error {
	parsed, err := ParsePriority(v)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p *Priority) Type() string { return "priority" }

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid priority %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	return p.Set(string(b))
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}
