package controller

import (
	"github.com/harrisonrobin/taskgate/pkg/filter"
	"github.com/harrisonrobin/taskgate/pkg/model"
)

// State is the sync state machine:
//
//	Idle -> LoadingInitial -> Idle
//	Idle -> Mutating       -> Idle
type State int

const (
	Idle State = iota
	LoadingInitial
	Mutating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingInitial:
		return "loading"
	case Mutating:
		return "mutating"
	default:
		return "unknown"
	}
}

// Snapshot is everything the presentation layer renders.
type Snapshot struct {
	Session   model.Session
	State     State
	Filter    filter.Spec
	Visible   []model.Task
	Employees []model.Employee
	// Err is the outcome of the most recent intent, nil on success.
	Err error
}
