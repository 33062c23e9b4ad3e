// Package cache holds the client's single local copy of the task
// collection and the assignable-employee directory.
//
// Both collections are only ever replaced wholesale. A reader sees either
// the snapshot before a refresh or the one after it, never a mix.
package cache

import (
	"slices"
	"sync"

	"github.com/harrisonrobin/taskgate/pkg/model"
)

type TaskCache struct {
	mu        sync.RWMutex
	tasks     []model.Task
	employees []model.Employee
	version   uint64
}

func New() *TaskCache {
	return &TaskCache{}
}

// ReplaceAll swaps in a new task collection. The caller's slice is
// copied so later mutation of it cannot leak into the cache.
func (c *TaskCache) ReplaceAll(tasks []model.Task) {
	next := slices.Clone(tasks)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = next
	c.version++
}

// ReplaceEmployees swaps in a new directory, keeping only entries whose
// role is Employee.
func (c *TaskCache) ReplaceEmployees(list []model.Employee) {
	next := make([]model.Employee, 0, len(list))
	for _, e := range list {
		if e.Role == model.RoleEmployee {
			next = append(next, e)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.employees = next
}

// Get returns the current task snapshot in server order. The returned
// slice is shared with the cache and must be treated as read-only; a
// later ReplaceAll installs a new slice rather than writing into it.
func (c *TaskCache) Get() []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tasks
}

func (c *TaskCache) Employees() []model.Employee {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.employees
}

// Version increases by one on every ReplaceAll.
func (c *TaskCache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Lookup finds a task by id in the current snapshot.
func (c *TaskCache) Lookup(id string) (model.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (c *TaskCache) Employee(id string) (model.Employee, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.employees {
		if e.ID == id {
			return e, true
		}
	}
	return model.Employee{}, false
}
