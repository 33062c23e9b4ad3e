// Package controller orchestrates remote reads and writes against the
// task store and keeps the local cache consistent with it.
//
// Every intent is checked against the role policy first; a denied intent
// returns ErrForbidden without touching the network. Mutations are
// refresh-after-write: after the store acknowledges a write, the whole
// collection is fetched again and swapped into the cache. The cache is
// never patched from a mutation's own payload.
//
// If the write succeeds but the follow-up refresh fails, the store has
// the change while the cache still shows the old snapshot. The intent
// then reports ErrLoadFailed, and the next successful load resolves the
// gap.
//
// Only one load or mutation runs at a time. An intent issued while
// another is in flight gets ErrBusy and is not queued.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/harrisonrobin/taskgate/pkg/api"
	"github.com/harrisonrobin/taskgate/pkg/cache"
	"github.com/harrisonrobin/taskgate/pkg/clock"
	"github.com/harrisonrobin/taskgate/pkg/filter"
	"github.com/harrisonrobin/taskgate/pkg/model"
	"github.com/harrisonrobin/taskgate/pkg/policy"
)

// Store is the task store boundary. *api.Client implements it.
type Store interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListMyTasks(ctx context.Context) ([]model.Task, error)
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	CreateTask(ctx context.Context, t api.NewTask) (model.Task, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) error
	UpdateFields(ctx context.Context, id, title string, description *string) error
	DeleteTask(ctx context.Context, id string) error
}

// TaskFields are the caller-supplied fields of a new task.
type TaskFields struct {
	Title       string
	Description string
	// AssignedTo is an employee id from the directory, or "" for none.
	AssignedTo string
	// Priority defaults to Medium when zero.
	Priority model.Priority
	EndDate  *time.Time
}

type Controller struct {
	store   Store
	session model.Session
	cache   *cache.TaskCache
	clock   clock.Clock
	logger  *slog.Logger
	observe func(Snapshot)

	mu      sync.Mutex
	state   State
	spec    filter.Spec
	lastErr error
}

type Option func(*Controller)

func WithCache(c *cache.TaskCache) Option {
	return func(ctl *Controller) { ctl.cache = c }
}

func WithClock(c clock.Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(ctl *Controller) { ctl.logger = l }
}

// WithObserver registers fn to receive a snapshot after every state
// transition and every recorded outcome. fn runs synchronously and must
// not call back into the controller.
func WithObserver(fn func(Snapshot)) Option {
	return func(ctl *Controller) { ctl.observe = fn }
}

// New creates a controller for one session. The session is fixed for
// the controller's lifetime.
func New(store Store, session model.Session, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		session: session,
		cache:   cache.New(),
		clock:   clock.Real(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Session() model.Session { return c.session }

// Cache exposes the underlying cache for read-only consumers.
func (c *Controller) Cache() *cache.TaskCache { return c.cache }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the outcome of the most recent intent.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Visible derives the filtered view from the current cache snapshot.
func (c *Controller) Visible() []model.Task {
	c.mu.Lock()
	spec := c.spec
	c.mu.Unlock()
	return filter.Visible(c.cache.Get(), spec)
}

// SetFilterSpec replaces the filter specification. It never touches the
// network or the cache.
func (c *Controller) SetFilterSpec(spec filter.Spec) {
	c.mu.Lock()
	c.spec = spec
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Session:   c.session,
		State:     c.state,
		Filter:    c.spec,
		Visible:   filter.Visible(c.cache.Get(), c.spec),
		Employees: c.cache.Employees(),
		Err:       c.lastErr,
	}
}

func (c *Controller) notify(s Snapshot) {
	if c.observe != nil {
		c.observe(s)
	}
}

// LoadInitial fetches the role-appropriate task collection and, for
// roles that may list employees, the employee directory. The cache is
// replaced only when every fetch succeeds.
func (c *Controller) LoadInitial(ctx context.Context) error {
	if err := c.authorize(policy.ActionView); err != nil {
		return err
	}
	if err := c.begin(LoadingInitial); err != nil {
		return err
	}
	return c.end(c.refresh(ctx))
}

// CreateTask creates a Pending task started now.
func (c *Controller) CreateTask(ctx context.Context, fields TaskFields) error {
	if err := c.authorize(policy.ActionCreate); err != nil {
		return err
	}
	req, err := c.newTask(fields)
	if err != nil {
		return c.record(err)
	}
	return c.mutate(ctx, "create task", func(ctx context.Context) error {
		_, err := c.store.CreateTask(ctx, req)
		return err
	})
}

func (c *Controller) newTask(fields TaskFields) (api.NewTask, error) {
	title := strings.TrimSpace(fields.Title)
	if title == "" {
		return api.NewTask{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	priority := fields.Priority
	if priority == 0 {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return api.NewTask{}, fmt.Errorf("%w: invalid priority %d", ErrValidation, int(priority))
	}

	if fields.AssignedTo != "" {
		if _, ok := c.cache.Employee(fields.AssignedTo); !ok {
			return api.NewTask{}, fmt.Errorf("%w: %q is not an assignable employee", ErrValidation, fields.AssignedTo)
		}
	}

	now := c.clock.Now()
	req := api.NewTask{
		Title:       title,
		Description: fields.Description,
		AssignedTo:  fields.AssignedTo,
		Status:      model.StatusPending,
		Priority:    priority,
		StartDate:   model.NewDate(now),
	}
	if fields.EndDate != nil && !fields.EndDate.IsZero() {
		// Both days are read in the caller's zone.
		end, today := model.CalendarDay(*fields.EndDate), model.CalendarDay(now)
		if end.Before(today) {
			return api.NewTask{}, fmt.Errorf("%w: end date %s is before start date %s",
				ErrValidation, end.Format(time.DateOnly), today.Format(time.DateOnly))
		}
		req.EndDate = model.NewDay(*fields.EndDate)
	}
	return req, nil
}

// UpdateStatus moves a task to status. Roles limited to their own tasks
// may only touch tasks present in their cached collection.
func (c *Controller) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	if err := c.authorize(policy.ActionChangeStatus); err != nil {
		return err
	}
	if policy.ViewScope(c.session.Role) == policy.ScopeOwn {
		if _, ok := c.cache.Lookup(id); !ok {
			return c.record(fmt.Errorf("%w: task %s is not assigned to %s", ErrForbidden, id, c.session.Username))
		}
	}
	if !status.Valid() {
		return c.record(fmt.Errorf("%w: invalid status %d", ErrValidation, int(status)))
	}
	return c.mutate(ctx, "update status", func(ctx context.Context) error {
		return c.store.UpdateStatus(ctx, id, status)
	})
}

// UpdateFields sets a task's title and description. A nil or blank
// description keeps the cached value.
func (c *Controller) UpdateFields(ctx context.Context, id, title string, description *string) error {
	if err := c.authorize(policy.ActionEditFields); err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return c.record(fmt.Errorf("%w: title is required", ErrValidation))
	}
	if description != nil && strings.TrimSpace(*description) == "" {
		description = nil
	}
	if description == nil {
		if prior, ok := c.cache.Lookup(id); ok {
			description = &prior.Description
		}
	}
	return c.mutate(ctx, "update task", func(ctx context.Context) error {
		return c.store.UpdateFields(ctx, id, title, description)
	})
}

// DeleteTask removes a task permanently.
func (c *Controller) DeleteTask(ctx context.Context, id string) error {
	if err := c.authorize(policy.ActionDelete); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return c.record(fmt.Errorf("%w: task id is required", ErrValidation))
	}
	return c.mutate(ctx, "delete task", func(ctx context.Context) error {
		return c.store.DeleteTask(ctx, id)
	})
}

func (c *Controller) authorize(action policy.Action) error {
	if policy.Allows(c.session.Role, action) {
		return nil
	}
	return c.record(fmt.Errorf("%w: %s may not %s", ErrForbidden, c.session.Role, action))
}

// mutate runs write, then refreshes the cache from the store.
func (c *Controller) mutate(ctx context.Context, op string, write func(context.Context) error) error {
	if err := c.begin(Mutating); err != nil {
		return err
	}
	if err := write(ctx); err != nil {
		c.logger.Warn("mutation failed", "op", op, "error", err)
		return c.end(fmt.Errorf("%w: %s: %w", ErrMutationFailed, op, err))
	}
	return c.end(c.refresh(ctx))
}

// refresh fetches everything the session may see and swaps it into the
// cache. Nothing is written unless every fetch succeeds.
func (c *Controller) refresh(ctx context.Context) error {
	var (
		tasks []model.Task
		err   error
	)
	if policy.ViewScope(c.session.Role) == policy.ScopeOwn {
		tasks, err = c.store.ListMyTasks(ctx)
	} else {
		tasks, err = c.store.ListTasks(ctx)
	}
	if err != nil {
		c.logger.Warn("loading tasks failed", "error", err)
		return fmt.Errorf("%w: tasks: %w", ErrLoadFailed, err)
	}

	var employees []model.Employee
	listEmployees := policy.CanListEmployees(c.session.Role)
	if listEmployees {
		employees, err = c.store.ListEmployees(ctx)
		if err != nil {
			c.logger.Warn("loading employees failed", "error", err)
			return fmt.Errorf("%w: employees: %w", ErrLoadFailed, err)
		}
	}

	c.cache.ReplaceAll(tasks)
	if listEmployees {
		c.cache.ReplaceEmployees(employees)
	}
	c.logger.Debug("cache refreshed", "tasks", len(tasks), "employees", len(employees))
	return nil
}

func (c *Controller) begin(next State) error {
	c.mu.Lock()
	if c.state != Idle {
		// The in-flight intent overwrites this when it ends.
		err := fmt.Errorf("%w: %s", ErrBusy, c.state)
		c.lastErr = err
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return err
	}
	c.state = next
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

func (c *Controller) end(err error) error {
	c.mu.Lock()
	c.state = Idle
	c.lastErr = err
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return err
}

// record stores the outcome of an intent rejected before any transition.
func (c *Controller) record(err error) error {
	c.mu.Lock()
	c.lastErr = err
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return err
}
