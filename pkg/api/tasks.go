package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/harrisonrobin/taskgate/pkg/model"
)

const (
	tasksPath     = "/api/tasks"
	myTasksPath   = "/api/tasks/my-tasks"
	employeesPath = "/api/employees"
)

// NewTask is the body of POST /api/tasks.
type NewTask struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	AssignedTo  string         `json:"assignedTo,omitempty"`
	Status      model.Status   `json:"status"`
	Priority    model.Priority `json:"priority"`
	StartDate   *model.Date    `json:"startDate"`
	EndDate     *model.Date    `json:"endDate,omitempty"`
}

type statusUpdate struct {
	Status model.Status `json:"status"`
}

type fieldsUpdate struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// ListTasks fetches the full collection (GET /api/tasks).
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	return c.listTasks(ctx, tasksPath)
}

// ListMyTasks fetches the caller's own tasks (GET /api/tasks/my-tasks).
func (c *Client) ListMyTasks(ctx context.Context) ([]model.Task, error) {
	return c.listTasks(ctx, myTasksPath)
}

func (c *Client) listTasks(ctx context.Context, path string) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, c.http, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Normalize()
	}
	return tasks, nil
}

// ListEmployees fetches the directory and keeps role == Employee only.
func (c *Client) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var all []model.Employee
	if err := c.do(ctx, c.http, http.MethodGet, employeesPath, nil, &all); err != nil {
		return nil, err
	}
	employees := make([]model.Employee, 0, len(all))
	for _, e := range all {
		if e.Role == model.RoleEmployee {
			employees = append(employees, e)
		}
	}
	return employees, nil
}

// CreateTask posts a new task and returns the server's copy.
func (c *Client) CreateTask(ctx context.Context, t NewTask) (model.Task, error) {
	var created model.Task
	if err := c.do(ctx, c.http, http.MethodPost, tasksPath, t, &created); err != nil {
		return model.Task{}, err
	}
	created.Normalize()
	return created, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %d", int(status))
	}
	return c.do(ctx, c.http, http.MethodPut, taskPath(id)+"/status", statusUpdate{Status: status}, nil)
}

// UpdateFields sets title and, when non-nil, description.
func (c *Client) UpdateFields(ctx context.Context, id, title string, description *string) error {
	return c.do(ctx, c.http, http.MethodPut, taskPath(id), fieldsUpdate{Title: title, Description: description}, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, c.http, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id string) string {
	return tasksPath + "/" + url.PathEscape(id)
}
