// Package google mirrors task due dates into a Google Calendar.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/harrisonrobin/taskgate/pkg/colors"
	"github.com/harrisonrobin/taskgate/pkg/index"
	"github.com/harrisonrobin/taskgate/pkg/model"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// CalendarClient is a Google Calendar API client bound to one calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
	logger     *slog.Logger
}

// NewClient resolves calendarName among the user's calendars.
func NewClient(ctx context.Context, srv *calendar.Service, calendarName string, idx *index.EventIndex, logger *slog.Logger) (*CalendarClient, error) {
	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
	}

	var calendarID string
	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			calendarID = item.Id
			break
		}
	}
	if calendarID == "" {
		return nil, fmt.Errorf("calendar '%s' not found", calendarName)
	}
	return NewCalendarClient(srv, calendarID, idx, logger), nil
}

func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex, logger *slog.Logger) *CalendarClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx, logger: logger}
}

// SyncResult says what SyncEvent did.
type SyncResult int

const (
	Unchanged SyncResult = iota
	Created
	Updated
)

// SyncEvent creates the event for taskID or patches the existing one.
func (c *CalendarClient) SyncEvent(ctx context.Context, taskID string, event *calendar.Event) (*calendar.Event, SyncResult, error) {
	var existing *calendar.Event
	if c.index != nil {
		if eventID := c.index.Get(taskID); eventID != "" {
			ev, err := c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
			if err == nil && ev.Status != "cancelled" {
				existing = ev
			}
		}
	}

	if existing == nil {
		var err error
		existing, err = c.GetEventByTaskID(ctx, taskID)
		if err != nil {
			return nil, Unchanged, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing != nil {
		c.remember(taskID, existing.Id)
		patch := EventNeedsUpdate(existing, event)
		if patch == nil {
			return existing, Unchanged, nil
		}
		updated, err := c.PatchEvent(ctx, existing.Id, patch)
		if err != nil {
			return nil, Unchanged, err
		}
		return updated, Updated, nil
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, Unchanged, err
	}
	c.remember(taskID, created.Id)
	return created, Created, nil
}

func (c *CalendarClient) remember(taskID, eventID string) {
	if c.index != nil {
		c.index.Set(taskID, eventID)
	}
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

// DeleteEvent deletes an event. An event that is already gone counts as
// deleted.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
		return nil
	}
	return err
}

// GetEventByTaskID finds the event tagged with taskID, or nil.
func (c *CalendarClient) GetEventByTaskID(ctx context.Context, taskID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", TaskIDProperty, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

// PushResult counts the outcome of a Push.
type PushResult struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
	// Skipped tasks have no end date and so no event.
	Skipped int
	// Failed counts events that could not be synced or deleted. Their
	// index entries are left as they were.
	Failed int
}

// Push mirrors tasks into the calendar. Events recorded in the index for
// tasks not in the set, or that lost their end date, are deleted.
func (c *CalendarClient) Push(ctx context.Context, tasks []model.Task, now time.Time, palette *colors.ColorCache) (PushResult, error) {
	var res PushResult
	keep := make(map[string]bool, len(tasks))

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !task.EndDate.IsSet() {
			res.Skipped++
			continue
		}

		colorID := colors.Unassigned
		if palette != nil {
			colorID = palette.ColorID(task.AssigneeID())
		}
		event, err := ToEvent(task, now, colorID)
		if err != nil {
			c.logger.Warn("skipping task", "task", task.ID, "error", err)
			res.Failed++
			continue
		}
		keep[task.ID] = true

		_, result, err := c.SyncEvent(ctx, task.ID, event)
		if err != nil {
			c.logger.Warn("failed to sync event", "task", task.ID, "error", err)
			res.Failed++
			continue
		}
		switch result {
		case Created:
			res.Created++
		case Updated:
			res.Updated++
		default:
			res.Unchanged++
		}
	}

	if c.index != nil {
		for _, taskID := range c.index.TaskIDs() {
			if keep[taskID] {
				continue
			}
			if err := c.DeleteEvent(ctx, c.index.Get(taskID)); err != nil {
				c.logger.Warn("failed to delete event", "task", taskID, "error", err)
				res.Failed++
				continue
			}
			c.index.Remove(taskID)
			res.Deleted++
		}
	}

	c.logger.Debug("calendar push finished",
		"created", res.Created, "updated", res.Updated, "unchanged", res.Unchanged,
		"deleted", res.Deleted, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}
