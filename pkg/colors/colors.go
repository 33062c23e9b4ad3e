// Package colors assigns each assignee a Google Calendar color id and
// remembers the choice between runs. Only eleven event colors exist, so
// the least recently used assignee gives up its color when they run out.
package colors

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/harrisonrobin/taskgate/pkg/clock"
)

const (
	cacheFile = "assignee_colors.json"

	// Unassigned is the color of tasks with no assignee (graphite).
	Unassigned = "8"

	maxColor = 11
)

type AssigneeState struct {
	ColorID  string    `json:"color_id"`
	LastUsed time.Time `json:"last_used"`
}

type ColorCache struct {
	Path      string
	Assignees map[string]*AssigneeState
	clock     clock.Clock
	dirty     bool
}

// Open loads the color cache stored in dir.
func Open(dir string, clk clock.Clock) (*ColorCache, error) {
	if clk == nil {
		clk = clock.Real()
	}
	c := &ColorCache{
		Path:      filepath.Join(dir, cacheFile),
		Assignees: make(map[string]*AssigneeState),
		clock:     clk,
	}

	if _, err := os.Stat(c.Path); err == nil {
		if err := c.Load(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *ColorCache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&c.Assignees); err != nil {
		return err
	}
	if c.Assignees == nil {
		c.Assignees = make(map[string]*AssigneeState)
	}
	return nil
}

func (c *ColorCache) Save() error {
	if !c.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0700); err != nil {
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(c.Assignees); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// ColorID returns the color for an assignee id and marks it as used.
func (c *ColorCache) ColorID(assignee string) string {
	if assignee == "" {
		return Unassigned
	}

	now := c.clock.Now()
	if state, ok := c.Assignees[assignee]; ok {
		state.LastUsed = now
		c.dirty = true
		return state.ColorID
	}
	return c.assign(assignee, now)
}

func (c *ColorCache) assign(assignee string, now time.Time) string {
	used := make(map[string]bool, len(c.Assignees))
	for _, s := range c.Assignees {
		used[s.ColorID] = true
	}

	for i := 1; i <= maxColor; i++ {
		id := strconv.Itoa(i)
		if id == Unassigned {
			continue
		}
		if !used[id] {
			c.Assignees[assignee] = &AssigneeState{ColorID: id, LastUsed: now}
			c.dirty = true
			return id
		}
	}

	// Full: recycle the least recently used color.
	var oldest string
	var oldestTime time.Time
	for a, s := range c.Assignees {
		if oldest == "" || s.LastUsed.Before(oldestTime) || (s.LastUsed.Equal(oldestTime) && a < oldest) {
			oldest, oldestTime = a, s.LastUsed
		}
	}
	recycled := c.Assignees[oldest].ColorID
	delete(c.Assignees, oldest)

	c.Assignees[assignee] = &AssigneeState{ColorID: recycled, LastUsed: now}
	c.dirty = true
	return recycled
}
