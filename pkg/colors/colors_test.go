package colors

import (
	"fmt"
	"testing"
	"time"

	"github.com/harrisonrobin/taskgate/pkg/clock"
)

func TestUnassignedColor(t *testing.T) {
	c, err := Open(t.TempDir(), clock.Fake(time.Now()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := c.ColorID(""); got != Unassigned {
		t.Errorf("Expected %s for no assignee, got %s", Unassigned, got)
	}
}

func TestStableColorPerAssignee(t *testing.T) {
	c, err := Open(t.TempDir(), clock.Fake(time.Now()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	first := c.ColorID("e1")
	second := c.ColorID("e2")
	if first == second {
		t.Errorf("Expected distinct colors, both got %s", first)
	}
	if again := c.ColorID("e1"); again != first {
		t.Errorf("Expected e1 to keep %s, got %s", first, again)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	clk := clock.Fake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	c, err := Open(t.TempDir(), clk)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// Ten usable colors once graphite is reserved.
	colors := map[string]string{}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("e%d", i)
		colors[id] = c.ColorID(id)
		if colors[id] == Unassigned {
			t.Fatalf("Assigned the reserved color to %s", id)
		}
		clk.Advance(time.Minute)
	}
	// Touch e0 so e1 is now the oldest.
	c.ColorID("e0")
	clk.Advance(time.Minute)

	got := c.ColorID("new")
	if got != colors["e1"] {
		t.Errorf("Expected new assignee to take e1's color %s, got %s", colors["e1"], got)
	}
	if _, ok := c.Assignees["e1"]; ok {
		t.Error("Expected e1 to be evicted")
	}
}

func TestSaveAndReopen(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, clock.Fake(time.Now()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	want := c.ColorID("e1")
	if err := c.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := reopened.Assignees["e1"]; got == nil || got.ColorID != want {
		t.Errorf("Expected persisted color %s, got %+v", want, got)
	}
}
