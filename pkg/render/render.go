// Package render prints tasks and employees as aligned terminal tables.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/harrisonrobin/taskgate/pkg/model"
	"github.com/harrisonrobin/taskgate/pkg/overdue"
)

const maxTitleWidth = 40

// Renderer writes styled output to w. Colors are dropped automatically
// when w is not a terminal.
type Renderer struct {
	w     io.Writer
	now   time.Time
	theme theme
}

type theme struct {
	header    lipgloss.Style
	muted     lipgloss.Style
	overdue   lipgloss.Style
	completed lipgloss.Style
	active    lipgloss.Style
	high      lipgloss.Style
}

func New(w io.Writer, now time.Time) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		w:   w,
		now: now,
		theme: theme{
			header:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
			muted:     r.NewStyle().Foreground(lipgloss.Color("241")),
			overdue:   r.NewStyle().Foreground(lipgloss.Color("196")),
			completed: r.NewStyle().Foreground(lipgloss.Color("34")),
			active:    r.NewStyle().Foreground(lipgloss.Color("214")),
			high:      r.NewStyle().Bold(true),
		},
	}
}

// Count returns the task count line, e.g. "3 tasks".
func Count(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

// Tasks writes the count line followed by one row per task.
func (r *Renderer) Tasks(tasks []model.Task) error {
	if _, err := fmt.Fprintln(r.w, r.theme.muted.Render(Count(len(tasks)))); err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	header := []string{"ID", "STATUS", "PRIORITY", "TITLE", "ASSIGNEE", "DUE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		assignee := t.AssigneeName()
		if assignee == "" {
			assignee = "-"
		}
		rows = append(rows, []string{
			t.ID,
			r.status(t),
			r.priority(t.Priority),
			truncate(t.Title, maxTitleWidth),
			assignee,
			t.EndDate.Day(),
		})
	}
	return r.table(header, rows)
}

// Employees writes the assignable directory.
func (r *Renderer) Employees(employees []model.Employee) error {
	if len(employees) == 0 {
		_, err := fmt.Fprintln(r.w, r.theme.muted.Render("no employees"))
		return err
	}
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{e.ID, e.Username, e.Role.String()})
	}
	return r.table([]string{"ID", "USERNAME", "ROLE"}, rows)
}

// Session writes the signed-in identity.
func (r *Renderer) Session(s model.Session) error {
	_, err := fmt.Fprintf(r.w, "%s %s\n", s.Username, r.theme.muted.Render("("+s.Role.String()+")"))
	return err
}

func (r *Renderer) status(t model.Task) string {
	label := t.Status.String()
	switch {
	case t.Status == model.StatusCompleted:
		return r.theme.completed.Render(label)
	case overdue.Is(t, r.now):
		return r.theme.overdue.Render(label + " !")
	case t.Status == model.StatusInProgress:
		return r.theme.active.Render(label)
	}
	return label
}

func (r *Renderer) priority(p model.Priority) string {
	if p == model.PriorityHigh {
		return r.theme.high.Render(p.String())
	}
	return p.String()
}

// table pads each column to its widest visible cell. Widths are measured
// with lipgloss so styled cells line up.
func (r *Renderer) table(header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	styled := make([]string, len(header))
	for i, h := range header {
		styled[i] = r.theme.header.Render(h)
	}
	if err := r.row(styled, widths); err != nil {
		return err
	}
	for _, row := range rows {
		if err := r.row(row, widths); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) row(cells []string, widths []int) error {
	var b strings.Builder
	for i, cell := range cells {
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
		}
	}
	_, err := fmt.Fprintln(r.w, b.String())
	return err
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
