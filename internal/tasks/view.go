package tasks

import (
	"fmt"
	"time"
)

// BusyThreshold is the task count above which the list counts as busy.
const BusyThreshold = 5

// Counts summarizes completion across a list.
type Counts struct {
	Completed int
	Pending   int
	Total     int
}

// Count tallies completed and pending tasks.
func Count(tasks []Task) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
	}
	c.Pending = c.Total - c.Completed
	return c
}

// Busy reports whether the list holds more than BusyThreshold tasks.
func Busy(tasks []Task) bool {
	return len(tasks) > BusyThreshold
}

// Elapsed returns the time since t was created, truncated to whole seconds.
func Elapsed(t Task, now time.Time) time.Duration {
	d := now.Sub(t.Created())
	if d < 0 {
		return 0
	}
	return d.Truncate(time.Second)
}

// FormatElapsed renders d as HH:MM:SS. Hours are not wrapped at 24 and
// grow past two digits when needed.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Row is the display form of one task.
type Row struct {
	Position  int
	ID        string
	Text      string
	Completed bool
	// Elapsed is set for VariantTimer.
	Elapsed string
	// Badge is set for VariantBadge on completed tasks.
	Badge bool
}

// Rows builds display rows in list order.
func Rows(tasks []Task, now time.Time, variant Variant) []Row {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		row := Row{
			Position:  i,
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
		}
		switch variant {
		case VariantBadge:
			row.Badge = t.Completed
		default:
			row.Elapsed = FormatElapsed(Elapsed(t, now))
		}
		rows[i] = row
	}
	return rows
}
