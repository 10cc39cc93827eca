package scheduler

import (
	"time"

	"github.com/sandeepkv93/flowstate/internal/clock"
	"github.com/sandeepkv93/flowstate/internal/model"
)

// Plan derives the alerts for tasks as seen at now. Incomplete tasks due
// later fire at their due time; tasks due earlier today fire immediately.
// Completed, undated and overdue-from-a-previous-day tasks get nothing.
func Plan(tasks []model.Task, now time.Time) []DueAlert {
	out := make([]DueAlert, 0)
	for _, t := range tasks {
		if t.Completed || t.DueAt == nil {
			continue
		}
		due := *t.DueAt
		a := DueAlert{TaskID: t.ID, Title: t.Title, DueAt: due}
		switch {
		case due.After(now):
			a.FireAt = due
			a.Kind = AlertDueNow
		case clock.SameDay(now, due):
			a.FireAt = now
			a.Kind = AlertDueToday
		default:
			continue
		}
		out = append(out, a)
	}
	return out
}
