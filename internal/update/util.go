package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/flowstate/internal/clock"
	"github.com/sandeepkv93/flowstate/internal/model"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func formatDuration(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	min := totalSec / 60
	sec := totalSec % 60
	return fmt.Sprintf("%02d:%02d", min, sec)
}

// formatDue renders a due date relative to now: "today", "tomorrow", a
// weekday within the week, otherwise the date.
func formatDue(due *time.Time, now time.Time) string {
	if due == nil {
		return ""
	}
	days := clock.DaysFrom(now, *due)
	var out string
	switch {
	case days == 0:
		out = "today"
	case days == 1:
		out = "tomorrow"
	case days == -1:
		out = "yesterday"
	case days > 1 && days < 7:
		out = due.Format("Mon")
	default:
		out = due.Format("Jan 2")
	}
	if h, m, _ := due.Clock(); h != 0 || m != 0 {
		out += " " + due.Format("15:04")
	}
	return out
}

func describeTask(t model.Task) string {
	var extras []string
	if t.DueAt != nil {
		extras = append(extras, "due "+t.DueAt.Format("Mon Jan 2"))
	}
	if t.Priority != "" && t.Priority != model.PriorityMedium {
		extras = append(extras, string(t.Priority))
	}
	if len(extras) == 0 {
		return t.Title
	}
	return fmt.Sprintf("%s (%s)", t.Title, strings.Join(extras, ", "))
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
