package tasks

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/flowstate/internal/clock"
	"github.com/sandeepkv93/flowstate/internal/model"
)

// FilterToday is a pseudo project id selecting tasks due today.
const FilterToday = "today"

type Filter struct {
	ProjectID     string `json:"selected_project,omitempty"`
	LabelID       string `json:"selected_label,omitempty"`
	Search        string `json:"search_query,omitempty"`
	ShowCompleted bool   `json:"show_completed"`
}

func (s *Store) Filter() Filter { return s.filter }

func (s *Store) SetProjectFilter(id string) { s.filter.ProjectID = id }

func (s *Store) SetLabelFilter(id string) { s.filter.LabelID = id }

func (s *Store) SetSearchQuery(q string) { s.filter.Search = q }

func (s *Store) SetShowCompleted(show bool) { s.filter.ShowCompleted = show }

func (s *Store) ClearFilters() {
	s.filter = Filter{ShowCompleted: s.filter.ShowCompleted}
}

type Bucket string

const (
	BucketOverdue   Bucket = "Overdue"
	BucketToday     Bucket = "Today"
	BucketTomorrow  Bucket = "Tomorrow"
	BucketLater     Bucket = "Later"
	BucketNoDue     Bucket = "No due date"
	BucketCompleted Bucket = "Completed"
)

type Section struct {
	Bucket Bucket
	Tasks  []model.Task
}

type Grouped struct {
	Overdue   []model.Task
	Today     []model.Task
	Tomorrow  []model.Task
	Later     []model.Task
	NoDue     []model.Task
	Completed []model.Task
}

// Sections lists the buckets in display order, skipping empty ones.
func (g Grouped) Sections() []Section {
	all := []Section{
		{BucketOverdue, g.Overdue},
		{BucketToday, g.Today},
		{BucketTomorrow, g.Tomorrow},
		{BucketLater, g.Later},
		{BucketNoDue, g.NoDue},
		{BucketCompleted, g.Completed},
	}
	out := make([]Section, 0, len(all))
	for _, sec := range all {
		if len(sec.Tasks) > 0 {
			out = append(out, sec)
		}
	}
	return out
}

// Flatten returns every task in display order.
func (g Grouped) Flatten() []model.Task {
	var out []model.Task
	for _, sec := range g.Sections() {
		out = append(out, sec.Tasks...)
	}
	return out
}

func (g Grouped) Incomplete() int {
	return len(g.Overdue) + len(g.Today) + len(g.Tomorrow) + len(g.Later) + len(g.NoDue)
}

// Query applies the current filters and partitions the result into
// due-date buckets. now is read once for the whole query so every task is
// judged against the same calendar day.
func (s *Store) Query(now time.Time) Grouped {
	var g Grouped
	for _, t := range s.tasks {
		if !s.filter.matches(t, now) {
			continue
		}
		t = t.Clone()
		if t.Completed {
			g.Completed = append(g.Completed, t)
			continue
		}
		if t.DueAt == nil {
			g.NoDue = append(g.NoDue, t)
			continue
		}
		switch days := clock.DaysFrom(now, *t.DueAt); {
		case days < 0:
			g.Overdue = append(g.Overdue, t)
		case days == 0:
			g.Today = append(g.Today, t)
		case days == 1:
			g.Tomorrow = append(g.Tomorrow, t)
		default:
			g.Later = append(g.Later, t)
		}
	}
	for _, bucket := range [][]model.Task{g.Overdue, g.Today, g.Tomorrow, g.Later, g.NoDue} {
		sort.SliceStable(bucket, func(i, j int) bool { return lessBucket(bucket[i], bucket[j]) })
	}
	sort.SliceStable(g.Completed, func(i, j int) bool {
		return g.Completed[i].UpdatedAt.After(g.Completed[j].UpdatedAt)
	})
	return g
}

func (f Filter) matches(t model.Task, now time.Time) bool {
	if q := strings.ToLower(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	switch f.ProjectID {
	case "":
	case FilterToday:
		if t.DueAt == nil || !clock.SameDay(now, *t.DueAt) {
			return false
		}
	case model.InboxProjectID:
		if !t.InInbox() {
			return false
		}
	default:
		if t.ProjectID != f.ProjectID {
			return false
		}
	}
	if f.LabelID != "" && !t.HasLabel(f.LabelID) {
		return false
	}
	if !f.ShowCompleted && t.Completed {
		return false
	}
	return true
}

type Counts struct {
	Open           int
	Inbox          int
	DueToday       int
	CompletedToday int
	ByProject      map[string]int
	// CompletionRate is the rounded percentage of completed tasks.
	CompletionRate int
}

// Counts summarizes the whole collection, ignoring filters.
func (s *Store) Counts(now time.Time) Counts {
	c := Counts{ByProject: make(map[string]int)}
	completed := 0
	for _, t := range s.tasks {
		if t.Completed {
			completed++
			if clock.SameDay(now, t.UpdatedAt) {
				c.CompletedToday++
			}
			continue
		}
		c.Open++
		if t.InInbox() {
			c.Inbox++
		} else {
			c.ByProject[t.ProjectID]++
		}
		if t.DueAt != nil && clock.SameDay(now, *t.DueAt) {
			c.DueToday++
		}
	}
	if len(s.tasks) > 0 {
		c.CompletionRate = int(math.Round(float64(completed) / float64(len(s.tasks)) * 100))
	}
	return c
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
