package tasks

import (
	"sort"

	"github.com/sandeepkv93/flowstate/internal/model"
)

// lessNext is the focus-selection order: priority rank, then earlier due
// date with dated tasks first, then the creation order value.
func lessNext(a, b model.Task) bool {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	switch {
	case a.DueAt != nil && b.DueAt != nil:
		if !a.DueAt.Equal(*b.DueAt) {
			return a.DueAt.Before(*b.DueAt)
		}
	case a.DueAt != nil:
		return true
	case b.DueAt != nil:
		return false
	}
	return a.Order < b.Order
}

// lessBucket orders tasks inside a due-date bucket: priority rank, then order.
func lessBucket(a, b model.Task) bool {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	return a.Order < b.Order
}

// NextTask picks the incomplete task to work on next. It is derived from the
// collection on every call; ok is false when nothing is left to do.
func (s *Store) NextTask() (model.Task, bool) {
	var best *model.Task
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.Completed {
			continue
		}
		if best == nil || lessNext(*t, *best) {
			best = t
		}
	}
	if best == nil {
		return model.Task{}, false
	}
	return best.Clone(), true
}

// Incomplete returns incomplete tasks in focus-selection order.
func (s *Store) Incomplete() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			out = append(out, t.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return lessNext(out[i], out[j]) })
	return out
}

// ToggleFocusMode switches between inactive and active. Activating pins the
// current NextTask; deactivating clears the pin.
func (s *Store) ToggleFocusMode() bool {
	if !s.focusMode {
		s.focusMode = true
		s.focusTask = ""
		if next, ok := s.NextTask(); ok {
			s.focusTask = next.ID
		}
		return true
	}
	s.focusMode = false
	s.focusTask = ""
	return false
}

func (s *Store) FocusMode() bool { return s.focusMode }

// FocusTask returns the pinned focus target, if it still exists.
func (s *Store) FocusTask() (model.Task, bool) {
	if s.focusTask == "" {
		return model.Task{}, false
	}
	return s.Task(s.focusTask)
}

// SetFocusTask pins id as the focus target. An empty id clears the pin.
func (s *Store) SetFocusTask(id string) {
	s.focusTask = id
}

// AdvanceFocus replaces the pin with a freshly computed NextTask.
func (s *Store) AdvanceFocus() (model.Task, bool) {
	next, ok := s.NextTask()
	if ok {
		s.focusTask = next.ID
	} else {
		s.focusTask = ""
	}
	return next, ok
}

// SkipFocusTask pins the first incomplete task, in collection order, that is
// not the current pin. It is a no-op when there is no other candidate.
func (s *Store) SkipFocusTask() (model.Task, bool) {
	for _, t := range s.tasks {
		if !t.Completed && t.ID != s.focusTask {
			s.focusTask = t.ID
			return t.Clone(), true
		}
	}
	return model.Task{}, false
}
