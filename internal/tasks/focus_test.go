package tasks

import (
	"testing"

	"github.com/sandeepkv93/flowstate/internal/model"
)

func TestNextTaskPriorityWins(t *testing.T) {
	s, c := newTestStore(t, "2026-03-10 09:00")
	tomorrow := c.t.AddDate(0, 0, 1)
	s.AddTask(NewTask{Title: "A", Priority: model.PriorityLow, DueAt: &tomorrow})
	s.AddTask(NewTask{Title: "B", Priority: model.PriorityUrgent})

	next, ok := s.NextTask()
	if !ok || next.Title != "B" {
		t.Fatalf("expected urgent task B, got %#v", next)
	}
}

func TestNextTaskDueDateThenOrder(t *testing.T) {
	s, c := newTestStore(t, "2026-03-10 09:00")
	later := c.t.AddDate(0, 0, 5)
	sooner := c.t.AddDate(0, 0, 1)
	s.AddTask(NewTask{Title: "undated", Priority: model.PriorityHigh})
	s.AddTask(NewTask{Title: "later", Priority: model.PriorityHigh, DueAt: &later})
	s.AddTask(NewTask{Title: "sooner", Priority: model.PriorityHigh, DueAt: &sooner})

	next, _ := s.NextTask()
	if next.Title != "sooner" {
		t.Fatalf("expected earliest due, got %q", next.Title)
	}

	s.ToggleComplete(next.ID)
	s.ToggleComplete("id-02")
	next, _ = s.NextTask()
	if next.Title != "undated" {
		t.Fatalf("expected undated last candidate, got %q", next.Title)
	}

	s2, _ := newTestStore(t, "2026-03-10 09:00")
	s2.AddTask(NewTask{Title: "first"})
	s2.AddTask(NewTask{Title: "second"})
	next, _ = s2.NextTask()
	if next.Title != "first" {
		t.Fatalf("expected lower order to win ties, got %q", next.Title)
	}
}

func TestNextTaskIgnoresCompletedAndEmpty(t *testing.T) {
	s, _ := newTestStore(t, "2026-03-10 09:00")
	if _, ok := s.NextTask(); ok {
		t.Fatalf("expected none for empty store")
	}
	task := s.AddTask(NewTask{Title: "done", Priority: model.PriorityUrgent})
	s.ToggleComplete(task.ID)
	if _, ok := s.NextTask(); ok {
		t.Fatalf("expected none when everything is complete")
	}
}

func TestNextTaskIsPureDerivation(t *testing.T) {
	s, _ := newTestStore(t, "2026-03-10 09:00")
	s.AddTask(NewTask{Title: "a"})
	first, _ := s.NextTask()
	second, _ := s.NextTask()
	if first.ID != second.ID {
		t.Fatalf("expected repeated calls to agree")
	}
	urgent := s.AddTask(NewTask{Title: "b", Priority: model.PriorityUrgent})
	third, _ := s.NextTask()
	if third.ID != urgent.ID {
		t.Fatalf("expected selection to follow state change")
	}
}

func TestIncompleteSortedBySelectionOrder(t *testing.T) {
	s, _ := newTestStore(t, "2026-03-10 09:00")
	s.AddTask(NewTask{Title: "low", Priority: model.PriorityLow})
	s.AddTask(NewTask{Title: "urgent", Priority: model.PriorityUrgent})
	s.AddTask(NewTask{Title: "medium"})
	got := s.Incomplete()
	if len(got) != 3 || got[0].Title != "urgent" || got[1].Title != "medium" || got[2].Title != "low" {
		t.Fatalf("unexpected ordering: %#v", got)
	}
}

func TestToggleFocusModePinsAndClears(t *testing.T) {
	s, _ := newTestStore(t, "2026-03-10 09:00")
	s.AddTask(NewTask{Title: "a", Priority: model.PriorityLow})
	b := s.AddTask(NewTask{Title: "b", Priority: model.PriorityHigh})

	if !s.ToggleFocusMode() {
		t.Fatalf("expected focus mode active")
	}
	focus, ok := s.FocusTask()
	if !ok || focus.ID != b.ID {
		t.Fatalf("expected pin on next task, got %#v", focus)
	}
	if s.ToggleFocusMode() {
		t.Fatalf("expected focus mode inactive")
	}
	if _, ok := s.FocusTask(); ok {
		t.Fatalf("expected pin cleared")
	}
}

func TestToggleFocusModeWithNoTasks(t *testing.T) {
	s, _ := newTestStore(t, "2026-03-10 09:00")
	if !s.ToggleFocusMode() {
		t.Fatalf("expected activation even with no tasks")
	}
	if _, ok := s.FocusTask(); ok {
		t.Fatalf("expected empty pin")
	}
}

func TestAdvanceAndSkipFocus(t *testing.T) {
	s, _ := newTestStore(t, "2026-03-10 09:00")
	a := s.AddTask(NewTask{Title: "a", Priority: model.PriorityUrgent})
	b := s.AddTask(NewTask{Title: "b"})
	s.ToggleFocusMode()

	skipped, ok := s.SkipFocusTask()
	if !ok || skipped.ID != b.ID {
		t.Fatalf("expected skip to b, got %#v", skipped)
	}
	s.ToggleComplete(b.ID)
	next, ok := s.AdvanceFocus()
	if !ok || next.ID != a.ID {
		t.Fatalf("expected advance back to a, got %#v", next)
	}
	if _, ok := s.SkipFocusTask(); ok {
		t.Fatalf("expected skip to be a no-op with a single candidate")
	}
	focus, _ := s.FocusTask()
	if focus.ID != a.ID {
		t.Fatalf("skip no-op changed pin")
	}

	s.ToggleComplete(a.ID)
	if _, ok := s.AdvanceFocus(); ok {
		t.Fatalf("expected nothing left")
	}
	if _, ok := s.FocusTask(); ok {
		t.Fatalf("expected pin cleared when nothing is left")
	}
}

func TestFocusTaskMissingAfterDelete(t *testing.T) {
	s, _ := newTestStore(t, "2026-03-10 09:00")
	a := s.AddTask(NewTask{Title: "a"})
	s.SetFocusTask(a.ID)
	s.DeleteTask(a.ID)
	if _, ok := s.FocusTask(); ok {
		t.Fatalf("expected deleted pin to resolve to nothing")
	}
}
