package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Implement model validation",
		Priority:  PriorityHigh,
		ProjectID: InboxProjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateRejectsEmptyTitle(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{ID: "task-1", Title: "   ", Priority: PriorityMedium, CreatedAt: now, UpdatedAt: now}
	if err := task.Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got: %v", err)
	}
}

func TestTaskValidateInvalidPriority(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{ID: "task-1", Title: "Bad", Priority: Priority("Critical"), CreatedAt: now, UpdatedAt: now}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	ordered := []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Fatalf("expected %s to rank before %s", ordered[i-1], ordered[i])
		}
	}
	if Priority("").Rank() != PriorityMedium.Rank() {
		t.Fatal("expected unknown priority to rank as medium")
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" URGENT ")
	if err != nil || p != PriorityUrgent {
		t.Fatalf("unexpected parse result: %q %v", p, err)
	}
	if _, err := ParsePriority("someday"); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestTaskCloneDoesNotShareState(t *testing.T) {
	due := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	orig := Task{ID: "a", Labels: []string{"x"}, DueAt: &due}
	cp := orig.Clone()
	cp.Labels[0] = "y"
	*cp.DueAt = due.AddDate(0, 0, 1)
	if orig.Labels[0] != "x" {
		t.Fatalf("clone shares labels: %#v", orig.Labels)
	}
	if !orig.DueAt.Equal(due) {
		t.Fatalf("clone shares due date: %s", orig.DueAt)
	}
}

func TestTaskInInbox(t *testing.T) {
	if !(Task{}).InInbox() {
		t.Fatal("expected task without project to be in inbox")
	}
	if (Task{ProjectID: "work"}).InInbox() {
		t.Fatal("expected work task outside inbox")
	}
}

func TestAchievementValidate(t *testing.T) {
	ok := Achievement{ID: "first_task", Kind: AchievementTasksCompleted, Requirement: 1}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid achievement, got %v", err)
	}
	bad := Achievement{ID: "x", Kind: AchievementKind("karma"), Requirement: 1}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidAchievementKind) {
		t.Fatalf("expected ErrInvalidAchievementKind, got %v", err)
	}
}
