package model

import (
	"errors"
	"fmt"
)

var ErrInvalidAchievementKind = errors.New("model: invalid achievement kind")

// AchievementKind names the running total an achievement is measured against.
type AchievementKind string

const (
	AchievementTasksCompleted AchievementKind = "tasks_completed"
	AchievementStreak         AchievementKind = "streak"
	AchievementFocusSessions  AchievementKind = "focus_sessions"
	AchievementLevel          AchievementKind = "level"
)

func (k AchievementKind) IsValid() bool {
	switch k {
	case AchievementTasksCompleted, AchievementStreak, AchievementFocusSessions, AchievementLevel:
		return true
	default:
		return false
	}
}

type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Requirement int
	Kind        AchievementKind
}

func (a Achievement) Validate() error {
	if a.ID == "" {
		return errors.New("model: achievement id is required")
	}
	if !a.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAchievementKind, a.Kind)
	}
	if a.Requirement <= 0 {
		return fmt.Errorf("model: achievement %s requirement must be positive", a.ID)
	}
	return nil
}
