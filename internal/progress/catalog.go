package progress

import "github.com/sandeepkv93/flowstate/internal/model"

// DefaultCatalog returns the built-in achievements. The slice is freshly
// allocated on every call.
func DefaultCatalog() []model.Achievement {
	return []model.Achievement{
		{ID: "first_task", Name: "First Step", Description: "Complete your first task", Icon: "🎯", Requirement: 1, Kind: model.AchievementTasksCompleted},
		{ID: "ten_tasks", Name: "Getting Started", Description: "Complete 10 tasks", Icon: "⭐", Requirement: 10, Kind: model.AchievementTasksCompleted},
		{ID: "fifty_tasks", Name: "Task Master", Description: "Complete 50 tasks", Icon: "🏆", Requirement: 50, Kind: model.AchievementTasksCompleted},
		{ID: "hundred_tasks", Name: "Centurion", Description: "Complete 100 tasks", Icon: "💯", Requirement: 100, Kind: model.AchievementTasksCompleted},
		{ID: "streak_3", Name: "On Fire", Description: "3 day streak", Icon: "🔥", Requirement: 3, Kind: model.AchievementStreak},
		{ID: "streak_7", Name: "Week Warrior", Description: "7 day streak", Icon: "⚡", Requirement: 7, Kind: model.AchievementStreak},
		{ID: "streak_30", Name: "Unstoppable", Description: "30 day streak", Icon: "🌟", Requirement: 30, Kind: model.AchievementStreak},
		{ID: "focus_5", Name: "Focused", Description: "Complete 5 focus sessions", Icon: "🧘", Requirement: 5, Kind: model.AchievementFocusSessions},
		{ID: "focus_25", Name: "Deep Work", Description: "Complete 25 focus sessions", Icon: "🧠", Requirement: 25, Kind: model.AchievementFocusSessions},
		{ID: "level_5", Name: "Rising Star", Description: "Reach level 5", Icon: "✨", Requirement: 5, Kind: model.AchievementLevel},
		{ID: "level_10", Name: "Pro", Description: "Reach level 10", Icon: "💎", Requirement: 10, Kind: model.AchievementLevel},
		{ID: "level_25", Name: "Legend", Description: "Reach level 25", Icon: "👑", Requirement: 25, Kind: model.AchievementLevel},
	}
}

// Totals are the running metrics achievements are measured against.
type Totals struct {
	TasksCompleted int
	Streak         int
	FocusSessions  int
	Level          int
}

func (t Totals) value(kind model.AchievementKind) int {
	switch kind {
	case model.AchievementTasksCompleted:
		return t.TasksCompleted
	case model.AchievementStreak:
		return t.Streak
	case model.AchievementFocusSessions:
		return t.FocusSessions
	case model.AchievementLevel:
		return t.Level
	default:
		return 0
	}
}

// Evaluate returns the ids of catalog entries that totals satisfy and that
// are not already unlocked, in catalog order.
func Evaluate(totals Totals, catalog []model.Achievement, unlocked []string) []string {
	have := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}
	var out []string
	for _, a := range catalog {
		if have[a.ID] {
			continue
		}
		if totals.value(a.Kind) >= a.Requirement {
			out = append(out, a.ID)
			have[a.ID] = true
		}
	}
	return out
}
