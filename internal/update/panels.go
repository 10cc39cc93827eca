package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/flowstate/internal/progress"
	"github.com/sandeepkv93/flowstate/internal/views"
)

const maxNotifications = 40

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Title, n.Body)
}

func (m Model) renderStatsView() string {
	st := m.ws.Progress.State()
	counts := m.ws.Tasks.Counts(m.ws.Now())
	data := views.StatsPanelData{
		Level:          st.Level,
		XP:             st.XP,
		NextLevelXP:    m.ws.Progress.XPForNextLevel(),
		ProgressView:   m.levelProgress.ViewAs(m.ws.Progress.LevelProgress()),
		ProgressPct:    int(m.ws.Progress.LevelProgress() * 100),
		Streak:         st.Streak,
		TasksToday:     m.tasksCompletedToday(),
		DailyGoal:      m.cfg.DailyGoal,
		TotalTasks:     st.TotalTasksCompleted,
		FocusSessions:  st.FocusSessionsCompleted,
		FocusMinutes:   st.TotalFocusMinutes,
		CompletionRate: counts.CompletionRate,
	}
	if next, ok := m.ws.Tasks.NextTask(); ok {
		data.Suggestion = describeTask(next)
	}
	return views.RenderStatsPanel(data)
}

func (m Model) renderAchievementsView() string {
	list := m.ws.Progress.Achievements()
	items := make([]views.AchievementData, 0, len(list))
	for _, a := range list {
		item := views.AchievementData{
			Icon:        a.Icon,
			Name:        a.Name,
			Description: a.Description,
			Current:     a.Current,
			Requirement: a.Requirement,
			Unlocked:    a.Unlocked,
		}
		if !a.UnlockedAt.IsZero() {
			item.UnlockedAt = a.UnlockedAt.Format("2006-01-02")
		}
		items = append(items, item)
	}
	return views.RenderAchievements(items)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.ws.Now(),
	})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}

// notifyAward raises toasts for a level-up and each newly unlocked
// achievement.
func (m *Model) notifyAward(award progress.Award) {
	if award.LeveledUp() {
		m.notify("Level up", fmt.Sprintf("reached level %d", award.LevelAfter), "success")
	}
	if len(award.Unlocked) == 0 {
		return
	}
	names := make(map[string]string)
	for _, a := range m.ws.Progress.Catalog() {
		names[a.ID] = a.Icon + " " + a.Name
	}
	for _, id := range award.Unlocked {
		name := names[id]
		if name == "" {
			name = id
		}
		m.notify("Achievement unlocked", name, "success")
	}
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.notify("Error", err.Error(), "error")
	m.log.Error("tui operation failed", "err", err)
}
