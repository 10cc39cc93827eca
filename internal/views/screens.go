package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	ID       string
	Title    string
	Priority string
	Due      string
	Project  string
	Labels   []string
	Overdue  bool
	Done     bool
	Focused  bool
}

type SectionData struct {
	Title string
	Rows  []TaskRowData
}

type TasksPanelData struct {
	FilterLine   string
	QuickAddView string
	Adding       bool
	Sections     []SectionData
	SelectedID   string
}

type TaskDetailData struct {
	ID           string
	Title        string
	Priority     string
	Due          string
	Project      string
	Labels       []string
	Created      string
	Description  string
	OpenCount    int
	InboxCount   int
	DueToday     int
	DoneToday    int
	DailyGoal    int
	Completion   int
	ProjectLines []string
}

type FocusPanelData struct {
	Active       bool
	TaskTitle    string
	TaskPriority string
	TaskDue      string
	Phase        string
	Timer        string
	Running      bool
	Spinner      string
	DurationMin  int
	ProgressView string
	ProgressPct  int
	Sessions     int
	ShowEndNote  bool
}

type AchievementData struct {
	Icon        string
	Name        string
	Description string
	Current     int
	Requirement int
	Unlocked    bool
	UnlockedAt  string
}

type StatsPanelData struct {
	Level          int
	XP             int
	NextLevelXP    int
	ProgressView   string
	ProgressPct    int
	Streak         int
	TasksToday     int
	DailyGoal      int
	TotalTasks     int
	FocusSessions  int
	FocusMinutes   int
	CompletionRate int
	Suggestion     string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	if data.FilterLine != "" {
		b.WriteString(mutedStyle.Render(data.FilterLine) + "\n")
	}
	if data.Adding {
		b.WriteString(data.QuickAddView + "\n")
	}
	if len(data.Sections) == 0 {
		b.WriteString("\n(no tasks, press [a] to add one)")
		return strings.TrimSpace(b.String())
	}
	for _, sec := range data.Sections {
		b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("%s (%d)", sec.Title, len(sec.Rows))) + "\n")
		for _, row := range sec.Rows {
			b.WriteString(renderTaskRow(row, row.ID == data.SelectedID) + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func renderTaskRow(row TaskRowData, selected bool) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	box := "[ ]"
	if row.Done {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s %s %s", cursor, box, priorityBadge(row.Priority), row.Title)
	if row.Due != "" {
		due := "due:" + row.Due
		if row.Overdue {
			due = overdueStyle.Render(due)
		}
		line += " " + due
	}
	if row.Project != "" {
		line += " @" + row.Project
	}
	for _, l := range row.Labels {
		line += " #" + l
	}
	if row.Focused {
		line += " *"
	}
	if selected {
		return selectedStyle.Render(line)
	}
	if row.Done {
		return mutedStyle.Render(line)
	}
	return line
}

func RenderTaskDetail(data TaskDetailData) string {
	var b strings.Builder
	b.WriteString("overview:\n")
	b.WriteString(fmt.Sprintf("open: %d | inbox: %d | due today: %d\n", data.OpenCount, data.InboxCount, data.DueToday))
	b.WriteString(fmt.Sprintf("done today: %d/%d | completion: %d%%\n", data.DoneToday, data.DailyGoal, data.Completion))
	for _, line := range data.ProjectLines {
		b.WriteString("  " + line + "\n")
	}
	if strings.TrimSpace(data.ID) == "" {
		b.WriteString("\ndetail:\n(no selection)")
		return b.String()
	}
	b.WriteString("\ndetail:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.ID))
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	b.WriteString(fmt.Sprintf("priority: %s\n", data.Priority))
	if data.Due != "" {
		b.WriteString(fmt.Sprintf("due: %s\n", data.Due))
	}
	b.WriteString(fmt.Sprintf("project: %s\n", data.Project))
	if len(data.Labels) > 0 {
		b.WriteString(fmt.Sprintf("labels: %s\n", strings.Join(data.Labels, ", ")))
	}
	b.WriteString(fmt.Sprintf("created: %s\n", data.Created))
	if data.Description != "" {
		b.WriteString("\n" + data.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if !data.Active {
		b.WriteString("focus mode is off, press [f] to pin the next task\n")
	}
	if data.TaskTitle != "" {
		b.WriteString(fmt.Sprintf("task: %s %s\n", priorityBadge(data.TaskPriority), data.TaskTitle))
		if data.TaskDue != "" {
			b.WriteString(fmt.Sprintf("due: %s\n", data.TaskDue))
		}
	} else {
		b.WriteString("task: (nothing left to do)\n")
	}
	b.WriteString(fmt.Sprintf("phase: %s (%dm)\n", strings.ToUpper(data.Phase), data.DurationMin))
	timer := data.Timer
	if data.Running && data.Spinner != "" {
		timer = data.Spinner + " " + timer
	}
	b.WriteString(fmt.Sprintf("timer: %s\n", timer))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("sessions completed: %d\n", data.Sessions))
	b.WriteString("actions: [space]start/pause [r]reset [n]next-phase [+/-]length [x]done [s]skip [f]exit\n")
	if data.ShowEndNote {
		b.WriteString("prompt: break ready, press [space] to start it or [n] to skip")
	}
	return strings.TrimSpace(b.String())
}

func RenderStatsPanel(data StatsPanelData) string {
	var b strings.Builder
	b.WriteString("stats:\n")
	b.WriteString(fmt.Sprintf("level %d | %d/%d xp\n", data.Level, data.XP, data.NextLevelXP))
	b.WriteString(fmt.Sprintf("%s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("streak: %d day(s)\n", data.Streak))
	b.WriteString(fmt.Sprintf("today: %d/%d tasks\n", data.TasksToday, data.DailyGoal))
	b.WriteString(fmt.Sprintf("total: %d tasks | %d focus sessions | %d focus minutes\n", data.TotalTasks, data.FocusSessions, data.FocusMinutes))
	b.WriteString(fmt.Sprintf("completion rate: %d%%\n", data.CompletionRate))
	if data.Suggestion != "" {
		b.WriteString(fmt.Sprintf("up next: %s\n", data.Suggestion))
	}
	return strings.TrimSpace(b.String())
}

func RenderAchievements(items []AchievementData) string {
	var b strings.Builder
	unlocked := 0
	for _, a := range items {
		if a.Unlocked {
			unlocked++
		}
	}
	b.WriteString(fmt.Sprintf("achievements: %d/%d\n", unlocked, len(items)))
	for _, a := range items {
		if a.Unlocked {
			line := fmt.Sprintf("%s %s - %s", a.Icon, a.Name, a.Description)
			if a.UnlockedAt != "" {
				line += " (" + a.UnlockedAt + ")"
			}
			b.WriteString(unlockedStyle.Render(line) + "\n")
			continue
		}
		b.WriteString(mutedStyle.Render(fmt.Sprintf("   %s - %s [%d/%d]", a.Name, a.Description, a.Current, a.Requirement)) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command:\n" + inputView
}

func RenderNotification(level string, title string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s: %s", strings.ToUpper(level), title, body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
