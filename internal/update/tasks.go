package update

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/flowstate/internal/clock"
	"github.com/sandeepkv93/flowstate/internal/model"
	"github.com/sandeepkv93/flowstate/internal/tasks"
	"github.com/sandeepkv93/flowstate/internal/views"
)

func (m Model) handleTasksKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	items := m.visibleTasks()
	switch msg.String() {
	case "up", "k":
		if m.Tasks.Cursor > 0 {
			m.Tasks.Cursor--
		}
	case "down", "j":
		if m.Tasks.Cursor < len(items)-1 {
			m.Tasks.Cursor++
		}
	case "a":
		m.Tasks.Adding = true
		m.quickAddInput.SetValue("")
		m.quickAddInput.Focus()
		m.Status = StatusBar{Text: "quick add: type a task, enter to save, esc to cancel"}
	case " ", "x":
		if t, ok := m.selectedTask(); ok {
			m.toggleComplete(t.ID)
		}
	case "d":
		if t, ok := m.selectedTask(); ok {
			if _, err := m.ws.DeleteTask(m.ctx, t.ID); err != nil {
				m.fail(err)
				break
			}
			m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", t.Title)}
			m.replanAlerts()
		}
	case "c":
		show := !m.ws.Tasks.Filter().ShowCompleted
		if err := m.ws.SetShowCompleted(m.ctx, show); err != nil {
			m.fail(err)
			break
		}
		if show {
			m.Status = StatusBar{Text: "showing completed tasks"}
		} else {
			m.Status = StatusBar{Text: "hiding completed tasks"}
		}
	case "f":
		active, err := m.ws.ToggleFocusMode(m.ctx)
		if err != nil {
			m.fail(err)
			break
		}
		if active {
			m.CurrentView = ViewFocus
			m.Status = StatusBar{Text: "focus mode on"}
		} else {
			m.Status = StatusBar{Text: "focus mode off"}
		}
	case "enter":
		t, ok := m.selectedTask()
		if !ok || t.Completed {
			break
		}
		if !m.ws.Tasks.FocusMode() {
			if _, err := m.ws.ToggleFocusMode(m.ctx); err != nil {
				m.fail(err)
				break
			}
		}
		if err := m.ws.SetFocusTask(m.ctx, t.ID); err != nil {
			m.fail(err)
			break
		}
		m.CurrentView = ViewFocus
		m.Status = StatusBar{Text: fmt.Sprintf("focusing on: %s", t.Title)}
	}
	m.clampCursor()
	return m, nil
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Tasks.Adding = false
		m.quickAddInput.SetValue("")
		m.quickAddInput.Blur()
		m.Status = StatusBar{Text: "quick add cancelled"}
	case "enter":
		text := strings.TrimSpace(m.quickAddInput.Value())
		m.Tasks.Adding = false
		m.quickAddInput.SetValue("")
		m.quickAddInput.Blur()
		if text == "" {
			m.Status = StatusBar{Text: "quick add cancelled"}
			return m
		}
		task, err := m.ws.AddFromText(m.ctx, text, m.addDefaults())
		if err != nil {
			m.fail(err)
			return m
		}
		m.Status = StatusBar{Text: "added: " + describeTask(task)}
		m.replanAlerts()
		m.selectTask(task.ID)
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.quickAddInput.SetValue(m.quickAddInput.Value() + string(msg.Runes))
			return m
		}
		var cmd tea.Cmd
		m.quickAddInput, cmd = m.quickAddInput.Update(msg)
		_ = cmd
	}
	return m
}

// addDefaults files new tasks under the project currently filtered on.
func (m Model) addDefaults() tasks.NewTask {
	var in tasks.NewTask
	f := m.ws.Tasks.Filter()
	if f.ProjectID != "" && f.ProjectID != tasks.FilterToday {
		in.ProjectID = f.ProjectID
	}
	if f.LabelID != "" {
		in.Labels = []string{f.LabelID}
	}
	return in
}

// toggleComplete flips a task and surfaces any award it earned.
func (m *Model) toggleComplete(id string) {
	res, err := m.ws.ToggleComplete(m.ctx, id)
	if err != nil {
		m.fail(err)
		return
	}
	m.replanAlerts()
	if !res.Completed {
		m.Status = StatusBar{Text: "reopened: " + res.Task.Title}
		return
	}
	m.Status = StatusBar{Text: fmt.Sprintf("completed: %s (+%d xp)", res.Task.Title, res.Award.XP)}
	m.notifyAward(*res.Award)
}

func (m Model) visibleTasks() []model.Task {
	return m.ws.Tasks.Query(m.ws.Now()).Flatten()
}

func (m Model) selectedTask() (model.Task, bool) {
	items := m.visibleTasks()
	if m.Tasks.Cursor < 0 || m.Tasks.Cursor >= len(items) {
		return model.Task{}, false
	}
	return items[m.Tasks.Cursor], true
}

func (m *Model) selectTask(id string) {
	for i, t := range m.visibleTasks() {
		if t.ID == id {
			m.Tasks.Cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.visibleTasks())
	if m.Tasks.Cursor >= n {
		m.Tasks.Cursor = n - 1
	}
	if m.Tasks.Cursor < 0 {
		m.Tasks.Cursor = 0
	}
}

func (m Model) renderTasksView() string {
	now := m.ws.Now()
	selected, _ := m.selectedTask()
	pinned, _ := m.ws.Tasks.FocusTask()
	var sections []views.SectionData
	for _, sec := range m.ws.Tasks.Query(now).Sections() {
		rows := make([]views.TaskRowData, 0, len(sec.Tasks))
		for _, t := range sec.Tasks {
			rows = append(rows, m.taskRow(t, sec.Bucket == tasks.BucketOverdue, pinned.ID))
		}
		sections = append(sections, views.SectionData{Title: string(sec.Bucket), Rows: rows})
	}
	return views.RenderTasksPanel(views.TasksPanelData{
		FilterLine:   m.filterLine(),
		QuickAddView: m.quickAddInput.View(),
		Adding:       m.Tasks.Adding,
		Sections:     sections,
		SelectedID:   selected.ID,
	})
}

func (m Model) taskRow(t model.Task, overdue bool, pinnedID string) views.TaskRowData {
	row := views.TaskRowData{
		ID:       t.ID,
		Title:    t.Title,
		Priority: string(t.Priority),
		Due:      formatDue(t.DueAt, m.ws.Now()),
		Overdue:  overdue,
		Done:     t.Completed,
		Focused:  t.ID == pinnedID,
	}
	if !t.InInbox() {
		if p, ok := m.ws.Tasks.Project(t.ProjectID); ok {
			row.Project = p.Name
		}
	}
	for _, id := range t.Labels {
		if l, ok := m.ws.Tasks.Label(id); ok {
			row.Labels = append(row.Labels, l.Name)
		}
	}
	return row
}

func (m Model) filterLine() string {
	f := m.ws.Tasks.Filter()
	var parts []string
	switch f.ProjectID {
	case "":
	case tasks.FilterToday:
		parts = append(parts, "project: today")
	default:
		name := f.ProjectID
		if p, ok := m.ws.Tasks.Project(f.ProjectID); ok {
			name = p.Name
		}
		parts = append(parts, "project: "+name)
	}
	if f.LabelID != "" {
		name := f.LabelID
		if l, ok := m.ws.Tasks.Label(f.LabelID); ok {
			name = l.Name
		}
		parts = append(parts, "label: "+name)
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", f.Search))
	}
	if f.ShowCompleted {
		parts = append(parts, "showing completed")
	}
	if len(parts) == 0 {
		return "all tasks"
	}
	return strings.Join(parts, " | ")
}

func (m Model) renderDetailPane() string {
	now := m.ws.Now()
	counts := m.ws.Tasks.Counts(now)
	data := views.TaskDetailData{
		OpenCount:  counts.Open,
		InboxCount: counts.Inbox,
		DueToday:   counts.DueToday,
		DoneToday:  m.tasksCompletedToday(),
		DailyGoal:  m.cfg.DailyGoal,
		Completion: counts.CompletionRate,
	}
	ids := make([]string, 0, len(counts.ByProject))
	for id := range counts.ByProject {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		name := id
		if p, ok := m.ws.Tasks.Project(id); ok {
			name = p.Name
		}
		data.ProjectLines = append(data.ProjectLines, fmt.Sprintf("%s: %d", name, counts.ByProject[id]))
	}

	if t, ok := m.selectedTask(); ok {
		row := m.taskRow(t, false, "")
		data.ID = t.ID
		data.Title = t.Title
		data.Priority = string(t.Priority)
		data.Due = row.Due
		data.Project = "Inbox"
		if row.Project != "" {
			data.Project = row.Project
		}
		data.Labels = row.Labels
		data.Created = t.CreatedAt.Format("2006-01-02 15:04")
		if t.Description != "" {
			vp := m.detailViewport
			vp.SetContent(views.RenderMarkdown(t.Description, vp.Width))
			data.Description = vp.View()
		}
	}
	return views.RenderTaskDetail(data)
}

// tasksCompletedToday reads the daily counter, which only counts for the
// calendar day it was last written on.
func (m Model) tasksCompletedToday() int {
	st := m.ws.Progress.State()
	if st.LastCompletedDate != clock.DateKey(m.ws.Now()) {
		return 0
	}
	return st.TasksCompletedToday
}
