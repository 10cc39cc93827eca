package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/flowstate/internal/scheduler"
)

const maxAlertLog = 20

func waitForAlertCmd(ch <-chan scheduler.DueAlert) tea.Cmd {
	return func() tea.Msg {
		alert, ok := <-ch
		if !ok {
			return nil
		}
		return DueAlertMsg{Alert: alert}
	}
}

func alertKey(a scheduler.DueAlert) string {
	return a.TaskID + "@" + a.DueAt.Format("2006-01-02T15:04")
}

// replanAlerts rebuilds the pending alert set from the task collection.
// Alerts already delivered for the same task and due time are left out.
func (m *Model) replanAlerts() {
	if m.Scheduler == nil || !m.dueAlerts {
		return
	}
	planned := scheduler.Plan(m.ws.Tasks.Tasks(), m.ws.Now())
	pending := planned[:0]
	for _, a := range planned {
		if !m.alerted[alertKey(a)] {
			pending = append(pending, a)
		}
	}
	if err := m.Scheduler.Replace(pending); err != nil {
		m.log.Warn("replan due alerts failed", "err", err)
	}
}

func (m *Model) applyDueAlert(a scheduler.DueAlert) {
	t, ok := m.ws.Tasks.Task(a.TaskID)
	if !ok || t.Completed || m.alerted[alertKey(a)] {
		return
	}
	m.alerted[alertKey(a)] = true
	m.AlertLog = append(m.AlertLog, a)
	if len(m.AlertLog) > maxAlertLog {
		m.AlertLog = m.AlertLog[len(m.AlertLog)-maxAlertLog:]
	}
	var body string
	switch a.Kind {
	case scheduler.AlertDueNow:
		body = fmt.Sprintf("%s is due now", t.Title)
	default:
		body = fmt.Sprintf("%s is due today at %s", t.Title, a.DueAt.Format("15:04"))
	}
	m.Status = StatusBar{Text: body}
	m.notify("Due", body, "warn")
}

func (m Model) renderAlertLog() string {
	if len(m.AlertLog) == 0 {
		return "alerts:\n(none yet)"
	}
	var b strings.Builder
	b.WriteString("alerts:\n")
	for i := len(m.AlertLog) - 1; i >= 0; i-- {
		a := m.AlertLog[i]
		b.WriteString(fmt.Sprintf("- %s %s\n", a.FireAt.Format("15:04"), a.Title))
	}
	return strings.TrimSpace(b.String())
}
