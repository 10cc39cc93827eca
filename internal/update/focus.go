package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/flowstate/internal/config"
	"github.com/sandeepkv93/flowstate/internal/views"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.Focus.Running {
			m.stopFocusTimer()
			m.Status = StatusBar{Text: "focus paused"}
			return m, nil
		}
		if m.Focus.RemainingSec <= 0 {
			m.Focus.RemainingSec = m.currentFocusTotal()
		}
		m.Status = StatusBar{Text: "focus running"}
		return m, tea.Batch(m.startFocusTimer(), m.focusSpinner.Tick)
	case "r":
		m.stopFocusTimer()
		m.Focus.RemainingSec = m.currentFocusTotal()
		m.Status = StatusBar{Text: "focus reset"}
	case "n":
		m.advanceFocusPhase()
	case "+", "=":
		m.cycleFocusLength(1)
	case "-":
		m.cycleFocusLength(-1)
	case "x":
		pinned, ok := m.ws.Tasks.FocusTask()
		if !ok {
			m.Status = StatusBar{Text: "no focus task to complete", IsError: true}
			return m, nil
		}
		m.toggleComplete(pinned.ID)
	case "s":
		next, ok, err := m.ws.SkipFocusTask(m.ctx)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		if !ok {
			m.Status = StatusBar{Text: "nothing else to skip to"}
			return m, nil
		}
		m.Status = StatusBar{Text: "skipped to: " + next.Title}
	case "f":
		active, err := m.ws.ToggleFocusMode(m.ctx)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		if !active {
			m.stopFocusTimer()
			m.CurrentView = ViewTasks
			m.Status = StatusBar{Text: "focus mode off"}
		}
	}
	return m, nil
}

// startFocusTimer begins a new countdown chain. Any chain still in flight
// from an earlier start carries an old id and dies on its next tick.
func (m *Model) startFocusTimer() tea.Cmd {
	m.Focus.TickID++
	m.Focus.Running = true
	return focusTickCmd(m.Focus.TickID)
}

func (m *Model) stopFocusTimer() {
	m.Focus.TickID++
	m.Focus.Running = false
}

func (m Model) onFocusTick(msg FocusTickMsg) (tea.Model, tea.Cmd) {
	if !m.Focus.Running || msg.ID != m.Focus.TickID {
		return m, nil
	}
	if m.Focus.RemainingSec > 0 {
		m.Focus.RemainingSec--
	}
	if m.Focus.RemainingSec > 0 {
		return m, focusTickCmd(m.Focus.TickID)
	}
	m.stopFocusTimer()
	if m.Focus.Phase == FocusPhaseWork {
		m.finishWorkSession()
		return m, nil
	}
	m.Focus.Phase = FocusPhaseWork
	m.Focus.RemainingSec = m.Focus.WorkMinutes * 60
	m.Status = StatusBar{Text: "break complete; press space for the next focus block"}
	m.notify("Focus", "break over", "info")
	return m, nil
}

// finishWorkSession records a fully elapsed work block and moves to the
// break.
func (m *Model) finishWorkSession() {
	award, err := m.ws.CompleteFocusSession(m.ctx, m.Focus.WorkMinutes)
	m.Focus.Phase = FocusPhaseBreak
	m.Focus.RemainingSec = m.Focus.BreakMinutes * 60
	if err != nil {
		m.fail(err)
		return
	}
	m.Focus.SessionsCompleted++
	m.Status = StatusBar{Text: fmt.Sprintf("focus session complete (+%d xp); press space to start the break", award.XP)}
	m.notify("Focus", fmt.Sprintf("%d minute session done", m.Focus.WorkMinutes), "info")
	m.notifyAward(award)
}

// advanceFocusPhase skips the rest of the current phase without awarding.
func (m *Model) advanceFocusPhase() {
	m.stopFocusTimer()
	if m.Focus.Phase == FocusPhaseWork {
		m.Focus.Phase = FocusPhaseBreak
		m.Focus.RemainingSec = m.Focus.BreakMinutes * 60
		m.Status = StatusBar{Text: "break ready"}
		return
	}
	m.Focus.Phase = FocusPhaseWork
	m.Focus.RemainingSec = m.Focus.WorkMinutes * 60
	m.Status = StatusBar{Text: "focus block ready"}
}

// cycleFocusLength steps through the selectable session lengths. The
// length is locked while a work block is running.
func (m *Model) cycleFocusLength(step int) {
	if m.Focus.Running && m.Focus.Phase == FocusPhaseWork {
		m.Status = StatusBar{Text: "pause the timer to change its length", IsError: true}
		return
	}
	idx := 0
	for i, d := range config.FocusDurations {
		if d == m.Focus.WorkMinutes {
			idx = i
		}
	}
	n := len(config.FocusDurations)
	idx = ((idx+step)%n + n) % n
	m.setFocusLength(config.FocusDurations[idx])
}

func (m *Model) setFocusLength(minutes int) {
	m.Focus.WorkMinutes = minutes
	if m.Focus.Phase == FocusPhaseWork {
		m.stopFocusTimer()
		m.Focus.RemainingSec = minutes * 60
	}
	m.Status = StatusBar{Text: fmt.Sprintf("focus length: %dm", minutes)}
}

// bootstrapFocusMode turns focus mode on when entering the focus view so a
// task is pinned.
func (m *Model) bootstrapFocusMode() {
	if m.ws.Tasks.FocusMode() {
		return
	}
	if _, err := m.ws.ToggleFocusMode(m.ctx); err != nil {
		m.fail(err)
	}
}

func (m Model) currentFocusTotal() int {
	if m.Focus.Phase == FocusPhaseBreak {
		return m.Focus.BreakMinutes * 60
	}
	return m.Focus.WorkMinutes * 60
}

func (m Model) renderFocusView() string {
	total := m.currentFocusTotal()
	pct := 0.0
	if total > 0 {
		pct = float64(total-m.Focus.RemainingSec) / float64(total)
	}
	data := views.FocusPanelData{
		Active:       m.ws.Tasks.FocusMode(),
		Phase:        string(m.Focus.Phase),
		Timer:        formatDuration(m.Focus.RemainingSec),
		Running:      m.Focus.Running,
		Spinner:      m.focusSpinner.View(),
		DurationMin:  total / 60,
		ProgressView: m.focusProgress.ViewAs(pct),
		ProgressPct:  int(pct * 100),
		Sessions:     m.ws.Progress.State().FocusSessionsCompleted,
		ShowEndNote:  !m.Focus.Running && m.Focus.Phase == FocusPhaseBreak && m.Focus.RemainingSec == total,
	}
	if t, ok := m.ws.Tasks.FocusTask(); ok {
		data.TaskTitle = t.Title
		data.TaskPriority = string(t.Priority)
		data.TaskDue = formatDue(t.DueAt, m.ws.Now())
	}
	return views.RenderFocusPanel(data)
}

func focusTickCmd(id int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{ID: id} })
}
