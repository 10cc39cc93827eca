package update

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/flowstate/internal/config"
	"github.com/sandeepkv93/flowstate/internal/model"
	"github.com/sandeepkv93/flowstate/internal/progress"
	"github.com/sandeepkv93/flowstate/internal/scheduler"
	"github.com/sandeepkv93/flowstate/internal/storage"
	"github.com/sandeepkv93/flowstate/internal/tasks"
	"github.com/sandeepkv93/flowstate/internal/workspace"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

func newTestModel(t *testing.T) Model {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	ws, err := workspace.Open(t.Context(), store, workspace.WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	return NewModel(t.Context(), ws, cfg)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runPalette(t *testing.T, m Model, line string) Model {
	t.Helper()
	return press(t, m, "/", line, "enter")
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected default view %q, got %q", ViewTasks, m.CurrentView)
	}
	if m.Focus.WorkMinutes != 25 || m.Focus.RemainingSec != 25*60 || m.Focus.Phase != FocusPhaseWork {
		t.Fatalf("unexpected focus defaults: %+v", m.Focus)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.ws.AddTask(t.Context(), tasks.NewTask{Title: "write report"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	m = press(t, m, "2")
	if m.CurrentView != ViewFocus {
		t.Fatalf("expected focus view, got %q", m.CurrentView)
	}
	if pinned, ok := m.ws.Tasks.FocusTask(); !ok || pinned.Title != "write report" {
		t.Fatalf("expected focus mode to pin the next task, got %#v", pinned)
	}
	m = press(t, m, "3")
	if m.CurrentView != ViewStats {
		t.Fatalf("expected stats view, got %q", m.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SwitchViewMsg{View: ViewStats})
	next := updated.(Model)
	if next.CurrentView != ViewStats {
		t.Fatalf("expected stats view, got %q", next.CurrentView)
	}
	updated, _ = next.Update(SwitchViewMsg{View: View("Calendar")})
	next = updated.(Model)
	if next.CurrentView != ViewStats {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" || !next.Status.IsError {
		t.Fatalf("unexpected error state: %v %+v", next.LastError, next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestQuickAddUsesExtractor(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a", "Call mom tomorrow !high", "enter")
	if m.Tasks.Adding {
		t.Fatalf("expected quick add to close after enter")
	}
	all := m.ws.Tasks.Tasks()
	if len(all) != 1 {
		t.Fatalf("expected one task, got %d", len(all))
	}
	got := all[0]
	if got.Title != "Call mom" || got.Priority != model.PriorityHigh || got.DueAt == nil {
		t.Fatalf("unexpected task: %#v", got)
	}
	if want := time.Date(2026, 3, 11, 0, 0, 0, 0, time.Local); !got.DueAt.Equal(want) {
		t.Fatalf("due = %v, want %v", got.DueAt, want)
	}

	m = press(t, m, "a", "never mind", "esc")
	if len(m.ws.Tasks.Tasks()) != 1 {
		t.Fatalf("esc must not add a task")
	}
}

func TestCompleteFromTasksViewAwardsXP(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.ws.AddTask(t.Context(), tasks.NewTask{Title: "ship it"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	m = press(t, m, "x")
	st := m.ws.Progress.State()
	if st.TotalTasksCompleted != 1 || st.XP != progress.XPPerTask+2 {
		t.Fatalf("unexpected progression after completion: %#v", st)
	}
	if !strings.Contains(m.Status.Text, "completed: ship it") {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}
	last := m.Notifications[len(m.Notifications)-1]
	if last.Title != "Achievement unlocked" || last.Body == "" {
		t.Fatalf("expected achievement toast, got %+v", last)
	}

	// Completed tasks drop out of the list, so the cursor has nothing to toggle.
	m = press(t, m, "x")
	if m.ws.Progress.State().TotalTasksCompleted != 1 {
		t.Fatalf("expected no further completions")
	}
}

func TestFocusSessionCompletesAtZero(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "2", " ")
	if !m.Focus.Running {
		t.Fatalf("expected timer running")
	}
	m.Focus.RemainingSec = 2
	updated, cmd := m.Update(FocusTickMsg{ID: m.Focus.TickID})
	m = updated.(Model)
	if cmd == nil || m.Focus.RemainingSec != 1 {
		t.Fatalf("expected another tick scheduled, remaining=%d", m.Focus.RemainingSec)
	}
	updated, _ = m.Update(FocusTickMsg{ID: m.Focus.TickID})
	m = updated.(Model)

	st := m.ws.Progress.State()
	if st.FocusSessionsCompleted != 1 || st.TotalFocusMinutes != 25 || st.XP != 25*progress.XPPerFocusMinute {
		t.Fatalf("unexpected focus progression: %#v", st)
	}
	if m.Focus.Phase != FocusPhaseBreak || m.Focus.Running || m.Focus.RemainingSec != 5*60 {
		t.Fatalf("expected break ready, got %+v", m.Focus)
	}
}

func TestFocusPauseResumeDropsStaleTicks(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "2", " ")
	first := m.Focus.TickID
	m = press(t, m, " ", " ")
	if !m.Focus.Running || m.Focus.TickID == first {
		t.Fatalf("expected a fresh running chain, got %+v", m.Focus)
	}
	before := m.Focus.RemainingSec

	updated, cmd := m.Update(FocusTickMsg{ID: first})
	m = updated.(Model)
	if cmd != nil || m.Focus.RemainingSec != before {
		t.Fatalf("stale tick advanced the timer: remaining=%d want %d", m.Focus.RemainingSec, before)
	}

	updated, cmd = m.Update(FocusTickMsg{ID: m.Focus.TickID})
	m = updated.(Model)
	if cmd == nil || m.Focus.RemainingSec != before-1 {
		t.Fatalf("live tick should advance once, remaining=%d want %d", m.Focus.RemainingSec, before-1)
	}
}

func TestFocusResetInvalidatesRunningChain(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "2", " ")
	live := m.Focus.TickID
	m = press(t, m, "r")
	m.Focus.Running = true // resumed state without a new chain
	updated, cmd := m.Update(FocusTickMsg{ID: live})
	m = updated.(Model)
	if cmd != nil || m.Focus.RemainingSec != 25*60 {
		t.Fatalf("tick from before reset should be dropped, got %+v", m.Focus)
	}
}

func TestFocusLengthCyclesThroughDurations(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "2", "+")
	if m.Focus.WorkMinutes != 45 || m.Focus.RemainingSec != 45*60 {
		t.Fatalf("expected 45m, got %+v", m.Focus)
	}
	m = press(t, m, "+", "+")
	if m.Focus.WorkMinutes != 15 {
		t.Fatalf("expected wrap to 15m, got %d", m.Focus.WorkMinutes)
	}
	m = press(t, m, "-")
	if m.Focus.WorkMinutes != 60 {
		t.Fatalf("expected wrap back to 60m, got %d", m.Focus.WorkMinutes)
	}
}

func TestFocusViewCompleteAndSkip(t *testing.T) {
	m := newTestModel(t)
	ctx := t.Context()
	first, _ := m.ws.AddTask(ctx, tasks.NewTask{Title: "first", Priority: model.PriorityUrgent})
	second, _ := m.ws.AddTask(ctx, tasks.NewTask{Title: "second"})
	third, _ := m.ws.AddTask(ctx, tasks.NewTask{Title: "third", Priority: model.PriorityLow})

	m = press(t, m, "2")
	if pinned, _ := m.ws.Tasks.FocusTask(); pinned.ID != first.ID {
		t.Fatalf("expected urgent task pinned, got %q", pinned.Title)
	}
	m = press(t, m, "x")
	if pinned, _ := m.ws.Tasks.FocusTask(); pinned.ID != second.ID {
		t.Fatalf("expected pin to advance to second, got %q", pinned.Title)
	}
	m = press(t, m, "s")
	if pinned, _ := m.ws.Tasks.FocusTask(); pinned.ID != third.ID {
		t.Fatalf("expected skip to move to third, got %q", pinned.Title)
	}
	m = press(t, m, "f")
	if m.ws.Tasks.FocusMode() || m.CurrentView != ViewTasks {
		t.Fatalf("expected focus mode off and tasks view")
	}
}

func TestPaletteProjectFilterAndAdd(t *testing.T) {
	m := newTestModel(t)
	m = runPalette(t, m, "project add Work #22c55e")
	if m.Status.IsError {
		t.Fatalf("project add failed: %s", m.Status.Text)
	}
	work, ok := m.ws.Tasks.ProjectByName("work")
	if !ok || work.Color != "#22c55e" {
		t.Fatalf("expected project created, got %#v", work)
	}

	m = runPalette(t, m, "filter project:work")
	if m.ws.Tasks.Filter().ProjectID != work.ID {
		t.Fatalf("expected project filter set, got %#v", m.ws.Tasks.Filter())
	}

	m = runPalette(t, m, "add quarterly report in 3 days !!")
	all := m.ws.Tasks.Tasks()
	if len(all) != 1 || all[0].ProjectID != work.ID || all[0].Priority != model.PriorityUrgent {
		t.Fatalf("expected task filed under filtered project, got %#v", all)
	}

	m = runPalette(t, m, "filter today")
	if m.ws.Tasks.Filter().ProjectID != tasks.FilterToday {
		t.Fatalf("expected today pseudo filter")
	}
	m = runPalette(t, m, "filter all")
	if f := m.ws.Tasks.Filter(); f.ProjectID != "" || f.LabelID != "" {
		t.Fatalf("expected filters cleared, got %#v", f)
	}

	m = runPalette(t, m, "project rm work")
	if _, ok := m.ws.Tasks.ProjectByName("work"); ok {
		t.Fatalf("expected project deleted")
	}
	if got := m.ws.Tasks.Tasks()[0]; !got.InInbox() {
		t.Fatalf("expected orphaned task moved to inbox, got %q", got.ProjectID)
	}
	m = runPalette(t, m, "project rm inbox")
	if !m.Status.IsError {
		t.Fatalf("expected inbox deletion to be refused")
	}
}

func TestPaletteDoneSearchAndErrors(t *testing.T) {
	m := newTestModel(t)
	task, _ := m.ws.AddTask(t.Context(), tasks.NewTask{Title: "Renew passport"})

	m = runPalette(t, m, "search passport")
	if m.ws.Tasks.Filter().Search != "passport" {
		t.Fatalf("expected search stored")
	}
	m = runPalette(t, m, "done "+task.ID[:6])
	if got, _ := m.ws.Tasks.Task(task.ID); !got.Completed {
		t.Fatalf("expected task completed via palette")
	}
	m = runPalette(t, m, "show completed")
	if !m.ws.Tasks.Filter().ShowCompleted {
		t.Fatalf("expected completed visible")
	}
	m = runPalette(t, m, "clear")
	if f := m.ws.Tasks.Filter(); f.Search != "" || !f.ShowCompleted {
		t.Fatalf("clear should drop search and keep completed visibility, got %#v", f)
	}

	m = runPalette(t, m, "teleport home")
	if !m.Status.IsError || m.Palette.Active {
		t.Fatalf("expected unknown command error with palette closed, got %+v", m.Status)
	}
	m = runPalette(t, m, "focus 20")
	if !m.Status.IsError {
		t.Fatalf("expected unsupported focus length rejected")
	}
	m = runPalette(t, m, "focus 45")
	if m.Status.IsError || m.Focus.WorkMinutes != 45 || m.CurrentView != ViewFocus {
		t.Fatalf("expected 45 minute focus, got %+v status=%+v", m.Focus, m.Status)
	}
}

func TestDueAlertsSurfaceOnce(t *testing.T) {
	m := newTestModel(t)
	due := testNow.Add(-time.Hour)
	task, _ := m.ws.AddTask(t.Context(), tasks.NewTask{Title: "standup notes", DueAt: &due})
	alert := scheduler.DueAlert{TaskID: task.ID, Title: task.Title, DueAt: due, FireAt: testNow, Kind: scheduler.AlertDueToday}

	updated, _ := m.Update(DueAlertMsg{Alert: alert})
	m = updated.(Model)
	if len(m.AlertLog) != 1 || !strings.Contains(m.Status.Text, "standup notes") {
		t.Fatalf("expected alert surfaced, log=%d status=%q", len(m.AlertLog), m.Status.Text)
	}
	updated, _ = m.Update(DueAlertMsg{Alert: alert})
	m = updated.(Model)
	if len(m.AlertLog) != 1 {
		t.Fatalf("expected duplicate alert ignored")
	}
}

func TestReplanSkipsDeliveredAlerts(t *testing.T) {
	m := newTestModel(t)
	engine := scheduler.NewEngine(4)
	later := testNow.Add(3 * time.Hour)
	earlier := testNow.Add(-time.Hour)
	if _, err := m.ws.AddTask(t.Context(), tasks.NewTask{Title: "later", DueAt: &later}); err != nil {
		t.Fatalf("add: %v", err)
	}
	earlierTask, _ := m.ws.AddTask(t.Context(), tasks.NewTask{Title: "earlier", DueAt: &earlier})

	m = m.WithScheduler(engine)
	if engine.Pending() != 2 {
		t.Fatalf("expected 2 pending alerts, got %d", engine.Pending())
	}
	m.applyDueAlert(scheduler.DueAlert{TaskID: earlierTask.ID, Title: "earlier", DueAt: earlier, FireAt: testNow, Kind: scheduler.AlertDueToday})
	m.replanAlerts()
	if engine.Pending() != 1 {
		t.Fatalf("expected delivered alert left out, got %d pending", engine.Pending())
	}
}

func TestViewRendersEachScreen(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.ws.AddTask(t.Context(), tasks.NewTask{Title: "Draft *launch* notes", Description: "## Plan\n- outline"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	out := m.View()
	if !strings.Contains(out, "tasks:") || !strings.Contains(out, "No due date") || !strings.Contains(out, "Draft *launch* notes") {
		t.Fatalf("tasks view missing content:\n%s", out)
	}
	m = press(t, m, "2")
	if out := m.View(); !strings.Contains(out, "focus:") || !strings.Contains(out, "25:00") {
		t.Fatalf("focus view missing content:\n%s", out)
	}
	m = press(t, m, "3")
	if out := m.View(); !strings.Contains(out, "stats:") || !strings.Contains(out, "achievements: 0/12") {
		t.Fatalf("stats view missing content:\n%s", out)
	}
	m = press(t, m, "?")
	if out := m.View(); !strings.Contains(out, "help:") {
		t.Fatalf("expected help panel:\n%s", out)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatalf("expected quit")
	}
}
