package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/flowstate/internal/commands"
	"github.com/sandeepkv93/flowstate/internal/config"
	"github.com/sandeepkv93/flowstate/internal/model"
	"github.com/sandeepkv93/flowstate/internal/tasks"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.closePalette()
		return m
	}

	res, err := commands.Execute(cmd, m.paletteHandlers())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	m.closePalette()
	m.clampCursor()
	return m
}

// paletteHandlers binds the palette grammar to workspace operations. The
// closures share m, so view and focus changes made by a handler stick.
func (m *Model) paletteHandlers() commands.Handlers {
	ctx := m.ctx
	ws := m.ws
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := ws.AddFromText(ctx, a.Text, m.addDefaults())
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewTasks
			m.replanAlerts()
			m.selectTask(task.ID)
			return commands.Result{Message: "added: " + describeTask(task)}, nil
		},
		Done: func(d commands.DoneArgs) (commands.Result, error) {
			var target model.Task
			if d.Target == "focus" {
				pinned, ok := ws.Tasks.FocusTask()
				if !ok {
					return commands.Result{}, notFound("no focus task pinned")
				}
				target = pinned
			} else {
				t, err := ws.Tasks.FindByPrefix(d.Target)
				if err != nil {
					return commands.Result{}, err
				}
				target = t
			}
			m.toggleComplete(target.ID)
			if m.Status.IsError {
				return commands.Result{}, m.LastError
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Skip: func(commands.SkipArgs) (commands.Result, error) {
			if !ws.Tasks.FocusMode() {
				return commands.Result{}, notFound("focus mode is off")
			}
			next, ok, err := ws.SkipFocusTask(ctx)
			if err != nil {
				return commands.Result{}, err
			}
			if !ok {
				return commands.Result{Message: "nothing else to skip to"}, nil
			}
			return commands.Result{Message: "skipped to: " + next.Title}, nil
		},
		Project: func(p commands.ProjectArgs) (commands.Result, error) {
			switch p.Action {
			case commands.ActionAdd:
				created, err := ws.AddProject(ctx, tasks.NewProject{Name: p.Name, Color: p.Color})
				if err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "project added: " + created.Name}, nil
			case commands.ActionDelete:
				proj, ok := ws.Tasks.ProjectByName(p.Name)
				if !ok {
					return commands.Result{}, notFound("unknown project %q", p.Name)
				}
				if err := ws.DeleteProject(ctx, proj.ID); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "project deleted: " + proj.Name + " (tasks moved to Inbox)"}, nil
			default:
				id, err := m.resolveProjectFilter(p.Name)
				if err != nil {
					return commands.Result{}, err
				}
				if err := ws.SetProjectFilter(ctx, id); err != nil {
					return commands.Result{}, err
				}
				m.CurrentView = ViewTasks
				return commands.Result{Message: "filter: " + m.filterLine()}, nil
			}
		},
		Label: func(l commands.LabelArgs) (commands.Result, error) {
			switch l.Action {
			case commands.ActionAdd:
				created, err := ws.AddLabel(ctx, tasks.NewLabel{Name: l.Name, Color: l.Color})
				if err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "label added: " + created.Name}, nil
			case commands.ActionDelete:
				label, ok := ws.Tasks.LabelByName(l.Name)
				if !ok {
					return commands.Result{}, notFound("unknown label %q", l.Name)
				}
				if err := ws.DeleteLabel(ctx, label.ID); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "label deleted: " + label.Name}, nil
			default:
				label, ok := ws.Tasks.LabelByName(l.Name)
				if !ok {
					return commands.Result{}, notFound("unknown label %q", l.Name)
				}
				if err := ws.SetLabelFilter(ctx, label.ID); err != nil {
					return commands.Result{}, err
				}
				m.CurrentView = ViewTasks
				return commands.Result{Message: "filter: " + m.filterLine()}, nil
			}
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			if f.Project != "" {
				id := ""
				if f.Project != "all" {
					resolved, err := m.resolveProjectFilter(f.Project)
					if err != nil {
						return commands.Result{}, err
					}
					id = resolved
				}
				if err := ws.SetProjectFilter(ctx, id); err != nil {
					return commands.Result{}, err
				}
			}
			if f.Label != "" {
				id := ""
				if f.Label != "all" {
					label, ok := ws.Tasks.LabelByName(f.Label)
					if !ok {
						return commands.Result{}, notFound("unknown label %q", f.Label)
					}
					id = label.ID
				}
				if err := ws.SetLabelFilter(ctx, id); err != nil {
					return commands.Result{}, err
				}
			}
			m.CurrentView = ViewTasks
			return commands.Result{Message: "filter: " + m.filterLine()}, nil
		},
		Search: func(s commands.SearchArgs) (commands.Result, error) {
			if err := ws.SetSearchQuery(ctx, s.Query); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewTasks
			if s.Query == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("search: %q", s.Query)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			if err := ws.SetShowCompleted(ctx, s.Completed); err != nil {
				return commands.Result{}, err
			}
			if s.Completed {
				return commands.Result{Message: "showing completed tasks"}, nil
			}
			return commands.Result{Message: "hiding completed tasks"}, nil
		},
		Focus: func(f commands.FocusArgs) (commands.Result, error) {
			if f.Minutes > 0 {
				if !config.ValidFocusMinutes(f.Minutes) {
					return commands.Result{}, &commands.CommandError{
						Code:    commands.ErrCodeInvalidArgument,
						Message: fmt.Sprintf("focus length must be one of %v minutes", config.FocusDurations),
					}
				}
				m.Focus.Phase = FocusPhaseWork
				m.setFocusLength(f.Minutes)
				m.CurrentView = ViewFocus
				m.bootstrapFocusMode()
				return commands.Result{Message: fmt.Sprintf("focus length: %dm", f.Minutes)}, nil
			}
			active, err := ws.ToggleFocusMode(ctx)
			if err != nil {
				return commands.Result{}, err
			}
			if !active {
				m.stopFocusTimer()
				return commands.Result{Message: "focus mode off"}, nil
			}
			m.CurrentView = ViewFocus
			if t, ok := ws.Tasks.FocusTask(); ok {
				return commands.Result{Message: "focusing on: " + t.Title}, nil
			}
			return commands.Result{Message: "focus mode on, nothing to do"}, nil
		},
		Clear: func(commands.ClearArgs) (commands.Result, error) {
			if err := ws.ClearFilters(ctx); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "filters cleared"}, nil
		},
	}
}

// resolveProjectFilter maps a palette project name to a filter id,
// including the today and inbox pseudo filters.
func (m Model) resolveProjectFilter(name string) (string, error) {
	switch strings.ToLower(name) {
	case tasks.FilterToday:
		return tasks.FilterToday, nil
	case model.InboxProjectID:
		return model.InboxProjectID, nil
	}
	p, ok := m.ws.Tasks.ProjectByName(name)
	if !ok {
		return "", notFound("unknown project %q", name)
	}
	return p.ID, nil
}

func notFound(format string, args ...any) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}
