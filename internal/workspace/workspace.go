// Package workspace binds the task store and the progression engine to a
// snapshot store. State is loaded once on Open and written through after
// every mutation. It is the one place where completing a task and awarding
// XP for it happen together.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sandeepkv93/flowstate/internal/clock"
	"github.com/sandeepkv93/flowstate/internal/logging"
	"github.com/sandeepkv93/flowstate/internal/model"
	"github.com/sandeepkv93/flowstate/internal/nlp"
	"github.com/sandeepkv93/flowstate/internal/progress"
	"github.com/sandeepkv93/flowstate/internal/storage"
	"github.com/sandeepkv93/flowstate/internal/tasks"
)

type Workspace struct {
	Tasks    *tasks.Store
	Progress *progress.Engine

	store storage.SnapshotStore
	log   *slog.Logger
	now   clock.Clock
	newID func() string
}

type Option func(*Workspace)

func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.log = l
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(w *Workspace) {
		if c != nil {
			w.now = c
		}
	}
}

// WithIDGenerator overrides task, project and label ids.
func WithIDGenerator(gen func() string) Option {
	return func(w *Workspace) { w.newID = gen }
}

// Open restores both snapshots from store, treating missing slots as a first
// run, and runs the once-per-session streak check.
func Open(ctx context.Context, store storage.SnapshotStore, opts ...Option) (*Workspace, error) {
	if store == nil {
		return nil, errors.New("workspace: nil snapshot store")
	}
	w := &Workspace{store: store, log: logging.Discard(), now: clock.System}
	for _, opt := range opts {
		opt(w)
	}
	w.Tasks = tasks.New(tasks.WithClock(w.now), tasks.WithIDGenerator(w.newID))
	w.Progress = progress.New(progress.WithClock(w.now))

	var snap tasks.Snapshot
	switch err := store.Load(ctx, tasks.SnapshotKey, &snap); {
	case err == nil:
		w.Tasks.Restore(snap)
	case errors.Is(err, storage.ErrNotFound):
		w.log.Info("no task snapshot, starting empty")
	default:
		return nil, fmt.Errorf("load %s: %w", tasks.SnapshotKey, err)
	}

	state := progress.DefaultState()
	switch err := store.Load(ctx, progress.SnapshotKey, &state); {
	case err == nil:
		w.Progress.Restore(state)
	case errors.Is(err, storage.ErrNotFound):
		w.log.Info("no progression snapshot, starting at level 1")
	default:
		return nil, fmt.Errorf("load %s: %w", progress.SnapshotKey, err)
	}

	before := w.Progress.State().Streak
	w.Progress.CheckStreak()
	if after := w.Progress.State().Streak; after != before {
		w.log.Info("streak reset", "previous", before)
		if err := w.saveGame(ctx); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *Workspace) Close() error {
	return w.store.Close()
}

func (w *Workspace) Now() time.Time { return w.now() }

func (w *Workspace) saveTasks(ctx context.Context) error {
	if err := w.store.Save(ctx, tasks.SnapshotKey, w.Tasks.Snapshot()); err != nil {
		w.log.Error("persist tasks failed", "err", err)
		return fmt.Errorf("save %s: %w", tasks.SnapshotKey, err)
	}
	return nil
}

func (w *Workspace) saveGame(ctx context.Context) error {
	if err := w.store.Save(ctx, progress.SnapshotKey, w.Progress.State()); err != nil {
		w.log.Error("persist progression failed", "err", err)
		return fmt.Errorf("save %s: %w", progress.SnapshotKey, err)
	}
	return nil
}

// mutate runs fn against the task store and persists the result.
func (w *Workspace) mutate(ctx context.Context, op string, fn func()) error {
	fn()
	w.log.Debug("task store mutated", "op", op)
	return w.saveTasks(ctx)
}

func (w *Workspace) AddTask(ctx context.Context, in tasks.NewTask) (model.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return model.Task{}, model.ErrEmptyTitle
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		return model.Task{}, fmt.Errorf("%w: %q", model.ErrInvalidPriority, in.Priority)
	}
	var task model.Task
	err := w.mutate(ctx, "add_task", func() { task = w.Tasks.AddTask(in) })
	if err == nil {
		w.log.Info("task added", "task_id", task.ID, "priority", task.Priority)
	}
	return task, err
}

// AddFromText runs quick-add text through the extractor. Fields set on
// defaults (project, labels, description) are kept; an explicit priority
// or due date in defaults wins over what the text implies.
func (w *Workspace) AddFromText(ctx context.Context, text string, defaults tasks.NewTask) (model.Task, error) {
	parsed := nlp.Extract(text, w.now())
	in := defaults
	in.Title = parsed.Title
	if in.Priority == "" {
		in.Priority = parsed.Priority
	}
	if in.DueAt == nil {
		in.DueAt = parsed.DueAt
	}
	return w.AddTask(ctx, in)
}

func (w *Workspace) UpdateTask(ctx context.Context, id string, patch tasks.TaskPatch) (bool, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return false, model.ErrEmptyTitle
	}
	var ok bool
	err := w.mutate(ctx, "update_task", func() { ok = w.Tasks.UpdateTask(id, patch) })
	return ok, err
}

func (w *Workspace) DeleteTask(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := w.mutate(ctx, "delete_task", func() { ok = w.Tasks.DeleteTask(id) })
	return ok, err
}

func (w *Workspace) ReorderTasks(ctx context.Context, ids []string) error {
	return w.mutate(ctx, "reorder_tasks", func() { w.Tasks.ReorderTasks(ids) })
}

// Completion reports the outcome of ToggleComplete.
type Completion struct {
	Task      model.Task
	Completed bool
	// Award is nil when the toggle reopened the task.
	Award *progress.Award
}

// ToggleComplete flips a task and, when it moves to completed, records the
// completion with the progression engine. A completed focus target is
// replaced by a freshly computed next task.
func (w *Workspace) ToggleComplete(ctx context.Context, id string) (Completion, error) {
	var out Completion
	var found bool
	err := w.mutate(ctx, "toggle_complete", func() {
		out.Completed, found = w.Tasks.ToggleComplete(id)
		if found && out.Completed && w.Tasks.FocusMode() {
			if pinned, ok := w.Tasks.FocusTask(); ok && pinned.ID == id {
				w.Tasks.AdvanceFocus()
			}
		}
	})
	if err != nil {
		return out, err
	}
	if !found {
		return out, fmt.Errorf("%w: %q", tasks.ErrTaskNotFound, id)
	}
	out.Task, _ = w.Tasks.Task(id)
	if !out.Completed {
		w.log.Info("task reopened", "task_id", id)
		return out, nil
	}
	award := w.Progress.CompleteTask()
	out.Award = &award
	w.logAward("task_completed", award)
	return out, w.saveGame(ctx)
}

func (w *Workspace) CompleteFocusSession(ctx context.Context, minutes int) (progress.Award, error) {
	award := w.Progress.CompleteFocusSession(minutes)
	w.logAward("focus_session_completed", award, "minutes", minutes)
	return award, w.saveGame(ctx)
}

func (w *Workspace) logAward(event string, award progress.Award, attrs ...any) {
	w.log.Info(event, append([]any{"xp", award.XP, "level", award.LevelAfter}, attrs...)...)
	if award.LeveledUp() {
		w.log.Info("level up", "from", award.LevelBefore, "to", award.LevelAfter)
	}
	for _, id := range award.Unlocked {
		w.log.Info("achievement unlocked", "achievement", id)
	}
}

func (w *Workspace) AddProject(ctx context.Context, in tasks.NewProject) (model.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return model.Project{}, errors.New("workspace: project name is required")
	}
	var p model.Project
	err := w.mutate(ctx, "add_project", func() { p = w.Tasks.AddProject(in) })
	return p, err
}

func (w *Workspace) UpdateProject(ctx context.Context, id string, patch tasks.ProjectPatch) (bool, error) {
	var ok bool
	err := w.mutate(ctx, "update_project", func() { ok = w.Tasks.UpdateProject(id, patch) })
	return ok, err
}

func (w *Workspace) DeleteProject(ctx context.Context, id string) error {
	if err := w.Tasks.DeleteProject(id); err != nil {
		return err
	}
	w.log.Info("project deleted", "project_id", id)
	return w.saveTasks(ctx)
}

func (w *Workspace) AddLabel(ctx context.Context, in tasks.NewLabel) (model.Label, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return model.Label{}, errors.New("workspace: label name is required")
	}
	var l model.Label
	err := w.mutate(ctx, "add_label", func() { l = w.Tasks.AddLabel(in) })
	return l, err
}

func (w *Workspace) DeleteLabel(ctx context.Context, id string) error {
	return w.mutate(ctx, "delete_label", func() { w.Tasks.DeleteLabel(id) })
}

func (w *Workspace) SetProjectFilter(ctx context.Context, id string) error {
	return w.mutate(ctx, "filter_project", func() { w.Tasks.SetProjectFilter(id) })
}

func (w *Workspace) SetLabelFilter(ctx context.Context, id string) error {
	return w.mutate(ctx, "filter_label", func() { w.Tasks.SetLabelFilter(id) })
}

func (w *Workspace) SetSearchQuery(ctx context.Context, q string) error {
	return w.mutate(ctx, "search", func() { w.Tasks.SetSearchQuery(q) })
}

func (w *Workspace) SetShowCompleted(ctx context.Context, show bool) error {
	return w.mutate(ctx, "show_completed", func() { w.Tasks.SetShowCompleted(show) })
}

func (w *Workspace) ClearFilters(ctx context.Context) error {
	return w.mutate(ctx, "clear_filters", w.Tasks.ClearFilters)
}

func (w *Workspace) ToggleFocusMode(ctx context.Context) (bool, error) {
	var active bool
	err := w.mutate(ctx, "toggle_focus", func() { active = w.Tasks.ToggleFocusMode() })
	return active, err
}

func (w *Workspace) SetFocusTask(ctx context.Context, id string) error {
	return w.mutate(ctx, "set_focus_task", func() { w.Tasks.SetFocusTask(id) })
}

func (w *Workspace) SkipFocusTask(ctx context.Context) (model.Task, bool, error) {
	var (
		task model.Task
		ok   bool
	)
	err := w.mutate(ctx, "skip_focus_task", func() { task, ok = w.Tasks.SkipFocusTask() })
	return task, ok, err
}
