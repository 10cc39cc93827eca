// Package tasks owns the task, project and label collections together with
// the filter and focus-mode state that the views read.
//
// A Store is a plain single-writer state container: every operation is
// synchronous and total. It is not safe for concurrent use; callers that
// persist it do so explicitly after each mutation.
package tasks

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sandeepkv93/flowstate/internal/clock"
	"github.com/sandeepkv93/flowstate/internal/model"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

type NewTask struct {
	Title       string
	Description string
	Priority    model.Priority
	DueAt       *time.Time
	ProjectID   string
	Labels      []string
}

// TaskPatch carries the fields to merge into an existing task. Nil fields
// are left untouched; ClearDue removes the due date.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	DueAt       *time.Time
	ClearDue    bool
	ProjectID   *string
	Labels      *[]string
	Completed   *bool
}

type Store struct {
	tasks    []model.Task
	projects []model.Project
	labels   []model.Label
	filter   Filter

	focusMode bool
	focusTask string

	now   clock.Clock
	newID func() string
}

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.now = c
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{now: clock.System}
	s.newID = s.newULID
	for _, opt := range opts {
		opt(s)
	}
	s.projects = []model.Project{model.InboxProject(s.now())}
	return s
}

func (s *Store) newULID() string {
	id, err := ulid.New(ulid.Timestamp(s.now()), ulid.Monotonic(randReader{}, 0))
	if err != nil {
		return fmt.Sprintf("%d", s.now().UnixNano())
	}
	return strings.ToLower(id.String())
}

func (s *Store) AddTask(in NewTask) model.Task {
	now := s.now()
	task := model.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		ProjectID:   in.ProjectID,
		Labels:      append([]string{}, in.Labels...),
		CreatedAt:   now,
		UpdatedAt:   now,
		Order:       len(s.tasks),
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.ProjectID == "" {
		task.ProjectID = model.InboxProjectID
	}
	if in.DueAt != nil {
		due := *in.DueAt
		task.DueAt = &due
	}
	s.tasks = append(s.tasks, task)
	return task.Clone()
}

// UpdateTask merges patch into the task with the given id. It reports
// whether a task matched; unknown ids are a no-op.
func (s *Store) UpdateTask(id string, patch TaskPatch) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	t := &s.tasks[i]
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.ClearDue {
		t.DueAt = nil
	} else if patch.DueAt != nil {
		due := *patch.DueAt
		t.DueAt = &due
	}
	if patch.ProjectID != nil {
		t.ProjectID = *patch.ProjectID
	}
	if patch.Labels != nil {
		t.Labels = append([]string{}, (*patch.Labels)...)
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = s.now()
	return true
}

func (s *Store) DeleteTask(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

// ToggleComplete flips the completion flag and returns the new value.
func (s *Store) ToggleComplete(id string) (completed bool, ok bool) {
	i := s.indexOf(id)
	if i < 0 {
		return false, false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.tasks[i].UpdatedAt = s.now()
	return s.tasks[i].Completed, true
}

// ReorderTasks rearranges the collection to follow ids. Unknown ids are
// ignored and unmentioned tasks keep their relative order after the listed
// ones. Order values are not rewritten.
func (s *Store) ReorderTasks(ids []string) {
	seen := make(map[string]bool, len(ids))
	out := make([]model.Task, 0, len(s.tasks))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if i := s.indexOf(id); i >= 0 {
			out = append(out, s.tasks[i])
			seen[id] = true
		}
	}
	for _, t := range s.tasks {
		if !seen[t.ID] {
			out = append(out, t)
		}
	}
	s.tasks = out
}

func (s *Store) Task(id string) (model.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Tasks returns a copy of the collection in storage order.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	return out
}

// FindByPrefix resolves a task by exact id or unique id prefix, the way the
// CLI and palette accept abbreviated ids.
func (s *Store) FindByPrefix(prefix string) (model.Task, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return model.Task{}, ErrTaskNotFound
	}
	if t, ok := s.Task(prefix); ok {
		return t, nil
	}
	var match *model.Task
	for i := range s.tasks {
		if strings.HasPrefix(s.tasks[i].ID, prefix) {
			if match != nil {
				return model.Task{}, fmt.Errorf("%w: %q", ErrAmbiguousID, prefix)
			}
			match = &s.tasks[i]
		}
	}
	if match == nil {
		return model.Task{}, fmt.Errorf("%w: %q", ErrTaskNotFound, prefix)
	}
	return match.Clone(), nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
