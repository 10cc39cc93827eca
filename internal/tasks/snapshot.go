package tasks

import "github.com/sandeepkv93/flowstate/internal/model"

// SnapshotKey names the persisted slot holding the store state.
const SnapshotKey = "flowstate-storage"

// Snapshot is the full persisted state of a Store.
type Snapshot struct {
	Tasks       []model.Task    `json:"tasks"`
	Projects    []model.Project `json:"projects"`
	Labels      []model.Label   `json:"labels"`
	Filter      Filter          `json:"filter"`
	FocusMode   bool            `json:"focus_mode"`
	FocusTaskID string          `json:"current_focus_task,omitempty"`
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Tasks:       s.Tasks(),
		Projects:    s.Projects(),
		Labels:      s.Labels(),
		Filter:      s.filter,
		FocusMode:   s.focusMode,
		FocusTaskID: s.focusTask,
	}
}

// Restore replaces the store state with snap. The inbox project is re-seeded
// when the snapshot lacks it.
func (s *Store) Restore(snap Snapshot) {
	s.tasks = make([]model.Task, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		s.tasks = append(s.tasks, t.Clone())
	}
	s.projects = append([]model.Project(nil), snap.Projects...)
	if _, ok := s.Project(model.InboxProjectID); !ok {
		s.projects = append([]model.Project{model.InboxProject(s.now())}, s.projects...)
	}
	s.labels = append([]model.Label(nil), snap.Labels...)
	s.filter = snap.Filter
	s.focusMode = snap.FocusMode
	s.focusTask = snap.FocusTaskID
}
