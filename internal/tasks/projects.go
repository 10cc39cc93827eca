package tasks

import (
	"errors"

	"github.com/sandeepkv93/flowstate/internal/model"
)

var (
	ErrInboxProtected = errors.New("tasks: inbox project cannot be deleted")
	ErrTaskNotFound   = errors.New("tasks: task not found")
	ErrAmbiguousID    = errors.New("tasks: id prefix matches more than one task")
)

type NewProject struct {
	Name  string
	Color string
	Icon  string
}

type ProjectPatch struct {
	Name  *string
	Color *string
	Icon  *string
}

type NewLabel struct {
	Name  string
	Color string
}

func (s *Store) AddProject(in NewProject) model.Project {
	p := model.Project{
		ID:        s.newID(),
		Name:      in.Name,
		Color:     in.Color,
		Icon:      in.Icon,
		CreatedAt: s.now(),
	}
	s.projects = append(s.projects, p)
	return p
}

func (s *Store) UpdateProject(id string, patch ProjectPatch) bool {
	for i := range s.projects {
		if s.projects[i].ID != id {
			continue
		}
		if patch.Name != nil {
			s.projects[i].Name = *patch.Name
		}
		if patch.Color != nil {
			s.projects[i].Color = *patch.Color
		}
		if patch.Icon != nil {
			s.projects[i].Icon = *patch.Icon
		}
		return true
	}
	return false
}

// DeleteProject removes a project and moves its tasks to the inbox. The
// inbox itself is rejected with ErrInboxProtected; unknown ids are a no-op.
func (s *Store) DeleteProject(id string) error {
	if id == model.InboxProjectID {
		return ErrInboxProtected
	}
	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept
	for i := range s.tasks {
		if s.tasks[i].ProjectID == id {
			s.tasks[i].ProjectID = model.InboxProjectID
		}
	}
	if s.filter.ProjectID == id {
		s.filter.ProjectID = ""
	}
	return nil
}

func (s *Store) Project(id string) (model.Project, bool) {
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return model.Project{}, false
}

func (s *Store) Projects() []model.Project {
	return append([]model.Project(nil), s.projects...)
}

func (s *Store) AddLabel(in NewLabel) model.Label {
	l := model.Label{ID: s.newID(), Name: in.Name, Color: in.Color}
	s.labels = append(s.labels, l)
	return l
}

// DeleteLabel removes a label and scrubs it from every task.
func (s *Store) DeleteLabel(id string) {
	kept := s.labels[:0]
	for _, l := range s.labels {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.labels = kept
	for i := range s.tasks {
		if !s.tasks[i].HasLabel(id) {
			continue
		}
		labels := make([]string, 0, len(s.tasks[i].Labels))
		for _, l := range s.tasks[i].Labels {
			if l != id {
				labels = append(labels, l)
			}
		}
		s.tasks[i].Labels = labels
	}
	if s.filter.LabelID == id {
		s.filter.LabelID = ""
	}
}

func (s *Store) Label(id string) (model.Label, bool) {
	for _, l := range s.labels {
		if l.ID == id {
			return l, true
		}
	}
	return model.Label{}, false
}

func (s *Store) Labels() []model.Label {
	return append([]model.Label(nil), s.labels...)
}

// ProjectByName resolves a project by id or case-insensitive name.
func (s *Store) ProjectByName(name string) (model.Project, bool) {
	if p, ok := s.Project(name); ok {
		return p, true
	}
	for _, p := range s.projects {
		if equalFold(p.Name, name) {
			return p, true
		}
	}
	return model.Project{}, false
}

// LabelByName resolves a label by id or case-insensitive name.
func (s *Store) LabelByName(name string) (model.Label, bool) {
	if l, ok := s.Label(name); ok {
		return l, true
	}
	for _, l := range s.labels {
		if equalFold(l.Name, name) {
			return l, true
		}
	}
	return model.Label{}, false
}
