package model

import (
	"errors"
	"strings"
	"time"
)

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("model: project id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("model: project name is required")
	}
	return nil
}

// InboxProject is the seed value for the reserved inbox project.
func InboxProject(createdAt time.Time) Project {
	return Project{
		ID:        InboxProjectID,
		Name:      "Inbox",
		Color:     "#6366f1",
		CreatedAt: createdAt,
	}
}

type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (l Label) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return errors.New("model: label id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return errors.New("model: label name is required")
	}
	return nil
}
