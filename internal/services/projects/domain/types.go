// Package domain defines the core types and interfaces for the projects service
package domain

import "time"

// Statuses a project may carry
const (
	StatusActive   = "active"
	StatusPaused   = "paused"
	StatusArchived = "archived"
)

// Project is one project row, owner-scoped by the auth subject
type Project struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Status      string
	Metadata    map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// ProjectView is the response shape, timestamps rendered as RFC 3339 text
type ProjectView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

// View maps the row to its response shape
func (p Project) View() ProjectView {
	return ProjectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Metadata:    p.Metadata,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateInput is the create payload, Status defaults to active when empty
type CreateInput struct {
	Name        string
	Description string
	Status      string
	Metadata    map[string]any
}

// UpdateInput is a partial update, nil means leave unchanged
type UpdateInput struct {
	Name        *string
	Description *string
	Status      *string
	Metadata    map[string]any
}
