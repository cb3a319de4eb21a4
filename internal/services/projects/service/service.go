// Package service implements the projects use-cases
package service

import (
	"context"
	"time"

	"stackpad/internal/modkit/repokit"
	perr "stackpad/internal/platform/errors"
	"stackpad/internal/services/projects/domain"

	"github.com/google/uuid"
)

// Svc implements owner-scoped project CRUD
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]

	newID func() string
	now   func() time.Time
}

// New constructs the projects service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Svc {
	if db == nil {
		panic("projects.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("projects.Service requires a non-nil Repo binder")
	}
	return &Svc{
		db:     db,
		binder: binder,
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
	}
}

func (s *Svc) repo() domain.Repo { return s.binder.Bind(s.db) }

// Create inserts a project for the owner, defaulting status to active
func (s *Svc) Create(ctx context.Context, ownerID string, in domain.CreateInput) (domain.ProjectView, error) {
	status := in.Status
	if status == "" {
		status = domain.StatusActive
	}
	now := s.now().UTC()
	p := domain.Project{
		ID:          s.newID(),
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		Metadata:    in.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo().Insert(ctx, p); err != nil {
		return domain.ProjectView{}, err
	}
	return p.View(), nil
}

// Get returns one project
// a foreign or soft-deleted id reads as absent, never Forbidden
func (s *Svc) Get(ctx context.Context, id, ownerID string) (domain.ProjectView, error) {
	p, ok, err := s.repo().Get(ctx, id, ownerID)
	if err != nil {
		return domain.ProjectView{}, err
	}
	if !ok {
		return domain.ProjectView{}, perr.NotFoundf("project not found")
	}
	return p.View(), nil
}

// List returns the owner's live projects, newest first
func (s *Svc) List(ctx context.Context, ownerID string) ([]domain.ProjectView, error) {
	ps, err := s.repo().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProjectView, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.View())
	}
	return out, nil
}

// Update applies a partial update to one project
func (s *Svc) Update(
	ctx context.Context, id, ownerID string, in domain.UpdateInput,
) (domain.ProjectView, error) {
	if in.Status != nil {
		switch *in.Status {
		case domain.StatusActive, domain.StatusPaused, domain.StatusArchived:
		default:
			return domain.ProjectView{}, perr.WithField(
				perr.InvalidRequestf("status must be one of active, paused, archived"),
				"status",
			)
		}
	}
	p, ok, err := s.repo().Update(ctx, id, ownerID, in)
	if err != nil {
		return domain.ProjectView{}, err
	}
	if !ok {
		return domain.ProjectView{}, perr.NotFoundf("project not found")
	}
	return p.View(), nil
}

// Delete soft deletes one project, a repeat delete reports NotFound
func (s *Svc) Delete(ctx context.Context, id, ownerID string) error {
	ok, err := s.repo().SoftDelete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return perr.NotFoundf("project not found")
	}
	return nil
}
