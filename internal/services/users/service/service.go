// Package service implements the users use-cases
package service

import (
	"context"
	"time"

	"stackpad/internal/modkit/repokit"
	perr "stackpad/internal/platform/errors"
	"stackpad/internal/services/users/domain"

	"github.com/google/uuid"
)

// Svc implements profile creation and self-service maintenance
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]

	newID func() string
	now   func() time.Time
}

// New constructs the users service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Svc {
	if db == nil {
		panic("users.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("users.Service requires a non-nil Repo binder")
	}
	return &Svc{
		db:     db,
		binder: binder,
		newID:  func() string { return uuid.NewString() },
		now:    time.Now,
	}
}

func (s *Svc) repo() domain.Repo { return s.binder.Bind(s.db) }

// Create registers a profile for an auth subject
// existence is checked first so a duplicate surfaces as Conflict, and the
// unique index backstops the race between check and insert
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.ProfileView, error) {
	if _, ok, err := s.repo().GetBySubject(ctx, in.UserID); err != nil {
		return domain.ProfileView{}, err
	} else if ok {
		return domain.ProfileView{}, perr.Conflictf("profile already exists for this user")
	}

	now := s.now().UTC()
	p := domain.Profile{
		ID:          s.newID(),
		AuthSubject: in.UserID,
		Email:       in.Email,
		Nickname:    in.Nickname,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo().Insert(ctx, p); err != nil {
		return domain.ProfileView{}, err
	}
	return p.View(), nil
}

// Me returns the caller's profile
func (s *Svc) Me(ctx context.Context, userID string) (domain.ProfileView, error) {
	p, ok, err := s.repo().GetBySubject(ctx, userID)
	if err != nil {
		return domain.ProfileView{}, err
	}
	if !ok {
		return domain.ProfileView{}, perr.NotFoundf("profile not found")
	}
	return p.View(), nil
}

// UpdateMe applies a partial update to the caller's profile
func (s *Svc) UpdateMe(ctx context.Context, userID string, in domain.UpdateInput) (domain.ProfileView, error) {
	p, ok, err := s.repo().Update(ctx, userID, in)
	if err != nil {
		return domain.ProfileView{}, err
	}
	if !ok {
		return domain.ProfileView{}, perr.NotFoundf("profile not found")
	}
	return p.View(), nil
}

// DeleteMe soft deletes the caller's profile
// the confirmation sentinel guards against accidental destructive calls
func (s *Svc) DeleteMe(ctx context.Context, userID, confirmation string) error {
	if confirmation != domain.DeleteConfirmation {
		return perr.WithField(
			perr.InvalidRequestf("confirmation must equal %q", domain.DeleteConfirmation),
			"confirmation",
		)
	}
	ok, err := s.repo().SoftDelete(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return perr.NotFoundf("profile not found")
	}
	return nil
}
