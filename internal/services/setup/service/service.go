// Package service implements the first-login setup flow
// it borrows the users and projects repositories, a one-way dependency
package service

import (
	"context"
	"time"

	"stackpad/internal/modkit/repokit"
	perr "stackpad/internal/platform/errors"
	projdomain "stackpad/internal/services/projects/domain"
	usersdomain "stackpad/internal/services/users/domain"

	"github.com/google/uuid"
)

// DefaultProjectName seeds every fresh account with one project
const DefaultProjectName = "My First Project"

// RedirectTo is where the frontend lands after a successful setup
const RedirectTo = "/dashboard"

// Input is the setup payload
type Input struct {
	UserID   string
	Email    string
	Nickname string
}

// Result points the client at the created rows
type Result struct {
	ProfileID  string `json:"profileId"`
	ProjectID  string `json:"projectId"`
	RedirectTo string `json:"redirectTo"`
}

// Svc implements the setup use-case
type Svc struct {
	db       repokit.TxRunner
	users    repokit.Binder[usersdomain.Repo]
	projects repokit.Binder[projdomain.Repo]

	newID func() string
	now   func() time.Time
}

// New constructs the setup service
func New(
	db repokit.TxRunner,
	users repokit.Binder[usersdomain.Repo],
	projects repokit.Binder[projdomain.Repo],
) *Svc {
	if db == nil {
		panic("setup.Service requires a non-nil TxRunner")
	}
	if users == nil || projects == nil {
		panic("setup.Service requires users and projects binders")
	}
	return &Svc{
		db:       db,
		users:    users,
		projects: projects,
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
	}
}

// Setup provisions a profile and a starter project for a fresh account
// the caller may only set up their own account, anything else is Forbidden
// both rows land in one transaction so a half-provisioned account cannot exist
func (s *Svc) Setup(ctx context.Context, callerSubject string, in Input) (Result, error) {
	if callerSubject != in.UserID {
		return Result{}, perr.Forbiddenf("cannot set up another user's account")
	}

	now := s.now().UTC()
	profile := usersdomain.Profile{
		ID:          s.newID(),
		AuthSubject: in.UserID,
		Email:       in.Email,
		Nickname:    in.Nickname,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	project := projdomain.Project{
		ID:        s.newID(),
		OwnerID:   in.UserID,
		Name:      DefaultProjectName,
		Status:    projdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		usersRepo := s.users.Bind(q)
		if _, ok, err := usersRepo.GetBySubject(ctx, in.UserID); err != nil {
			return err
		} else if ok {
			return perr.Conflictf("account is already set up")
		}
		if err := usersRepo.Insert(ctx, profile); err != nil {
			return err
		}
		return s.projects.Bind(q).Insert(ctx, project)
	})
	if err != nil {
		return Result{}, err
	}

	return Result{
		ProfileID:  profile.ID,
		ProjectID:  project.ID,
		RedirectTo: RedirectTo,
	}, nil
}
