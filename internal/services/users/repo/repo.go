// Package repo provides Postgres bindings for the users domain.Repo
package repo

import (
	"context"

	"stackpad/internal/modkit/repokit"
	perr "stackpad/internal/platform/errors"
	"stackpad/internal/services/users/domain"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

var _ domain.Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

func (r *queries) Insert(ctx context.Context, p domain.Profile) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO profiles (id, auth_subject, email, nickname, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.AuthSubject, p.Email, p.Nickname, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return perr.FromPostgres(err, "insert profile")
	}
	return nil
}

func (r *queries) GetBySubject(ctx context.Context, subject string) (domain.Profile, bool, error) {
	var p domain.Profile
	err := r.q.QueryRow(ctx, `
		SELECT id, auth_subject, email, nickname, created_at, updated_at
		FROM profiles
		WHERE auth_subject = $1 AND deleted_at IS NULL
	`, subject).Scan(&p.ID, &p.AuthSubject, &p.Email, &p.Nickname, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Profile{}, false, nil
		}
		return domain.Profile{}, false, perr.FromPostgres(err, "get profile")
	}
	return p, true, nil
}

func (r *queries) Update(
	ctx context.Context, subject string, in domain.UpdateInput,
) (domain.Profile, bool, error) {
	var p domain.Profile
	err := r.q.QueryRow(ctx, `
		UPDATE profiles
		SET email    = COALESCE($2, email),
		    nickname = COALESCE($3, nickname),
		    updated_at = now()
		WHERE auth_subject = $1 AND deleted_at IS NULL
		RETURNING id, auth_subject, email, nickname, created_at, updated_at
	`, subject, in.Email, in.Nickname).
		Scan(&p.ID, &p.AuthSubject, &p.Email, &p.Nickname, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Profile{}, false, nil
		}
		return domain.Profile{}, false, perr.FromPostgres(err, "update profile")
	}
	return p, true, nil
}

func (r *queries) SoftDelete(ctx context.Context, subject string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE profiles
		SET deleted_at = now(), updated_at = now()
		WHERE auth_subject = $1 AND deleted_at IS NULL
	`, subject)
	if err != nil {
		return false, perr.FromPostgres(err, "soft delete profile")
	}
	return tag.RowsAffected() > 0, nil
}
