// Package repo provides Postgres bindings for the projects domain.Repo
package repo

import (
	"context"
	"encoding/json"

	"stackpad/internal/modkit/repokit"
	perr "stackpad/internal/platform/errors"
	"stackpad/internal/services/projects/domain"
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

// metadata round trips through jsonb explicitly so the repo controls the encoding

func encodeMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, perr.Wrap(err, perr.CodeInternal, "encode project metadata")
	}
	return b, nil
}

func decodeMetadata(b []byte, into *map[string]any) error {
	if len(b) == 0 {
		*into = nil
		return nil
	}
	if err := json.Unmarshal(b, into); err != nil {
		return perr.Wrap(err, perr.CodeInternal, "decode project metadata")
	}
	if len(*into) == 0 {
		*into = nil
	}
	return nil
}

const projectCols = `id, owner_id, name, description, status, metadata, created_at, updated_at`

func scanProject(row repokit.Row) (domain.Project, error) {
	var p domain.Project
	var meta []byte
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Status, &meta, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Project{}, err
	}
	if err := decodeMetadata(meta, &p.Metadata); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (r *queries) Insert(ctx context.Context, p domain.Project) error {
	meta, err := encodeMetadata(p.Metadata)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO projects (id, owner_id, name, description, status, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.OwnerID, p.Name, p.Description, p.Status, meta, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return perr.FromPostgres(err, "insert project")
	}
	return nil
}

func (r *queries) Get(ctx context.Context, id, ownerID string) (domain.Project, bool, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `
		SELECT `+projectCols+`
		FROM projects
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, id, ownerID))
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Project{}, false, nil
		}
		return domain.Project{}, false, perr.FromPostgres(err, "get project")
	}
	return p, true, nil
}

func (r *queries) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+projectCols+`
		FROM projects
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, perr.FromPostgres(err, "list projects")
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "scan project")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "list projects")
	}
	return out, nil
}

func (r *queries) Update(
	ctx context.Context, id, ownerID string, in domain.UpdateInput,
) (domain.Project, bool, error) {
	var meta []byte
	if in.Metadata != nil {
		b, err := encodeMetadata(in.Metadata)
		if err != nil {
			return domain.Project{}, false, err
		}
		meta = b
	}
	p, err := scanProject(r.q.QueryRow(ctx, `
		UPDATE projects
		SET name        = COALESCE($3, name),
		    description = COALESCE($4, description),
		    status      = COALESCE($5, status),
		    metadata    = COALESCE($6, metadata),
		    updated_at  = now()
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
		RETURNING `+projectCols+`
	`, id, ownerID, in.Name, in.Description, in.Status, meta))
	if err != nil {
		if perr.IsNoRows(err) {
			return domain.Project{}, false, nil
		}
		return domain.Project{}, false, perr.FromPostgres(err, "update project")
	}
	return p, true, nil
}

func (r *queries) SoftDelete(ctx context.Context, id, ownerID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE projects
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, id, ownerID)
	if err != nil {
		return false, perr.FromPostgres(err, "soft delete project")
	}
	return tag.RowsAffected() > 0, nil
}
