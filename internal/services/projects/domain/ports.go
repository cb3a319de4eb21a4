package domain

import "context"

// Repo abstracts project persistence
// every read and write is scoped by owner so a foreign id behaves as absent
type Repo interface {
	Insert(ctx context.Context, p Project) error
	Get(ctx context.Context, id, ownerID string) (Project, bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Project, error)
	Update(ctx context.Context, id, ownerID string, in UpdateInput) (Project, bool, error)
	SoftDelete(ctx context.Context, id, ownerID string) (bool, error)
}

// WriterPort is the cross-feature write surface the setup flow borrows
type WriterPort interface {
	Insert(ctx context.Context, p Project) error
}
