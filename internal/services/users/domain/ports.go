package domain

import "context"

// Repo abstracts profile persistence
// reads are scoped to live rows, soft-deleted profiles behave as absent
type Repo interface {
	Insert(ctx context.Context, p Profile) error
	GetBySubject(ctx context.Context, subject string) (Profile, bool, error)
	Update(ctx context.Context, subject string, in UpdateInput) (Profile, bool, error)
	SoftDelete(ctx context.Context, subject string) (bool, error)
}

// ReaderPort is the cross-feature read surface other services borrow
type ReaderPort interface {
	GetBySubject(ctx context.Context, subject string) (Profile, bool, error)
}
