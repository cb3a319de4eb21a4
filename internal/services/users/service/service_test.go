package service

import (
	"context"
	"testing"
	"time"

	"stackpad/internal/modkit/repokit"
	perrs "stackpad/internal/platform/errors"
	"stackpad/internal/services/users/domain"
)

// fakeRepo is an in-memory domain.Repo keyed by auth subject
type fakeRepo struct {
	rows map[string]domain.Profile
}

func newFakeRepo() *fakeRepo { return &fakeRepo{rows: map[string]domain.Profile{}} }

func (f *fakeRepo) Insert(_ context.Context, p domain.Profile) error {
	f.rows[p.AuthSubject] = p
	return nil
}

func (f *fakeRepo) GetBySubject(_ context.Context, subject string) (domain.Profile, bool, error) {
	p, ok := f.rows[subject]
	if !ok || p.DeletedAt != nil {
		return domain.Profile{}, false, nil
	}
	return p, true, nil
}

func (f *fakeRepo) Update(_ context.Context, subject string, in domain.UpdateInput) (domain.Profile, bool, error) {
	p, ok := f.rows[subject]
	if !ok || p.DeletedAt != nil {
		return domain.Profile{}, false, nil
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.Nickname != nil {
		p.Nickname = *in.Nickname
	}
	p.UpdatedAt = time.Now()
	f.rows[subject] = p
	return p, true, nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, subject string) (bool, error) {
	p, ok := f.rows[subject]
	if !ok || p.DeletedAt != nil {
		return false, nil
	}
	now := time.Now()
	p.DeletedAt = &now
	f.rows[subject] = p
	return true, nil
}

// fakeTx satisfies repokit.TxRunner without a database
// service code only passes it to the binder so the methods never run
type fakeTx struct{ repokit.TxRunner }

func newSvc(repo domain.Repo) *Svc {
	s := New(fakeTx{}, repokit.BindFunc[domain.Repo](func(repokit.Queryer) domain.Repo { return repo }))
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	s.newID = func() string { return "prof-1" }
	return s
}

func TestCreateThenDuplicateConflicts(t *testing.T) {
	svc := newSvc(newFakeRepo())
	ctx := context.Background()
	in := domain.CreateInput{UserID: "user-1", Email: "zoe@example.com", Nickname: "zoe"}

	v, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if v.ID != "prof-1" || v.UserID != "user-1" || v.Email != "zoe@example.com" {
		t.Errorf("view = %+v", v)
	}
	if _, err := time.Parse(time.RFC3339, v.CreatedAt); err != nil {
		t.Errorf("createdAt not RFC3339: %q", v.CreatedAt)
	}

	_, err = svc.Create(ctx, in)
	if !perrs.IsCode(err, perrs.CodeConflict) {
		t.Fatalf("second create: err = %v, want CONFLICT", err)
	}
}

func TestMeNotFoundWhenAbsentOrDeleted(t *testing.T) {
	repo := newFakeRepo()
	svc := newSvc(repo)
	ctx := context.Background()

	if _, err := svc.Me(ctx, "ghost"); !perrs.IsCode(err, perrs.CodeNotFound) {
		t.Fatalf("absent: err = %v, want NOT_FOUND", err)
	}

	if _, err := svc.Create(ctx, domain.CreateInput{UserID: "user-1", Email: "a@b.c"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteMe(ctx, "user-1", domain.DeleteConfirmation); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Me(ctx, "user-1"); !perrs.IsCode(err, perrs.CodeNotFound) {
		t.Fatalf("deleted: err = %v, want NOT_FOUND", err)
	}
}

func TestUpdateMe(t *testing.T) {
	repo := newFakeRepo()
	svc := newSvc(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.CreateInput{UserID: "user-1", Email: "old@b.c", Nickname: "old"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	email := "new@b.c"
	v, err := svc.UpdateMe(ctx, "user-1", domain.UpdateInput{Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if v.Email != "new@b.c" {
		t.Errorf("email = %q", v.Email)
	}
	if v.Nickname != "old" {
		t.Errorf("nickname changed to %q on partial update", v.Nickname)
	}

	if _, err := svc.UpdateMe(ctx, "ghost", domain.UpdateInput{Email: &email}); !perrs.IsCode(err, perrs.CodeNotFound) {
		t.Fatalf("ghost update: err = %v, want NOT_FOUND", err)
	}
}

func TestDeleteMe(t *testing.T) {
	repo := newFakeRepo()
	svc := newSvc(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.CreateInput{UserID: "user-1", Email: "a@b.c"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("wrong sentinel rejected before any write", func(t *testing.T) {
		err := svc.DeleteMe(ctx, "user-1", "delete")
		if !perrs.IsCode(err, perrs.CodeInvalidRequest) {
			t.Fatalf("err = %v, want INVALID_REQUEST", err)
		}
		if pe, ok := perrs.As(err); !ok || pe.Field() != "confirmation" {
			t.Errorf("field detail missing: %v", err)
		}
		if _, err := svc.Me(ctx, "user-1"); err != nil {
			t.Errorf("profile deleted despite rejected sentinel: %v", err)
		}
	})

	t.Run("repeat delete reports not found", func(t *testing.T) {
		if err := svc.DeleteMe(ctx, "user-1", domain.DeleteConfirmation); err != nil {
			t.Fatalf("first delete: %v", err)
		}
		err := svc.DeleteMe(ctx, "user-1", domain.DeleteConfirmation)
		if !perrs.IsCode(err, perrs.CodeNotFound) {
			t.Fatalf("second delete: err = %v, want NOT_FOUND", err)
		}
	})
}
