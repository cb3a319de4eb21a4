// Package http exposes the users routes
package http

import (
	stdctx "context"
	"net/http"

	"stackpad/internal/modkit/httpkit"
	"stackpad/internal/services/users/domain"
	"stackpad/internal/services/users/service"
)

// Deps are the handler dependencies
// Resolve defers container construction to the first request that needs it
type Deps struct {
	Resolve func(stdctx.Context) (*service.Svc, error)
}

type handlers struct {
	deps Deps
}

// Register mounts the users routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.PostJSONCreated(r, "/users", h.create)
	httpkit.Get(r, "/users/me", h.me)
	httpkit.PutJSON(r, "/users/me", h.update)
	httpkit.DeleteJSON(r, "/users/me", h.delete)
}

// CreateUserRequest is the signup payload
// swagger:model
type CreateUserRequest struct {
	UserID   string `json:"userId"   validate:"required"            example:"2f3c9a2e-1b7d-4f7e-9c9a-8f1f2a3b4c5d"`
	Email    string `json:"email"    validate:"required,email"      example:"zoe@example.com"`
	Nickname string `json:"nickname" validate:"omitempty,max=64"    example:"zoe"`
}

// UpdateProfileRequest is a partial profile update
type UpdateProfileRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	Nickname *string `json:"nickname" validate:"omitempty,max=64"`
}

// DeleteProfileRequest carries the destructive-action confirmation
type DeleteProfileRequest struct {
	Confirmation string `json:"confirmation" validate:"required" example:"DELETE"`
}

// @Summary Create a profile for an authenticated identity
// @Tags Users
// @Accept json
// @Produce json
// @Param body body CreateUserRequest true "signup payload"
// @Success 201 {object} domain.ProfileView
// @Failure 409 {object} httpkit.Envelope
// @Router /users [post]
func (h *handlers) create(r *http.Request, in CreateUserRequest) (any, error) {
	svc, err := h.deps.Resolve(r.Context())
	if err != nil {
		return nil, err
	}
	return svc.Create(r.Context(), domain.CreateInput{
		UserID:   in.UserID,
		Email:    in.Email,
		Nickname: in.Nickname,
	})
}

// @Summary Get the caller's profile
// @Tags Users
// @Produce json
// @Success 200 {object} domain.ProfileView
// @Failure 404 {object} httpkit.Envelope
// @Router /users/me [get]
func (h *handlers) me(r *http.Request) (any, error) {
	svc, err := h.deps.Resolve(r.Context())
	if err != nil {
		return nil, err
	}
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return svc.Me(r.Context(), uid)
}

// @Summary Update the caller's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param body body UpdateProfileRequest true "fields to change"
// @Success 200 {object} domain.ProfileView
// @Router /users/me [put]
func (h *handlers) update(r *http.Request, in UpdateProfileRequest) (any, error) {
	svc, err := h.deps.Resolve(r.Context())
	if err != nil {
		return nil, err
	}
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return svc.UpdateMe(r.Context(), uid, domain.UpdateInput{
		Email:    in.Email,
		Nickname: in.Nickname,
	})
}

// @Summary Soft delete the caller's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param body body DeleteProfileRequest true "must carry the DELETE sentinel"
// @Success 200 {object} httpkit.Envelope
// @Failure 400 {object} httpkit.Envelope
// @Router /users/me [delete]
func (h *handlers) delete(r *http.Request, in DeleteProfileRequest) (any, error) {
	svc, err := h.deps.Resolve(r.Context())
	if err != nil {
		return nil, err
	}
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	if err := svc.DeleteMe(r.Context(), uid, in.Confirmation); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true}, nil
}
