// Package http exposes the first-login setup route
package http

import (
	stdctx "context"
	"net/http"

	"stackpad/internal/modkit/httpkit"
	"stackpad/internal/services/setup/service"
)

// Deps are the handler dependencies
type Deps struct {
	Resolve func(stdctx.Context) (*service.Svc, error)
}

type handlers struct {
	deps Deps
}

// Register mounts the setup route
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}
	httpkit.PostJSONCreated(r, "/auth/setup", h.setup)
}

// SetupRequest is the first-login provisioning payload
// swagger:model
type SetupRequest struct {
	UserID   string `json:"userId"   validate:"required"         example:"2f3c9a2e-1b7d-4f7e-9c9a-8f1f2a3b4c5d"`
	Email    string `json:"email"    validate:"required,email"   example:"zoe@example.com"`
	Nickname string `json:"nickname" validate:"omitempty,max=64" example:"zoe"`
}

// @Summary Provision a profile and starter project for a fresh account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SetupRequest true "account to provision"
// @Success 201 {object} service.Result
// @Failure 403 {object} httpkit.Envelope
// @Failure 409 {object} httpkit.Envelope
// @Router /auth/setup [post]
func (h *handlers) setup(r *http.Request, in SetupRequest) (any, error) {
	svc, err := h.deps.Resolve(r.Context())
	if err != nil {
		return nil, err
	}
	caller, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return svc.Setup(r.Context(), caller, service.Input{
		UserID:   in.UserID,
		Email:    in.Email,
		Nickname: in.Nickname,
	})
}
