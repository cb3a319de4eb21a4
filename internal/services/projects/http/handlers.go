// Package http exposes the projects routes
package http

import (
	stdctx "context"
	"net/http"

	"stackpad/internal/modkit/httpkit"
	"stackpad/internal/services/projects/domain"
	"stackpad/internal/services/projects/service"
)

// Deps are the handler dependencies
type Deps struct {
	Resolve func(stdctx.Context) (*service.Svc, error)
}

type handlers struct {
	deps Deps
}

// Register mounts the projects routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/projects", h.list)
	httpkit.PostJSONCreated(r, "/projects", h.create)
	httpkit.Get(r, "/projects/{id}", h.get)
	httpkit.PutJSON(r, "/projects/{id}", h.update)
	httpkit.Delete(r, "/projects/{id}", h.delete)
}

func (h *handlers) svcAndUser(r *http.Request) (*service.Svc, string, error) {
	svc, err := h.deps.Resolve(r.Context())
	if err != nil {
		return nil, "", err
	}
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, "", err
	}
	return svc, uid, nil
}

// CreateProjectRequest is the create payload
// swagger:model
type CreateProjectRequest struct {
	Name        string         `json:"name"        validate:"required,max=120" example:"my first project"`
	Description string         `json:"description" validate:"omitempty,max=2000"`
	Status      string         `json:"status"      validate:"omitempty,oneof=active paused archived"`
	Metadata    map[string]any `json:"metadata"    validate:"omitempty"`
}

// UpdateProjectRequest is a partial update
type UpdateProjectRequest struct {
	Name        *string        `json:"name"        validate:"omitempty,max=120"`
	Description *string        `json:"description" validate:"omitempty,max=2000"`
	Status      *string        `json:"status"      validate:"omitempty,oneof=active paused archived"`
	Metadata    map[string]any `json:"metadata"    validate:"omitempty"`
}

// @Summary List the caller's projects
// @Tags Projects
// @Produce json
// @Success 200 {array} domain.ProjectView
// @Router /projects [get]
func (h *handlers) list(r *http.Request) (any, error) {
	svc, uid, err := h.svcAndUser(r)
	if err != nil {
		return nil, err
	}
	return svc.List(r.Context(), uid)
}

// @Summary Create a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body CreateProjectRequest true "project to create"
// @Success 201 {object} domain.ProjectView
// @Router /projects [post]
func (h *handlers) create(r *http.Request, in CreateProjectRequest) (any, error) {
	svc, uid, err := h.svcAndUser(r)
	if err != nil {
		return nil, err
	}
	return svc.Create(r.Context(), uid, domain.CreateInput{
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Metadata:    in.Metadata,
	})
}

// @Summary Get one project
// @Tags Projects
// @Produce json
// @Param id path string true "project id"
// @Success 200 {object} domain.ProjectView
// @Failure 404 {object} httpkit.Envelope
// @Router /projects/{id} [get]
func (h *handlers) get(r *http.Request) (any, error) {
	svc, uid, err := h.svcAndUser(r)
	if err != nil {
		return nil, err
	}
	return svc.Get(r.Context(), httpkit.Param(r, "id"), uid)
}

// @Summary Update a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "project id"
// @Param body body UpdateProjectRequest true "fields to change"
// @Success 200 {object} domain.ProjectView
// @Router /projects/{id} [put]
func (h *handlers) update(r *http.Request, in UpdateProjectRequest) (any, error) {
	svc, uid, err := h.svcAndUser(r)
	if err != nil {
		return nil, err
	}
	return svc.Update(r.Context(), httpkit.Param(r, "id"), uid, domain.UpdateInput{
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Metadata:    in.Metadata,
	})
}

// @Summary Soft delete a project
// @Tags Projects
// @Produce json
// @Param id path string true "project id"
// @Success 200 {object} httpkit.Envelope
// @Failure 404 {object} httpkit.Envelope
// @Router /projects/{id} [delete]
func (h *handlers) delete(r *http.Request) (any, error) {
	svc, uid, err := h.svcAndUser(r)
	if err != nil {
		return nil, err
	}
	if err := svc.Delete(r.Context(), httpkit.Param(r, "id"), uid); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true}, nil
}
