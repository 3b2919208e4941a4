package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/ports"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

type createProjectRequest struct {
	Key         string `json:"key" validate:"required,alphanum,min=2,max=10"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type memberRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type listProjectsResponse struct {
	Items []*domain.Project `json:"items"`
}

// Create handles POST /v1/projects.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  domain.Project
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	project, err := h.service.Create(c.Request().Context(), actor, ports.CreateProjectInput{
		Key:         req.Key,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

// Get handles GET /v1/projects/:key.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Project key"
// @Success      200  {object}  domain.Project
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{key} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	project, err := h.service.Get(c.Request().Context(), actor, c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// List handles GET /v1/projects.
//
// @Summary      List projects visible to the actor
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listProjectsResponse
// @Router       /v1/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	projects, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listProjectsResponse{Items: projects})
}

// AddMember handles POST /v1/projects/:key/members.
//
// @Summary      Add a project member
// @Tags         projects
// @Accept       json
// @Security     BearerAuth
// @Param        key   path  string         true  "Project key"
// @Param        body  body  memberRequest  true  "User to add"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/projects/{key}/members [post]
func (h *ProjectHandler) AddMember(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req memberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.AddMember(c.Request().Context(), actor, c.Param("key"), req.UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveMember handles DELETE /v1/projects/:key/members/:user_id.
//
// @Summary      Remove a project member
// @Tags         projects
// @Security     BearerAuth
// @Param        key      path  string  true  "Project key"
// @Param        user_id  path  string  true  "User to remove"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/projects/{key}/members/{user_id} [delete]
func (h *ProjectHandler) RemoveMember(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveMember(c.Request().Context(), actor, c.Param("key"), c.Param("user_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
