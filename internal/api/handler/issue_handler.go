package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tracklight/tracklight/internal/core/policy"
	"github.com/tracklight/tracklight/internal/core/ports"
)

// IssueHandler handles HTTP requests for issue operations.
type IssueHandler struct {
	service  ports.IssueService
	activity ports.ActivityService
}

func NewIssueHandler(service ports.IssueService, activity ports.ActivityService) *IssueHandler {
	return &IssueHandler{service: service, activity: activity}
}

// Create handles POST /v1/issues.
//
// @Summary      Create a new issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIssueRequest  true  "Issue details"
// @Success      201   {object}  issueDetailResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/issues [post]
func (h *IssueHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	issue, err := h.service.Create(c.Request().Context(), actor, ports.CreateIssueInput{
		ProjectID:        req.ProjectID,
		IssueTypeID:      req.IssueTypeID,
		Summary:          req.Summary,
		Description:      req.Description,
		InternalPriority: req.InternalPriority,
		Priority:         req.Priority,
		ClientPriority:   req.ClientPriority,
		AssigneeID:       req.AssigneeID,
		SprintID:         req.SprintID,
		ReleaseID:        req.ReleaseID,
		ParentIssueID:    req.ParentIssueID,
		StoryPoints:      req.StoryPoints,
		Labels:           req.Labels,
		Components:       req.Components,
		DueDate:          req.DueDate,
		EstimatedDays:    req.EstimatedDays,
		ActualDays:       req.ActualDays,
		ExposedToClient:  req.ExposedToClient,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, issueDetailResponse{Issue: *issue, Subtasks: nil})
}

// Get handles GET /v1/issues/:key.
//
// @Summary      Get an issue with its hierarchy view
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Issue key (e.g. PAY-42)"
// @Success      200  {object}  issueDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/issues/{key} [get]
func (h *IssueHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), actor, c.Param("key"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, issueDetailResponse{
		Issue:    detail.Issue,
		Parent:   detail.Hierarchy.Parent,
		Subtasks: detail.Hierarchy.Subtasks,
	})
}

// List handles GET /v1/issues.
//
// @Summary      List issues
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query     string  false  "Filter by project"
// @Param        status      query     string  false  "Filter by status"
// @Param        assignee_id query     string  false  "Filter by assignee"
// @Param        page        query     int     false  "Page (1-based)"
// @Param        limit       query     int     false  "Page size (max 100)"
// @Success      200         {object}  listIssuesResponse
// @Router       /v1/issues [get]
func (h *IssueHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), actor, ports.ListIssuesInput{
		ProjectID:  c.QueryParam("project_id"),
		Status:     c.QueryParam("status"),
		AssigneeID: c.QueryParam("assignee_id"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listIssuesResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Update handles PATCH /v1/issues/:key. The body is a raw field map; fields
// the actor's role may not touch are dropped, not rejected.
//
// @Summary      Update an issue (partial)
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        key   path      string          true  "Issue key"
// @Param        body  body      map[string]any  true  "Fields to update"
// @Success      200   {object}  issueDetailResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/issues/{key} [patch]
func (h *IssueHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	fields := map[string]any{}
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	normalizeTimeFields(fields)

	issue, err := h.service.Update(c.Request().Context(), actor, c.Param("key"), fields)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, issueDetailResponse{Issue: *issue})
}

// Delete handles DELETE /v1/issues/:key.
//
// @Summary      Delete an issue
// @Tags         issues
// @Security     BearerAuth
// @Param        key  path  string  true  "Issue key"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/issues/{key} [delete]
func (h *IssueHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("key")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Attach handles POST /v1/issues/:key/subtasks — links an existing issue
// under :key as a subtask.
//
// @Summary      Attach a subtask
// @Tags         issues
// @Accept       json
// @Security     BearerAuth
// @Param        key   path  string                true  "Parent issue key"
// @Param        body  body  attachSubtaskRequest  true  "Child issue key"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/issues/{key}/subtasks [post]
func (h *IssueHandler) Attach(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req attachSubtaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.Attach(c.Request().Context(), actor, c.Param("key"), req.ChildKey); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Activity handles GET /v1/issues/:key/activity.
//
// @Summary      List an issue's audit trail
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        key  path      string  true  "Issue key"
// @Success      200  {object}  activityResponse
// @Router       /v1/issues/{key}/activity [get]
func (h *IssueHandler) Activity(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}

	records, err := h.activity.ListForIssue(c.Request().Context(), c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activityResponse{Items: records})
}

// normalizeTimeFields converts RFC3339 strings in known date fields to
// time.Time so storage keeps a consistent column type.
func normalizeTimeFields(fields map[string]any) {
	if raw, ok := fields[policy.FieldDueDate].(string); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			fields[policy.FieldDueDate] = t.UTC()
		}
	}
}
