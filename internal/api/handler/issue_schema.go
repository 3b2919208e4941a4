package handler

import (
	"time"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// --- Request types ---

type createIssueRequest struct {
	ProjectID   string `json:"project_id" validate:"required"`
	IssueTypeID string `json:"issue_type_id" validate:"required"`
	Summary     string `json:"summary" validate:"required"`
	Description string `json:"description"`
	// internal_priority wins over the legacy priority token when both are set.
	InternalPriority string     `json:"internal_priority"`
	Priority         string     `json:"priority"`
	ClientPriority   *string    `json:"client_priority"`
	AssigneeID       *string    `json:"assignee_id"`
	SprintID         *string    `json:"sprint_id"`
	ReleaseID        *string    `json:"release_id"`
	ParentIssueID    *string    `json:"parent_issue_id"`
	StoryPoints      int        `json:"story_points" validate:"gte=0"`
	Labels           []string   `json:"labels"`
	Components       []string   `json:"components"`
	DueDate          *time.Time `json:"due_date"`
	EstimatedDays    float64    `json:"estimated_days" validate:"gte=0"`
	ActualDays       float64    `json:"actual_days" validate:"gte=0"`
	ExposedToClient  bool       `json:"exposed_to_client"`
}

type attachSubtaskRequest struct {
	ChildKey string `json:"child_key" validate:"required"`
}

// --- Response types ---

type issueDetailResponse struct {
	Issue    domain.Issue        `json:"issue"`
	Parent   *domain.ParentRef   `json:"parent,omitempty"`
	Subtasks []domain.SubtaskRef `json:"subtasks"`
}

type listIssuesResponse struct {
	Items      []*domain.Issue `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type activityResponse struct {
	Items []domain.ActivityRecord `json:"items"`
}
