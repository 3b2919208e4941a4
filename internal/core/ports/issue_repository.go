package ports

import (
	"context"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// ListIssuesFilter carries all query parameters for listing issues.
type ListIssuesFilter struct {
	ProjectID  string // optional: scope to one project
	Status     string // optional: filter by lifecycle status
	AssigneeID string // optional: filter by current assignee
	Page       int    // 1-based
	Limit      int    // max rows per page (capped at 100 by the service)
}

// IssueRepository defines persistence operations for issues.
type IssueRepository interface {
	Insert(ctx context.Context, issue *domain.Issue) error
	FindByID(ctx context.Context, id string) (*domain.Issue, error)
	FindByKey(ctx context.Context, key string) (*domain.Issue, error)
	// List returns a page of issues matching filter and the total count.
	List(ctx context.Context, filter ListIssuesFilter) ([]*domain.Issue, int64, error)
	// UpdateFields applies a partial update. Storage rejecting an unknown
	// field surfaces as *domain.SchemaDriftError.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error

	// Hierarchy projections. These return reduced views, never full records.
	ParentRef(ctx context.Context, id string) (*domain.ParentRef, error)
	Subtasks(ctx context.Context, parentID string) ([]domain.SubtaskRef, error)
	CountSubtasks(ctx context.Context, parentID string) (int64, error)
}

// IssueKeyAllocator hands out per-project sequential issue keys ("PAY-42").
type IssueKeyAllocator interface {
	NextKey(ctx context.Context, projectKey string) (string, error)
}
