package ports

import (
	"context"
	"time"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// Actor is the authenticated identity plus its resolved global role,
// established once per request by the boundary layer.
type Actor struct {
	ID   string
	Role domain.Role
}

// CreateIssueInput carries all data needed to create a new issue.
// Priority is the legacy single-tier token; it is only consulted when
// InternalPriority is absent.
type CreateIssueInput struct {
	ProjectID        string
	IssueTypeID      string
	Summary          string
	Description      string
	InternalPriority string
	Priority         string
	ClientPriority   *string
	AssigneeID       *string
	SprintID         *string
	ReleaseID        *string
	ParentIssueID    *string
	StoryPoints      int
	Labels           []string
	Components       []string
	DueDate          *time.Time
	EstimatedDays    float64
	ActualDays       float64
	ExposedToClient  bool
}

// IssueDetail is the full issue view: the record plus its hierarchy context.
type IssueDetail struct {
	Issue     domain.Issue
	Hierarchy domain.HierarchyView
}

// ListIssuesInput carries all parameters for the list endpoint.
type ListIssuesInput struct {
	ProjectID  string
	Status     string
	AssigneeID string
	Page       int
	Limit      int
}

// ListIssuesResult is returned by List.
type ListIssuesResult struct {
	Items      []*domain.Issue
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// IssueService defines use-case operations for issues.
type IssueService interface {
	Create(ctx context.Context, actor Actor, in CreateIssueInput) (*domain.Issue, error)
	Get(ctx context.Context, actor Actor, key string) (*IssueDetail, error)
	List(ctx context.Context, actor Actor, in ListIssuesInput) (*ListIssuesResult, error)
	// Update applies a raw field payload. Fields the actor's role may not
	// touch are dropped silently; ownership violations deny the whole call.
	Update(ctx context.Context, actor Actor, key string, fields map[string]any) (*domain.Issue, error)
	Delete(ctx context.Context, actor Actor, key string) error
	// Attach links child under parent, enforcing the one-level hierarchy.
	Attach(ctx context.Context, actor Actor, parentKey, childKey string) error
}
