package ports

import (
	"context"
	"time"

	"github.com/tracklight/tracklight/internal/core/domain"
)

// ActivityInput is the DTO enqueued by services after a successful mutation.
type ActivityInput struct {
	IssueKey  string
	ActorID   string
	Action    string
	Fields    []string
	Timestamp time.Time
}

// ActivityRepository persists the append-only audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, record *domain.ActivityRecord) error
	// ListByIssueKey returns records ordered by timestamp, oldest first.
	ListByIssueKey(ctx context.Context, issueKey string) ([]domain.ActivityRecord, error)
}

// ActivityService records and reads audit trail entries.
type ActivityService interface {
	Record(ctx context.Context, in ActivityInput) error
	ListForIssue(ctx context.Context, issueKey string) ([]domain.ActivityRecord, error)
}
