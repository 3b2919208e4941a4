package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tracklight/tracklight/internal/api/metrics"
	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService implementation backed by the
// audit trail repository.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Record persists one audit record. Called from dispatcher workers.
func (s *activityService) Record(ctx context.Context, in ports.ActivityInput) error {
	record := &domain.ActivityRecord{
		ID:        newID(),
		IssueKey:  in.IssueKey,
		ActorID:   in.ActorID,
		Action:    in.Action,
		Fields:    in.Fields,
		Timestamp: in.Timestamp,
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		metrics.ActivityDroppedTotal.Inc()
		s.log.Warn().Err(err).Str("issue_key", in.IssueKey).Msg("failed to persist activity record")
		return err
	}
	return nil
}

func (s *activityService) ListForIssue(ctx context.Context, issueKey string) ([]domain.ActivityRecord, error) {
	return s.repo.ListByIssueKey(ctx, issueKey)
}
