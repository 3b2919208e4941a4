package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tracklight/tracklight/internal/api/metrics"
	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/policy"
	"github.com/tracklight/tracklight/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ActivityRecorder abstracts the async audit trail (queue dispatcher).
type ActivityRecorder interface {
	Enqueue(in ports.ActivityInput)
}

// IssueService implements issue use cases on top of the permission evaluator,
// the mutation sanitizer, and the hierarchy rules.
type IssueService struct {
	issues   ports.IssueRepository
	projects ports.ProjectRepository
	keys     ports.IssueKeyAllocator
	eval     policy.Evaluator
	activity ActivityRecorder
	logger   zerolog.Logger
}

// NewIssueService wires an IssueService. activity may be nil when no audit
// trail is configured.
func NewIssueService(
	issues ports.IssueRepository,
	projects ports.ProjectRepository,
	keys ports.IssueKeyAllocator,
	eval policy.Evaluator,
	activity ActivityRecorder,
	logger zerolog.Logger,
) *IssueService {
	return &IssueService{
		issues:   issues,
		projects: projects,
		keys:     keys,
		eval:     eval,
		activity: activity,
		logger:   logger,
	}
}

// Create authorizes and persists a new issue. The reporter is always the
// acting identity and is never updatable afterwards.
func (s *IssueService) Create(ctx context.Context, actor ports.Actor, in ports.CreateIssueInput) (*domain.Issue, error) {
	target := ""
	if in.AssigneeID != nil {
		target = *in.AssigneeID
	}
	dec := s.eval.Evaluate(actor.Role, policy.ActionIssueCreate, policy.Snapshot{TargetAssignee: target}, actor.ID)
	if !dec.Allowed {
		metrics.AuthzDenialsTotal.WithLabelValues(string(dec.Reason)).Inc()
		return nil, dec.Err()
	}

	project, err := s.projects.FindByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}

	if in.ParentIssueID != nil {
		parent, err := s.issues.FindByID(ctx, *in.ParentIssueID)
		if err != nil {
			if errors.Is(err, domain.ErrIssueNotFound) {
				return nil, domain.ErrInvalidHierarchy
			}
			return nil, err
		}
		// A subtask cannot itself be a parent.
		if parent.ParentIssueID != nil {
			metrics.HierarchyRejectionsTotal.Inc()
			return nil, domain.ErrInvalidHierarchy
		}
	}

	key, err := s.keys.NextKey(ctx, project.Key)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	issue := &domain.Issue{
		ID:               newID(),
		Key:              key,
		ProjectID:        project.ID,
		IssueTypeID:      in.IssueTypeID,
		Summary:          in.Summary,
		Description:      in.Description,
		Status:           domain.StatusToDo,
		InternalPriority: domain.NormalizeOnCreate(in.InternalPriority, in.Priority),
		ClientPriority:   in.ClientPriority,
		AssigneeID:       in.AssigneeID,
		ReporterID:       actor.ID,
		SprintID:         in.SprintID,
		ReleaseID:        in.ReleaseID,
		ParentIssueID:    in.ParentIssueID,
		StoryPoints:      in.StoryPoints,
		Labels:           in.Labels,
		Components:       in.Components,
		DueDate:          in.DueDate,
		EstimatedDays:    in.EstimatedDays,
		ActualDays:       in.ActualDays,
		ExposedToClient:  in.ExposedToClient,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.issues.Insert(ctx, issue); err != nil {
		s.logger.Error().Err(err).Str("project", project.Key).Msg("failed to create issue")
		return nil, err
	}

	metrics.IssuesCreatedTotal.WithLabelValues(issue.InternalPriority).Inc()
	s.record(issue.Key, actor.ID, "issue.created", nil)
	s.logger.Info().Str("key", issue.Key).Str("reporter", actor.ID).Msg("issue created")
	return issue, nil
}

// Get returns the issue together with its assembled hierarchy view.
func (s *IssueService) Get(ctx context.Context, actor ports.Actor, key string) (*ports.IssueDetail, error) {
	issue, err := s.issues.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return &ports.IssueDetail{
		Issue:     *issue,
		Hierarchy: s.assembleHierarchy(ctx, issue),
	}, nil
}

// assembleHierarchy fetches the parent and subtask projections. The two reads
// are unrelated and run concurrently. A missing parent degrades to nil rather
// than failing the whole view.
func (s *IssueService) assembleHierarchy(ctx context.Context, issue *domain.Issue) domain.HierarchyView {
	var (
		wg       sync.WaitGroup
		parent   *domain.ParentRef
		subtasks []domain.SubtaskRef
	)

	if issue.ParentIssueID != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := s.issues.ParentRef(ctx, *issue.ParentIssueID)
			if err != nil {
				s.logger.Warn().Err(err).Str("key", issue.Key).Msg("parent projection unavailable")
				return
			}
			parent = ref
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		refs, err := s.issues.Subtasks(ctx, issue.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", issue.Key).Msg("subtask projection unavailable")
			return
		}
		subtasks = refs
	}()

	wg.Wait()

	if subtasks == nil {
		subtasks = []domain.SubtaskRef{}
	}
	return domain.HierarchyView{Parent: parent, Subtasks: subtasks}
}

// List returns a page of issues matching the filter.
func (s *IssueService) List(ctx context.Context, actor ports.Actor, in ports.ListIssuesInput) (*ports.ListIssuesResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	items, total, err := s.issues.List(ctx, ports.ListIssuesFilter{
		ProjectID:  in.ProjectID,
		Status:     in.Status,
		AssigneeID: in.AssigneeID,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListIssuesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Update evaluates the actor against the issue snapshot, masks the payload to
// the allowed field subset, and applies a partial write with a single
// degraded retry when storage reports schema drift.
func (s *IssueService) Update(ctx context.Context, actor ports.Actor, key string, fields map[string]any) (*domain.Issue, error) {
	issue, err := s.issues.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	snap := policy.Snapshot{ReporterID: issue.ReporterID}
	if issue.AssigneeID != nil {
		snap.AssigneeID = *issue.AssigneeID
	}
	dec := s.eval.Evaluate(actor.Role, policy.ActionIssueUpdate, snap, actor.ID)
	if !dec.Allowed {
		metrics.AuthzDenialsTotal.WithLabelValues(string(dec.Reason)).Inc()
		return nil, dec.Err()
	}

	raw := make(map[string]any, len(fields))
	for k, v := range fields {
		raw[k] = v
	}
	// A legacy priority token is folded into the internal field before
	// masking; the internal value wins when both are present.
	if legacy, ok := raw[policy.FieldLegacyPriority].(string); ok {
		if _, has := raw[policy.FieldInternalPriority]; !has {
			raw[policy.FieldInternalPriority] = domain.NormalizeOnCreate("", legacy)
		}
		delete(raw, policy.FieldLegacyPriority)
	}

	payload := policy.Sanitize(raw, dec.Mask)
	if len(payload) == 0 {
		// Every submitted field was outside the mask: a no-op, not an error.
		return issue, nil
	}
	if v, ok := payload[policy.FieldInternalPriority].(string); ok {
		payload[policy.FieldInternalPriority] = domain.NormalizeOnCreate(v, "")
	}
	payload[policy.FieldUpdatedAt] = time.Now().UTC()

	if err := s.applyUpdate(ctx, issue.ID, payload); err != nil {
		return nil, err
	}

	s.record(issue.Key, actor.ID, "issue.updated", payloadFields(payload))
	return s.issues.FindByID(ctx, issue.ID)
}

// applyUpdate writes the payload, retrying exactly once through the degraded
// fallback when storage rejects a field it does not recognize. A second drift
// failure is surfaced as a hard error; the remedy is a schema migration.
func (s *IssueService) applyUpdate(ctx context.Context, id string, payload map[string]any) error {
	err := s.issues.UpdateFields(ctx, id, payload)
	var drift *domain.SchemaDriftError
	if err == nil || !errors.As(err, &drift) {
		return err
	}

	s.logger.Warn().Err(err).Str("issue_id", id).Msg("schema drift, retrying with degraded payload")
	degraded := policy.DegradedPayload(payload, drift.Field)

	err = s.issues.UpdateFields(ctx, id, degraded)
	if err == nil {
		metrics.SchemaDriftFallbacksTotal.WithLabelValues("recovered").Inc()
		return nil
	}
	if errors.As(err, &drift) {
		metrics.SchemaDriftFallbacksTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: %v", domain.ErrSchemaDriftUnrecovered, err)
	}
	return err
}

// Delete removes an issue. Deletion carries no role gate, unlike task
// deletion which requires the manager tier; the asymmetry is deliberate and
// documented in DESIGN.md.
func (s *IssueService) Delete(ctx context.Context, actor ports.Actor, key string) error {
	issue, err := s.issues.FindByKey(ctx, key)
	if err != nil {
		return err
	}
	if err := s.issues.Delete(ctx, issue.ID); err != nil {
		return err
	}
	s.record(issue.Key, actor.ID, "issue.deleted", nil)
	s.logger.Info().Str("key", issue.Key).Str("actor", actor.ID).Msg("issue deleted")
	return nil
}

// Attach links child under parent. The hierarchy is one level deep: a parent
// that is itself a subtask and a child that already has subtasks are both
// rejected.
func (s *IssueService) Attach(ctx context.Context, actor ports.Actor, parentKey, childKey string) error {
	parent, err := s.issues.FindByKey(ctx, parentKey)
	if err != nil {
		return err
	}
	child, err := s.issues.FindByKey(ctx, childKey)
	if err != nil {
		return err
	}

	snap := policy.Snapshot{ReporterID: child.ReporterID}
	if child.AssigneeID != nil {
		snap.AssigneeID = *child.AssigneeID
	}
	dec := s.eval.Evaluate(actor.Role, policy.ActionIssueUpdate, snap, actor.ID)
	if !dec.Allowed {
		metrics.AuthzDenialsTotal.WithLabelValues(string(dec.Reason)).Inc()
		return dec.Err()
	}
	if !dec.Mask.Contains(policy.FieldParentIssueID) {
		metrics.AuthzDenialsTotal.WithLabelValues(string(policy.ReasonCapabilityMissing)).Inc()
		return domain.ErrCapabilityMissing
	}

	if parent.ID == child.ID || parent.ParentIssueID != nil {
		metrics.HierarchyRejectionsTotal.Inc()
		return domain.ErrInvalidHierarchy
	}
	n, err := s.issues.CountSubtasks(ctx, child.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		metrics.HierarchyRejectionsTotal.Inc()
		return domain.ErrInvalidHierarchy
	}

	payload := map[string]any{
		policy.FieldParentIssueID: parent.ID,
		policy.FieldUpdatedAt:     time.Now().UTC(),
	}
	if err := s.applyUpdate(ctx, child.ID, payload); err != nil {
		return err
	}

	s.record(child.Key, actor.ID, "issue.attached", []string{policy.FieldParentIssueID})
	s.logger.Info().Str("parent", parent.Key).Str("child", child.Key).Msg("subtask attached")
	return nil
}

func (s *IssueService) record(issueKey, actorID, action string, fields []string) {
	if s.activity == nil {
		return
	}
	s.activity.Enqueue(ports.ActivityInput{
		IssueKey:  issueKey,
		ActorID:   actorID,
		Action:    action,
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	})
}

// payloadFields lists the written field names, minus bookkeeping columns.
func payloadFields(payload map[string]any) []string {
	out := make([]string, 0, len(payload))
	for k := range payload {
		if k == policy.FieldUpdatedAt {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
