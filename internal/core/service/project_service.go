package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tracklight/tracklight/internal/api/metrics"
	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/policy"
	"github.com/tracklight/tracklight/internal/core/ports"
)

// ProjectService implements project use cases.
type ProjectService struct {
	projects ports.ProjectRepository
	reg      policy.Registry
	eval     policy.Evaluator
	logger   zerolog.Logger
}

func NewProjectService(projects ports.ProjectRepository, reg policy.Registry, logger zerolog.Logger) *ProjectService {
	return &ProjectService{
		projects: projects,
		reg:      reg,
		eval:     policy.NewEvaluator(reg),
		logger:   logger,
	}
}

// Create requires the create-projects capability. Roles flagged with
// AutoMemberOnCreate join the member list immediately.
func (s *ProjectService) Create(ctx context.Context, actor ports.Actor, in ports.CreateProjectInput) (*domain.Project, error) {
	dec := s.eval.Evaluate(actor.Role, policy.ActionProjectCreate, policy.Snapshot{}, actor.ID)
	if !dec.Allowed {
		metrics.AuthzDenialsTotal.WithLabelValues(string(dec.Reason)).Inc()
		return nil, dec.Err()
	}

	key := strings.ToUpper(strings.TrimSpace(in.Key))
	if existing, err := s.projects.FindByKey(ctx, key); err == nil && existing != nil {
		return nil, domain.ErrProjectExists
	}

	now := time.Now().UTC()
	project := &domain.Project{
		ID:          newID(),
		Key:         key,
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if s.reg.CapabilitiesFor(actor.Role).Project.AutoMemberOnCreate {
		project.MemberIDs = []string{actor.ID}
	}

	if err := s.projects.Insert(ctx, project); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to create project")
		return nil, err
	}

	s.logger.Info().Str("key", key).Str("owner", actor.ID).Msg("project created")
	return project, nil
}

// Get returns a project. Actors without the view-all capability must be
// members.
func (s *ProjectService) Get(ctx context.Context, actor ports.Actor, key string) (*domain.Project, error) {
	project, err := s.projects.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	dec := s.eval.Evaluate(actor.Role, policy.ActionProjectsView, policy.Snapshot{}, actor.ID)
	if !dec.Allowed && !project.HasMember(actor.ID) && project.OwnerID != actor.ID {
		metrics.AuthzDenialsTotal.WithLabelValues(string(dec.Reason)).Inc()
		return nil, dec.Err()
	}
	return project, nil
}

// List returns all projects for view-all roles, otherwise the actor's own.
func (s *ProjectService) List(ctx context.Context, actor ports.Actor) ([]*domain.Project, error) {
	dec := s.eval.Evaluate(actor.Role, policy.ActionProjectsView, policy.Snapshot{}, actor.ID)
	member := actor.ID
	if dec.Allowed {
		member = ""
	}
	return s.projects.List(ctx, member)
}

// AddMember requires the manage-members capability.
func (s *ProjectService) AddMember(ctx context.Context, actor ports.Actor, key, userID string) error {
	project, err := s.projects.FindByKey(ctx, key)
	if err != nil {
		return err
	}
	if !s.reg.CapabilitiesFor(actor.Role).Project.CanManageMembers {
		metrics.AuthzDenialsTotal.WithLabelValues(string(policy.ReasonCapabilityMissing)).Inc()
		return domain.ErrCapabilityMissing
	}
	if project.HasMember(userID) {
		return nil
	}
	return s.projects.AddMember(ctx, project.ID, userID)
}

// RemoveMember requires the manage-members capability.
func (s *ProjectService) RemoveMember(ctx context.Context, actor ports.Actor, key, userID string) error {
	project, err := s.projects.FindByKey(ctx, key)
	if err != nil {
		return err
	}
	if !s.reg.CapabilitiesFor(actor.Role).Project.CanManageMembers {
		metrics.AuthzDenialsTotal.WithLabelValues(string(policy.ReasonCapabilityMissing)).Inc()
		return domain.ErrCapabilityMissing
	}
	return s.projects.RemoveMember(ctx, project.ID, userID)
}
