package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tracklight/tracklight/internal/api/metrics"
	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/policy"
	"github.com/tracklight/tracklight/internal/core/ports"
)

// TaskService implements use cases for flat tasks.
type TaskService struct {
	tasks  ports.TaskRepository
	eval   policy.Evaluator
	logger zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, eval policy.Evaluator, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, eval: eval, logger: logger}
}

// Create authorizes and persists a task. Assigning to someone else requires
// the manager tier; self-assignment is always allowed.
func (s *TaskService) Create(ctx context.Context, actor ports.Actor, in ports.CreateTaskInput) (*domain.Task, error) {
	target := ""
	if in.AssignedTo != nil {
		target = *in.AssignedTo
	}
	dec := s.eval.Evaluate(actor.Role, policy.ActionTaskCreate, policy.Snapshot{TargetAssignee: target}, actor.ID)
	if !dec.Allowed {
		metrics.AuthzDenialsTotal.WithLabelValues(string(dec.Reason)).Inc()
		return nil, dec.Err()
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          newID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.TaskOpen,
		AssignedTo:  in.AssignedTo,
		CreatedBy:   actor.ID,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	s.logger.Info().Str("task_id", task.ID).Str("created_by", actor.ID).Msg("task created")
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

// List scopes results by role: non-managers only see tasks they created or
// are assigned to.
func (s *TaskService) List(ctx context.Context, actor ports.Actor, in ports.ListTasksInput) (*ports.ListTasksResult, error) {
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

	owner := actor.ID
	if actor.Role.ManagerTier() {
		owner = ""
	}

	items, total, err := s.tasks.List(ctx, ports.ListTasksFilter{
		OwnerID: owner,
		Status:  in.Status,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListTasksResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Update evaluates ownership and reassignment rules, masks the payload, and
// applies a partial write.
func (s *TaskService) Update(ctx context.Context, actor ports.Actor, id string, fields map[string]any) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snap := policy.Snapshot{CreatedBy: task.CreatedBy}
	if task.AssignedTo != nil {
		snap.AssignedTo = *task.AssignedTo
	}
	clearAssignment := false
	if raw, ok := fields[policy.FieldAssignedTo]; ok {
		if target, isStr := raw.(string); isStr {
			snap.TargetAssignee = target
		} else {
			// JSON null (or any non-string) clears the assignment, which
			// counts as a reassignment for the ownership rules.
			snap.ClearAssignment = true
			clearAssignment = true
		}
	}

	dec := s.eval.Evaluate(actor.Role, policy.ActionTaskUpdate, snap, actor.ID)
	if !dec.Allowed {
		metrics.AuthzDenialsTotal.WithLabelValues(string(dec.Reason)).Inc()
		return nil, dec.Err()
	}

	payload := policy.Sanitize(fields, dec.Mask)
	if len(payload) == 0 {
		return task, nil
	}
	if clearAssignment {
		if _, ok := payload[policy.FieldAssignedTo]; ok {
			payload[policy.FieldAssignedTo] = nil
		}
	}
	payload[policy.FieldUpdatedAt] = time.Now().UTC()

	if err := s.tasks.UpdateFields(ctx, id, payload); err != nil {
		return nil, err
	}
	return s.tasks.FindByID(ctx, id)
}

// Delete is manager-tier only.
func (s *TaskService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	if !actor.Role.ManagerTier() {
		metrics.AuthzDenialsTotal.WithLabelValues(string(policy.ReasonRoleForbidden)).Inc()
		return domain.ErrRoleForbidden
	}
	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("task_id", id).Str("actor", actor.ID).Msg("task deleted")
	return nil
}
