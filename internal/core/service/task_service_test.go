package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/policy"
	"github.com/tracklight/tracklight/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	byID    map[string]*domain.Task
	updates []map[string]any
	deleted []string
	// lastFilter is the OwnerID passed to the last List call.
	lastFilter string
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{byID: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) Insert(_ context.Context, task *domain.Task) error {
	clone := *task
	r.byID[task.ID] = &clone
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *task
	return &clone, nil
}

func (r *stubTaskRepo) List(_ context.Context, f ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	r.lastFilter = f.OwnerID
	var matched []*domain.Task
	for _, task := range r.byID {
		if f.OwnerID != "" {
			assigned := task.AssignedTo != nil && *task.AssignedTo == f.OwnerID
			if task.CreatedBy != f.OwnerID && !assigned {
				continue
			}
		}
		if f.Status != "" && string(task.Status) != f.Status {
			continue
		}
		clone := *task
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubTaskRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	clone := make(map[string]any, len(fields))
	for k, v := range fields {
		clone[k] = v
	}
	r.updates = append(r.updates, clone)

	task, ok := r.byID[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if v, ok := fields[policy.FieldStatus].(string); ok {
		task.Status = domain.TaskStatus(v)
	}
	if v, ok := fields[policy.FieldTitle].(string); ok {
		task.Title = v
	}
	if v, ok := fields[policy.FieldAssignedTo].(string); ok {
		task.AssignedTo = &v
	}
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func newTaskService(repo *stubTaskRepo) *TaskService {
	return NewTaskService(repo, policy.NewEvaluator(policy.DefaultRegistry()), zerolog.Nop())
}

func seedTask(repo *stubTaskRepo, id, createdBy string, assignedTo *string) *domain.Task {
	task := &domain.Task{
		ID:         id,
		Title:      "seeded",
		Status:     domain.TaskOpen,
		CreatedBy:  createdBy,
		AssignedTo: assignedTo,
	}
	repo.byID[id] = task
	return task
}

var plainUser = ports.Actor{ID: "u-1", Role: domain.RoleUser}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestTaskService_Create_OwnerIsActor(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)

	task, err := svc.Create(context.Background(), plainUser, ports.CreateTaskInput{Title: "write report"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.CreatedBy != plainUser.ID {
		t.Errorf("creator must be the actor, got %q", task.CreatedBy)
	}
	if task.Status != domain.TaskOpen {
		t.Errorf("new tasks start open, got %q", task.Status)
	}
}

func TestTaskService_Create_AssignOtherNeedsManager(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)

	_, err := svc.Create(context.Background(), plainUser, ports.CreateTaskInput{
		Title:      "t",
		AssignedTo: strptr("colleague"),
	})
	if !errors.Is(err, domain.ErrRoleForbidden) {
		t.Errorf("want ErrRoleForbidden, got %v", err)
	}

	if _, err := svc.Create(context.Background(), manager, ports.CreateTaskInput{
		Title:      "t",
		AssignedTo: strptr("colleague"),
	}); err != nil {
		t.Errorf("manager must assign to others: %v", err)
	}
}

// ---------------------------------------------------------------------------
// List scoping
// ---------------------------------------------------------------------------

func TestTaskService_List_NonManagerScopedToOwn(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)
	seedTask(repo, "t1", plainUser.ID, nil)
	seedTask(repo, "t2", "someone-else", nil)

	res, err := svc.List(context.Background(), plainUser, ports.ListTasksInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter != plainUser.ID {
		t.Errorf("non-manager list must filter by owner, got %q", repo.lastFilter)
	}
	if res.Total != 1 {
		t.Errorf("want 1 own task, got %d", res.Total)
	}
}

func TestTaskService_List_ManagerSeesAll(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)
	seedTask(repo, "t1", "a", nil)
	seedTask(repo, "t2", "b", nil)

	res, err := svc.List(context.Background(), manager, ports.ListTasksInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter != "" {
		t.Errorf("manager list must not filter, got %q", repo.lastFilter)
	}
	if res.Total != 2 {
		t.Errorf("want 2 tasks, got %d", res.Total)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestTaskService_Update_CreatorAllowed(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)
	seedTask(repo, "t1", plainUser.ID, nil)

	task, err := svc.Update(context.Background(), plainUser, "t1", map[string]any{"status": "done"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != domain.TaskDone {
		t.Errorf("status not applied: %q", task.Status)
	}
}

func TestTaskService_Update_StrangerDenied(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)
	seedTask(repo, "t1", "someone-else", nil)

	_, err := svc.Update(context.Background(), plainUser, "t1", map[string]any{"status": "done"})
	if !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("want ErrNotOwner, got %v", err)
	}
}

func TestTaskService_Update_ReassignAwayDenied(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)
	seedTask(repo, "t1", plainUser.ID, strptr(plainUser.ID))

	_, err := svc.Update(context.Background(), plainUser, "t1", map[string]any{"assigned_to": "colleague"})
	if !errors.Is(err, domain.ErrRoleForbidden) {
		t.Errorf("want ErrRoleForbidden, got %v", err)
	}

	// A manager hands it off freely.
	if _, err := svc.Update(context.Background(), manager, "t1", map[string]any{"assigned_to": "colleague"}); err != nil {
		t.Errorf("manager reassignment must succeed: %v", err)
	}
}

func TestTaskService_Update_NullUnassignDenied(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)
	seedTask(repo, "t1", "someone-else", strptr(teamMember.ID))

	// A decoded JSON null arrives as an untyped nil in the field map.
	_, err := svc.Update(context.Background(), teamMember, "t1", map[string]any{"assigned_to": nil})
	if !errors.Is(err, domain.ErrRoleForbidden) {
		t.Errorf("want ErrRoleForbidden, got %v", err)
	}
	if len(repo.updates) != 0 {
		t.Errorf("denied update must not reach storage, got %d writes", len(repo.updates))
	}
}

func TestTaskService_Update_ManagerUnassignsWithNull(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)
	seedTask(repo, "t1", plainUser.ID, strptr(plainUser.ID))

	if _, err := svc.Update(context.Background(), manager, "t1", map[string]any{"assigned_to": nil}); err != nil {
		t.Fatalf("manager unassignment must succeed: %v", err)
	}
	written := repo.updates[0]
	v, ok := written["assigned_to"]
	if !ok || v != nil {
		t.Errorf("unassignment must write a null, got %v", written)
	}
}

func TestTaskService_Update_NullOnUnassignedTaskIsNoOp(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)
	seedTask(repo, "t1", plainUser.ID, nil)

	// Nothing is held, so clearing takes nothing away from anyone.
	if _, err := svc.Update(context.Background(), plainUser, "t1", map[string]any{"assigned_to": nil, "status": "done"}); err != nil {
		t.Errorf("clearing an empty assignment must pass: %v", err)
	}
}

func TestTaskService_Update_AssignedTeamMemberAllowed(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)
	seedTask(repo, "t1", "someone-else", strptr(teamMember.ID))

	if _, err := svc.Update(context.Background(), teamMember, "t1", map[string]any{"status": "in_progress"}); err != nil {
		t.Errorf("assigned team member must update: %v", err)
	}
}

func TestTaskService_Update_MasksUnknownFields(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)
	seedTask(repo, "t1", plainUser.ID, nil)

	_, err := svc.Update(context.Background(), plainUser, "t1", map[string]any{
		"title":      "renamed",
		"created_by": "hijacker",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	written := repo.updates[0]
	if _, ok := written["created_by"]; ok {
		t.Error("created_by must never reach storage through an update")
	}
	if written["title"] != "renamed" {
		t.Errorf("title must survive, got %v", written)
	}
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestTaskService_Delete_ManagerOnly(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)
	seedTask(repo, "t1", plainUser.ID, nil)

	if err := svc.Delete(context.Background(), plainUser, "t1"); !errors.Is(err, domain.ErrRoleForbidden) {
		t.Errorf("creator without manager tier must be denied, got %v", err)
	}
	if err := svc.Delete(context.Background(), manager, "t1"); err != nil {
		t.Errorf("manager delete must succeed: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Errorf("expected 1 deletion, got %d", len(repo.deleted))
	}
}

func TestTaskService_Delete_NotFound(t *testing.T) {
	repo := newStubTaskRepo()
	svc := newTaskService(repo)

	if err := svc.Delete(context.Background(), manager, "ghost"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("want ErrTaskNotFound, got %v", err)
	}
}
