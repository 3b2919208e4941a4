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

func newProjectService(repo *stubProjectRepo) *ProjectService {
	return NewProjectService(repo, policy.DefaultRegistry(), zerolog.Nop())
}

func TestProjectService_Create_RequiresCapability(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo)

	_, err := svc.Create(context.Background(), teamMember, ports.CreateProjectInput{Key: "pay", Name: "Payments"})
	if !errors.Is(err, domain.ErrCapabilityMissing) {
		t.Errorf("team member: want ErrCapabilityMissing, got %v", err)
	}

	project, err := svc.Create(context.Background(), manager, ports.CreateProjectInput{Key: "pay", Name: "Payments"})
	if err != nil {
		t.Fatalf("team leader must create projects: %v", err)
	}
	if project.Key != "PAY" {
		t.Errorf("key must be uppercased, got %q", project.Key)
	}
	if project.OwnerID != manager.ID {
		t.Errorf("owner must be the actor, got %q", project.OwnerID)
	}
}

func TestProjectService_Create_AutoMemberOnCreate(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo)

	project, err := svc.Create(context.Background(), manager, ports.CreateProjectInput{Key: "OPS", Name: "Ops"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !project.HasMember(manager.ID) {
		t.Error("creator with AutoMemberOnCreate must join the member list")
	}
}

func TestProjectService_Create_DuplicateKey(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo)

	_, _ = svc.Create(context.Background(), manager, ports.CreateProjectInput{Key: "PAY", Name: "Payments"})
	_, err := svc.Create(context.Background(), manager, ports.CreateProjectInput{Key: "pay", Name: "Payments Again"})
	if !errors.Is(err, domain.ErrProjectExists) {
		t.Errorf("want ErrProjectExists, got %v", err)
	}
}

func TestProjectService_Get_MemberOrViewAll(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo)
	_ = repo.Insert(context.Background(), &domain.Project{
		ID: "p1", Key: "PAY", OwnerID: "owner-1", MemberIDs: []string{teamMember.ID},
	})

	if _, err := svc.Get(context.Background(), teamMember, "PAY"); err != nil {
		t.Errorf("member must read the project: %v", err)
	}
	if _, err := svc.Get(context.Background(), manager, "PAY"); err != nil {
		t.Errorf("view-all role must read any project: %v", err)
	}
	if _, err := svc.Get(context.Background(), plainUser, "PAY"); !errors.Is(err, domain.ErrCapabilityMissing) {
		t.Errorf("outsider: want ErrCapabilityMissing, got %v", err)
	}
}

func TestProjectService_List_ScopedForNonViewAll(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo)
	_ = repo.Insert(context.Background(), &domain.Project{ID: "p1", Key: "A", MemberIDs: []string{teamMember.ID}})
	_ = repo.Insert(context.Background(), &domain.Project{ID: "p2", Key: "B"})

	own, err := svc.List(context.Background(), teamMember)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(own) != 1 {
		t.Errorf("non-view-all role sees only memberships, got %d", len(own))
	}

	all, _ := svc.List(context.Background(), manager)
	if len(all) != 2 {
		t.Errorf("view-all role sees everything, got %d", len(all))
	}
}

func TestProjectService_Members_RequireManageCapability(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo)
	_ = repo.Insert(context.Background(), &domain.Project{ID: "p1", Key: "PAY"})

	if err := svc.AddMember(context.Background(), teamMember, "PAY", "u9"); !errors.Is(err, domain.ErrCapabilityMissing) {
		t.Errorf("want ErrCapabilityMissing, got %v", err)
	}
	if err := svc.AddMember(context.Background(), manager, "PAY", "u9"); err != nil {
		t.Fatalf("manager must add members: %v", err)
	}

	project, _ := repo.FindByKey(context.Background(), "PAY")
	if !project.HasMember("u9") {
		t.Error("member not persisted")
	}

	if err := svc.RemoveMember(context.Background(), manager, "PAY", "u9"); err != nil {
		t.Fatalf("manager must remove members: %v", err)
	}
	project, _ = repo.FindByKey(context.Background(), "PAY")
	if project.HasMember("u9") {
		t.Error("member not removed")
	}
}

func TestProjectService_AddMember_IdempotentForExisting(t *testing.T) {
	repo := newStubProjectRepo()
	svc := newProjectService(repo)
	_ = repo.Insert(context.Background(), &domain.Project{ID: "p1", Key: "PAY", MemberIDs: []string{"u9"}})

	if err := svc.AddMember(context.Background(), manager, "PAY", "u9"); err != nil {
		t.Fatalf("re-adding an existing member must be a no-op: %v", err)
	}
	project, _ := repo.FindByKey(context.Background(), "PAY")
	if len(project.MemberIDs) != 1 {
		t.Errorf("member list must not grow, got %v", project.MemberIDs)
	}
}
