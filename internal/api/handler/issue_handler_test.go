package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub services
// ---------------------------------------------------------------------------

type stubIssueService struct {
	createFn func(ctx context.Context, actor ports.Actor, in ports.CreateIssueInput) (*domain.Issue, error)
	getFn    func(ctx context.Context, actor ports.Actor, key string) (*ports.IssueDetail, error)
	updateFn func(ctx context.Context, actor ports.Actor, key string, fields map[string]any) (*domain.Issue, error)
	attachFn func(ctx context.Context, actor ports.Actor, parentKey, childKey string) error
}

func (s *stubIssueService) Create(ctx context.Context, actor ports.Actor, in ports.CreateIssueInput) (*domain.Issue, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubIssueService) Get(ctx context.Context, actor ports.Actor, key string) (*ports.IssueDetail, error) {
	return s.getFn(ctx, actor, key)
}

func (s *stubIssueService) List(context.Context, ports.Actor, ports.ListIssuesInput) (*ports.ListIssuesResult, error) {
	return &ports.ListIssuesResult{Items: []*domain.Issue{}}, nil
}

func (s *stubIssueService) Update(ctx context.Context, actor ports.Actor, key string, fields map[string]any) (*domain.Issue, error) {
	return s.updateFn(ctx, actor, key, fields)
}

func (s *stubIssueService) Delete(context.Context, ports.Actor, string) error { return nil }

func (s *stubIssueService) Attach(ctx context.Context, actor ports.Actor, parentKey, childKey string) error {
	return s.attachFn(ctx, actor, parentKey, childKey)
}

func newAuthedContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("actor_id", "user-1")
	c.Set("role", domain.RoleTeamLeader)
	return c, rec
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestIssueHandler_Create_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	svc := &stubIssueService{
		createFn: func(_ context.Context, actor ports.Actor, in ports.CreateIssueInput) (*domain.Issue, error) {
			if actor.ID != "user-1" || actor.Role != domain.RoleTeamLeader {
				t.Fatalf("unexpected actor: %+v", actor)
			}
			if in.Priority != "highest" || in.Summary != "login broken" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Issue{Key: "PAY-1", Summary: in.Summary, InternalPriority: "P1"}, nil
		},
	}
	h := NewIssueHandler(svc, nil)

	body := `{"project_id":"p1","issue_type_id":"bug","summary":"login broken","priority":"highest"}`
	c, rec := newAuthedContext(e, http.MethodPost, "/v1/issues", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	issue, ok := resp["issue"].(map[string]any)
	if !ok || issue["key"] != "PAY-1" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestIssueHandler_Create_MissingRequiredFields(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	svc := &stubIssueService{
		createFn: func(context.Context, ports.Actor, ports.CreateIssueInput) (*domain.Issue, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewIssueHandler(svc, nil)

	c, _ := newAuthedContext(e, http.MethodPost, "/v1/issues", `{"summary":"no project"}`)

	err := h.Create(c)
	var he *echo.HTTPError
	if err == nil || !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestIssueHandler_Create_Unauthenticated(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewIssueHandler(&stubIssueService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/issues", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	// No actor_id in context.

	err := h.Create(c)
	var he *echo.HTTPError
	if err == nil || !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestIssueHandler_Update_PassesRawFieldMap(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	svc := &stubIssueService{
		updateFn: func(_ context.Context, _ ports.Actor, key string, fields map[string]any) (*domain.Issue, error) {
			if key != "PAY-1" {
				t.Fatalf("unexpected key %q", key)
			}
			if fields["status"] != "done" || fields["client_priority"] != "urgent" {
				t.Fatalf("fields must pass through untouched: %v", fields)
			}
			return &domain.Issue{Key: key, Status: domain.StatusDone}, nil
		},
	}
	h := NewIssueHandler(svc, nil)

	c, rec := newAuthedContext(e, http.MethodPatch, "/v1/issues/PAY-1", `{"status":"done","client_priority":"urgent"}`)
	c.SetParamNames("key")
	c.SetParamValues("PAY-1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestIssueHandler_Update_ParsesDueDate(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	svc := &stubIssueService{
		updateFn: func(_ context.Context, _ ports.Actor, _ string, fields map[string]any) (*domain.Issue, error) {
			if _, ok := fields["due_date"].(string); ok {
				t.Fatal("due_date must be normalized to time.Time before the service")
			}
			return &domain.Issue{}, nil
		},
	}
	h := NewIssueHandler(svc, nil)

	c, _ := newAuthedContext(e, http.MethodPatch, "/v1/issues/PAY-1", `{"due_date":"2026-09-01T00:00:00Z"}`)
	c.SetParamNames("key")
	c.SetParamValues("PAY-1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Get / Attach
// ---------------------------------------------------------------------------

func TestIssueHandler_Get_IncludesHierarchy(t *testing.T) {
	e := echo.New()

	svc := &stubIssueService{
		getFn: func(_ context.Context, _ ports.Actor, key string) (*ports.IssueDetail, error) {
			return &ports.IssueDetail{
				Issue: domain.Issue{Key: key},
				Hierarchy: domain.HierarchyView{
					Parent:   &domain.ParentRef{Key: "PAY-1", Summary: "epic"},
					Subtasks: []domain.SubtaskRef{},
				},
			}, nil
		},
	}
	h := NewIssueHandler(svc, nil)

	c, rec := newAuthedContext(e, http.MethodGet, "/v1/issues/PAY-2", "")
	c.SetParamNames("key")
	c.SetParamValues("PAY-2")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	parent, ok := resp["parent"].(map[string]any)
	if !ok || parent["key"] != "PAY-1" {
		t.Fatalf("parent missing from response: %v", resp)
	}
	if _, ok := resp["subtasks"]; !ok {
		t.Fatal("subtasks must always be present")
	}
}

func TestIssueHandler_Attach(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	attached := false
	svc := &stubIssueService{
		attachFn: func(_ context.Context, _ ports.Actor, parentKey, childKey string) error {
			attached = true
			if parentKey != "PAY-1" || childKey != "PAY-2" {
				t.Fatalf("unexpected keys: %s %s", parentKey, childKey)
			}
			return nil
		},
	}
	h := NewIssueHandler(svc, nil)

	c, rec := newAuthedContext(e, http.MethodPost, "/v1/issues/PAY-1/subtasks", `{"child_key":"PAY-2"}`)
	c.SetParamNames("key")
	c.SetParamValues("PAY-1")

	if err := h.Attach(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !attached {
		t.Fatal("service not called")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
