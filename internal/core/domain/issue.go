package domain

import "time"

// IssueStatus represents the lifecycle state of an issue.
type IssueStatus string

const (
	StatusToDo       IssueStatus = "to_do"
	StatusInProgress IssueStatus = "in_progress"
	StatusInReview   IssueStatus = "in_review"
	StatusBlocked    IssueStatus = "blocked"
	StatusDone       IssueStatus = "done"
)

// Issue is the core aggregate root. ReporterID is set exactly once at
// creation and is never reachable through an update field mask. An issue with
// a non-nil ParentIssueID is a leaf: the hierarchy is one level deep.
type Issue struct {
	ID               string      `json:"id" bson:"_id,omitempty"`
	Key              string      `json:"key" bson:"key"`
	ProjectID        string      `json:"project_id" bson:"project_id"`
	IssueTypeID      string      `json:"issue_type_id" bson:"issue_type_id"`
	Summary          string      `json:"summary" bson:"summary"`
	Description      string      `json:"description" bson:"description"`
	Status           IssueStatus `json:"status" bson:"status"`
	InternalPriority string      `json:"internal_priority" bson:"internal_priority"`
	ClientPriority   *string     `json:"client_priority,omitempty" bson:"client_priority,omitempty"`
	AssigneeID       *string     `json:"assignee_id,omitempty" bson:"assignee_id,omitempty"`
	ReporterID       string      `json:"reporter_id" bson:"reporter_id"`
	SprintID         *string     `json:"sprint_id,omitempty" bson:"sprint_id,omitempty"`
	ReleaseID        *string     `json:"release_id,omitempty" bson:"release_id,omitempty"`
	ParentIssueID    *string     `json:"parent_issue_id,omitempty" bson:"parent_issue_id,omitempty"`
	StoryPoints      int         `json:"story_points" bson:"story_points"`
	Labels           []string    `json:"labels,omitempty" bson:"labels,omitempty"`
	Components       []string    `json:"components,omitempty" bson:"components,omitempty"`
	DueDate          *time.Time  `json:"due_date,omitempty" bson:"due_date,omitempty"`
	EstimatedDays    float64     `json:"estimated_days" bson:"estimated_days"`
	ActualDays       float64     `json:"actual_days" bson:"actual_days"`
	ExposedToClient  bool        `json:"exposed_to_client" bson:"exposed_to_client"`
	CreatedAt        time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" bson:"updated_at"`
}

// ParentRef is the read-only projection of a subtask's parent.
type ParentRef struct {
	ID      string `json:"id" bson:"_id"`
	Key     string `json:"key" bson:"key"`
	Summary string `json:"summary" bson:"summary"`
}

// SubtaskRef is the read-only projection of a direct subtask. Projections
// deliberately carry no reporter/assignee data so assembling a hierarchy view
// never re-runs authorization on nested issues.
type SubtaskRef struct {
	ID               string      `json:"id" bson:"_id"`
	Key              string      `json:"key" bson:"key"`
	Summary          string      `json:"summary" bson:"summary"`
	Status           IssueStatus `json:"status" bson:"status"`
	InternalPriority string      `json:"internal_priority" bson:"internal_priority"`
	ClientPriority   *string     `json:"client_priority,omitempty" bson:"client_priority,omitempty"`
}

// HierarchyView is the assembled parent/subtask context for one issue.
type HierarchyView struct {
	Parent   *ParentRef   `json:"parent,omitempty"`
	Subtasks []SubtaskRef `json:"subtasks"`
}
