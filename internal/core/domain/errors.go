package domain

import (
	"errors"
	"fmt"
)

// Authorization denials. Terminal per request, never retried.
var ErrCapabilityMissing = errors.New("capability missing for requested action")
var ErrRoleForbidden = errors.New("role not permitted to perform this action")
var ErrNotOwner = errors.New("actor is neither assignee nor reporter of the resource")

// ErrInvalidHierarchy covers cyclic or multi-level nesting attempts.
var ErrInvalidHierarchy = errors.New("invalid issue hierarchy")

// ErrUpstreamUnavailable wraps storage or identity collaborator failures.
// Surfaced uninterpreted; the core does not retry collaborator failures.
var ErrUpstreamUnavailable = errors.New("upstream collaborator unavailable")

var ErrIssueNotFound = errors.New("issue not found")
var ErrTaskNotFound = errors.New("task not found")
var ErrProjectNotFound = errors.New("project not found")
var ErrProjectExists = errors.New("project key already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnknownRole = errors.New("unknown role")

// SchemaDriftError signals that storage rejected a field it does not
// recognize: the schema has drifted behind the application. Field names the
// offending key when the storage error identifies one.
type SchemaDriftError struct {
	Field string
}

func (e *SchemaDriftError) Error() string {
	if e.Field == "" {
		return "storage schema drift: write rejected an unrecognized field"
	}
	return fmt.Sprintf("storage schema drift: unknown field %q", e.Field)
}

// ErrSchemaDriftUnrecovered is returned when the degraded retry also fails
// with a drift error. The fix is a schema migration, not a code change.
var ErrSchemaDriftUnrecovered = errors.New(
	"storage schema drift persisted after degraded retry: run the pending schema migration")
