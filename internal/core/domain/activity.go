package domain

import "time"

// ActivityRecord is one entry in an issue's append-only audit trail.
type ActivityRecord struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	IssueKey  string    `json:"issue_key" bson:"issue_key"`
	ActorID   string    `json:"actor_id" bson:"actor_id"`
	Action    string    `json:"action" bson:"action"`
	Fields    []string  `json:"fields,omitempty" bson:"fields,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
