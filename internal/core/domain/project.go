package domain

import "time"

// Project groups issues under a short uppercase key ("PAY" → "PAY-42").
type Project struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Key         string    `json:"key" bson:"key"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID     string    `json:"owner_id" bson:"owner_id"`
	MemberIDs   []string  `json:"member_ids" bson:"member_ids"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// HasMember reports whether actorID belongs to the project.
func (p *Project) HasMember(actorID string) bool {
	for _, id := range p.MemberIDs {
		if id == actorID {
			return true
		}
	}
	return false
}
