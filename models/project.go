package models

import "time"

type Project struct {
	ID          ProjectID `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedBy   UserID    `bson:"createdBy" json:"createdBy"`
	Members     []UserID  `bson:"members" json:"members"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	// Version is bumped on every write; saves match on it so concurrent
	// read-check-write sequences cannot silently overwrite each other.
	Version int64 `bson:"version" json:"-"`
}

// IsMember reports whether the user is in the membership set. The creator is
// never stored in Members and is not reported by this method.
func (p *Project) IsMember(id UserID) bool {
	for _, m := range p.Members {
		if m == id {
			return true
		}
	}
	return false
}

// IsParticipant reports whether the user is the creator or a member.
func (p *Project) IsParticipant(id UserID) bool {
	return p.CreatedBy == id || p.IsMember(id)
}
