// Package auth computes a caller's capability tier for a project and answers,
// per operation, whether that tier is sufficient. It is pure: no repository
// access, no side effects. Every service consults it instead of checking roles
// ad hoc.
package auth

import "github.com/Kamal-Bhagchandani/jira-lite/models"

// Caller is the authenticated identity attached to every request.
type Caller struct {
	ID   models.UserID
	Role models.Role
}

func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// Tier is the caller's capability level relative to a project. Higher tiers
// include every permission of the lower ones.
type Tier int

const (
	TierNone Tier = iota
	TierMember
	TierOwner
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierAdmin:
		return "admin"
	case TierOwner:
		return "owner"
	case TierMember:
		return "member"
	default:
		return "none"
	}
}

// ProjectTier classifies the caller's relationship to a project.
func ProjectTier(c Caller, p *models.Project) Tier {
	switch {
	case c.IsAdmin():
		return TierAdmin
	case p.CreatedBy == c.ID:
		return TierOwner
	case p.IsMember(c.ID):
		return TierMember
	default:
		return TierNone
	}
}

// CanViewProject gates project detail and task listing: member or above.
func CanViewProject(c Caller, p *models.Project) bool {
	return ProjectTier(c, p) >= TierMember
}

// CanAddMembers gates membership mutation: owner or admin.
func CanAddMembers(c Caller, p *models.Project) bool {
	return ProjectTier(c, p) >= TierOwner
}

// CanCreateTask gates task creation under a project: member or above.
func CanCreateTask(c Caller, p *models.Project) bool {
	return ProjectTier(c, p) >= TierMember
}

// CanReassignTask gates reassignment. Plain membership is not enough.
func CanReassignTask(c Caller, p *models.Project) bool {
	return ProjectTier(c, p) >= TierOwner
}

// CanUpdateTaskStatus gates status transitions. An assigned task may only be
// moved by its assignee or an admin; an unassigned one by any participant.
func CanUpdateTaskStatus(c Caller, t *models.Task, p *models.Project) bool {
	if t.AssignedTo != nil {
		return c.IsAdmin() || *t.AssignedTo == c.ID
	}
	return ProjectTier(c, p) >= TierMember
}
