package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kamal-Bhagchandani/jira-lite/apperrors"
	"github.com/Kamal-Bhagchandani/jira-lite/auth"
	"github.com/Kamal-Bhagchandani/jira-lite/models"
	"github.com/Kamal-Bhagchandani/jira-lite/repositories"
)

// maxSaveRetries bounds how often a read-check-write sequence is replayed
// after an optimistic version conflict.
const maxSaveRetries = 3

type ProjectService struct {
	projects repositories.ProjectRepository
	users    repositories.UserRepository
	notifier Notifier
}

func NewProjectService(projects repositories.ProjectRepository, users repositories.UserRepository, notifier Notifier) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		notifier: notifier,
	}
}

// CreateProject creates a project owned by the caller. Any authenticated user
// may create one; the caller becomes its owner and is never listed in Members.
func (s *ProjectService) CreateProject(ctx context.Context, caller auth.Caller, name, description string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.BadRequest("project name is required")
	}

	project := &models.Project{
		Name:        name,
		Description: description,
		CreatedBy:   caller.ID,
		Members:     []models.UserID{},
		CreatedAt:   time.Now(),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.Internal("failed to create project", err)
	}
	return project, nil
}

// GetProject returns a project the caller participates in.
func (s *ProjectService) GetProject(ctx context.Context, caller auth.Caller, projectID models.ProjectID) (*models.Project, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewProject(caller, project) {
		return nil, apperrors.Forbidden("you do not have access to this project")
	}
	return project, nil
}

// GetMyProjects lists projects the caller created or belongs to. This is
// scoping, not a gate: the query itself restricts the result set.
func (s *ProjectService) GetMyProjects(ctx context.Context, caller auth.Caller) ([]models.Project, error) {
	projects, err := s.projects.FindByUser(ctx, caller.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to list projects", err)
	}
	return projects, nil
}

// AddMembers admits a batch of users, referenced by email, to a project.
// Duplicate emails in the request are silently deduplicated after
// normalization. The batch is atomic: one unresolved email fails the whole
// call and nothing is written.
func (s *ProjectService) AddMembers(ctx context.Context, caller auth.Caller, projectID models.ProjectID, emails []string) (*models.Project, int, error) {
	if len(emails) == 0 {
		return nil, 0, apperrors.BadRequest("at least one email is required")
	}
	normalized := normalizeEmails(emails)
	if len(normalized) == 0 {
		return nil, 0, apperrors.BadRequest("at least one email is required")
	}

	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, 0, err
	}
	if !auth.CanAddMembers(caller, project) {
		return nil, 0, apperrors.Forbidden("only the project owner or an admin may add members")
	}

	resolved, err := s.users.FindByEmails(ctx, normalized)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to resolve member emails", err)
	}
	byEmail := make(map[string]models.User, len(resolved))
	for _, u := range resolved {
		byEmail[u.Email] = u
	}
	var unresolved []string
	for _, email := range normalized {
		if _, ok := byEmail[email]; !ok {
			unresolved = append(unresolved, email)
		}
	}
	if len(unresolved) > 0 {
		return nil, 0, apperrors.BadRequest("no registered user for email(s): %s", strings.Join(unresolved, ", "))
	}

	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		// Candidate set: resolved users minus the creator minus existing
		// members, recomputed against the freshest read of the project.
		var candidates []models.UserID
		for _, email := range normalized {
			user := byEmail[email]
			if user.ID == project.CreatedBy || project.IsMember(user.ID) {
				continue
			}
			candidates = append(candidates, user.ID)
		}
		if len(candidates) == 0 {
			return nil, 0, apperrors.BadRequest("no new members to add")
		}

		project.Members = append(project.Members, candidates...)
		err := s.projects.Save(ctx, project)
		if err == nil {
			for _, id := range candidates {
				notify(ctx, s.notifier, id, fmt.Sprintf("You were added to project %q", project.Name))
			}
			return project, len(candidates), nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return nil, 0, apperrors.Internal("failed to save project members", err)
		}
		if project, err = s.getProject(ctx, projectID); err != nil {
			return nil, 0, err
		}
	}
	return nil, 0, apperrors.Internal("project was modified concurrently, please retry", repositories.ErrVersionConflict)
}

// AddMember is the single-email variant of AddMembers. Unlike the batch, an
// already related user is an error rather than a skipped candidate.
func (s *ProjectService) AddMember(ctx context.Context, caller auth.Caller, projectID models.ProjectID, email string) (*models.Project, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.BadRequest("email is required")
	}

	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !auth.CanAddMembers(caller, project) {
		return nil, apperrors.Forbidden("only the project owner or an admin may add members")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.BadRequest("no registered user for email: %s", email)
		}
		return nil, apperrors.Internal("failed to resolve member email", err)
	}

	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		if user.ID == project.CreatedBy {
			return nil, apperrors.BadRequest("user %s is the project creator", email)
		}
		if project.IsMember(user.ID) {
			return nil, apperrors.BadRequest("user %s is already a member", email)
		}

		project.Members = append(project.Members, user.ID)
		err := s.projects.Save(ctx, project)
		if err == nil {
			notify(ctx, s.notifier, user.ID, fmt.Sprintf("You were added to project %q", project.Name))
			return project, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return nil, apperrors.Internal("failed to save project members", err)
		}
		if project, err = s.getProject(ctx, projectID); err != nil {
			return nil, err
		}
	}
	return nil, apperrors.Internal("project was modified concurrently, please retry", repositories.ErrVersionConflict)
}

func (s *ProjectService) getProject(ctx context.Context, projectID models.ProjectID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		return nil, apperrors.Internal("failed to fetch project", err)
	}
	return project, nil
}

// normalizeEmails lower-cases, trims and deduplicates, keeping request order.
func normalizeEmails(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	out := make([]string, 0, len(emails))
	for _, email := range emails {
		email = models.NormalizeEmail(email)
		if email == "" || seen[email] {
			continue
		}
		seen[email] = true
		out = append(out, email)
	}
	return out
}
