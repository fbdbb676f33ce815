// Package repositories holds the persistence interfaces the services accept
// and their MongoDB implementations.
package repositories

import (
	"context"
	"errors"

	"github.com/Kamal-Bhagchandani/jira-lite/models"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned by Save when the entity was modified since it
// was read. Callers re-read and retry.
var ErrVersionConflict = errors.New("version conflict")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id models.UserID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByEmails resolves a batch of normalized emails. The returned slice
	// holds only the users that exist; the caller diffs it against the request
	// to learn which emails were unresolved.
	FindByEmails(ctx context.Context, emails []string) ([]models.User, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id models.ProjectID) (*models.Project, error)
	// Save persists members mutations with an optimistic version check.
	Save(ctx context.Context, project *models.Project) error
	// FindByUser returns projects the user created or belongs to.
	FindByUser(ctx context.Context, userID models.UserID) ([]models.Project, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id models.TaskID) (*models.Task, error)
	Save(ctx context.Context, task *models.Task) error
	FindByProject(ctx context.Context, projectID models.ProjectID) ([]models.Task, error)
}
