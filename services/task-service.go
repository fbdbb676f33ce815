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

type TaskService struct {
	tasks    repositories.TaskRepository
	projects repositories.ProjectRepository
	notifier Notifier
}

func NewTaskService(tasks repositories.TaskRepository, projects repositories.ProjectRepository, notifier Notifier) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		notifier: notifier,
	}
}

// CreateTask creates a task under a project the caller participates in. The
// assignee, when given, must be the project creator or one of its members.
func (s *TaskService) CreateTask(ctx context.Context, caller auth.Caller, projectID models.ProjectID, title, description string, assignedTo *models.UserID) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.BadRequest("task title is required")
	}
	if projectID.IsZero() {
		return nil, apperrors.BadRequest("project id is required")
	}

	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !auth.CanCreateTask(caller, project) {
		return nil, apperrors.Forbidden("you do not have access to this project")
	}
	if assignedTo != nil && !project.IsParticipant(*assignedTo) {
		return nil, apperrors.BadRequest("assignee must be the project creator or a member")
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		ProjectID:   projectID,
		AssignedTo:  assignedTo,
		CreatedBy:   caller.ID,
		Status:      models.StatusTodo,
		CreatedAt:   time.Now(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.Internal("failed to create task", err)
	}

	if assignedTo != nil && *assignedTo != caller.ID {
		notify(ctx, s.notifier, *assignedTo, fmt.Sprintf("You were assigned task %q", task.Title))
	}
	return task, nil
}

// UpdateStatus moves a task to the given status. Any enumerated value may be
// set in any order, including re-setting the current one. An assigned task may
// only be moved by its assignee or an admin; an unassigned one by any project
// participant.
func (s *TaskService) UpdateStatus(ctx context.Context, caller auth.Caller, taskID models.TaskID, status models.TaskStatus) (*models.Task, error) {
	if !status.IsValid() {
		return nil, apperrors.BadRequest("invalid status: %s", status)
	}

	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		if !auth.CanUpdateTaskStatus(caller, task, project) {
			if task.AssignedTo != nil {
				return nil, apperrors.Forbidden("only the assignee or an admin may update this task's status")
			}
			return nil, apperrors.Forbidden("you do not have access to this project")
		}

		task.Status = status
		err := s.tasks.Save(ctx, task)
		if err == nil {
			if task.AssignedTo != nil && *task.AssignedTo != caller.ID {
				notify(ctx, s.notifier, *task.AssignedTo, fmt.Sprintf("Task %q moved to %s", task.Title, status))
			}
			return task, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return nil, apperrors.Internal("failed to save task", err)
		}
		// The assignee may have changed under us; re-read and re-check.
		if task, err = s.getTask(ctx, taskID); err != nil {
			return nil, err
		}
	}
	return nil, apperrors.Internal("task was modified concurrently, please retry", repositories.ErrVersionConflict)
}

// Reassign hands a task to another participant. Membership alone is not
// enough to reassign: only the project owner or an admin may do it.
func (s *TaskService) Reassign(ctx context.Context, caller auth.Caller, taskID models.TaskID, newAssignee models.UserID) (*models.Task, error) {
	if newAssignee.IsZero() {
		return nil, apperrors.BadRequest("assignee is required")
	}

	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !auth.CanReassignTask(caller, project) {
		return nil, apperrors.Forbidden("only the project owner or an admin may reassign tasks")
	}
	if !project.IsParticipant(newAssignee) {
		return nil, apperrors.BadRequest("assignee must be the project creator or a member")
	}

	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		task.AssignedTo = &newAssignee
		err := s.tasks.Save(ctx, task)
		if err == nil {
			if newAssignee != caller.ID {
				notify(ctx, s.notifier, newAssignee, fmt.Sprintf("You were assigned task %q", task.Title))
			}
			return task, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return nil, apperrors.Internal("failed to save task", err)
		}
		if task, err = s.getTask(ctx, taskID); err != nil {
			return nil, err
		}
	}
	return nil, apperrors.Internal("task was modified concurrently, please retry", repositories.ErrVersionConflict)
}

// GetTask returns a task if the caller may view its project.
func (s *TaskService) GetTask(ctx context.Context, caller auth.Caller, taskID models.TaskID) (*models.Task, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewProject(caller, project) {
		return nil, apperrors.Forbidden("you do not have access to this project")
	}
	return task, nil
}

// GetTasksByProject lists a project's tasks for a caller who may view it.
func (s *TaskService) GetTasksByProject(ctx context.Context, caller auth.Caller, projectID models.ProjectID) ([]models.Task, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewProject(caller, project) {
		return nil, apperrors.Forbidden("you do not have access to this project")
	}

	tasks, err := s.tasks.FindByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.Internal("failed to list tasks", err)
	}
	return tasks, nil
}

func (s *TaskService) getTask(ctx context.Context, taskID models.TaskID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("task not found")
		}
		return nil, apperrors.Internal("failed to fetch task", err)
	}
	return task, nil
}

func (s *TaskService) getProject(ctx context.Context, projectID models.ProjectID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("project not found")
		}
		return nil, apperrors.Internal("failed to fetch project", err)
	}
	return project, nil
}
