package services

import (
	"context"
	"testing"

	"github.com/Kamal-Bhagchandani/jira-lite/apperrors"
	"github.com/Kamal-Bhagchandani/jira-lite/models"
)

func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()

	users := newFakeUserRepo()
	projects := newFakeProjectRepo()

	admin := users.add("Ada", "ada@x.com", models.RoleAdmin)
	member := users.add("Ann", "a@x.com", models.RoleMember)
	stranger := users.add("Sam", "sam@x.com", models.RoleMember)
	project := projects.add(admin.ID, member.ID)

	newSvc := func() (*TaskService, *fakeTaskRepo) {
		tasks := newFakeTaskRepo()
		return NewTaskService(tasks, projects, nil), tasks
	}

	t.Run("Given an empty title Then fails with BadRequest before anything else", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.CreateTask(ctx, asCaller(member), models.NewProjectID(), " ", "", nil)
		wantKind(t, err, apperrors.KindBadRequest)
	})

	t.Run("Given a missing project Then fails with NotFound", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.CreateTask(ctx, asCaller(member), models.NewProjectID(), "Ship it", "", nil)
		wantKind(t, err, apperrors.KindNotFound)
	})

	t.Run("Given a non-member caller Then fails with Forbidden", func(t *testing.T) {
		// Admin-created project with an empty member list: a stranger may
		// not create tasks under it.
		bare := projects.add(admin.ID)
		svc, _ := newSvc()
		_, err := svc.CreateTask(ctx, asCaller(stranger), bare.ID, "Ship it", "", nil)
		wantKind(t, err, apperrors.KindForbidden)
	})

	t.Run("Given an assignee outside the project Then fails with BadRequest", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.CreateTask(ctx, asCaller(member), project.ID, "Ship it", "", &stranger.ID)
		wantKind(t, err, apperrors.KindBadRequest)
	})

	t.Run("Given a member caller Then the task starts in Todo", func(t *testing.T) {
		svc, _ := newSvc()
		task, err := svc.CreateTask(ctx, asCaller(member), project.ID, "Ship it", "deploy v2", &member.ID)
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		if task.Status != models.StatusTodo {
			t.Errorf("expected status Todo, got %s", task.Status)
		}
		if task.CreatedBy != member.ID {
			t.Errorf("expected CreatedBy %s, got %s", member.ID.Hex(), task.CreatedBy.Hex())
		}
	})

	t.Run("Given the project creator as assignee Then the assignment is valid", func(t *testing.T) {
		svc, _ := newSvc()
		task, err := svc.CreateTask(ctx, asCaller(member), project.ID, "Review", "", &admin.ID)
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		if task.AssignedTo == nil || *task.AssignedTo != admin.ID {
			t.Errorf("expected assignee %s", admin.ID.Hex())
		}
	})
}

func TestTaskService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	setup := func() (svc *TaskService, tasks *fakeTaskRepo, projects *fakeProjectRepo, owner, u1, u2 models.User, admin models.User, project *models.Project) {
		users := newFakeUserRepo()
		projects = newFakeProjectRepo()
		tasks = newFakeTaskRepo()
		owner = users.add("Olivia", "olivia@x.com", models.RoleMember)
		u1 = users.add("Uma", "u1@x.com", models.RoleMember)
		u2 = users.add("Umar", "u2@x.com", models.RoleMember)
		admin = users.add("Ada", "ada@x.com", models.RoleAdmin)
		project = projects.add(owner.ID, u1.ID, u2.ID)
		svc = NewTaskService(tasks, projects, nil)
		return
	}

	t.Run("Given an invalid status Then fails before the task is even resolved", func(t *testing.T) {
		svc, _, _, _, u1, _, _, _ := setup()
		_, err := svc.UpdateStatus(ctx, asCaller(u1), models.NewTaskID(), models.TaskStatus("Cancelled"))
		wantKind(t, err, apperrors.KindBadRequest)
	})

	t.Run("Given a missing task Then fails with NotFound", func(t *testing.T) {
		svc, _, _, _, u1, _, _, _ := setup()
		_, err := svc.UpdateStatus(ctx, asCaller(u1), models.NewTaskID(), models.StatusDone)
		wantKind(t, err, apperrors.KindNotFound)
	})

	t.Run("Given an assigned task When another member updates Then fails with Forbidden", func(t *testing.T) {
		svc, tasks, _, _, u1, u2, _, project := setup()
		task := tasks.add(project.ID, u1.ID, &u1.ID)

		_, err := svc.UpdateStatus(ctx, asCaller(u2), task.ID, models.StatusDone)

		wantKind(t, err, apperrors.KindForbidden)
		stored, _ := tasks.GetByID(ctx, task.ID)
		if stored.Status != models.StatusTodo {
			t.Errorf("expected status unchanged, got %s", stored.Status)
		}
	})

	t.Run("Given an assigned task When the assignee updates Then it moves", func(t *testing.T) {
		svc, tasks, _, _, u1, _, _, project := setup()
		task := tasks.add(project.ID, u1.ID, &u1.ID)

		updated, err := svc.UpdateStatus(ctx, asCaller(u1), task.ID, models.StatusDone)

		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if updated.Status != models.StatusDone {
			t.Errorf("expected Done, got %s", updated.Status)
		}
	})

	t.Run("Given an assigned task When an admin updates Then it moves", func(t *testing.T) {
		svc, tasks, _, _, u1, _, admin, project := setup()
		task := tasks.add(project.ID, u1.ID, &u1.ID)

		_, err := svc.UpdateStatus(ctx, asCaller(admin), task.ID, models.StatusInProgress)
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
	})

	t.Run("Given an unassigned task When any participant updates Then it moves", func(t *testing.T) {
		svc, tasks, _, owner, _, u2, _, project := setup()
		task := tasks.add(project.ID, owner.ID, nil)

		if _, err := svc.UpdateStatus(ctx, asCaller(u2), task.ID, models.StatusInProgress); err != nil {
			t.Fatalf("member update failed: %v", err)
		}
		if _, err := svc.UpdateStatus(ctx, asCaller(owner), task.ID, models.StatusDone); err != nil {
			t.Fatalf("owner update failed: %v", err)
		}
	})

	t.Run("Given an unassigned task When a stranger updates Then fails with Forbidden", func(t *testing.T) {
		svc, tasks, _, owner, _, _, _, project := setup()
		users := newFakeUserRepo()
		stranger := users.add("Sam", "sam@x.com", models.RoleMember)
		task := tasks.add(project.ID, owner.ID, nil)

		_, err := svc.UpdateStatus(ctx, asCaller(stranger), task.ID, models.StatusDone)
		wantKind(t, err, apperrors.KindForbidden)
	})

	t.Run("Given the current status When re-set Then succeeds and nothing changes", func(t *testing.T) {
		svc, tasks, _, _, u1, _, _, project := setup()
		task := tasks.add(project.ID, u1.ID, &u1.ID)

		updated, err := svc.UpdateStatus(ctx, asCaller(u1), task.ID, models.StatusTodo)

		if err != nil {
			t.Fatalf("idempotent UpdateStatus failed: %v", err)
		}
		if updated.Status != models.StatusTodo {
			t.Errorf("expected Todo, got %s", updated.Status)
		}
	})

	t.Run("Given a concurrent writer When saving Then the update retries and lands", func(t *testing.T) {
		svc, tasks, _, _, u1, _, _, project := setup()
		task := tasks.add(project.ID, u1.ID, &u1.ID)
		tasks.conflictNextSave = true

		updated, err := svc.UpdateStatus(ctx, asCaller(u1), task.ID, models.StatusDone)

		if err != nil {
			t.Fatalf("UpdateStatus failed after conflict: %v", err)
		}
		if updated.Status != models.StatusDone {
			t.Errorf("expected Done, got %s", updated.Status)
		}
		if tasks.saveCalls != 2 {
			t.Errorf("expected a retry after the conflict, saveCalls=%d", tasks.saveCalls)
		}
	})
}

func TestTaskService_Reassign(t *testing.T) {
	ctx := context.Background()

	setup := func() (svc *TaskService, tasks *fakeTaskRepo, owner, member, other models.User, admin, stranger models.User, project *models.Project) {
		users := newFakeUserRepo()
		projects := newFakeProjectRepo()
		tasks = newFakeTaskRepo()
		owner = users.add("Olivia", "olivia@x.com", models.RoleMember)
		member = users.add("Ann", "a@x.com", models.RoleMember)
		other = users.add("Bob", "b@x.com", models.RoleMember)
		admin = users.add("Ada", "ada@x.com", models.RoleAdmin)
		stranger = users.add("Sam", "sam@x.com", models.RoleMember)
		project = projects.add(owner.ID, member.ID, other.ID)
		svc = NewTaskService(tasks, projects, nil)
		return
	}

	t.Run("Given a zero assignee Then fails with BadRequest", func(t *testing.T) {
		svc, tasks, owner, member, _, _, _, project := setup()
		task := tasks.add(project.ID, owner.ID, &member.ID)

		_, err := svc.Reassign(ctx, asCaller(owner), task.ID, models.UserID{})
		wantKind(t, err, apperrors.KindBadRequest)
	})

	t.Run("Given a plain member caller Then fails with Forbidden", func(t *testing.T) {
		// Membership alone is not enough to reassign, even inside one's
		// own project.
		svc, tasks, owner, member, other, _, _, project := setup()
		task := tasks.add(project.ID, owner.ID, &member.ID)

		_, err := svc.Reassign(ctx, asCaller(member), task.ID, other.ID)
		wantKind(t, err, apperrors.KindForbidden)
	})

	t.Run("Given an assignee outside the project Then fails and keeps the old assignee", func(t *testing.T) {
		svc, tasks, owner, member, _, _, stranger, project := setup()
		task := tasks.add(project.ID, owner.ID, &member.ID)

		_, err := svc.Reassign(ctx, asCaller(owner), task.ID, stranger.ID)

		wantKind(t, err, apperrors.KindBadRequest)
		stored, _ := tasks.GetByID(ctx, task.ID)
		if stored.AssignedTo == nil || *stored.AssignedTo != member.ID {
			t.Errorf("expected assignee unchanged")
		}
	})

	t.Run("Given the owner When reassigning to a member Then succeeds", func(t *testing.T) {
		svc, tasks, owner, member, other, _, _, project := setup()
		task := tasks.add(project.ID, owner.ID, &member.ID)

		updated, err := svc.Reassign(ctx, asCaller(owner), task.ID, other.ID)

		if err != nil {
			t.Fatalf("Reassign failed: %v", err)
		}
		if updated.AssignedTo == nil || *updated.AssignedTo != other.ID {
			t.Errorf("expected assignee %s", other.ID.Hex())
		}
	})

	t.Run("Given an admin When reassigning Then succeeds", func(t *testing.T) {
		svc, tasks, owner, member, other, admin, _, project := setup()
		task := tasks.add(project.ID, owner.ID, &member.ID)

		_, err := svc.Reassign(ctx, asCaller(admin), task.ID, other.ID)
		if err != nil {
			t.Fatalf("Reassign failed: %v", err)
		}
	})

	t.Run("Given a missing task Then fails with NotFound", func(t *testing.T) {
		svc, _, owner, _, other, _, _, _ := setup()
		_, err := svc.Reassign(ctx, asCaller(owner), models.NewTaskID(), other.ID)
		wantKind(t, err, apperrors.KindNotFound)
	})
}

func TestTaskService_GetTasksByProject(t *testing.T) {
	ctx := context.Background()

	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	tasks := newFakeTaskRepo()
	svc := NewTaskService(tasks, projects, nil)

	owner := users.add("Olivia", "olivia@x.com", models.RoleMember)
	member := users.add("Ann", "a@x.com", models.RoleMember)
	stranger := users.add("Sam", "sam@x.com", models.RoleMember)
	project := projects.add(owner.ID, member.ID)
	tasks.add(project.ID, owner.ID, nil)
	tasks.add(project.ID, owner.ID, &member.ID)

	t.Run("participant sees the project's tasks", func(t *testing.T) {
		got, err := svc.GetTasksByProject(ctx, asCaller(member), project.ID)
		if err != nil {
			t.Fatalf("GetTasksByProject failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 tasks, got %d", len(got))
		}
	})

	t.Run("stranger is refused", func(t *testing.T) {
		_, err := svc.GetTasksByProject(ctx, asCaller(stranger), project.ID)
		wantKind(t, err, apperrors.KindForbidden)
	})

	t.Run("missing project is NotFound", func(t *testing.T) {
		_, err := svc.GetTasksByProject(ctx, asCaller(member), models.NewProjectID())
		wantKind(t, err, apperrors.KindNotFound)
	})
}
