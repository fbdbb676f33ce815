package services

import (
	"context"
	"sync"

	"github.com/Kamal-Bhagchandani/jira-lite/models"
	"github.com/Kamal-Bhagchandani/jira-lite/repositories"
)

// Map-backed fakes for the repository interfaces. They hand out copies so a
// failed operation cannot leak partial mutations into the "database", and the
// project/task fakes can simulate a concurrent writer to exercise the
// optimistic-save retry path.

type fakeUserRepo struct {
	users map[models.UserID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[models.UserID]models.User)}
}

func (r *fakeUserRepo) add(name, email string, role models.Role) models.User {
	user := models.User{
		ID:    models.NewUserID(),
		Name:  name,
		Email: models.NormalizeEmail(email),
		Role:  role,
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id models.UserID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) FindByEmails(ctx context.Context, emails []string) ([]models.User, error) {
	var out []models.User
	for _, email := range emails {
		for _, user := range r.users {
			if user.Email == email {
				out = append(out, user)
			}
		}
	}
	return out, nil
}

type fakeProjectRepo struct {
	projects map[models.ProjectID]*models.Project
	// conflictNextSave simulates another writer winning the race: the next
	// Save fails with ErrVersionConflict after bumping the stored version.
	conflictNextSave bool
	saveCalls        int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[models.ProjectID]*models.Project)}
}

func copyProject(p *models.Project) *models.Project {
	cp := *p
	cp.Members = append([]models.UserID(nil), p.Members...)
	return &cp
}

func (r *fakeProjectRepo) add(createdBy models.UserID, members ...models.UserID) *models.Project {
	project := &models.Project{
		ID:        models.NewProjectID(),
		Name:      "project",
		CreatedBy: createdBy,
		Members:   append([]models.UserID{}, members...),
	}
	r.projects[project.ID] = project
	return copyProject(project)
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = models.NewProjectID()
	}
	r.projects[project.ID] = copyProject(project)
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id models.ProjectID) (*models.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyProject(project), nil
}

func (r *fakeProjectRepo) Save(ctx context.Context, project *models.Project) error {
	r.saveCalls++
	stored, ok := r.projects[project.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.conflictNextSave {
		r.conflictNextSave = false
		stored.Version++
		return repositories.ErrVersionConflict
	}
	if stored.Version != project.Version {
		return repositories.ErrVersionConflict
	}
	cp := copyProject(project)
	cp.Version++
	r.projects[project.ID] = cp
	project.Version++
	return nil
}

func (r *fakeProjectRepo) FindByUser(ctx context.Context, userID models.UserID) ([]models.Project, error) {
	var out []models.Project
	for _, project := range r.projects {
		if project.CreatedBy == userID || project.IsMember(userID) {
			out = append(out, *copyProject(project))
		}
	}
	return out, nil
}

type fakeTaskRepo struct {
	tasks            map[models.TaskID]*models.Task
	conflictNextSave bool
	saveCalls        int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[models.TaskID]*models.Task)}
}

func copyTask(t *models.Task) *models.Task {
	cp := *t
	if t.AssignedTo != nil {
		id := *t.AssignedTo
		cp.AssignedTo = &id
	}
	return &cp
}

func (r *fakeTaskRepo) add(projectID models.ProjectID, createdBy models.UserID, assignedTo *models.UserID) *models.Task {
	task := &models.Task{
		ID:         models.NewTaskID(),
		Title:      "task",
		ProjectID:  projectID,
		CreatedBy:  createdBy,
		AssignedTo: assignedTo,
		Status:     models.StatusTodo,
	}
	r.tasks[task.ID] = task
	return copyTask(task)
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = models.NewTaskID()
	}
	r.tasks[task.ID] = copyTask(task)
	return nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id models.TaskID) (*models.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyTask(task), nil
}

func (r *fakeTaskRepo) Save(ctx context.Context, task *models.Task) error {
	r.saveCalls++
	stored, ok := r.tasks[task.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.conflictNextSave {
		r.conflictNextSave = false
		stored.Version++
		return repositories.ErrVersionConflict
	}
	if stored.Version != task.Version {
		return repositories.ErrVersionConflict
	}
	cp := copyTask(task)
	cp.Version++
	r.tasks[task.ID] = cp
	task.Version++
	return nil
}

func (r *fakeTaskRepo) FindByProject(ctx context.Context, projectID models.ProjectID) ([]models.Task, error) {
	var out []models.Task
	for _, task := range r.tasks {
		if task.ProjectID == projectID {
			out = append(out, *copyTask(task))
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages map[models.UserID][]string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{messages: make(map[models.UserID][]string)}
}

func (n *fakeNotifier) Notify(ctx context.Context, userID models.UserID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages[userID] = append(n.messages[userID], message)
	return nil
}
