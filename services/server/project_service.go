package server

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/taskflow/taskflow/db"
)

// ProjectService covers the users, projects and tasks that comments and
// invitations hang off.
type ProjectService interface {
	CreateUser(user db.User) (db.User, error)
	GetUser(userID int) (db.User, error)
	GetUsers() ([]db.User, error)

	CreateProject(project db.Project, creatorID int) (db.Project, error)
	GetProject(projectID int, userID int) (db.Project, error)
	GetUserProjects(userID int) ([]db.Project, error)
	GetProjectUsers(projectID int, userID int) ([]db.ProjectUser, error)

	CreateTask(task db.Task, creatorID int) (db.Task, error)
	GetTask(projectID int, taskID int, userID int) (db.Task, error)
	GetProjectTasks(projectID int, userID int) ([]db.Task, error)
}

type ProjectServiceImpl struct {
	userRepo    db.UserRepository
	projectRepo db.ProjectRepository
	taskRepo    db.TaskRepository
	now         func() time.Time
}

func NewProjectService(
	userRepo db.UserRepository,
	projectRepo db.ProjectRepository,
	taskRepo db.TaskRepository,
) *ProjectServiceImpl {
	return &ProjectServiceImpl{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *ProjectServiceImpl) CreateUser(user db.User) (db.User, error) {
	user.ID = 0
	user.Created = s.now()
	return s.userRepo.CreateUser(user)
}

func (s *ProjectServiceImpl) GetUser(userID int) (db.User, error) {
	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return db.User{}, wrapNotFound(err, "user %d", userID)
	}
	return user, nil
}

func (s *ProjectServiceImpl) GetUsers() ([]db.User, error) {
	return s.userRepo.GetUsers()
}

// CreateProject stores the project and makes the creator its owner.
func (s *ProjectServiceImpl) CreateProject(project db.Project, creatorID int) (db.Project, error) {
	if _, err := s.userRepo.GetUser(creatorID); err != nil {
		return db.Project{}, wrapNotFound(err, "user %d", creatorID)
	}

	now := s.now()

	project.ID = 0
	project.OwnerID = creatorID
	project.Created = now

	project, err := s.projectRepo.CreateProject(project)
	if err != nil {
		return db.Project{}, err
	}

	_, err = s.projectRepo.CreateProjectUser(db.ProjectUser{
		ProjectID: project.ID,
		UserID:    creatorID,
		Role:      db.ProjectOwner,
		Created:   now,
	})
	if err != nil {
		return db.Project{}, err
	}

	log.WithFields(log.Fields{
		"project_id": project.ID,
		"user_id":    creatorID,
		"context":    "projects",
	}).Info("project created")

	return project, nil
}

func (s *ProjectServiceImpl) requireMember(projectID int, userID int) (db.Project, error) {
	project, err := s.projectRepo.GetProject(projectID)
	if err != nil {
		return db.Project{}, wrapNotFound(err, "project %d", projectID)
	}

	_, err = s.projectRepo.GetProjectUser(projectID, userID)
	if isNotFound(err) {
		return db.Project{}, forbidden("user %d is not a member of project %d", userID, projectID)
	}
	if err != nil {
		return db.Project{}, err
	}

	return project, nil
}

func (s *ProjectServiceImpl) GetProject(projectID int, userID int) (db.Project, error) {
	return s.requireMember(projectID, userID)
}

func (s *ProjectServiceImpl) GetUserProjects(userID int) ([]db.Project, error) {
	return s.projectRepo.GetUserProjects(userID)
}

// GetProjectUsers lists the memberships of a project the caller belongs to.
func (s *ProjectServiceImpl) GetProjectUsers(projectID int, userID int) ([]db.ProjectUser, error) {
	if _, err := s.requireMember(projectID, userID); err != nil {
		return nil, err
	}

	return s.projectRepo.GetProjectUsers(projectID)
}

func (s *ProjectServiceImpl) CreateTask(task db.Task, creatorID int) (db.Task, error) {
	if _, err := s.requireMember(task.ProjectID, creatorID); err != nil {
		return db.Task{}, err
	}

	task.ID = 0
	task.CreatorID = creatorID
	task.Created = s.now()

	return s.taskRepo.CreateTask(task)
}

func (s *ProjectServiceImpl) GetTask(projectID int, taskID int, userID int) (db.Task, error) {
	if _, err := s.requireMember(projectID, userID); err != nil {
		return db.Task{}, err
	}

	task, err := s.taskRepo.GetTask(taskID)
	if err != nil {
		return db.Task{}, wrapNotFound(err, "task %d", taskID)
	}

	if task.ProjectID != projectID {
		return db.Task{}, wrapNotFound(db.ErrNotFound, "task %d", taskID)
	}

	return task, nil
}

func (s *ProjectServiceImpl) GetProjectTasks(projectID int, userID int) ([]db.Task, error) {
	if _, err := s.requireMember(projectID, userID); err != nil {
		return nil, err
	}

	return s.taskRepo.GetProjectTasks(projectID)
}
