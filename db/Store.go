package db

import (
	"time"
)

// ObjectProps describes how an entity is persisted: the SQL table name and
// the bolt bucket name are the same.
type ObjectProps struct {
	TableName         string
	PrimaryColumnName string
}

var UserProps = ObjectProps{
	TableName:         "users",
	PrimaryColumnName: "id",
}

var ProjectProps = ObjectProps{
	TableName:         "projects",
	PrimaryColumnName: "id",
}

var ProjectUserProps = ObjectProps{
	TableName:         "project_users",
	PrimaryColumnName: "id",
}

var TaskProps = ObjectProps{
	TableName:         "tasks",
	PrimaryColumnName: "id",
}

var CommentProps = ObjectProps{
	TableName:         "task_comments",
	PrimaryColumnName: "id",
}

var ProjectInvitationProps = ObjectProps{
	TableName:         "project_invitations",
	PrimaryColumnName: "id",
}

// Migration is a versioned schema or data change applied once per database.
type Migration struct {
	Version      string     `db:"version" json:"version"`
	UpgradedDate *time.Time `db:"upgraded_date" json:"upgraded_date,omitempty"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
}

type UserRepository interface {
	CreateUser(user User) (User, error)
	GetUser(userID int) (User, error)
	GetUserByEmail(email string) (User, error)
	GetUsers() ([]User, error)
}

type ProjectRepository interface {
	CreateProject(project Project) (Project, error)
	GetProject(projectID int) (Project, error)
	GetUserProjects(userID int) ([]Project, error)

	CreateProjectUser(projectUser ProjectUser) (ProjectUser, error)
	GetProjectUser(projectID int, userID int) (ProjectUser, error)
	GetProjectUsers(projectID int) ([]ProjectUser, error)
}

type TaskRepository interface {
	CreateTask(task Task) (Task, error)
	GetTask(taskID int) (Task, error)
	GetProjectTasks(projectID int) ([]Task, error)
}

type CommentRepository interface {
	CreateComment(comment Comment) (Comment, error)
	GetComment(commentID int) (Comment, error)
	// GetTaskComments returns every comment of the task, flat, including replies.
	GetTaskComments(taskID int) ([]Comment, error)
	CountCommentReplies(commentID int) (int, error)
	UpdateComment(comment Comment) error
	DeleteComment(commentID int) error
}

type InvitationRepository interface {
	CreateProjectInvitation(invitation ProjectInvitation) (ProjectInvitation, error)
	GetProjectInvitation(projectID int, invitationID int) (ProjectInvitation, error)
	GetProjectInvitationByToken(token string) (ProjectInvitation, error)
	GetProjectInvitations(filter ProjectInvitationFilter) ([]ProjectInvitation, error)
	UpdateProjectInvitation(invitation ProjectInvitation) error
	DeleteProjectInvitation(projectID int, invitationID int) error
}

type Store interface {
	UserRepository
	ProjectRepository
	TaskRepository
	CommentRepository
	InvitationRepository

	// Connect opens the underlying database. token identifies the caller in logs.
	Connect(token string) error
	Close(token string)
	// Migrate brings the schema up to date.
	Migrate() error
}
