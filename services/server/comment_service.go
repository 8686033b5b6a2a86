package server

import (
	"fmt"
	"time"

	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/services/events"
)

type CommentService interface {
	CreateComment(taskID int, userID int, content string, parentID *int) (db.Comment, error)
	UpdateComment(commentID int, userID int, content string) (db.Comment, error)
	DeleteComment(commentID int, userID int) error
	// ListComments returns the threads of a task. An unknown task yields an empty list.
	ListComments(taskID int) ([]db.Comment, error)
	// ListTaskComments is ListComments restricted to members of the task's project.
	ListTaskComments(taskID int, userID int) ([]db.Comment, error)
}

type CommentServiceImpl struct {
	taskRepo    db.TaskRepository
	userRepo    db.UserRepository
	projectRepo db.ProjectRepository
	commentRepo db.CommentRepository
	publisher   events.Publisher
	now         func() time.Time
}

func NewCommentService(
	taskRepo db.TaskRepository,
	userRepo db.UserRepository,
	projectRepo db.ProjectRepository,
	commentRepo db.CommentRepository,
	publisher events.Publisher,
) *CommentServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &CommentServiceImpl{
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *CommentServiceImpl) CreateComment(taskID int, userID int, content string, parentID *int) (db.Comment, error) {
	if err := db.ValidateContent(content); err != nil {
		return db.Comment{}, err
	}

	task, err := s.taskRepo.GetTask(taskID)
	if err != nil {
		return db.Comment{}, wrapNotFound(err, "task %d", taskID)
	}

	if _, err = s.userRepo.GetUser(userID); err != nil {
		return db.Comment{}, wrapNotFound(err, "user %d", userID)
	}

	if err = s.requireMember(task.ProjectID, userID); err != nil {
		return db.Comment{}, err
	}

	if parentID != nil {
		parent, err := s.commentRepo.GetComment(*parentID)
		if err != nil {
			return db.Comment{}, wrapNotFound(err, "parent comment %d", *parentID)
		}

		if parent.TaskID != task.ID {
			return db.Comment{}, db.NewValidationError("parent comment belongs to another task")
		}

		if parent.IsDeleted {
			return db.Comment{}, db.NewValidationError("can not reply to a deleted comment")
		}
	}

	comment, err := s.commentRepo.CreateComment(db.Comment{
		TaskID:   task.ID,
		UserID:   userID,
		Content:  content,
		ParentID: parentID,
		Created:  s.now(),
	})
	if err != nil {
		return db.Comment{}, err
	}

	s.publisher.Publish(events.Event{
		Type:        events.EventCommentCreated,
		ProjectID:   task.ProjectID,
		UserID:      userID,
		ObjectType:  "comment",
		ObjectID:    comment.ID,
		Description: fmt.Sprintf("Comment %d created on task %d", comment.ID, task.ID),
		Created:     comment.Created,
	})

	return comment, nil
}

func (s *CommentServiceImpl) requireMember(projectID int, userID int) error {
	_, err := s.projectRepo.GetProjectUser(projectID, userID)
	if isNotFound(err) {
		return forbidden("user %d is not a member of project %d", userID, projectID)
	}
	return err
}

// getOwnComment loads a comment with its task and checks that userID wrote it.
func (s *CommentServiceImpl) getOwnComment(commentID int, userID int) (db.Comment, db.Task, error) {
	comment, err := s.commentRepo.GetComment(commentID)
	if err != nil {
		return db.Comment{}, db.Task{}, wrapNotFound(err, "comment %d", commentID)
	}

	if comment.UserID != userID {
		return db.Comment{}, db.Task{}, forbidden("comment %d belongs to another user", commentID)
	}

	task, err := s.taskRepo.GetTask(comment.TaskID)
	if err != nil {
		return db.Comment{}, db.Task{}, wrapNotFound(err, "task %d", comment.TaskID)
	}

	return comment, task, nil
}

func (s *CommentServiceImpl) UpdateComment(commentID int, userID int, content string) (db.Comment, error) {
	comment, task, err := s.getOwnComment(commentID, userID)
	if err != nil {
		return db.Comment{}, err
	}

	if comment.IsDeleted {
		return db.Comment{}, db.NewValidationError("can not edit a deleted comment")
	}

	if err = db.ValidateContent(content); err != nil {
		return db.Comment{}, err
	}

	now := s.now()
	comment.Content = content
	comment.Updated = &now

	if err = s.commentRepo.UpdateComment(comment); err != nil {
		return db.Comment{}, wrapNotFound(err, "comment %d", commentID)
	}

	s.publisher.Publish(events.Event{
		Type:        events.EventCommentUpdated,
		ProjectID:   task.ProjectID,
		UserID:      userID,
		ObjectType:  "comment",
		ObjectID:    comment.ID,
		Description: fmt.Sprintf("Comment %d updated", comment.ID),
		Created:     now,
	})

	return comment, nil
}

func (s *CommentServiceImpl) DeleteComment(commentID int, userID int) error {
	comment, task, err := s.getOwnComment(commentID, userID)
	if err != nil {
		return err
	}

	if comment.IsDeleted {
		return db.NewValidationError("comment is already deleted")
	}

	replies, err := s.commentRepo.CountCommentReplies(comment.ID)
	if err != nil {
		return err
	}

	now := s.now()
	event := events.Event{
		ProjectID:  task.ProjectID,
		UserID:     userID,
		ObjectType: "comment",
		ObjectID:   comment.ID,
		Created:    now,
	}

	if replies > 0 {
		comment.IsDeleted = true
		comment.Content = ""
		comment.Updated = &now

		if err = s.commentRepo.UpdateComment(comment); err != nil {
			return wrapNotFound(err, "comment %d", commentID)
		}

		event.Type = events.EventCommentSoftDeleted
		event.Description = fmt.Sprintf("Comment %d hidden, %d replies kept", comment.ID, replies)
	} else {
		if err = s.commentRepo.DeleteComment(comment.ID); err != nil {
			return wrapNotFound(err, "comment %d", commentID)
		}

		event.Type = events.EventCommentDeleted
		event.Description = fmt.Sprintf("Comment %d deleted", comment.ID)
	}

	s.publisher.Publish(event)

	return nil
}

func (s *CommentServiceImpl) ListTaskComments(taskID int, userID int) ([]db.Comment, error) {
	task, err := s.taskRepo.GetTask(taskID)
	if isNotFound(err) {
		return []db.Comment{}, nil
	}
	if err != nil {
		return nil, err
	}

	if err = s.requireMember(task.ProjectID, userID); err != nil {
		return nil, err
	}

	return s.ListComments(taskID)
}

func (s *CommentServiceImpl) ListComments(taskID int) ([]db.Comment, error) {
	if _, err := s.taskRepo.GetTask(taskID); err != nil {
		if isNotFound(err) {
			return []db.Comment{}, nil
		}
		return nil, err
	}

	comments, err := s.commentRepo.GetTaskComments(taskID)
	if err != nil {
		return nil, err
	}

	return db.NestComments(comments), nil
}
