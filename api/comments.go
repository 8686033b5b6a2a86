package api

import (
	"net/http"

	"github.com/taskflow/taskflow/api/helpers"
	"github.com/taskflow/taskflow/services/server"
)

type CommentController struct {
	CommentService server.CommentService
}

func (c *CommentController) AddComment(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	var body struct {
		TaskID   int    `json:"task_id"`
		Content  string `json:"content"`
		ParentID *int   `json:"parent_id,omitempty"`
	}

	if !helpers.Bind(w, r, &body) {
		return
	}

	comment, err := c.CommentService.CreateComment(body.TaskID, user.ID, body.Content, body.ParentID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, comment)
}

// GetTaskComments returns the comment threads of a task
func (c *CommentController) GetTaskComments(w http.ResponseWriter, r *http.Request) {
	taskID, err := helpers.GetIntParam("task_id", w, r)
	if err != nil {
		return
	}

	comments, err := c.CommentService.ListTaskComments(taskID, helpers.UserFromContext(r).ID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, comments)
}

func (c *CommentController) UpdateComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := helpers.GetIntParam("comment_id", w, r)
	if err != nil {
		return
	}

	var body struct {
		Content string `json:"content"`
	}

	if !helpers.Bind(w, r, &body) {
		return
	}

	comment, err := c.CommentService.UpdateComment(commentID, helpers.UserFromContext(r).ID, body.Content)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, comment)
}

func (c *CommentController) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := helpers.GetIntParam("comment_id", w, r)
	if err != nil {
		return
	}

	if err = c.CommentService.DeleteComment(commentID, helpers.UserFromContext(r).ID); err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
