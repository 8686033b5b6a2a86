package api

import (
	"net/http"

	"github.com/taskflow/taskflow/api/helpers"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/services/server"
)

type UserController struct {
	ProjectService server.ProjectService
}

func (c *UserController) AddUser(w http.ResponseWriter, r *http.Request) {
	var body db.User

	if !helpers.Bind(w, r, &body) {
		return
	}

	user, err := c.ProjectService.CreateUser(body)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, user)
}

func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := helpers.GetIntParam("user_id", w, r)
	if err != nil {
		return
	}

	user, err := c.ProjectService.GetUser(userID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, user)
}

func (c *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.ProjectService.GetUsers()
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, users)
}

// GetCurrentUser returns the caller
func (c *UserController) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, helpers.UserFromContext(r))
}
