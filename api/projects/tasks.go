package projects

import (
	"net/http"

	"github.com/taskflow/taskflow/api/helpers"
	"github.com/taskflow/taskflow/db"
)

func (c *ProjectController) GetTasks(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	user := helpers.UserFromContext(r)

	tasks, err := c.ProjectService.GetProjectTasks(project.ID, user.ID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, tasks)
}

func (c *ProjectController) GetTask(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	user := helpers.UserFromContext(r)

	taskID, err := helpers.GetIntParam("task_id", w, r)
	if err != nil {
		return
	}

	task, err := c.ProjectService.GetTask(project.ID, taskID, user.ID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, task)
}

func (c *ProjectController) AddTask(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	user := helpers.UserFromContext(r)

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	if !helpers.Bind(w, r, &body) {
		return
	}

	task, err := c.ProjectService.CreateTask(db.Task{
		ProjectID:   project.ID,
		Title:       body.Title,
		Description: body.Description,
	}, user.ID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, task)
}
