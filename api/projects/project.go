package projects

import (
	"net/http"

	"github.com/taskflow/taskflow/api/helpers"
	"github.com/taskflow/taskflow/db"
	"github.com/taskflow/taskflow/services/server"
)

type ProjectController struct {
	ProjectService server.ProjectService
}

// ProjectMiddleware ensures a project exists, the caller is a member and loads it to the context
func (c *ProjectController) ProjectMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := helpers.UserFromContext(r)

		projectID, err := helpers.GetIntParam("project_id", w, r)
		if err != nil {
			return
		}

		project, err := c.ProjectService.GetProject(projectID, user.ID)
		if err != nil {
			helpers.WriteError(w, r, err)
			return
		}

		r = helpers.SetContextValue(r, "project", project)
		next.ServeHTTP(w, r)
	})
}

// GetProject returns a project details
func (c *ProjectController) GetProject(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, helpers.GetFromContext(r, "project"))
}

// GetProjects returns the projects the caller belongs to
func (c *ProjectController) GetProjects(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	projects, err := c.ProjectService.GetUserProjects(user.ID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, projects)
}

// GetProjectUsers returns the members of a project
func (c *ProjectController) GetProjectUsers(w http.ResponseWriter, r *http.Request) {
	project := helpers.GetFromContext(r, "project").(db.Project)
	user := helpers.UserFromContext(r)

	users, err := c.ProjectService.GetProjectUsers(project.ID, user.ID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, users)
}

func (c *ProjectController) AddProject(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	var body struct {
		Name string `json:"name"`
	}

	if !helpers.Bind(w, r, &body) {
		return
	}

	project, err := c.ProjectService.CreateProject(db.Project{Name: body.Name}, user.ID)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, project)
}
