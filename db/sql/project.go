package sql

import (
	"github.com/Masterminds/squirrel"
	"github.com/taskflow/taskflow/db"
)

func (d *SqlDb) CreateProject(project db.Project) (db.Project, error) {
	if err := project.Validate(); err != nil {
		return db.Project{}, err
	}

	err := d.sql.Insert(&project)
	return project, err
}

func (d *SqlDb) GetProject(projectID int) (project db.Project, err error) {
	err = d.selectOne(&project, d.builder().
		Select("*").
		From(db.ProjectProps.TableName).
		Where(squirrel.Eq{"id": projectID}))
	return
}

func (d *SqlDb) GetUserProjects(userID int) (projects []db.Project, err error) {
	projects = make([]db.Project, 0)
	err = d.selectAll(&projects, d.builder().
		Select("p.*").
		From(db.ProjectProps.TableName+" as p").
		Join(db.ProjectUserProps.TableName+" as pu on pu.project_id=p.id").
		Where(squirrel.Eq{"pu.user_id": userID}).
		OrderBy("p.id"))
	return
}

func (d *SqlDb) CreateProjectUser(projectUser db.ProjectUser) (db.ProjectUser, error) {
	if !projectUser.Role.IsValid() {
		return db.ProjectUser{}, &db.ValidationError{Message: "invalid project role"}
	}

	err := d.sql.Insert(&projectUser)
	if isUniqueViolation(err) {
		return db.ProjectUser{}, &db.ValidationError{Message: "user is already a member of this project"}
	}

	return projectUser, err
}

func (d *SqlDb) GetProjectUser(projectID int, userID int) (projectUser db.ProjectUser, err error) {
	err = d.selectOne(&projectUser, d.builder().
		Select("*").
		From(db.ProjectUserProps.TableName).
		Where(squirrel.Eq{"project_id": projectID, "user_id": userID}))
	return
}

func (d *SqlDb) GetProjectUsers(projectID int) (projectUsers []db.ProjectUser, err error) {
	projectUsers = make([]db.ProjectUser, 0)
	err = d.selectAll(&projectUsers, d.builder().
		Select("*").
		From(db.ProjectUserProps.TableName).
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("id"))
	return
}
